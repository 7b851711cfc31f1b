package query

import (
	"context"
	"testing"

	"github.com/goliatone/go-crm-connect/core"
)

type stubCredentialReader struct {
	fn func(ctx context.Context, scope core.ScopeRef) (core.Credential, error)
}

func (s stubCredentialReader) RetrieveCredential(ctx context.Context, scope core.ScopeRef) (core.Credential, error) {
	return s.fn(ctx, scope)
}

type stubItemReader struct {
	fn func(ctx context.Context, req core.FetchItemsRequest) (core.FetchItemsResult, error)
}

func (s stubItemReader) FetchItems(ctx context.Context, req core.FetchItemsRequest) (core.FetchItemsResult, error) {
	return s.fn(ctx, req)
}

func TestRetrieveCredentialQuery_DelegatesToReader(t *testing.T) {
	scope := core.ScopeRef{UserID: "u1", OrgID: "o1"}
	reader := stubCredentialReader{
		fn: func(_ context.Context, got core.ScopeRef) (core.Credential, error) {
			if got != scope {
				t.Fatalf("unexpected scope %#v", got)
			}
			return core.Credential{AccessToken: "tok", TokenType: "bearer"}, nil
		},
	}

	q := NewRetrieveCredentialQuery(reader)
	credential, err := q.Query(context.Background(), RetrieveCredentialMessage{Scope: scope})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if credential.AccessToken != "tok" {
		t.Fatalf("unexpected credential %#v", credential)
	}
}

func TestRetrieveCredentialQuery_RejectsInvalidScope(t *testing.T) {
	q := NewRetrieveCredentialQuery(stubCredentialReader{
		fn: func(context.Context, core.ScopeRef) (core.Credential, error) {
			t.Fatalf("reader must not be invoked for invalid input")
			return core.Credential{}, nil
		},
	})
	_, err := q.Query(context.Background(), RetrieveCredentialMessage{})
	if !core.HasTextCode(err, core.ServiceErrorBadInput) {
		t.Fatalf("expected bad input rejection, got %v", err)
	}
}

func TestFetchItemsQuery_DelegatesToReader(t *testing.T) {
	reader := stubItemReader{
		fn: func(_ context.Context, req core.FetchItemsRequest) (core.FetchItemsResult, error) {
			if req.Credential.AccessToken != "tok" {
				t.Fatalf("unexpected credential %#v", req.Credential)
			}
			return core.FetchItemsResult{
				Items: []core.Item{{ID: "1", Type: core.ItemTypeContact}},
			}, nil
		},
	}

	q := NewFetchItemsQuery(reader)
	result, err := q.Query(context.Background(), FetchItemsMessage{Request: core.FetchItemsRequest{
		Credential: core.Credential{AccessToken: "tok"},
	}})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
}

func TestFetchItemsQuery_RequiresCredential(t *testing.T) {
	q := NewFetchItemsQuery(stubItemReader{
		fn: func(context.Context, core.FetchItemsRequest) (core.FetchItemsResult, error) {
			t.Fatalf("reader must not be invoked without credential")
			return core.FetchItemsResult{}, nil
		},
	})
	_, err := q.Query(context.Background(), FetchItemsMessage{})
	if !core.HasTextCode(err, core.ServiceErrorBadInput) {
		t.Fatalf("expected bad input rejection, got %v", err)
	}
}

func TestQueries_RequireReader(t *testing.T) {
	var credQuery *RetrieveCredentialQuery
	if _, err := credQuery.Query(context.Background(), RetrieveCredentialMessage{}); err == nil {
		t.Fatalf("expected dependency error for nil query")
	}
	itemQuery := NewFetchItemsQuery(nil)
	if _, err := itemQuery.Query(context.Background(), FetchItemsMessage{}); err == nil {
		t.Fatalf("expected dependency error for nil reader")
	}
}
