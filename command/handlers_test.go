package command

import (
	"context"
	"testing"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-crm-connect/core"
)

type stubMutatingService struct {
	initiateFn         func(ctx context.Context, req core.InitiateRequest) (core.BeginAuthResponse, error)
	completeCallbackFn func(ctx context.Context, req core.CompleteCallbackRequest) (core.CallbackCompletion, error)
}

func (s stubMutatingService) Initiate(ctx context.Context, req core.InitiateRequest) (core.BeginAuthResponse, error) {
	if s.initiateFn == nil {
		return core.BeginAuthResponse{}, nil
	}
	return s.initiateFn(ctx, req)
}

func (s stubMutatingService) CompleteCallback(ctx context.Context, req core.CompleteCallbackRequest) (core.CallbackCompletion, error) {
	if s.completeCallbackFn == nil {
		return core.CallbackCompletion{}, nil
	}
	return s.completeCallbackFn(ctx, req)
}

func TestInitiateCommand_ExecuteDelegatesAndStoresResult(t *testing.T) {
	expected := core.BeginAuthResponse{URL: "https://example.com/auth", State: "st"}
	called := false

	svc := stubMutatingService{
		initiateFn: func(_ context.Context, req core.InitiateRequest) (core.BeginAuthResponse, error) {
			called = true
			if req.ProviderID != "hubspot" {
				t.Fatalf("expected provider hubspot, got %q", req.ProviderID)
			}
			return expected, nil
		},
	}

	cmd := NewInitiateCommand(svc)
	collector := gocmd.NewResult[core.BeginAuthResponse]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	err := cmd.Execute(ctx, InitiateMessage{Request: core.InitiateRequest{
		ProviderID: "hubspot",
		Scope:      core.ScopeRef{UserID: "u1", OrgID: "o1"},
	}})
	if err != nil {
		t.Fatalf("execute initiate: %v", err)
	}
	if !called {
		t.Fatalf("expected initiate service invocation")
	}
	result, ok := collector.Load()
	if !ok {
		t.Fatalf("expected result to be stored")
	}
	if result.URL != expected.URL || result.State != expected.State {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestInitiateCommand_RejectsInvalidScope(t *testing.T) {
	cmd := NewInitiateCommand(stubMutatingService{
		initiateFn: func(context.Context, core.InitiateRequest) (core.BeginAuthResponse, error) {
			t.Fatalf("service must not be invoked for invalid input")
			return core.BeginAuthResponse{}, nil
		},
	})
	err := cmd.Execute(context.Background(), InitiateMessage{})
	if !core.HasTextCode(err, core.ServiceErrorBadInput) {
		t.Fatalf("expected bad input rejection, got %v", err)
	}
}

func TestCompleteCallbackCommand_ExecuteDelegatesAndStoresResult(t *testing.T) {
	scope := core.ScopeRef{UserID: "u1", OrgID: "o1"}
	called := false
	svc := stubMutatingService{
		completeCallbackFn: func(_ context.Context, req core.CompleteCallbackRequest) (core.CallbackCompletion, error) {
			called = true
			if req.Code != "code-1" || req.State != "state-1" {
				t.Fatalf("unexpected callback payload: %#v", req)
			}
			return core.CallbackCompletion{ProviderID: "hubspot", Scope: scope}, nil
		},
	}

	cmd := NewCompleteCallbackCommand(svc)
	collector := gocmd.NewResult[core.CallbackCompletion]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	err := cmd.Execute(ctx, CompleteCallbackMessage{Request: core.CompleteCallbackRequest{
		Code:  "code-1",
		State: "state-1",
	}})
	if err != nil {
		t.Fatalf("execute complete callback: %v", err)
	}
	if !called {
		t.Fatalf("expected callback service invocation")
	}
	stored, ok := collector.Load()
	if !ok {
		t.Fatalf("expected completion result")
	}
	if stored.Scope != scope {
		t.Fatalf("unexpected completion: %#v", stored)
	}
}

func TestCompleteCallbackCommand_AllowsProviderDenialWithoutState(t *testing.T) {
	called := false
	svc := stubMutatingService{
		completeCallbackFn: func(_ context.Context, req core.CompleteCallbackRequest) (core.CallbackCompletion, error) {
			called = true
			if req.ErrorCode != "access_denied" {
				t.Fatalf("expected error code to pass through, got %q", req.ErrorCode)
			}
			return core.CallbackCompletion{}, nil
		},
	}
	cmd := NewCompleteCallbackCommand(svc)
	if err := cmd.Execute(context.Background(), CompleteCallbackMessage{Request: core.CompleteCallbackRequest{
		ErrorCode: "access_denied",
	}}); err != nil {
		t.Fatalf("execute denial callback: %v", err)
	}
	if !called {
		t.Fatalf("expected service invocation for provider denial")
	}
}

func TestCompleteCallbackCommand_RequiresStateAndCode(t *testing.T) {
	cmd := NewCompleteCallbackCommand(stubMutatingService{})
	err := cmd.Execute(context.Background(), CompleteCallbackMessage{Request: core.CompleteCallbackRequest{
		Code: "code-1",
	}})
	if !core.HasTextCode(err, core.ServiceErrorBadInput) {
		t.Fatalf("expected bad input for missing state, got %v", err)
	}

	err = cmd.Execute(context.Background(), CompleteCallbackMessage{Request: core.CompleteCallbackRequest{
		State: "state-1",
	}})
	if !core.HasTextCode(err, core.ServiceErrorBadInput) {
		t.Fatalf("expected bad input for missing code, got %v", err)
	}
}

func TestCommands_RequireService(t *testing.T) {
	var initiate *InitiateCommand
	if err := initiate.Execute(context.Background(), InitiateMessage{}); err == nil {
		t.Fatalf("expected dependency error for nil command")
	}
	callback := NewCompleteCallbackCommand(nil)
	if err := callback.Execute(context.Background(), CompleteCallbackMessage{}); err == nil {
		t.Fatalf("expected dependency error for nil service")
	}
}
