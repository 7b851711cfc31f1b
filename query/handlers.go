package query

import (
	"context"

	"github.com/goliatone/go-crm-connect/core"
)

// CredentialReader is the slice of the connect service that hands out parked
// credentials. Retrieval is destructive: the credential is gone after one read.
type CredentialReader interface {
	RetrieveCredential(ctx context.Context, scope core.ScopeRef) (core.Credential, error)
}

type ItemReader interface {
	FetchItems(ctx context.Context, req core.FetchItemsRequest) (core.FetchItemsResult, error)
}

type RetrieveCredentialQuery struct {
	reader CredentialReader
}

func NewRetrieveCredentialQuery(reader CredentialReader) *RetrieveCredentialQuery {
	return &RetrieveCredentialQuery{reader: reader}
}

func (q *RetrieveCredentialQuery) Query(ctx context.Context, msg RetrieveCredentialMessage) (core.Credential, error) {
	if q == nil || q.reader == nil {
		return core.Credential{}, queryDependencyError("query: credential reader is required")
	}
	if err := msg.Validate(); err != nil {
		return core.Credential{}, queryInvalidInputError(err.Error())
	}
	return q.reader.RetrieveCredential(ctx, msg.Scope)
}

type FetchItemsQuery struct {
	reader ItemReader
}

func NewFetchItemsQuery(reader ItemReader) *FetchItemsQuery {
	return &FetchItemsQuery{reader: reader}
}

func (q *FetchItemsQuery) Query(ctx context.Context, msg FetchItemsMessage) (core.FetchItemsResult, error) {
	if q == nil || q.reader == nil {
		return core.FetchItemsResult{}, queryDependencyError("query: item reader is required")
	}
	if err := msg.Validate(); err != nil {
		return core.FetchItemsResult{}, queryInvalidInputError(err.Error())
	}
	return q.reader.FetchItems(ctx, msg.Request)
}
