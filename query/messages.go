package query

import (
	"fmt"

	"github.com/goliatone/go-crm-connect/core"
)

const (
	TypeRetrieveCredential = "crmconnect.query.credential.retrieve"
	TypeFetchItems         = "crmconnect.query.items.fetch"
)

type RetrieveCredentialMessage struct {
	Scope core.ScopeRef
}

func (RetrieveCredentialMessage) Type() string { return TypeRetrieveCredential }

func (m RetrieveCredentialMessage) Validate() error {
	return validateScope(m.Scope)
}

type FetchItemsMessage struct {
	Request core.FetchItemsRequest
}

func (FetchItemsMessage) Type() string { return TypeFetchItems }

func (m FetchItemsMessage) Validate() error {
	if err := m.Request.Credential.Validate(); err != nil {
		return fmt.Errorf("query: %w", err)
	}
	return nil
}

func validateScope(scope core.ScopeRef) error {
	if err := scope.Validate(); err != nil {
		return fmt.Errorf("query: %w", err)
	}
	return nil
}
