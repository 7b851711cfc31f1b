package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidScope   = errors.New("core: invalid scope")
	ErrInvalidItemType = errors.New("core: invalid item type")
	ErrKeyNotFound    = errors.New("core: ephemeral key not found")
)

// ScopeRef identifies the (user, organization) pair an authorization round
// is bound to. Both identifiers are opaque, non-empty strings.
type ScopeRef struct {
	UserID string
	OrgID  string
}

func (s ScopeRef) Validate() error {
	if strings.TrimSpace(s.UserID) == "" {
		return fmt.Errorf("%w: empty user id", ErrInvalidScope)
	}
	if strings.TrimSpace(s.OrgID) == "" {
		return fmt.Errorf("%w: empty org id", ErrInvalidScope)
	}
	return nil
}

type ItemType string

const (
	ItemTypeContact ItemType = "contact"
	ItemTypeCompany ItemType = "company"
	ItemTypeDeal    ItemType = "deal"
)

func (t ItemType) Validate() error {
	switch t {
	case ItemTypeContact, ItemTypeCompany, ItemTypeDeal:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidItemType, string(t))
	}
}

// Item is the canonical, provider-agnostic representation of one CRM record.
// Downstream consumers never special-case by the provider's resource shape.
type Item struct {
	ID         string
	Name       string
	Type       ItemType
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ParentID   string
	ParentName string
	URL        string
}

// Credential is the transient value handed back by the provider's token
// endpoint. It lives in the ephemeral store between callback and pickup and
// is deleted on first retrieval.
type Credential struct {
	TokenType    string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	Scope        string
}

func (c Credential) Validate() error {
	if strings.TrimSpace(c.AccessToken) == "" {
		return fmt.Errorf("core: credential access token is required")
	}
	return nil
}

// ResourceError records a per-resource-type fetch failure without aborting
// sibling fetches.
type ResourceError struct {
	Resource ItemType
	Err      error
}

func (e ResourceError) Error() string {
	return fmt.Sprintf("core: %s fetch failed: %v", e.Resource, e.Err)
}

func (e ResourceError) Unwrap() error {
	return e.Err
}

// FetchItemsResult aggregates normalized items in resource-type order
// (contacts, companies, deals) alongside any per-type failures.
type FetchItemsResult struct {
	Items          []Item
	ResourceErrors []ResourceError
}
