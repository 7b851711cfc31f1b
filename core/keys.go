package core

import (
	"net/url"
	"strings"
)

const storageKeyPrefix = "crmconnect::v1"

const (
	purposeOAuthState = "oauth_state"
	purposeCredential = "credential"
)

// StateKey returns the ephemeral-store key holding the pending OAuth state
// for a (user, org) pair: crmconnect::v1::oauth_state::<user>::<org> with
// each segment URL-path escaped.
func StateKey(scope ScopeRef) (string, error) {
	return storageKey(purposeOAuthState, scope)
}

// CredentialKey returns the ephemeral-store key holding the in-flight
// credential for a (user, org) pair. The purpose tag keeps the state and
// credential namespaces from colliding.
func CredentialKey(scope ScopeRef) (string, error) {
	return storageKey(purposeCredential, scope)
}

func storageKey(purpose string, scope ScopeRef) (string, error) {
	if err := scope.Validate(); err != nil {
		return "", err
	}
	segments := []string{
		purpose,
		strings.TrimSpace(scope.UserID),
		strings.TrimSpace(scope.OrgID),
	}
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(append([]string{storageKeyPrefix}, segments...), "::"), nil
}
