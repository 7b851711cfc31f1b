package core

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// StatePayload binds the random state token to the (user, org) pair that
// requested authorization, so a state minted for one pair cannot be replayed
// against another. The serialized form is both the `state` query parameter
// and the stored value; the callback compares them byte-exact.
type StatePayload struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	OrgID  string `json:"org_id"`
}

func generateStateToken() (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("core: generate oauth state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func EncodeStatePayload(payload StatePayload) (string, error) {
	if strings.TrimSpace(payload.Token) == "" {
		return "", fmt.Errorf("core: state token is required")
	}
	if strings.TrimSpace(payload.UserID) == "" || strings.TrimSpace(payload.OrgID) == "" {
		return "", fmt.Errorf("core: state payload scope is required")
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("core: encode state payload: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(encoded), nil
}

func DecodeStatePayload(encoded string) (StatePayload, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return StatePayload{}, fmt.Errorf("core: state parameter is required")
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return StatePayload{}, fmt.Errorf("core: decode state payload: %w", err)
	}
	payload := StatePayload{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return StatePayload{}, fmt.Errorf("core: decode state payload: %w", err)
	}
	if strings.TrimSpace(payload.Token) == "" {
		return StatePayload{}, fmt.Errorf("core: state payload missing token")
	}
	return payload, nil
}

func (p StatePayload) Scope() ScopeRef {
	return ScopeRef{UserID: p.UserID, OrgID: p.OrgID}
}
