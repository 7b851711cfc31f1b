package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

const CredentialPayloadFormatJSONV1 = "credential_json"

type jsonCredentialPayload struct {
	TokenType    string `json:"token_type,omitempty"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// JSONCredentialCodec round-trips the provider credential through the
// ephemeral store without altering any field.
type JSONCredentialCodec struct{}

func (JSONCredentialCodec) Format() string {
	return CredentialPayloadFormatJSONV1
}

func (JSONCredentialCodec) Encode(credential Credential) ([]byte, error) {
	if strings.TrimSpace(credential.AccessToken) == "" {
		return nil, fmt.Errorf("core: credential payload requires an access token")
	}
	payload := jsonCredentialPayload{
		TokenType:    strings.TrimSpace(credential.TokenType),
		AccessToken:  strings.TrimSpace(credential.AccessToken),
		RefreshToken: strings.TrimSpace(credential.RefreshToken),
		ExpiresIn:    credential.ExpiresIn,
		Scope:        strings.TrimSpace(credential.Scope),
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("core: encode credential payload: %w", err)
	}
	return encoded, nil
}

func (JSONCredentialCodec) Decode(payload []byte) (Credential, error) {
	if len(payload) == 0 {
		return Credential{}, fmt.Errorf("core: credential payload is empty")
	}
	decoded := jsonCredentialPayload{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return Credential{}, fmt.Errorf("core: decode credential payload: %w", err)
	}
	return Credential{
		TokenType:    strings.TrimSpace(decoded.TokenType),
		AccessToken:  strings.TrimSpace(decoded.AccessToken),
		RefreshToken: strings.TrimSpace(decoded.RefreshToken),
		ExpiresIn:    decoded.ExpiresIn,
		Scope:        strings.TrimSpace(decoded.Scope),
	}, nil
}

var _ CredentialCodec = JSONCredentialCodec{}
