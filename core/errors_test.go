package core

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestServiceErrorMapper_TextCodes(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		textCode string
	}{
		{"provider not registered", errors.New(`provider "pipedrive" is not registered`), ServiceErrorProviderNotFound},
		{"authorization denied", errors.New("core: authorization denied: access_denied"), ServiceErrorAuthorizationDenied},
		{"state mismatch", errors.New("core: oauth state mismatch"), ServiceErrorStateMismatch},
		{"state consumed", errors.New("core: oauth state not found or already used"), ServiceErrorStateMismatch},
		{"token endpoint failure", errors.New("core: token endpoint returned status 500"), ServiceErrorTokenExchangeFailed},
		{"exchange detail mentioning state", errors.New("hubspot: token endpoint error (400): missing or invalid state parameter"), ServiceErrorTokenExchangeFailed},
		{"state decode failure", errors.New("core: decode state payload: invalid character"), ServiceErrorStateMismatch},
		{"missing state parameter", errors.New("core: state parameter is required"), ServiceErrorStateMismatch},
		{"state store write failure", errors.New("core: store oauth state: disk full"), ServiceErrorInternal},
		{"credential missing", errors.New("core: credential not found for scope"), ServiceErrorNoCredentialFound},
		{"authentication rejected", errors.New("hubspot: authentication rejected: status 401"), ServiceErrorAuthenticationRejected},
		{"resource fetch", errors.New("hubspot: contacts list failed: status 500"), ServiceErrorResourceFetchFailed},
		{"bad input", errors.New("core: authorization code is required"), ServiceErrorBadInput},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := serviceErrorMapper(tc.err)
			if mapped == nil {
				t.Fatalf("expected mapped error")
			}
			if mapped.TextCode != tc.textCode {
				t.Fatalf("expected %s, got %s", tc.textCode, mapped.TextCode)
			}
			if mapped.Code == 0 {
				t.Fatalf("expected http status on mapped error")
			}
		})
	}
}

func TestServiceErrorMapper_PassesThroughRichErrors(t *testing.T) {
	original := goerrors.New("provider exploded", goerrors.CategoryOperation).
		WithTextCode(ServiceErrorTokenExchangeFailed)
	wrapped := fmt.Errorf("command failed: %w", original)

	mapped := serviceErrorMapper(wrapped)
	if mapped == nil || mapped.TextCode != ServiceErrorTokenExchangeFailed {
		t.Fatalf("expected rich error preserved, got %v", mapped)
	}
	if mapped.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for operation category, got %d", mapped.Code)
	}
}

func TestServiceErrorMapper_NotFoundDefaultIsNeutral(t *testing.T) {
	mapped := serviceErrorMapper(goerrors.New("core: record missing", goerrors.CategoryNotFound))
	if mapped == nil || mapped.TextCode != ServiceErrorNotFound {
		t.Fatalf("expected neutral not-found code, got %v", mapped)
	}
}

func TestServiceErrorMapper_NilError(t *testing.T) {
	if mapped := serviceErrorMapper(nil); mapped != nil {
		t.Fatalf("expected nil for nil error, got %v", mapped)
	}
}

func TestServiceHTTPStatus(t *testing.T) {
	cases := map[goerrors.Category]int{
		goerrors.CategoryBadInput:  http.StatusBadRequest,
		goerrors.CategoryNotFound:  http.StatusNotFound,
		goerrors.CategoryAuth:      http.StatusUnauthorized,
		goerrors.CategoryAuthz:     http.StatusForbidden,
		goerrors.CategoryOperation: http.StatusBadGateway,
		goerrors.CategoryInternal:  http.StatusInternalServerError,
	}
	for category, status := range cases {
		if got := serviceHTTPStatus(category); got != status {
			t.Fatalf("category %v: expected %d, got %d", category, status, got)
		}
	}
}

func TestHasTextCode(t *testing.T) {
	err := newServiceError("core: oauth state mismatch", goerrors.CategoryAuth, ServiceErrorStateMismatch)
	if !HasTextCode(err, ServiceErrorStateMismatch) {
		t.Fatalf("expected text code match")
	}
	if HasTextCode(err, ServiceErrorBadInput) {
		t.Fatalf("unexpected text code match")
	}
	if HasTextCode(nil, ServiceErrorBadInput) {
		t.Fatalf("nil error must not match")
	}
	if HasTextCode(errors.New("plain"), ServiceErrorBadInput) {
		t.Fatalf("plain error must not match")
	}
}
