package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ServiceErrorBadInput               = "CONNECT_BAD_INPUT"
	ServiceErrorProviderNotFound       = "CONNECT_PROVIDER_NOT_FOUND"
	ServiceErrorAuthorizationDenied    = "CONNECT_AUTHORIZATION_DENIED"
	ServiceErrorStateMismatch          = "CONNECT_STATE_MISMATCH"
	ServiceErrorTokenExchangeFailed    = "CONNECT_TOKEN_EXCHANGE_FAILED"
	ServiceErrorNoCredentialFound      = "CONNECT_NO_CREDENTIAL_FOUND"
	ServiceErrorNotFound               = "CONNECT_NOT_FOUND"
	ServiceErrorResourceFetchFailed    = "CONNECT_RESOURCE_FETCH_FAILED"
	ServiceErrorAuthenticationRejected = "CONNECT_AUTHENTICATION_REJECTED"
	ServiceErrorInternal               = "CONNECT_INTERNAL_ERROR"
)

func serviceErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureServiceErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "provider") && strings.Contains(msg, "not registered"):
		return newServiceError(err.Error(), goerrors.CategoryNotFound, ServiceErrorProviderNotFound)
	case strings.Contains(msg, "authorization denied"), strings.Contains(msg, "access_denied"):
		return newServiceError(err.Error(), goerrors.CategoryAuth, ServiceErrorAuthorizationDenied)
	case strings.Contains(msg, "token endpoint"),
		strings.Contains(msg, "token request"),
		strings.Contains(msg, "token response"),
		strings.Contains(msg, "token exchange"):
		return newServiceError(err.Error(), goerrors.CategoryOperation, ServiceErrorTokenExchangeFailed)
	// Only genuine state-validation failures (absent, forged, replayed,
	// undecodable) carry the state-mismatch code; store write failures and
	// provider errors that merely mention "state" must not.
	case strings.Contains(msg, "state mismatch"),
		strings.Contains(msg, "state payload"),
		strings.Contains(msg, "state parameter"),
		strings.Contains(msg, "oauth state not found"):
		return newServiceError(err.Error(), goerrors.CategoryAuth, ServiceErrorStateMismatch)
	case strings.Contains(msg, "credential") && strings.Contains(msg, "not found"):
		return newServiceError(err.Error(), goerrors.CategoryNotFound, ServiceErrorNoCredentialFound)
	case strings.Contains(msg, "authentication rejected"):
		return newServiceError(err.Error(), goerrors.CategoryAuth, ServiceErrorAuthenticationRejected)
	case strings.Contains(msg, "list failed"), strings.Contains(msg, "fetch failed"):
		return newServiceError(err.Error(), goerrors.CategoryOperation, ServiceErrorResourceFetchFailed)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "empty"):
		return newServiceError(err.Error(), goerrors.CategoryBadInput, ServiceErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureServiceErrorEnvelope(mapped)
}

func newServiceError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureServiceErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureServiceErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = serviceHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultServiceTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultServiceTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return ServiceErrorBadInput
	case goerrors.CategoryNotFound:
		return ServiceErrorNotFound
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return ServiceErrorAuthenticationRejected
	case goerrors.CategoryOperation:
		return ServiceErrorResourceFetchFailed
	default:
		return ServiceErrorInternal
	}
}

func serviceHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryOperation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HasTextCode reports whether err carries the given service text code.
func HasTextCode(err error, textCode string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == textCode
}
