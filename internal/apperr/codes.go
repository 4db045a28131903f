package apperr

import "net/http"

// Code is a machine-readable error kind.
type Code string

const (
	// CodeValidation covers missing or malformed input.
	CodeValidation Code = "VALIDATION"
	// CodeAuthentication covers bad credentials and invalid, expired or revoked tokens.
	CodeAuthentication Code = "AUTHENTICATION"
	// CodeNotFound covers rows that do not exist or are not owned by the caller.
	CodeNotFound Code = "NOT_FOUND"
	// CodeThrottled covers callers that used up their daily quota.
	CodeThrottled Code = "THROTTLED"
)

// Reasons attached to authentication errors.
const (
	ReasonTokenNotValid        = "token_not_valid"
	ReasonAuthenticationFailed = "authentication_failed"
	ReasonNotAuthenticated     = "not_authenticated"
	ReasonUserNotFound         = "user_not_found"
)

// HTTPStatus maps a code to the response status used by the HTTP surface.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeAuthentication:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeThrottled:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
