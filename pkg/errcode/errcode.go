// Package errcode defines the stable error codes surfaced to API clients.
package errcode

import (
	"errors"
	"net/http"
)

// Error is a domain error carrying a stable code, the HTTP status it maps to
// and a human readable message.
type Error struct {
	Code    string
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

// Is matches any *Error with the same code so wrapped copies compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithMessage returns a copy of e with a more specific message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Code: e.Code, Status: e.Status, Message: msg}
}

var (
	MemberNotFound        = &Error{Code: "MEMBER_NOT_FOUND", Status: http.StatusNotFound, Message: "member not found"}
	MemberExists          = &Error{Code: "MEMBER_EXISTS", Status: http.StatusConflict, Message: "member already exists"}
	MemberNotAuthorized   = &Error{Code: "MEMBER_NOT_AUTHORIZED", Status: http.StatusForbidden, Message: "member not authorized"}
	RequestValidationFail = &Error{Code: "REQUEST_VALIDATION_FAIL", Status: http.StatusBadRequest, Message: "request validation failed"}
	LoginFailed           = &Error{Code: "LOGIN_FAILED", Status: http.StatusUnauthorized, Message: "invalid username or password"}
	InvalidRefreshToken   = &Error{Code: "INVALID_REFRESH_TOKEN", Status: http.StatusUnauthorized, Message: "invalid refresh token"}
)

// From extracts the *Error in err's chain.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
