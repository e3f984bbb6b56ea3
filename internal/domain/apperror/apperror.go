package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	ValidationFailed       Kind = "ValidationFailed"
	InvalidIdentifier      Kind = "InvalidIdentifier"
	NotFound               Kind = "NotFound"
	AlreadyExists          Kind = "AlreadyExists"
	NotAuthorized          Kind = "NotAuthorized"
	MissingShareTargets    Kind = "MissingShareTargets"
	InvalidVisibilityValue Kind = "InvalidVisibilityValue"
	InvalidExpiration      Kind = "InvalidExpiration"
	CredentialRejected     Kind = "CredentialRejected"
	BadRequest             Kind = "BadRequest"
	TooManyRequests        Kind = "TooManyRequests"
)

// Error is a request-terminating condition raised where it is detected.
// Details carries per-field messages for ValidationFailed.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(details map[string]string) *Error {
	return &Error{Kind: ValidationFailed, Message: "required fields are missing or invalid", Details: details}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool { return KindOf(err) == kind }
