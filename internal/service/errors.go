package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure so transports can pick a status code.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindAuth
	KindPermission
	KindNotFound
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindPermission:
		return "permission"
	case KindNotFound:
		return "not_found"
	case KindStore:
		return "store"
	default:
		return "unknown"
	}
}

// Error is returned by every service operation. Message is safe to show to
// clients; Err carries the underlying cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a service Error of kind k.
func IsKind(err error, k Kind) bool {
	var svcErr *Error
	return errors.As(err, &svcErr) && svcErr.Kind == k
}

func validationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func conflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func authError(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

func permissionError(message string) *Error {
	return &Error{Kind: KindPermission, Message: message}
}

func notFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func storeError(message string, err error) *Error {
	return &Error{Kind: KindStore, Message: message, Err: err}
}
