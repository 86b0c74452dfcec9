// Package services holds the business rules of the shop. Services depend on
// the store interfaces only and report failures as *Error values that
// controllers translate into HTTP responses.
package services

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindBusinessRule
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindBusinessRule:
		return "business_rule"
	}
	return "internal"
}

type Error struct {
	Kind    ErrorKind
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

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) *Error   { return newError(KindValidation, message) }
func Unauthorized(message string) *Error { return newError(KindUnauthorized, message) }
func Forbidden(message string) *Error    { return newError(KindForbidden, message) }
func NotFound(message string) *Error     { return newError(KindNotFound, message) }
func Conflict(message string) *Error     { return newError(KindConflict, message) }
func BusinessRule(message string) *Error { return newError(KindBusinessRule, message) }

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of a service error, or KindInternal for anything
// else.
func KindOf(err error) ErrorKind {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Kind
	}
	return KindInternal
}
