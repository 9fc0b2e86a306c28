// Package common holds the error taxonomy shared by services and controllers.
package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/quillpress/quillpress/logger"
)

// ErrorKind classifies an error for the transport layer.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindAuthentication
	KindForbidden
	KindNotFound
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// AppError is an error with a client-facing message and a kind.
type AppError struct {
	Kind ErrorKind
	Msg  string
	// Fields holds per-field problems for validation errors.
	Fields map[string][]string
	Err    error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(msg string, fields map[string][]string) error {
	return &AppError{Kind: KindValidation, Msg: msg, Fields: fields}
}

func NewAuthenticationError(msg string) error {
	return &AppError{Kind: KindAuthentication, Msg: msg}
}

func NewForbiddenError(msg string) error {
	return &AppError{Kind: KindForbidden, Msg: msg}
}

func NewNotFoundError(msg string) error {
	return &AppError{Kind: KindNotFound, Msg: msg}
}

func NewConflictError(msg string) error {
	return &AppError{Kind: KindConflict, Msg: msg}
}

// Wrap attaches a cause to an internal error.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &AppError{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf returns the kind of the first AppError in err's chain, KindInternal otherwise.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err is an AppError of the given kind.
func Is(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

func NewErrorf(format string, a ...any) error {
	return fmt.Errorf(format, a...)
}

// Combine joins the non-nil errors into one message, or returns nil.
func Combine(errs ...error) error {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return errors.New(strings.Join(msgs, "; "))
}

func Recover(msg string) any {
	panicErr := recover()
	if panicErr != nil {
		if msg != "" {
			logger.Error(msg, "panic:", panicErr)
		}
	}
	return panicErr
}
