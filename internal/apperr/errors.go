/*
Package apperr defines the error taxonomy shared by the chat and nutrition paths.
Every error that crosses a package boundary is tagged with a Kind so the HTTP
layer can decide between a 400, a degraded answer, or a generic 500.
*/
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	// KindValidation marks bad client input (empty message, missing image).
	KindValidation Kind = "validation"

	// KindProvider marks transport, credential or parse failures of a remote model.
	KindProvider Kind = "provider"

	// KindConfig marks a provider that cannot be built from the current configuration.
	KindConfig Kind = "config"

	// KindInternal marks anything unexpected.
	KindInternal Kind = "internal"
)

type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Kind, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Kind, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Wrap tags err with kind. An err that already carries a Kind is returned as-is
// so the innermost classification wins.
func Wrap(kind Kind, op, message string, err error) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
		Cause:   err,
	}
}

func New(kind Kind, op, message string) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
	}
}

// IsKind checks whether the first typed error in the chain matches kind.
func IsKind(err error, kind Kind) bool {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind == kind
	}
	return false
}

// KindOf returns the Kind of the first typed error in the chain, or KindInternal.
func KindOf(err error) Kind {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind
	}
	return KindInternal
}
