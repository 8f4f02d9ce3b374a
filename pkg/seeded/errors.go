package seeded

import (
	"errors"
	"fmt"

	"go.llib.dev/frameless/pkg/errorkit"
)

const (
	ErrUnexpectedToken errorkit.Error = "unexpected json token"
	ErrUnexpectedKey   errorkit.Error = "unexpected key"
	ErrMissingField    errorkit.Error = "missing field"
	ErrMalformedField  errorkit.Error = "malformed field value"
	ErrUnexpectedNull  errorkit.Error = "unexpected null"
)

// MissingFieldError is returned when a schema finished consuming its map
// without seeing one of its required keys.
type MissingFieldError struct {
	Schema string
	Field  string
}

func (err *MissingFieldError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrMissingField, err.Field)
	if err.Schema != "" {
		msg += " (" + err.Schema + ")"
	}
	return msg
}

func (err *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// UnexpectedKeyError is returned by a strict schema for a key it doesn't know.
type UnexpectedKeyError struct {
	Schema string
	Key    string
}

func (err *UnexpectedKeyError) Error() string {
	msg := fmt.Sprintf("%s %q", ErrUnexpectedKey, err.Key)
	if err.Schema != "" {
		msg += " (" + err.Schema + ")"
	}
	return msg
}

func (err *UnexpectedKeyError) Is(target error) bool {
	return target == ErrUnexpectedKey
}

// FieldError tells which key's value could not be decoded.
// Nested schemas produce a chain of FieldError values,
// which together describe the path to the failing value.
type FieldError struct {
	Schema string
	Key    string
	Err    error
}

func (err *FieldError) Error() string {
	path, cause := err.Key, err.Err
	if err.Schema != "" {
		path = err.Schema + "." + path
	}
	for {
		inner, ok := cause.(*FieldError)
		if !ok {
			break
		}
		path, cause = path+"."+inner.Key, inner.Err
	}
	if errors.Is(cause, ErrMissingField) || errors.Is(cause, ErrUnexpectedKey) {
		return fmt.Sprintf("%s: %v", path, cause)
	}
	return fmt.Sprintf("%s %s: %v", ErrMalformedField, path, cause)
}

// Is reports ErrMalformedField only when the failure is about the value itself,
// and not about a missing or unexpected key further down.
func (err *FieldError) Is(target error) bool {
	if target != ErrMalformedField {
		return false
	}
	return !errors.Is(err.Err, ErrMissingField) &&
		!errors.Is(err.Err, ErrUnexpectedKey)
}

func (err *FieldError) Unwrap() error {
	return err.Err
}
