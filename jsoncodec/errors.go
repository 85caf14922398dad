package jsoncodec

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrEmptyInput is matched by every ValidationError.
var ErrEmptyInput = errors.New("JSON input cannot be null or empty")

// ValidationError means decode was called with null or blank input. No parsing was
// attempted.
type ValidationError struct {
	Op string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, ErrEmptyInput)
}

func (e *ValidationError) Unwrap() error { return ErrEmptyInput }

// InvalidTargetError means the decode target was not a non-nil pointer.
type InvalidTargetError struct {
	Type reflect.Type
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("decode target must be a non-nil pointer, got %s", typeName(e.Type))
}

// DecodeError wraps a parse or type mismatch failure.
type DecodeError struct {
	Type string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to deserialize JSON to %s: %s", e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError wraps a serialization failure.
type EncodeError struct {
	Type string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("failed to serialize %s to JSON: %s", e.Type, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
