package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrMediumUnavailable = errors.New("medium unavailable")
	ErrCorruptNamespace  = errors.New("corrupt namespace")
	ErrInvalidNamespace  = errors.New("namespace cannot be empty")
	ErrMissingID         = errors.New("record has no id")
	ErrInvalidID         = errors.New("record id must be a string")
	ErrMissingType       = errors.New("entity type cannot be empty")
	ErrUnsupported       = errors.New("operation not supported by medium")
	ErrReadOnly          = errors.New("medium is in read-only mode")
)

// CorruptNamespaceError reports a namespace whose stored blob exists but does
// not decode into the expected shape.
type CorruptNamespaceError struct {
	Namespace string
	Err       error
}

func (e *CorruptNamespaceError) Error() string {
	return fmt.Sprintf("namespace %q is corrupt: %v", e.Namespace, e.Err)
}

func (e *CorruptNamespaceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrCorruptNamespace) hold.
func (e *CorruptNamespaceError) Is(target error) bool {
	return target == ErrCorruptNamespace
}

// MediumError reports a failed read or write against the medium.
type MediumError struct {
	Op  string
	Key string
	Err error
}

func (e *MediumError) Error() string {
	return fmt.Sprintf("medium %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *MediumError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrMediumUnavailable) hold.
func (e *MediumError) Is(target error) bool {
	return target == ErrMediumUnavailable
}

// Unavailable wraps err as a MediumError unless it already is one.
func Unavailable(op, key string, err error) error {
	if err == nil {
		return nil
	}
	var me *MediumError
	if errors.As(err, &me) {
		return err
	}
	return &MediumError{Op: op, Key: key, Err: err}
}

func corrupt(ns string, err error) error {
	return &CorruptNamespaceError{Namespace: ns, Err: err}
}
