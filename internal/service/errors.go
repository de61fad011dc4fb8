package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalid        = errors.New("invalid")
	ErrRemoteMutation = errors.New("remote mutation failed")
)

// MutationError is returned when the remote half of a mutation fails.
// RolledBack reports whether the optimistic local write was undone.
type MutationError struct {
	Action     string
	Resource   string
	RolledBack bool
	Err        error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Action, e.Resource, e.Err)
}

func (e *MutationError) Is(target error) bool {
	return target == ErrRemoteMutation
}

func (e *MutationError) Unwrap() error {
	return e.Err
}
