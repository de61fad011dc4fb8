package model

import "errors"

// ErrInvalidEntity is returned when a record violates an entity invariant.
var ErrInvalidEntity = errors.New("invalid entity")
