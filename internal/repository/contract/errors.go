package contract

import "errors"

// ErrDuplicateKey is returned when a write violates a unique index.
var ErrDuplicateKey = errors.New("duplicate key")
