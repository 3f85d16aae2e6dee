package core

import "errors"

// Common errors.
var (
	ErrReadOnly     = errors.New("store is in read-only mode")
	ErrNotWatchable = errors.New("storage backend does not support watching")
)
