package store

import "errors"

var (
	// ErrStoreCorrupted indicates the store file contains invalid JSON
	ErrStoreCorrupted = errors.New("store file is corrupted")

	// ErrInvalidValue indicates a value of the wrong type for its key
	ErrInvalidValue = errors.New("invalid value for key")
)
