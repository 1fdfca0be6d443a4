// Package store provides a chunked-array store: named hierarchical groups,
// typed n-dimensional arrays split into codec-encoded chunks, and JSON
// attributes, laid out over any key/value ChunkedStore backend.
package store

import "errors"

// Common errors
var (
	ErrNotFound    = errors.New("object not found")
	ErrExists      = errors.New("object already exists")
	ErrNotArray    = errors.New("object is not an array")
	ErrNotGroup    = errors.New("object is not a group")
	ErrReadOnly    = errors.New("store is read-only")
	ErrInvalidPath = errors.New("invalid path")
	ErrInvalidMode = errors.New("invalid access mode")
	ErrClosed      = errors.New("store is closed")
	ErrKeyNotFound = errors.New("key not found")
	ErrShape       = errors.New("shape mismatch")
)
