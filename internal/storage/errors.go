package storage

import "errors"

// ErrNotFound keeps storage-level misses consistent across the in-memory and
// PostgreSQL implementations. Services translate it into domain errors.
var ErrNotFound = errors.New("document not found")
