// Package storage defines the document-store client the registry is built
// against, plus the in-memory and PostgreSQL implementations. The registry
// never talks to a database directly; it issues filters against named
// collections through this interface, which is what lets tests swap in the
// in-memory store without rewiring business code.
package storage

import "context"

// Collection names used by the registry.
const (
	CollectionHomes   = "homes"
	CollectionSensors = "sensors"
	CollectionSeniors = "seniors"
	CollectionAudit   = "audit"
)

// Document is a schemaless record. Both implementations normalize documents
// through JSON on write, so values read back always carry JSON types
// (numbers are float64) regardless of backend.
type Document map[string]any

// Filter selects documents by exact field equality. Only scalar values are
// supported; that is all the registry ever filters on.
type Filter map[string]any

// Store is the injected document-store abstraction. Implementations must
// return ErrNotFound (possibly wrapped) when a filter matches nothing.
type Store interface {
	// InsertOne appends a document to the collection.
	InsertOne(ctx context.Context, collection string, doc Document) error

	// FindOne returns the first document matching the filter.
	FindOne(ctx context.Context, collection string, filter Filter) (Document, error)

	// FindOneAndUpdate merges the update fields into the first document
	// matching the filter and returns the updated document.
	FindOneAndUpdate(ctx context.Context, collection string, filter Filter, update Document) (Document, error)

	// DeleteMany removes every document matching the filter and reports how
	// many were removed. It exists for test cleanup and is never routed.
	DeleteMany(ctx context.Context, collection string, filter Filter) (int64, error)
}
