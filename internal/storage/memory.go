package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memory is the in-memory Store used in tests and when no DSN is configured.
// It intentionally favors clarity over performance: collections are plain
// slices scanned in insertion order, which also gives FindOne the same
// "first match" semantics as the PostgreSQL implementation.
type Memory struct {
	mu          sync.RWMutex
	collections map[string][]Document
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string][]Document)}
}

func (m *Memory) InsertOne(_ context.Context, collection string, doc Document) error {
	normalized, err := normalize(doc)
	if err != nil {
		return fmt.Errorf("normalize document: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[collection] = append(m.collections[collection], normalized)
	return nil
}

func (m *Memory) FindOne(_ context.Context, collection string, filter Filter) (Document, error) {
	normalized, err := normalize(Document(filter))
	if err != nil {
		return nil, fmt.Errorf("normalize filter: %w", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, doc := range m.collections[collection] {
		if matches(doc, normalized) {
			return clone(doc), nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) FindOneAndUpdate(_ context.Context, collection string, filter Filter, update Document) (Document, error) {
	normalizedFilter, err := normalize(Document(filter))
	if err != nil {
		return nil, fmt.Errorf("normalize filter: %w", err)
	}
	normalizedUpdate, err := normalize(update)
	if err != nil {
		return nil, fmt.Errorf("normalize update: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, doc := range m.collections[collection] {
		if !matches(doc, normalizedFilter) {
			continue
		}
		for k, v := range normalizedUpdate {
			doc[k] = v
		}
		m.collections[collection][i] = doc
		return clone(doc), nil
	}
	return nil, ErrNotFound
}

func (m *Memory) DeleteMany(_ context.Context, collection string, filter Filter) (int64, error) {
	normalized, err := normalize(Document(filter))
	if err != nil {
		return 0, fmt.Errorf("normalize filter: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.collections[collection][:0]
	var removed int64
	for _, doc := range m.collections[collection] {
		if matches(doc, normalized) {
			removed++
			continue
		}
		kept = append(kept, doc)
	}
	m.collections[collection] = kept
	return removed, nil
}

// normalize round-trips a document through JSON so stored values carry JSON
// types, mirroring what the JSONB backend returns.
func normalize(doc Document) (Document, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out Document
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func matches(doc, filter Document) bool {
	for field, want := range filter {
		got, ok := doc[field]
		if !ok || got != want {
			return false
		}
	}
	return true
}

func clone(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
