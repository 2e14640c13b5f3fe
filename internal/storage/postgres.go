package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

// Postgres persists documents as JSONB rows, one table for all collections.
// Filters are evaluated with JSONB containment, so matching behaves exactly
// like the in-memory store's normalized equality checks.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewPostgres(db), nil
}

// EnsureSchema creates the documents table if it does not exist yet.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id         BIGSERIAL PRIMARY KEY,
	collection TEXT NOT NULL,
	doc        JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS documents_collection_idx ON documents (collection);`
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

func (p *Postgres) InsertOne(ctx context.Context, collection string, doc Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO documents (collection, doc) VALUES ($1, $2)`, collection, raw)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", collection, err)
	}
	return nil
}

func (p *Postgres) FindOne(ctx context.Context, collection string, filter Filter) (Document, error) {
	raw, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("encode filter: %w", err)
	}
	var out []byte
	err = p.db.QueryRowContext(ctx,
		`SELECT doc FROM documents WHERE collection = $1 AND doc @> $2 ORDER BY id LIMIT 1`,
		collection, raw).Scan(&out)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	return decodeDocument(out)
}

func (p *Postgres) FindOneAndUpdate(ctx context.Context, collection string, filter Filter, update Document) (Document, error) {
	rawFilter, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("encode filter: %w", err)
	}
	rawUpdate, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("encode update: %w", err)
	}
	var out []byte
	err = p.db.QueryRowContext(ctx,
		`UPDATE documents SET doc = doc || $3
		 WHERE id = (SELECT id FROM documents WHERE collection = $1 AND doc @> $2 ORDER BY id LIMIT 1)
		 RETURNING doc`,
		collection, rawFilter, rawUpdate).Scan(&out)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update in %s: %w", collection, err)
	}
	return decodeDocument(out)
}

func (p *Postgres) DeleteMany(ctx context.Context, collection string, filter Filter) (int64, error) {
	raw, err := json.Marshal(filter)
	if err != nil {
		return 0, fmt.Errorf("encode filter: %w", err)
	}
	res, err := p.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND doc @> $2`, collection, raw)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", collection, err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", collection, err)
	}
	return removed, nil
}

func decodeDocument(raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}
