package embedding

import (
	"context"
	"database/sql"
	"fmt"
)

// Store persists embedding tables.
type Store interface {
	// Save upserts every row of t.
	Save(ctx context.Context, t *Table) error

	// Load reads the stored rows into a new Table, in insertion order.
	Load(ctx context.Context) (*Table, error)
}

// Match is a single nearest-neighbour hit returned by SQLiteStore.Nearest.
type Match struct {
	ID       string
	Distance float64
}

// SQLiteStore keeps an embedding table in the embeddings table of a SQLite
// database. Nearest requires the cbir_cosine SQL function, registered by
// engine.RegisterDistanceFunctions before the connection is opened.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLite-backed Store and ensures its schema.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("embedding: db is nil")
	}
	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Save upserts all rows of t inside one transaction.
func (s *SQLiteStore) Save(ctx context.Context, t *Table) error {
	if t.Len() == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO embeddings(id, embedding)
VALUES (?, ?)
ON CONFLICT(id) DO UPDATE SET
  embedding = excluded.embedding`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, id := range t.ids {
		if _, err := stmt.ExecContext(ctx, id, Encode(t.vectors[id])); err != nil {
			return fmt.Errorf("embedding: failed to save %q: %w", id, err)
		}
	}
	return tx.Commit()
}

// Load reads every stored row in insertion order.
func (s *SQLiteStore) Load(ctx context.Context) (*Table, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, embedding FROM embeddings ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		ids     []string
		vectors [][]float32
	)
	for rows.Next() {
		var (
			id   string
			blob []byte
		)
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, err
		}
		vec, err := Decode(blob)
		if err != nil {
			return nil, fmt.Errorf("embedding: row %q: %w", id, err)
		}
		ids = append(ids, id)
		vectors = append(vectors, vec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return NewTable(ids, vectors)
}

// Nearest returns up to k stored embeddings ordered by ascending cosine
// distance to query, ties by insertion order. Rows whose id equals exclude
// are skipped.
func (s *SQLiteStore) Nearest(ctx context.Context, query []float32, k int, exclude string) ([]Match, error) {
	if k <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, cbir_cosine(embedding, ?) AS d
FROM embeddings
WHERE id <> ?
ORDER BY d, rowid
LIMIT ?`, Encode(query), exclude, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.Distance); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Ensure SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)
