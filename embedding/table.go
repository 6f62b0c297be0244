package embedding

import (
	"fmt"
)

// Table maps image identifiers (file names) to their embeddings. It is
// immutable once built, so any number of goroutines may read it without
// locking.
type Table struct {
	ids     []string
	vectors map[string][]float32
	dim     int
}

// NewTable builds a table from parallel slices. ids and vectors must have the
// same length and every vector must share the first vector's dimension. A
// repeated id keeps its last vector and its first position.
func NewTable(ids []string, vectors [][]float32) (*Table, error) {
	if len(ids) != len(vectors) {
		return nil, fmt.Errorf("embedding: ids and vectors length mismatch: %d != %d", len(ids), len(vectors))
	}
	t := &Table{vectors: make(map[string][]float32, len(ids))}
	for i, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("embedding: empty id at row %d", i)
		}
		v := vectors[i]
		if i == 0 {
			t.dim = len(v)
		} else if len(v) != t.dim {
			return nil, fmt.Errorf("embedding: inconsistent vector dims for %q: %d vs %d", id, len(v), t.dim)
		}
		if _, seen := t.vectors[id]; !seen {
			t.ids = append(t.ids, id)
		}
		t.vectors[id] = append([]float32(nil), v...)
	}
	return t, nil
}

// Lookup returns the embedding stored for id. The slice is shared with the
// table and must not be modified.
func (t *Table) Lookup(id string) ([]float32, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.vectors[id]
	return v, ok
}

// Len returns the number of distinct identifiers.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.ids)
}

// Dim returns the embedding dimension, or 0 for an empty table.
func (t *Table) Dim() int {
	if t == nil {
		return 0
	}
	return t.dim
}

// IDs returns the identifiers in first-seen order.
func (t *Table) IDs() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.ids...)
}
