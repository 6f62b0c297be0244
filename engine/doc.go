// Package engine wraps the modernc.org/sqlite driver used by the embedding
// store: opening connections and registering the cbir_* distance functions
// as deterministic SQL scalars.
package engine
