// Package embedding holds the read-only table of precomputed image
// embeddings consulted by the embedding-backed feature schemes. It includes:
//   - Table: identifier -> float32 vector, O(1) lookup
//   - ReadCSV / LoadCSV: the persisted row-oriented table (id, v0, v1, ...)
//   - SQLiteStore: durable storage of a table in SQLite with a kNN helper
//   - Encode / Decode: the BLOB codec used by SQLiteStore
package embedding
