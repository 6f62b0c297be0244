package embedding

import (
	"database/sql"
)

const embeddingsSchema = `
CREATE TABLE IF NOT EXISTS embeddings (
    id TEXT PRIMARY KEY,
    embedding BLOB NOT NULL
);
`

// EnsureSchema creates the embeddings table in the provided database if it
// does not already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(embeddingsSchema)
	return err
}
