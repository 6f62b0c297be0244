package retrieval

import (
	"github.com/google/uuid"
	"github.com/viant/cbir/embedding"
)

// Session carries the state of one retrieval run. Its embedding table is
// read-only and shared by every search issued with the session.
type Session struct {
	ID         string
	embeddings *embedding.Table
}

// NewSession creates a session over embeddings, which may be nil when only
// pixel-based schemes are used.
func NewSession(embeddings *embedding.Table) *Session {
	return &Session{ID: uuid.NewString(), embeddings: embeddings}
}

// Embeddings returns the session's embedding table.
func (s *Session) Embeddings() *embedding.Table {
	if s == nil {
		return nil
	}
	return s.embeddings
}

func (s *Session) sessionID() string {
	if s == nil {
		return ""
	}
	return s.ID
}
