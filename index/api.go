package index

import (
	"sort"

	"github.com/viant/cbir/distance"
)

// DefaultEpsilon is the score below which a leading hit is treated as the
// query itself.
const DefaultEpsilon float32 = 1e-4

// Hit is a ranked candidate; lower Score means more similar.
type Hit struct {
	ID    string
	Score float32
}

// Options controls ranking.
type Options struct {
	// SuppressSelfMatch drops the first hit after sorting when its score is
	// below Epsilon.
	SuppressSelfMatch bool
	// Epsilon defaults to DefaultEpsilon when zero.
	Epsilon float32
}

// Index defines a feature index with basic lifecycle methods.
type Index interface {
	// Build replaces the index content with the given ids and vectors.
	// ids and vectors must have the same length and a common dimension.
	Build(ids []string, vectors [][]float32) error

	// Query ranks every stored vector against query using dist and returns
	// up to k hits plus the number of hits available after suppression.
	Query(query []float32, dist distance.Func, k int, opts Options) (hits []Hit, found int, err error)

	// MarshalBinary serializes the index into a byte slice.
	MarshalBinary() ([]byte, error)

	// UnmarshalBinary reconstructs the index from a serialized byte slice.
	UnmarshalBinary(data []byte) error
}

// Rank sorts hits ascending by score, preserving input order on ties,
// applies self-match suppression and truncates to k (k <= 0 keeps all).
// It returns the truncated hits and the post-suppression count. hits is
// sorted in place.
func Rank(hits []Hit, k int, opts Options) ([]Hit, int) {
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score < hits[b].Score })
	if opts.SuppressSelfMatch && len(hits) > 0 {
		eps := opts.Epsilon
		if eps == 0 {
			eps = DefaultEpsilon
		}
		if hits[0].Score < eps {
			hits = hits[1:]
		}
	}
	found := len(hits)
	if k > 0 && k < found {
		hits = hits[:k]
	}
	return hits, found
}
