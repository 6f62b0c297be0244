// Package index defines the feature index abstraction: a set of (id, vector)
// pairs that can be built once, ranked against a query vector with any
// distance.Func, and serialized for reuse across runs. The shared ranking
// rules (ascending stable order, self-match suppression, truncation) live in
// Rank so every caller orders hits the same way.
package index
