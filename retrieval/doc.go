// Package retrieval ranks a candidate set of images by similarity to a query
// image under one feature scheme.
//
// An Engine holds the search policy (worker count, self-match suppression,
// composite weights, feature cache, metrics); a Session holds the per-run
// state, namely the embedding table consulted by the embedding-backed
// schemes. Engines are safe for concurrent use and may serve any number of
// sessions.
package retrieval
