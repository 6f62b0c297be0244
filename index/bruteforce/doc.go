// Package bruteforce provides a feature index that answers kNN queries by
// scoring every stored vector with the caller's distance function. It
// supports a compact binary format so a catalog only has to be extracted
// once.
package bruteforce
