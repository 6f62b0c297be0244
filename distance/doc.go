// Package distance implements the dissimilarity functions paired with each
// feature scheme. Smaller is more similar.
//
// Every Func is total: inputs of the wrong length, empty or degenerate
// histograms and near-zero vectors map to the function's maximum-distance
// sentinel (1 for the bounded metrics, +Inf for SumSquaredDifference)
// instead of an error or NaN.
package distance
