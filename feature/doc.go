// Package feature turns decoded pixel grids, or image identifiers backed by
// an embedding table, into fixed-length float32 descriptors.
//
// Each Scheme fixes the descriptor layout:
//   - Baseline: 7x7 center block, 147 values
//   - RGChromaticity: bins x bins r/g histogram (default 16)
//   - RGBChromaticity: bins^3 r/g/b histogram (default 8)
//   - SpatialColor: top and bottom half 8x8x8 RGB histograms, 1024 values
//   - TextureColor: 16-bin Sobel magnitude histogram + 8x8x8 RGB histogram, 528 values
//   - Embedding: the looked-up embedding verbatim
//   - Composite: embedding + 16-bin skin hue histogram + mean brightness
//
// All histograms hold raw counts; normalization belongs to the distance
// functions.
package feature
