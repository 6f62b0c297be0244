// Package pixel defines the decoded pixel grid consumed by feature
// extraction. A Source is a rows x cols grid of 8-bit triples stored in
// blue, green, red order; adapters convert image.Image values and files on
// disk into that layout.
package pixel
