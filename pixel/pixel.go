package pixel

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Channel positions inside a Pixel. Chromaticity and histogram formulas refer
// to R, G and B through these positions, so adapters must preserve them.
const (
	Blue  = 0
	Green = 1
	Red   = 2
)

// Pixel holds three 8-bit channel samples in blue, green, red order.
type Pixel [3]uint8

// B returns the blue sample.
func (p Pixel) B() uint8 { return p[Blue] }

// G returns the green sample.
func (p Pixel) G() uint8 { return p[Green] }

// R returns the red sample.
func (p Pixel) R() uint8 { return p[Red] }

// Source is a read-only rectangular grid of pixels with O(1) element access.
// Implementations must tolerate concurrent readers.
type Source interface {
	// Rows returns the grid height.
	Rows() int
	// Cols returns the grid width.
	Cols() int
	// At returns the pixel at (row, col). Callers keep indices in range.
	At(row, col int) Pixel
}

// Grid is the in-memory Source used by this module. Samples are stored
// row-major with three bytes per pixel.
type Grid struct {
	rows int
	cols int
	pix  []uint8
}

// NewGrid allocates a zeroed (black) grid. Negative dimensions are treated as
// zero.
func NewGrid(rows, cols int) *Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Grid{rows: rows, cols: cols, pix: make([]uint8, rows*cols*3)}
}

// Fill returns a grid where every pixel equals p.
func Fill(rows, cols int, p Pixel) *Grid {
	g := NewGrid(rows, cols)
	for i := 0; i < len(g.pix); i += 3 {
		g.pix[i], g.pix[i+1], g.pix[i+2] = p[0], p[1], p[2]
	}
	return g
}

func (g *Grid) Rows() int { return g.rows }

func (g *Grid) Cols() int { return g.cols }

func (g *Grid) At(row, col int) Pixel {
	off := (row*g.cols + col) * 3
	return Pixel{g.pix[off], g.pix[off+1], g.pix[off+2]}
}

// Set overwrites the pixel at (row, col).
func (g *Grid) Set(row, col int, p Pixel) {
	off := (row*g.cols + col) * 3
	g.pix[off], g.pix[off+1], g.pix[off+2] = p[0], p[1], p[2]
}

// Empty reports whether the source has no pixels.
func Empty(src Source) bool {
	return src == nil || src.Rows() <= 0 || src.Cols() <= 0
}

// FromImage converts a decoded image into a Grid. Alpha is dropped and the
// color samples are reordered to blue, green, red.
func FromImage(img image.Image) *Grid {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	g := NewGrid(b.Dy(), b.Dx())
	for y := 0; y < g.rows; y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+g.cols*4]
		dst := g.pix[y*g.cols*3 : (y+1)*g.cols*3]
		for x := 0; x < g.cols; x++ {
			dst[x*3+Blue] = src[x*4+2]
			dst[x*3+Green] = src[x*4+1]
			dst[x*3+Red] = src[x*4]
		}
	}
	return g
}

// Open decodes the image file at path, applying EXIF orientation.
func Open(path string) (*Grid, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("pixel: failed to decode %s: %w", path, err)
	}
	return FromImage(img), nil
}
