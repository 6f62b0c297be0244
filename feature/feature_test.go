package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/cbir/pixel"
)

type mapLookup map[string][]float32

func (m mapLookup) Lookup(id string) ([]float32, bool) {
	v, ok := m[id]
	return v, ok
}

func sum(v Vector) float32 {
	var s float32
	for _, x := range v {
		s += x
	}
	return s
}

// ramp returns a grid whose pixel at (y, x) is {y, x, y+x}.
func ramp(rows, cols int) *pixel.Grid {
	g := pixel.NewGrid(rows, cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			g.Set(y, x, pixel.Pixel{uint8(y), uint8(x), uint8(y + x)})
		}
	}
	return g
}

func TestBaselineBlock(t *testing.T) {
	t.Run("center block", func(t *testing.T) {
		g := ramp(11, 9)
		v, err := BaselineBlock(g)
		require.NoError(t, err)
		require.Len(t, v, 147)
		// first pixel is (5-3, 4-3) = (2, 1)
		assert.Equal(t, []float32{2, 1, 3}, v[:3])
		// last pixel is (5+3, 4+3) = (8, 7)
		assert.Equal(t, []float32{8, 7, 15}, v[144:])
	})

	t.Run("exactly 7x7", func(t *testing.T) {
		v, err := BaselineBlock(ramp(7, 7))
		require.NoError(t, err)
		assert.Len(t, v, 147)
	})

	t.Run("too small", func(t *testing.T) {
		for _, g := range []*pixel.Grid{pixel.NewGrid(6, 10), pixel.NewGrid(10, 6), pixel.NewGrid(0, 0)} {
			_, err := BaselineBlock(g)
			assert.ErrorIs(t, err, ErrInputTooSmall)
		}
		_, err := BaselineBlock(nil)
		assert.ErrorIs(t, err, ErrInputTooSmall)
	})
}

func TestRGHistogram(t *testing.T) {
	g := ramp(13, 17)
	v := RGHistogram(g, 16)
	require.Len(t, v, 256)
	assert.Equal(t, float32(13*17), sum(v))

	black := RGHistogram(pixel.Fill(3, 3, pixel.Pixel{}), 16)
	assert.Equal(t, float32(9), black[0])

	red := RGHistogram(pixel.Fill(2, 2, pixel.Pixel{0, 0, 255}), 16)
	assert.Equal(t, float32(4), red[15*16])

	assert.Equal(t, float32(0), sum(RGHistogram(pixel.NewGrid(0, 0), 16)))
}

func TestRGBHistogram(t *testing.T) {
	g := ramp(10, 12)
	v := RGBHistogram(g, 8)
	require.Len(t, v, 512)
	assert.Equal(t, float32(120), sum(v))

	// black: r = g = 0, b = 1
	black := RGBHistogram(pixel.Fill(2, 2, pixel.Pixel{}), 8)
	assert.Equal(t, float32(4), black[7])

	// neutral gray: every ratio is 1/3 -> bin round(7/3) = 2
	gray := RGBHistogram(pixel.Fill(1, 1, pixel.Pixel{100, 100, 100}), 8)
	assert.Equal(t, float32(1), gray[2*64+2*8+2])
}

func TestSpatialHistogram(t *testing.T) {
	t.Run("odd rows go to bottom half", func(t *testing.T) {
		g := pixel.NewGrid(5, 2)
		for y := 0; y < 5; y++ {
			for x := 0; x < 2; x++ {
				if y < 2 {
					g.Set(y, x, pixel.Pixel{0, 0, 255})
				} else {
					g.Set(y, x, pixel.Pixel{255, 0, 0})
				}
			}
		}
		v, err := SpatialHistogram(g)
		require.NoError(t, err)
		require.Len(t, v, 1024)
		assert.Equal(t, float32(4), v[7*64])
		assert.Equal(t, float32(6), v[512+7])
		assert.Equal(t, float32(4), sum(v[:512]))
		assert.Equal(t, float32(6), sum(v[512:]))
	})

	t.Run("totals", func(t *testing.T) {
		v, err := SpatialHistogram(ramp(9, 4))
		require.NoError(t, err)
		assert.Equal(t, float32(36), sum(v))
	})

	t.Run("empty", func(t *testing.T) {
		_, err := SpatialHistogram(pixel.NewGrid(0, 3))
		assert.ErrorIs(t, err, ErrEmptyInput)
	})
}

func TestTextureHistogram(t *testing.T) {
	t.Run("flat image has no gradient", func(t *testing.T) {
		v, err := TextureHistogram(pixel.Fill(6, 8, pixel.Pixel{40, 80, 120}))
		require.NoError(t, err)
		require.Len(t, v, 528)
		assert.Equal(t, float32(48), v[0])
		assert.Equal(t, float32(48), sum(v[:16]))
		assert.Equal(t, float32(48), sum(v[16:]))
	})

	t.Run("vertical edge", func(t *testing.T) {
		g := pixel.NewGrid(4, 6)
		for y := 0; y < 4; y++ {
			for x := 3; x < 6; x++ {
				g.Set(y, x, pixel.Pixel{255, 255, 255})
			}
		}
		v, err := TextureHistogram(g)
		require.NoError(t, err)
		assert.Equal(t, float32(24), sum(v[:16]))
		// columns 2 and 3 see |gx| = 4*255 saturated to 255, gy = 0 -> 128
		assert.Equal(t, float32(8), v[128*16/256])
		assert.Equal(t, float32(16), v[0])
	})

	t.Run("empty", func(t *testing.T) {
		_, err := TextureHistogram(pixel.NewGrid(3, 0))
		assert.ErrorIs(t, err, ErrEmptyInput)
	})
}

func TestReflect101(t *testing.T) {
	assert.Equal(t, 1, reflect101(-1, 5))
	assert.Equal(t, 3, reflect101(5, 5))
	assert.Equal(t, 2, reflect101(2, 5))
	assert.Equal(t, 0, reflect101(-1, 1))
}

func TestCompositeDescriptor(t *testing.T) {
	emb := []float32{1, 2, 3}
	skin := pixel.Pixel{120, 160, 220}

	v, err := CompositeDescriptor(pixel.Fill(20, 20, skin), emb, DefaultSkinTone())
	require.NoError(t, err)
	require.Len(t, v, 3+CompositeTail)
	assert.Equal(t, emb, v[:3])
	// hue 12 -> bin 12*16/180 = 1; region is 10x10
	assert.Equal(t, float32(100), v[3+1])
	assert.Equal(t, float32(100), sum(v[3:3+16]))
	assert.InDelta(t, float32(pixel.Gray(skin)), v[len(v)-1], 1e-4)

	// saturated blue is not skin
	v, err = CompositeDescriptor(pixel.Fill(20, 20, pixel.Pixel{255, 0, 0}), emb, DefaultSkinTone())
	require.NoError(t, err)
	assert.Equal(t, float32(0), sum(v[3:3+16]))

	_, err = CompositeDescriptor(pixel.NewGrid(0, 0), emb, DefaultSkinTone())
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestCompositeDescriptor_TinyRegion(t *testing.T) {
	v, err := CompositeDescriptor(pixel.Fill(3, 3, pixel.Pixel{9, 9, 9}), nil, DefaultSkinTone())
	require.NoError(t, err)
	assert.Equal(t, make(Vector, CompositeTail), v)
}

func TestExtractor_Extract(t *testing.T) {
	table := mapLookup{"a.jpg": {3, 4}}
	ex := NewExtractor(WithEmbeddings(table))
	img := ramp(10, 10)

	tests := []struct {
		scheme Scheme
		id     string
		want   int
	}{
		{New(Baseline), "", 147},
		{New(RGChromaticity), "", 256},
		{New(RGBChromaticity), "", 512},
		{Scheme{Kind: RGChromaticity, Bins: 4}, "", 16},
		{New(SpatialColor), "", 1024},
		{New(TextureColor), "", 528},
		{New(Embedding), "a.jpg", 2},
		{New(Composite), "a.jpg", 2 + CompositeTail},
	}
	for _, tt := range tests {
		t.Run(tt.scheme.String(), func(t *testing.T) {
			v, err := ex.Extract(tt.scheme, tt.id, img)
			require.NoError(t, err)
			assert.Len(t, v, tt.want)
			assert.Equal(t, tt.want, tt.scheme.Len(2))
		})
	}
}

func TestExtractor_EmbeddingMiss(t *testing.T) {
	ex := NewExtractor(WithEmbeddings(mapLookup{}))
	_, err := ex.Extract(New(Embedding), "nope.jpg", nil)
	assert.ErrorIs(t, err, ErrLookupMiss)
	_, err = ex.Extract(New(Composite), "nope.jpg", ramp(8, 8))
	assert.ErrorIs(t, err, ErrLookupMiss)

	_, err = NewExtractor().Extract(New(Embedding), "a.jpg", nil)
	assert.ErrorIs(t, err, ErrLookupMiss)
}

func TestExtractor_EmbeddingIsCopied(t *testing.T) {
	table := mapLookup{"a.jpg": {1, 2}}
	v, err := NewExtractor(WithEmbeddings(table)).Extract(New(Embedding), "a.jpg", nil)
	require.NoError(t, err)
	v[0] = 99
	assert.Equal(t, float32(1), table["a.jpg"][0])
}

func TestExtractor_DoesNotMutateSource(t *testing.T) {
	img := ramp(12, 12)
	before := ramp(12, 12)
	ex := NewExtractor()
	for _, k := range []Kind{Baseline, RGChromaticity, RGBChromaticity, SpatialColor, TextureColor} {
		_, err := ex.Extract(New(k), "", img)
		require.NoError(t, err)
	}
	assert.Equal(t, before, img)
}

func TestParse(t *testing.T) {
	s, err := Parse("RG_Chromaticity", 0)
	require.NoError(t, err)
	assert.Equal(t, Scheme{Kind: RGChromaticity, Bins: 16}, s)

	s, err = Parse("rgb-chromaticity", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Bins)

	s, err = Parse("baseline", 12)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Bins)

	_, err = Parse("sift", 0)
	assert.ErrorIs(t, err, ErrInvalidScheme)

	_, err = Parse("rgb-chromaticity", 100)
	assert.ErrorIs(t, err, ErrInvalidScheme)

	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
}
