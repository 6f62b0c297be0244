package bruteforce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/cbir/distance"
	"github.com/viant/cbir/feature"
	"github.com/viant/cbir/index"
)

func TestIndex_BuildQuery(t *testing.T) {
	idx := New(feature.New(feature.Embedding))
	require.NoError(t, idx.Build(
		[]string{"A", "B", "C"},
		[][]float32{{0, 0}, {1, 1}, {1, 1}},
	))
	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, 2, idx.Dim())

	hits, found, err := idx.Query([]float32{0, 0}, distance.SumSquaredDifference, 2, index.Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, found)
	assert.Equal(t, []index.Hit{{ID: "A", Score: 0}, {ID: "B", Score: 2}}, hits)

	hits, found, err = idx.Query([]float32{0, 0}, distance.SumSquaredDifference, 2, index.Options{SuppressSelfMatch: true})
	require.NoError(t, err)
	assert.Equal(t, 2, found)
	assert.Equal(t, []index.Hit{{ID: "B", Score: 2}, {ID: "C", Score: 2}}, hits)

	_, _, err = idx.Query([]float32{0}, distance.SumSquaredDifference, 2, index.Options{})
	assert.Error(t, err)
	_, _, err = idx.Query([]float32{0, 0}, nil, 2, index.Options{})
	assert.Error(t, err)
}

func TestIndex_BuildErrors(t *testing.T) {
	idx := New(feature.New(feature.Baseline))
	assert.Error(t, idx.Build([]string{"a"}, nil))
	assert.Error(t, idx.Build([]string{"a", "b"}, [][]float32{{1}, {1, 2}}))

	require.NoError(t, idx.Build(nil, nil))
	hits, found, err := idx.Query([]float32{1}, distance.Cosine, 3, index.Options{})
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.Equal(t, 0, found)
}

func TestIndex_MarshalRoundTrip(t *testing.T) {
	scheme, err := feature.Parse("rg-chromaticity", 4)
	require.NoError(t, err)
	src := New(scheme)
	require.NoError(t, src.Build(
		[]string{"pic.0001.jpg", "pic.0002.jpg"},
		[][]float32{
			{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
			{16, 15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1},
		},
	))
	data, err := src.MarshalBinary()
	require.NoError(t, err)

	var dst Index
	require.NoError(t, dst.UnmarshalBinary(data))
	assert.Equal(t, scheme, dst.Scheme())
	assert.Equal(t, src.IDs(), dst.IDs())
	assert.Equal(t, src.vecs, dst.vecs)

	empty, err := New(feature.New(feature.SpatialColor)).MarshalBinary()
	require.NoError(t, err)
	var restored Index
	require.NoError(t, restored.UnmarshalBinary(empty))
	assert.Equal(t, feature.SpatialColor, restored.Scheme().Kind)
	assert.Equal(t, 0, restored.Len())
}

func TestIndex_UnmarshalInvalid(t *testing.T) {
	var idx Index
	assert.Error(t, idx.UnmarshalBinary(nil))
	assert.Error(t, idx.UnmarshalBinary([]byte("XXXX00000000")))

	src := New(feature.New(feature.Embedding))
	require.NoError(t, src.Build([]string{"a"}, [][]float32{{1, 2, 3}}))
	data, err := src.MarshalBinary()
	require.NoError(t, err)
	for _, cut := range []int{6, 12, len(data) - 1} {
		assert.Error(t, idx.UnmarshalBinary(data[:cut]), "cut at %d", cut)
	}
}

func TestIndex_VectorLengthMustFitScheme(t *testing.T) {
	tests := []struct {
		name    string
		scheme  feature.Scheme
		dim     int
		wantErr bool
	}{
		{"baseline", feature.New(feature.Baseline), 147, false},
		{"baseline short", feature.New(feature.Baseline), 146, true},
		{"rg bins", feature.Scheme{Kind: feature.RGChromaticity, Bins: 4}, 16, false},
		{"rg wrong bins", feature.Scheme{Kind: feature.RGChromaticity, Bins: 4}, 64, true},
		{"spatial", feature.New(feature.SpatialColor), 1024, false},
		{"texture", feature.New(feature.TextureColor), 528, false},
		{"texture short", feature.New(feature.TextureColor), 512, true},
		{"embedding any", feature.New(feature.Embedding), 5, false},
		{"composite", feature.New(feature.Composite), 529, false},
		{"composite without embedding", feature.New(feature.Composite), 17, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.scheme).Build([]string{"a"}, [][]float32{make([]float32, tt.dim)})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}

	// a file whose vectors do not fit its header scheme is rejected on load
	bad := &Index{scheme: feature.New(feature.Baseline), ids: []string{"a"}, vecs: [][]float32{{1, 2, 3}}, dim: 3}
	data, err := bad.MarshalBinary()
	require.NoError(t, err)
	var idx Index
	assert.Error(t, idx.UnmarshalBinary(data))
	assert.Equal(t, 0, idx.Len())
}
