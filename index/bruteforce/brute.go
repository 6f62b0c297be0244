package bruteforce

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/viant/cbir/distance"
	"github.com/viant/cbir/feature"
	"github.com/viant/cbir/index"
)

const (
	magic   = "CBIX"
	version = 1
)

// Index is a brute-force feature index for a single extraction scheme.
type Index struct {
	scheme feature.Scheme
	ids    []string
	vecs   [][]float32
	dim    int
}

// New returns an empty index for vectors produced by scheme.
func New(scheme feature.Scheme) *Index {
	return &Index{scheme: scheme}
}

// Scheme returns the extraction scheme the stored vectors were produced by.
func (i *Index) Scheme() feature.Scheme { return i.scheme }

// Len returns the number of stored vectors.
func (i *Index) Len() int { return len(i.ids) }

// Dim returns the common vector dimension, or 0 when empty.
func (i *Index) Dim() int { return i.dim }

// IDs returns the stored identifiers in insertion order.
func (i *Index) IDs() []string { return append([]string(nil), i.ids...) }

// Build loads ids and vectors in the given order.
func (i *Index) Build(ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("bruteforce: ids and vectors length mismatch: %d != %d", len(ids), len(vectors))
	}
	if len(ids) == 0 {
		i.ids, i.vecs, i.dim = nil, nil, 0
		return nil
	}
	dim := len(vectors[0])
	for j := range vectors {
		if len(vectors[j]) != dim {
			return fmt.Errorf("bruteforce: inconsistent vector dims %d vs %d", len(vectors[j]), dim)
		}
	}
	if err := checkLen(i.scheme, dim); err != nil {
		return err
	}
	i.ids = append([]string(nil), ids...)
	i.vecs = append([][]float32(nil), vectors...)
	i.dim = dim
	return nil
}

// Query scores every stored vector against query with dist and ranks them
// with index.Rank.
func (i *Index) Query(query []float32, dist distance.Func, k int, opts index.Options) ([]index.Hit, int, error) {
	if dist == nil {
		return nil, 0, errors.New("bruteforce: nil distance function")
	}
	if len(i.vecs) == 0 {
		return nil, 0, nil
	}
	if len(query) != i.dim {
		return nil, 0, fmt.Errorf("bruteforce: query dim %d != index dim %d", len(query), i.dim)
	}
	hits := make([]index.Hit, len(i.vecs))
	for j, vec := range i.vecs {
		hits[j] = index.Hit{ID: i.ids[j], Score: dist(query, vec)}
	}
	hits, found := index.Rank(hits, k, opts)
	return hits, found, nil
}

// MarshalBinary stores: magic, version(uint32), kindLen(uint32), kind name,
// bins(uint32), n(uint32), then for each item: idLen(uint32), id bytes,
// dim(uint32), vec(float32[dim]).
func (i *Index) MarshalBinary() ([]byte, error) {
	kind := i.scheme.Kind.String()
	size := len(magic) + 16 + len(kind)
	for _, id := range i.ids {
		size += 8 + len(id) + 4*i.dim
	}
	out := make([]byte, 0, size)
	putU32 := func(v uint32) { out = binary.LittleEndian.AppendUint32(out, v) }
	putF32 := func(v float32) { out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v)) }

	out = append(out, magic...)
	putU32(version)
	putU32(uint32(len(kind)))
	out = append(out, kind...)
	putU32(uint32(i.scheme.Bins))
	putU32(uint32(len(i.ids)))
	for idx, id := range i.ids {
		putU32(uint32(len(id)))
		out = append(out, id...)
		vec := i.vecs[idx]
		putU32(uint32(len(vec)))
		for _, v := range vec {
			putF32(v)
		}
	}
	return out, nil
}

// UnmarshalBinary restores the index, including its scheme, from bytes.
func (i *Index) UnmarshalBinary(data []byte) error {
	if len(data) < len(magic)+8 || string(data[:len(magic)]) != magic {
		return errors.New("bruteforce: invalid data")
	}
	off := len(magic)
	need := func(n int) error {
		if off+n > len(data) {
			return errors.New("bruteforce: truncated")
		}
		return nil
	}
	getU32 := func() uint32 { v := binary.LittleEndian.Uint32(data[off : off+4]); off += 4; return v }

	if v := getU32(); v != version {
		return fmt.Errorf("bruteforce: unsupported version %d", v)
	}
	kindLen := int(getU32())
	if err := need(kindLen + 8); err != nil {
		return err
	}
	kind, err := feature.ParseKind(string(data[off : off+kindLen]))
	if err != nil {
		return fmt.Errorf("bruteforce: %w", err)
	}
	off += kindLen
	scheme := feature.Scheme{Kind: kind, Bins: int(getU32())}
	if err := scheme.Validate(); err != nil {
		return fmt.Errorf("bruteforce: %w", err)
	}
	n := int(getU32())
	if n > len(data) {
		return errors.New("bruteforce: invalid item count")
	}

	ids := make([]string, n)
	vecs := make([][]float32, n)
	for idx := 0; idx < n; idx++ {
		if err := need(4); err != nil {
			return err
		}
		idLen := int(getU32())
		if err := need(idLen + 4); err != nil {
			return errors.New("bruteforce: truncated id")
		}
		ids[idx] = string(data[off : off+idLen])
		off += idLen
		dim := int(getU32())
		if err := need(4 * dim); err != nil {
			return errors.New("bruteforce: truncated vec")
		}
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = math.Float32frombits(getU32())
		}
		vecs[idx] = vec
	}
	restored := New(scheme)
	if err := restored.Build(ids, vecs); err != nil {
		return err
	}
	*i = *restored
	return nil
}

// checkLen rejects a vector length scheme cannot produce. Embedding lengths
// follow the table, so only composite's fixed tail is checked for them.
func checkLen(scheme feature.Scheme, dim int) error {
	switch scheme.Kind {
	case feature.Embedding:
		if dim > 0 {
			return nil
		}
	case feature.Composite:
		if dim > feature.CompositeTail {
			return nil
		}
	default:
		if dim == scheme.Len(0) {
			return nil
		}
	}
	return fmt.Errorf("bruteforce: vector length %d does not fit scheme %v", dim, scheme)
}

// Ensure Index satisfies the index.Index interface.
var _ index.Index = (*Index)(nil)
