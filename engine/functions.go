package engine

import (
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/viant/cbir/distance"
	sqlite "modernc.org/sqlite"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterDistanceFunctions registers cbir_cosine, cbir_ssd and
// cbir_intersection with the driver. Each takes two little-endian float32
// BLOBs and returns a distance (lower is more similar).
// Connections opened before the first call will not see the functions.
func RegisterDistanceFunctions() error {
	registerOnce.Do(func() {
		for name, fn := range map[string]distance.Func{
			"cbir_cosine":       distance.Cosine,
			"cbir_ssd":          distance.SumSquaredDifference,
			"cbir_intersection": distance.HistogramIntersection,
		} {
			if err := sqlite.RegisterDeterministicScalarFunction(name, 2, scalar(name, fn)); err != nil {
				registerErr = fmt.Errorf("engine: register %s: %w", name, err)
				return
			}
		}
	})
	return registerErr
}

func scalar(name string, fn distance.Func) func(*sqlite.FunctionContext, []driver.Value) (driver.Value, error) {
	return func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%s: expected 2 arguments, got %d", name, len(args))
		}
		a, err := asEmbedding(args[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		b, err := asEmbedding(args[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if a == nil || b == nil {
			return nil, nil
		}
		return float64(fn(a, b)), nil
	}
}

func asEmbedding(arg driver.Value) ([]float32, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case []byte:
		return decodeEmbedding(v)
	default:
		return nil, fmt.Errorf("unsupported argument type %T for embedding; want BLOB", arg)
	}
}

// Local decoder so the embedding package can depend on engine in tests.
func decodeEmbedding(b []byte) ([]float32, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding blob length %d", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}
