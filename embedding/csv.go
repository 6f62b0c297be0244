package embedding

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadCSV parses a row-oriented embedding table: the first column is the
// image identifier and the remaining columns are float values. A first row
// whose values do not parse as floats is treated as a header and skipped.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	var (
		ids     []string
		vectors [][]float32
		line    int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("embedding: failed to read csv: %w", err)
		}
		line++
		if len(record) < 2 {
			return nil, fmt.Errorf("embedding: csv line %d: want id and at least one value, got %d fields", line, len(record))
		}
		vec, err := parseValues(record[1:])
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("embedding: csv line %d: %w", line, err)
		}
		ids = append(ids, strings.TrimSpace(record[0]))
		vectors = append(vectors, vec)
	}
	return NewTable(ids, vectors)
}

// LoadCSV reads the embedding table stored at path.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

func parseValues(fields []string) ([]float32, error) {
	vec := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		vec[i] = float32(v)
	}
	return vec, nil
}
