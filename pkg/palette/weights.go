package palette

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/obj2nbt/pkg/encoding"
)

// ErrEmptyWeightTable is returned when sampling from a table whose weights sum to zero.
var ErrEmptyWeightTable = errors.New("weight table has no positive weight")

// WeightedBlock pairs a block identifier with a non-negative relative weight.
type WeightedBlock struct {
	ID     string
	Weight float64
}

// WeightTable is an ordered list of weighted blocks. Order determines which
// entry a given random draw selects.
type WeightTable []WeightedBlock

// Total returns the sum of all weights.
func (t WeightTable) Total() float64 {
	var sum float64
	for _, b := range t {
		sum += b.Weight
	}
	return sum
}

// Contains reports whether id is present in the table.
func (t WeightTable) Contains(id string) bool {
	for _, b := range t {
		if b.ID == id {
			return true
		}
	}
	return false
}

// Sample draws an identifier with probability proportional to its weight.
func (t WeightTable) Sample(rng *rand.Rand) (string, error) {
	total := t.Total()
	if total <= 0 {
		return "", ErrEmptyWeightTable
	}
	return t.pick(rng.Float64() * total), nil
}

// pick walks the cumulative weights and returns the first entry whose
// cumulative weight exceeds draw.
func (t WeightTable) pick(draw float64) string {
	var cumulative float64
	last := ""
	for _, b := range t {
		if b.Weight <= 0 {
			continue
		}
		cumulative += b.Weight
		last = b.ID
		if draw < cumulative {
			return b.ID
		}
	}
	// Float rounding can leave draw == total.
	return last
}

// ParseWeights reads "identifier,weight" lines. Malformed lines and negative
// weights are skipped and reported.
func ParseWeights(data []byte) (WeightTable, []Diagnostic) {
	var table WeightTable
	var diags []Diagnostic

	for i, raw := range encoding.Lines(encoding.ToUTF8String(data)) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != 2 {
			diags = append(diags, Diagnostic{Line: i + 1, Text: line, Reason: "expected 2 fields"})
			continue
		}
		id := strings.TrimSpace(parts[0])
		w, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || !(w >= 0) || math.IsInf(w, 1) || id == "" {
			diags = append(diags, Diagnostic{Line: i + 1, Text: line, Reason: "invalid weight"})
			continue
		}
		table = append(table, WeightedBlock{ID: id, Weight: w})
	}

	return table, diags
}

// ParseWeightsFile parses a weight table from disk.
func ParseWeightsFile(path string) (WeightTable, []Diagnostic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading weight file: %w", err)
	}
	table, diags := ParseWeights(data)
	if table.Total() <= 0 {
		return nil, diags, fmt.Errorf("%w: %s", ErrEmptyWeightTable, path)
	}
	return table, diags, nil
}
