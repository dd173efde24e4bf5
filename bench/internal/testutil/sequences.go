// Package testutil provides shared test infrastructure for the greensort packages:
// golden sequences, tagged stability inputs and ordering assertions.
package testutil

import (
	"encoding/json"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/golden_sequences.json.
type GoldenDataset struct {
	Cases []GoldenCase `json:"cases"`
}

// GoldenCase is one input sequence with its expected sorted form.
type GoldenCase struct {
	Name  string    `json:"name"`
	Input []float64 `json:"input"`
	Want  []float64 `json:"want"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: bench/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "golden_sequences.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	return &dataset
}

// TaggedInput returns n values whose integer part is a random group in [0, groups)
// and whose fractional part encodes the original position. Under a floor ordering
// all values of a group compare equal, so a stable sort keeps their fractions
// ascending.
func TaggedInput(n, groups int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(rng.Intn(groups)) + float64(i+1)/float64(n+1)
	}
	return out
}

// RandomInput returns n uniform values in [-1000, 1000).
func RandomInput(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Float64()*2000 - 1000
	}
	return out
}

// AssertSorted fails the test unless key(data[i-1]) <= key(data[i]) for every i.
// A nil key is the natural order.
func AssertSorted(t *testing.T, data []float64, key func(float64) float64) {
	t.Helper()
	if key == nil {
		key = func(x float64) float64 { return x }
	}
	for i := 1; i < len(data); i++ {
		if key(data[i]) < key(data[i-1]) {
			t.Fatalf("not sorted at index %d: %v before %v", i, data[i-1], data[i])
		}
	}
}

// AssertStable fails the test unless values sharing an integer part appear with
// ascending fractional parts, as produced by sorting TaggedInput stably.
func AssertStable(t *testing.T, data []float64) {
	t.Helper()
	last := make(map[float64]float64)
	for i, x := range data {
		group, tag := math.Floor(x), x-math.Floor(x)
		if prev, ok := last[group]; ok && tag <= prev {
			t.Fatalf("unstable at index %d: group %v tag %v after %v", i, group, tag, prev)
		}
		last[group] = tag
	}
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
