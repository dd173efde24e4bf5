package sorts_test

import (
	"sort"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/greensort/greensort/bench"
	"github.com/greensort/greensort/bench/internal/testutil"
	"github.com/greensort/greensort/bench/sorts"
)

func newHarness(t *testing.T) *bench.Harness {
	t.Helper()
	table, err := bench.DefaultTable(bench.DefaultTuning())
	require.NoError(t, err)
	logger, _ := test.NewNullLogger()
	return bench.NewHarness(table, bench.WithLogger(logger))
}

func TestHarness_PdqsortOutOfPlace(t *testing.T) {
	// GIVEN a short unsorted sequence
	h := newHarness(t)
	data := []float64{5, 3, 1, 4, 2}

	// WHEN it is sorted out of place
	rec, err := h.Run("pdqsort", bench.OutOfPlace, data)

	// THEN the caller's buffer holds the sorted result and the record describes the run
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, data)
	assert.Equal(t, 5, rec.N)
	assert.Equal(t, 1.0, rec.CostMultiplier)
	assert.Equal(t, 2, rec.ModeFlag)
	assert.GreaterOrEqual(t, rec.ElapsedSeconds, 0.0)
}

func TestHarness_EveryAlgorithmAndMode(t *testing.T) {
	h := newHarness(t)
	for _, id := range h.Table().IDs() {
		for _, mode := range bench.Modes {
			t.Run(id+"/"+mode.String(), func(t *testing.T) {
				data := testutil.RandomInput(3000, 13)

				rec, err := h.Run(id, mode, data)

				require.NoError(t, err)
				assert.Equal(t, 3000, rec.N)
				assert.Equal(t, id, rec.Algorithm)
				assert.Equal(t, mode.Flag(), rec.ModeFlag)
				assert.GreaterOrEqual(t, rec.ElapsedSeconds, 0.0)
				testutil.AssertSorted(t, data, nil)
			})
		}
	}
}

func TestHarness_InPlaceAndOutOfPlaceAgree(t *testing.T) {
	h := newHarness(t)
	input := testutil.TaggedInput(2500, 40, 99)
	for _, id := range h.Table().IDs() {
		inPlace := append([]float64(nil), input...)
		outOfPlace := append([]float64(nil), input...)

		_, err := h.Run(id, bench.InPlace, inPlace, bench.WithKey(sorts.FloorKey))
		require.NoError(t, err)
		_, err = h.Run(id, bench.OutOfPlace, outOfPlace, bench.WithKey(sorts.FloorKey))
		require.NoError(t, err)

		assert.Equal(t, inPlace, outOfPlace, id)
	}
}

func TestHarness_EmptyInput(t *testing.T) {
	h := newHarness(t)
	for _, d := range h.Table().Descriptors() {
		if !d.AcceptsEmpty {
			continue
		}
		for _, mode := range bench.Modes {
			rec, err := h.Run(d.ID, mode, []float64{})

			require.NoError(t, err, d.ID)
			assert.Equal(t, 0, rec.N)
		}
	}
}

func TestHarness_StrategyFailureReturnsNoRecord(t *testing.T) {
	h := newHarness(t)

	rec, err := h.Run("learnsort", bench.OutOfPlace, []float64{})

	assert.ErrorIs(t, err, sorts.ErrEmptyInput)
	assert.Nil(t, rec)
}

func TestHarness_RecordsBufferSwapped(t *testing.T) {
	h := newHarness(t)
	data := make([]float64, 200)
	for i := range data {
		data[i] = 1 + float64(i%4)/4
	}

	rec, err := h.Run("skasort", bench.InPlace, data)

	require.NoError(t, err)
	assert.True(t, rec.BufferSwapped)
	testutil.AssertSorted(t, data, nil)
}

func TestHarness_ElapsedGrowsWithInputSize(t *testing.T) {
	if testing.Short() {
		t.Skip("timing trials skipped in -short mode")
	}
	// GIVEN repeated pdqsort trials at three input sizes a decade apart
	h := newHarness(t)
	const trials = 7
	sizes := []int{1_000, 10_000, 100_000}

	// WHEN each size is measured on fresh random copies
	medians := make([]float64, len(sizes))
	for i, n := range sizes {
		elapsed := make([]float64, trials)
		for k := range elapsed {
			data := testutil.RandomInput(n, int64(k+1))
			rec, err := h.Run("pdqsort", bench.InPlace, data)
			require.NoError(t, err)
			elapsed[k] = rec.ElapsedSeconds
		}
		sort.Float64s(elapsed)
		medians[i] = stat.Quantile(0.5, stat.Empirical, elapsed, nil)
	}

	// THEN the median elapsed time does not decrease as n grows
	for i := 1; i < len(medians); i++ {
		assert.GreaterOrEqual(t, medians[i], medians[i-1],
			"median elapsed at n=%d below n=%d: %v", sizes[i], sizes[i-1], medians)
	}
}
