package sorts

import (
	"math"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/greensort/greensort/bench"
	"github.com/greensort/greensort/bench/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// smallTuning shrinks every threshold so that small inputs reach the recursive
// and merging code paths.
func smallTuning() bench.Tuning {
	t := bench.DefaultTuning()
	t.InsertionThreshold = 4
	t.MinGallop = 2
	t.Workers = 3
	t.SampleSortBaseCase = 16
	t.SampleSortBuckets = 8
	t.LearnedBucketSize = 4
	t.LearnedSampleRatio = 0.1
	return t
}

func tunings() map[string]bench.Tuning {
	copyBoth := smallTuning()
	copyBoth.MergePolicy = "copy-both"
	return map[string]bench.Tuning{
		"default":   bench.DefaultTuning(),
		"small":     smallTuning(),
		"copy-both": copyBoth,
	}
}

func mustTable(t *testing.T, tuning bench.Tuning) *bench.Table {
	t.Helper()
	table, err := NewTable(tuning)
	require.NoError(t, err)
	return table
}

func sortedCopy(data []float64) []float64 {
	out := append([]float64(nil), data...)
	sort.Float64s(out)
	return out
}

func patterns(n int) map[string][]float64 {
	random := testutil.RandomInput(n, 7)
	ascending := make([]float64, n)
	descending := make([]float64, n)
	sawtooth := make([]float64, n)
	organPipe := make([]float64, n)
	fewUnique := make([]float64, n)
	equal := make([]float64, n)
	for i := 0; i < n; i++ {
		ascending[i] = float64(i)
		descending[i] = float64(n - i)
		sawtooth[i] = float64(i % 37)
		organPipe[i] = float64(min(i, n-i))
		fewUnique[i] = float64((i * 7919) % 5)
		equal[i] = 3.5
	}
	return map[string][]float64{
		"random":     random,
		"ascending":  ascending,
		"descending": descending,
		"sawtooth":   sawtooth,
		"organ-pipe": organPipe,
		"few-unique": fewUnique,
		"all-equal":  equal,
	}
}

func TestNewTable_RegistersEveryVariant(t *testing.T) {
	table := mustTable(t, bench.DefaultTuning())

	assert.Equal(t, []string{
		"gfx-timsort", "ips4o", "is4o", "iskasort", "learnsort", "pdqsort",
		"pdqsort-branchless", "peeksort", "powersort", "powersort4", "powersort4s",
		"skasort", "timsort",
	}, table.IDs())
}

func TestNewTable_CostMultipliers(t *testing.T) {
	table := mustTable(t, bench.DefaultTuning())
	tests := []struct {
		id   string
		n    int
		want float64
	}{
		{"pdqsort", 5, 1.0},
		{"timsort", 5, 1.5},
		{"powersort", 5, 1.5},
		{"powersort4s", 5, 2.0},
		{"skasort", 5, 2.0},
		{"learnsort", 5, 2.0},
		{"ips4o", 100, 1.1},
		{"is4o", 10000, 1.01},
	}
	for _, tc := range tests {
		e, err := table.Lookup(tc.id)
		require.NoError(t, err)
		testutil.AssertFloat64Equal(t, tc.id, tc.want, e.Descriptor.CostMultiplier(tc.n), 1e-12)
	}
}

func TestNewTable_InvalidTuning(t *testing.T) {
	tuning := bench.DefaultTuning()
	tuning.MergePolicy = "copy-all"

	_, err := NewTable(tuning)

	assert.Error(t, err)
}

func TestDefaultTable_InstalledByInit(t *testing.T) {
	table, err := bench.DefaultTable(bench.DefaultTuning())
	require.NoError(t, err)
	assert.Equal(t, 13, table.Len())
}

func TestStrategies_GoldenSequences(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	table := mustTable(t, bench.DefaultTuning())
	for _, id := range table.IDs() {
		e, _ := table.Lookup(id)
		for _, tc := range dataset.Cases {
			t.Run(id+"/"+tc.Name, func(t *testing.T) {
				data := append([]float64(nil), tc.Input...)

				_, err := e.Strategy.Sort(data, nil)

				require.NoError(t, err)
				assert.Equal(t, tc.Want, data)
			})
		}
	}
}

func TestStrategies_Patterns(t *testing.T) {
	for name, tuning := range tunings() {
		table := mustTable(t, tuning)
		for _, n := range []int{1, 2, 17, 100, 1000, 5000} {
			for pattern, input := range patterns(n) {
				want := sortedCopy(input)
				for _, id := range table.IDs() {
					e, _ := table.Lookup(id)
					data := append([]float64(nil), input...)

					_, err := e.Strategy.Sort(data, nil)

					require.NoError(t, err, "%s/%s/%s/%d", name, id, pattern, n)
					if diff := cmp.Diff(want, data); diff != "" {
						t.Fatalf("%s/%s/%s/%d mismatch (-want +got):\n%s", name, id, pattern, n, diff)
					}
				}
			}
		}
	}
}

func TestStrategies_StableVariantsKeepTagOrder(t *testing.T) {
	for name, tuning := range tunings() {
		table := mustTable(t, tuning)
		for _, d := range table.Descriptors() {
			if !d.Stable {
				continue
			}
			e, _ := table.Lookup(d.ID)
			for _, n := range []int{50, 1000, 10000} {
				for _, groups := range []int{3, 100} {
					// GIVEN tagged values whose integer parts collide
					data := testutil.TaggedInput(n, groups, int64(n+groups))

					// WHEN sorted by integer part only
					_, err := e.Strategy.Sort(data, FloorKey)

					// THEN equal keys keep their original relative order
					require.NoError(t, err, "%s/%s", name, d.ID)
					testutil.AssertSorted(t, data, FloorKey)
					testutil.AssertStable(t, data)
				}
			}
		}
	}
}

func TestStrategies_UnstableVariantsStillOrderByKey(t *testing.T) {
	table := mustTable(t, smallTuning())
	for _, d := range table.Descriptors() {
		if d.Stable {
			continue
		}
		e, _ := table.Lookup(d.ID)
		data := testutil.TaggedInput(2000, 10, 3)

		_, err := e.Strategy.Sort(data, FloorKey)

		require.NoError(t, err, d.ID)
		testutil.AssertSorted(t, data, FloorKey)
	}
}

func TestStrategies_DescendingKey(t *testing.T) {
	table := mustTable(t, smallTuning())
	for _, id := range table.IDs() {
		e, _ := table.Lookup(id)
		data := testutil.RandomInput(3000, 11)

		_, err := e.Strategy.Sort(data, DescendingKey)

		require.NoError(t, err, id)
		testutil.AssertSorted(t, data, DescendingKey)
	}
}

func TestStrategies_Idempotent(t *testing.T) {
	table := mustTable(t, smallTuning())
	for _, id := range table.IDs() {
		e, _ := table.Lookup(id)
		data := testutil.RandomInput(4000, 5)
		_, err := e.Strategy.Sort(data, nil)
		require.NoError(t, err)
		once := append([]float64(nil), data...)

		_, err = e.Strategy.Sort(data, nil)

		require.NoError(t, err)
		assert.Equal(t, once, data, id)
	}
}

func TestStrategies_EmptyInput(t *testing.T) {
	table := mustTable(t, bench.DefaultTuning())
	for _, d := range table.Descriptors() {
		e, _ := table.Lookup(d.ID)

		_, err := e.Strategy.Sort([]float64{}, nil)

		if d.AcceptsEmpty {
			assert.NoError(t, err, d.ID)
		} else {
			assert.ErrorIs(t, err, ErrEmptyInput, d.ID)
		}
	}
}

func TestPowersort4Sentinel_RejectsInfiniteKeys(t *testing.T) {
	s := Powersort4{MinRun: 4, Sentinel: true}
	tests := []struct {
		name string
		data []float64
		key  bench.KeyFunc
	}{
		{"positive infinity", []float64{3, math.Inf(1), 1}, nil},
		{"nan", []float64{3, math.NaN(), 1}, nil},
		{"negative infinity under descending key", []float64{3, math.Inf(-1), 1}, DescendingKey},
		{"key without an infinite top", []float64{3, 2, 1}, math.Atan},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Sort(tc.data, tc.key)

			assert.ErrorIs(t, err, ErrSentinelKey)
		})
	}
}

func TestPowersort4Sentinel_NegativeInfinityIsAccepted(t *testing.T) {
	data := []float64{3, math.Inf(-1), 1, 2, 0, -4, 9, 8, 7}

	_, err := Powersort4{MinRun: 2, Sentinel: true}.Sort(data, nil)

	require.NoError(t, err)
	assert.Equal(t, []float64{math.Inf(-1), -4, 0, 1, 2, 3, 7, 8, 9}, data)
}

func TestPowersort4Sentinel_DescendingKey(t *testing.T) {
	// GIVEN runs that are ascending under a descending ordering
	data := []float64{3, 1, 2, 9, 8, 7, 0, 5, 4, 6, math.Inf(1), -2}

	// WHEN they are merged with sentinels
	_, err := Powersort4{MinRun: 2, Sentinel: true}.Sort(data, DescendingKey)

	// THEN -Inf terminates each run and the result is in descending order
	require.NoError(t, err)
	assert.Equal(t, []float64{math.Inf(1), 9, 8, 7, 6, 5, 4, 3, 2, 1, 0, -2}, data)
}

func TestPowersort4Sentinel_DescendingKeyIsStable(t *testing.T) {
	descendingFloor := func(x float64) float64 { return -math.Floor(x) }
	data := testutil.TaggedInput(3000, 12, 9)

	_, err := Powersort4{MinRun: 8, Sentinel: true}.Sort(data, descendingFloor)

	require.NoError(t, err)
	testutil.AssertSorted(t, data, descendingFloor)
	testutil.AssertStable(t, data)
}

func TestPowersort4_AcceptsInfiniteKeysWithoutSentinel(t *testing.T) {
	data := []float64{3, math.Inf(1), 1, 2}

	_, err := Powersort4{MinRun: 1}.Sort(data, nil)

	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, math.Inf(1)}, data)
}

func TestSkasort_ReportsBufferSwapped(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		want bool
	}{
		// Same exponent, mantissa differs in one byte: a single pass.
		{"one pass", []float64{1.75, 1, 1.5, 1.25, 1.75, 1.25}, true},
		// Powers of two differ in the two top bytes: two passes.
		{"two passes", []float64{8, 4, 2, 1, 16, 2}, false},
		// Identical keys: every pass is skipped.
		{"no pass", []float64{2, 2, 2}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			want := sortedCopy(tc.data)

			out, err := Skasort{}.Sort(tc.data, nil)

			require.NoError(t, err)
			assert.Equal(t, tc.want, out.BufferSwapped)
			assert.Equal(t, want, tc.data)
		})
	}
}

func TestSortableBits_PreservesOrder(t *testing.T) {
	values := []float64{math.Inf(-1), -1e300, -2, -1, -1e-300, 0, 1e-300, 1, 2, 1e300, math.Inf(1)}
	for i := 1; i < len(values); i++ {
		assert.Less(t, sortableBits(values[i-1]), sortableBits(values[i]), "%v < %v", values[i-1], values[i])
	}
}

func TestNodePower(t *testing.T) {
	// GIVEN runs of an 8-element array
	// THEN the middle boundary is the root and quarter boundaries sit one level below
	assert.Equal(t, 1, nodePower(0, 8, 0, 4, 8))
	assert.Equal(t, 2, nodePower(0, 8, 0, 2, 4))
	assert.Equal(t, 2, nodePower(0, 8, 4, 6, 8))
	assert.Equal(t, 3, nodePower(0, 8, 0, 1, 2))
}

func TestTimsort_MinRunLength(t *testing.T) {
	ts := timsorter{minMerge: 32}
	assert.Equal(t, 31, ts.minRunLength(31))
	assert.Equal(t, 16, ts.minRunLength(64))
	assert.Equal(t, 25, ts.minRunLength(100))
	assert.Equal(t, 17, ts.minRunLength(65))
}

func TestMerger_PoliciesAgree(t *testing.T) {
	base := []float64{1, 4, 4, 9, 12, 2, 3, 4, 10}
	for _, copyBoth := range []bool{false, true} {
		data := append([]float64(nil), base...)
		m := merger{less: naturalLess, copyBoth: copyBoth}

		m.merge(data, 0, 5, len(data))

		assert.Equal(t, []float64{1, 2, 3, 4, 4, 4, 9, 10, 12}, data)
	}
}

func TestMerger_MergeStagesHandlesOddRunCounts(t *testing.T) {
	data := []float64{5, 6, 1, 2, 9, 3, 4}
	m := merger{less: naturalLess}

	m.mergeStages(data, []int{0, 2, 4, 5, 7})

	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 9}, data)
}

func TestLearnsort_HandlesInfinities(t *testing.T) {
	data := testutil.RandomInput(1000, 9)
	data[10] = math.Inf(1)
	data[500] = math.Inf(-1)
	want := sortedCopy(data)

	_, err := Learnsort{BucketSize: 10, SampleRatio: 0.2, Seed: 1}.Sort(data, nil)

	require.NoError(t, err)
	assert.Equal(t, want, data)
}

func TestSampleSort_ParallelMatchesSequential(t *testing.T) {
	input := testutil.RandomInput(50000, 21)
	seq := append([]float64(nil), input...)
	par := append([]float64(nil), input...)

	_, err := SampleSort{BaseCase: 64, Buckets: 16, Seed: 3}.Sort(seq, nil)
	require.NoError(t, err)
	_, err = SampleSort{BaseCase: 64, Buckets: 16, Seed: 3, Parallel: true, Workers: 4}.Sort(par, nil)
	require.NoError(t, err)

	assert.Equal(t, sortedCopy(input), seq)
	assert.Equal(t, seq, par)
}

func TestKeys_Names(t *testing.T) {
	assert.True(t, IsValidKey("identity"))
	assert.True(t, IsValidKey("floor"))
	assert.False(t, IsValidKey("round"))
	assert.Nil(t, Keys["identity"])
}
