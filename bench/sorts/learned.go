package sorts

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/greensort/greensort/bench"
)

const (
	learnedMinSample = 64
	learnedKnots     = 64
	learnedSmallSort = 32
)

// Learnsort sorts by a learned model of the key distribution. A random sample of
// the keys gives empirical quantiles; linear interpolation between them is a
// monotone CDF estimate that scatters elements into buckets of about BucketSize
// elements. Buckets are sorted individually and gathered back in order.
//
// Inputs too small or too uniform to fit a model are sorted with pdqsort. Empty
// input fails with ErrEmptyInput.
type Learnsort struct {
	BucketSize  int
	SampleRatio float64
	Seed        int64
}

// Sort implements bench.Strategy.
func (s Learnsort) Sort(data []float64, key bench.KeyFunc) (bench.Outcome, error) {
	n := len(data)
	if n == 0 {
		return bench.Outcome{}, ErrEmptyInput
	}
	less := lessOf(key)
	fallback := pdqSorter{less: less}
	if n <= 2*learnedMinSample {
		fallback.sort(data)
		return bench.Outcome{}, nil
	}

	kf := keyOrIdentity(key)
	m := min(max(int(s.SampleRatio*float64(n)), learnedMinSample), n)
	rng := rand.New(rand.NewSource(s.Seed))
	sample := make([]float64, m)
	for i := range sample {
		sample[i] = kf(data[rng.Intn(n)])
	}
	if floats.HasNaN(sample) || floats.Min(sample) == floats.Max(sample) {
		fallback.sort(data)
		return bench.Outcome{}, nil
	}
	sort.Float64s(sample)
	model := fitCDF(sample)

	buckets := max(2, n/max(s.BucketSize, 1))
	idx := make([]uint32, n)
	counts := make([]int, buckets+1)
	for i, x := range data {
		b := model.bucket(kf(x), buckets)
		idx[i] = uint32(b)
		counts[b+1]++
	}
	for b := 1; b <= buckets; b++ {
		counts[b] += counts[b-1]
	}
	starts := make([]int, buckets+1)
	copy(starts, counts)

	aux := make([]float64, n)
	for i, x := range data {
		b := idx[i]
		aux[counts[b]] = x
		counts[b]++
	}
	for b := 0; b < buckets; b++ {
		bucket := aux[starts[b]:starts[b+1]]
		if len(bucket) <= learnedSmallSort {
			insertionSort(bucket, less)
		} else {
			fallback.sort(bucket)
		}
	}
	copy(data, aux)
	return bench.Outcome{}, nil
}

// cdfModel is a piecewise-linear CDF through evenly spaced empirical quantiles.
type cdfModel struct {
	knots []float64
}

func fitCDF(sorted []float64) cdfModel {
	k := min(learnedKnots, len(sorted)-1)
	knots := make([]float64, k+1)
	for i := range knots {
		knots[i] = stat.Quantile(float64(i)/float64(k), stat.Empirical, sorted, nil)
	}
	return cdfModel{knots: knots}
}

// predict returns the estimated fraction of keys below x, in [0, 1].
func (m cdfModel) predict(x float64) float64 {
	k := len(m.knots) - 1
	if x <= m.knots[0] {
		return 0
	}
	if x >= m.knots[k] || math.IsNaN(x) {
		return 1
	}
	j := sort.SearchFloat64s(m.knots, x)
	lo, hi := m.knots[j-1], m.knots[j]
	frac := (x - lo) / (hi - lo)
	if math.IsNaN(frac) || frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	return (float64(j-1) + frac) / float64(k)
}

func (m cdfModel) bucket(x float64, buckets int) int {
	return min(int(m.predict(x)*float64(buckets)), buckets-1)
}
