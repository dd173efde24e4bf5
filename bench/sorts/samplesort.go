package sorts

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/greensort/greensort/bench"
)

// oversampling is the number of sample elements drawn per bucket.
const oversampling = 4

// SampleSort is an in-place super scalar sample sort. A random sample yields up to
// Buckets-1 splitters; elements are classified against them and permuted into their
// buckets by cycle leading, and buckets are sorted recursively. Ranges at or below
// BaseCase and ranges that cannot be split are sorted with pdqsort.
//
// With Parallel set the top-level buckets are sorted concurrently on at most Workers
// goroutines (GOMAXPROCS when zero). Sort returns only after every worker finished.
type SampleSort struct {
	BaseCase int
	Buckets  int
	Workers  int
	Parallel bool
	Seed     uint64
}

// Sort implements bench.Strategy.
func (s SampleSort) Sort(data []float64, key bench.KeyFunc) (bench.Outcome, error) {
	ss := &samplesorter{
		less:     lessOf(key),
		baseCase: max(s.BaseCase, 16),
		buckets:  min(max(s.Buckets, 2), 4096),
		seed:     s.Seed,
	}
	if !s.Parallel {
		ss.sort(data)
		return bench.Outcome{}, nil
	}
	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return bench.Outcome{}, ss.sortParallel(data, workers)
}

// samplesorter holds no mutable state, so one value is shared by all workers.
type samplesorter struct {
	less     lessFunc
	baseCase int
	buckets  int
	seed     uint64
}

func (ss *samplesorter) fallback(data []float64) {
	p := pdqSorter{less: ss.less}
	p.sort(data)
}

func (ss *samplesorter) sort(data []float64) {
	if len(data) <= ss.baseCase {
		ss.fallback(data)
		return
	}
	bounds, ok := ss.partition(data)
	if !ok {
		return
	}
	for i := 0; i+1 < len(bounds); i++ {
		if bounds[i+1]-bounds[i] > 1 {
			ss.sort(data[bounds[i]:bounds[i+1]])
		}
	}
}

func (ss *samplesorter) sortParallel(data []float64, workers int) error {
	if len(data) <= ss.baseCase {
		ss.fallback(data)
		return nil
	}
	bounds, ok := ss.partition(data)
	if !ok {
		return nil
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i+1 < len(bounds); i++ {
		bucket := data[bounds[i]:bounds[i+1]]
		if len(bucket) < 2 {
			continue
		}
		g.Go(func() error {
			ss.sort(bucket)
			return nil
		})
	}
	return g.Wait()
}

// partition permutes data into buckets and returns the bucket boundaries. When no
// split makes progress data is sorted with the fallback and ok is false.
func (ss *samplesorter) partition(data []float64) (bounds []int, ok bool) {
	splitters := ss.splitters(data)
	if len(splitters) == 0 {
		ss.fallback(data)
		return nil, false
	}
	numBuckets := len(splitters) + 1
	bucketOf := func(x float64) int { return upperBound(splitters, x, ss.less) }

	counts := make([]int, numBuckets)
	for _, x := range data {
		counts[bucketOf(x)]++
	}
	for _, c := range counts {
		if c == len(data) {
			ss.fallback(data)
			return nil, false
		}
	}

	heads := make([]int, numBuckets)
	bounds = make([]int, numBuckets+1)
	sum := 0
	for b, c := range counts {
		heads[b] = sum
		sum += c
		bounds[b+1] = sum
	}
	for b := 0; b < numBuckets; b++ {
		for heads[b] < bounds[b+1] {
			x := data[heads[b]]
			d := bucketOf(x)
			for d != b {
				pos := heads[d]
				heads[d]++
				data[pos], x = x, data[pos]
				d = bucketOf(x)
			}
			data[heads[b]] = x
			heads[b]++
		}
	}
	return bounds, true
}

// splitters draws a sample, sorts it and picks distinct, evenly spaced splitters.
func (ss *samplesorter) splitters(data []float64) []float64 {
	n := len(data)
	k := min(ss.buckets, max(n/ss.baseCase, 2))
	size := min(n, k*oversampling)

	rng := newXorshift(ss.seed ^ uint64(n)*0x9E3779B97F4A7C15)
	sample := make([]float64, size)
	for i := range sample {
		sample[i] = data[rng.Next()%uint64(n)]
	}
	p := pdqSorter{less: ss.less}
	p.sort(sample)

	out := make([]float64, 0, k-1)
	for i := 1; i < k; i++ {
		c := sample[i*size/k]
		if len(out) > 0 && !ss.less(out[len(out)-1], c) {
			continue
		}
		out = append(out, c)
	}
	return out
}
