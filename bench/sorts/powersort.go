package sorts

import (
	"math"

	"github.com/greensort/greensort/bench"
)

// Powersort is a stable natural mergesort that merges runs following the node
// powers of their boundaries, which approximates an optimal merge tree.
type Powersort struct {
	MinRun   int
	CopyBoth bool
}

// Sort implements bench.Strategy.
func (s Powersort) Sort(data []float64, key bench.KeyFunc) (bench.Outcome, error) {
	less := lessOf(key)
	ps := powersorter{
		data:   data,
		less:   less,
		minRun: max(s.MinRun, 1),
		ways:   2,
		merger: merger{less: less, copyBoth: s.CopyBoth},
	}
	ps.sort()
	return bench.Outcome{}, nil
}

// Powersort4 is the 4-way powersort. Boundary powers are halved so that up to four
// runs share a merge node. Groups are merged pairwise by stages, or, with Sentinel
// set, in a single pass over sentinel-terminated copies of the runs.
type Powersort4 struct {
	MinRun   int
	CopyBoth bool
	Sentinel bool
}

// Sort implements bench.Strategy. The sentinel merge terminates each run with the
// infinity whose key is +Inf under the ordering, so it fails with ErrSentinelKey
// unless every key orders strictly before that terminator.
func (s Powersort4) Sort(data []float64, key bench.KeyFunc) (bench.Outcome, error) {
	var top float64
	if s.Sentinel {
		var err error
		if top, err = sentinelFor(data, key); err != nil {
			return bench.Outcome{}, err
		}
	}
	less := lessOf(key)
	ps := powersorter{
		data:     data,
		less:     less,
		minRun:   max(s.MinRun, 1),
		ways:     4,
		sentinel: s.Sentinel,
		top:      top,
		merger:   merger{less: less, copyBoth: s.CopyBoth},
	}
	ps.sort()
	return bench.Outcome{}, nil
}

// sentinelFor returns the value that orders after every element of data: +Inf or
// -Inf, whichever the key maps to +Inf.
func sentinelFor(data []float64, key bench.KeyFunc) (float64, error) {
	k := keyOrIdentity(key)
	top := math.Inf(1)
	if !math.IsInf(k(top), 1) {
		top = math.Inf(-1)
		if !math.IsInf(k(top), 1) {
			return 0, ErrSentinelKey
		}
	}
	for _, x := range data {
		if v := k(x); math.IsInf(v, 1) || math.IsNaN(v) {
			return 0, ErrSentinelKey
		}
	}
	return top, nil
}

type powerRun struct {
	start, end int
	power      int
}

type powersorter struct {
	data     []float64
	less     lessFunc
	minRun   int
	ways     int
	sentinel bool
	top      float64 // run terminator for sentinel merging
	merger   merger
}

func (ps *powersorter) sort() {
	n := len(ps.data)
	if n < 2 {
		return
	}
	var stack []powerRun
	runA := powerRun{start: 0, end: ps.extendAndSort(0, n)}
	for runA.end < n {
		next := ps.extendAndSort(runA.end, n)
		p := nodePower(0, n, runA.start, runA.end, next)
		if ps.ways == 4 {
			p = (p + 1) / 2
		}
		for len(stack) > 0 && stack[len(stack)-1].power > p {
			stack, runA.start = ps.collapseTop(stack, runA)
		}
		stack = append(stack, powerRun{start: runA.start, end: runA.end, power: p})
		runA = powerRun{start: runA.end, end: next}
	}
	for len(stack) > 0 {
		stack, runA.start = ps.collapseTop(stack, runA)
	}
}

// collapseTop merges runA with the topmost stack runs that share the top power.
// It returns the shortened stack and the start of the merged run.
func (ps *powersorter) collapseTop(stack []powerRun, runA powerRun) ([]powerRun, int) {
	top := len(stack) - 1
	if ps.ways == 2 {
		ps.merger.merge(ps.data, stack[top].start, runA.start, runA.end)
		return stack[:top], stack[top].start
	}

	j := top
	for j > 0 && stack[j-1].power == stack[top].power {
		j--
	}
	bounds := make([]int, 0, top-j+3)
	for _, r := range stack[j:] {
		bounds = append(bounds, r.start)
	}
	bounds = append(bounds, runA.start, runA.end)
	if ps.sentinel {
		ps.mergeSentinel(bounds)
	} else {
		ps.merger.mergeStages(ps.data, bounds)
	}
	return stack[:j], stack[j].start
}

// extendAndSort returns the end of the run starting at lo, extended to at least
// minRun elements (bounded by hi) with binary insertion sort.
func (ps *powersorter) extendAndSort(lo, hi int) int {
	end := extendRun(ps.data, lo, hi, ps.less)
	if end-lo < ps.minRun {
		forced := min(lo+ps.minRun, hi)
		binaryInsertionSort(ps.data[lo:forced], end-lo, ps.less)
		end = forced
	}
	return end
}

// mergeSentinel merges all runs delimited by bounds in one pass. Each run is copied
// into the merger buffer followed by the ps.top terminator, so the selection loop
// never checks for exhausted runs.
func (ps *powersorter) mergeSentinel(bounds []int) {
	runs := len(bounds) - 1
	lo, hi := bounds[0], bounds[runs]
	buf := ps.merger.scratch(hi - lo + runs)
	pos := make([]int, runs)
	off := 0
	for i := 0; i < runs; i++ {
		pos[i] = off
		off += copy(buf[off:], ps.data[bounds[i]:bounds[i+1]])
		buf[off] = ps.top
		off++
	}
	for d := lo; d < hi; d++ {
		best := 0
		for i := 1; i < runs; i++ {
			if ps.less(buf[pos[i]], buf[pos[best]]) {
				best = i
			}
		}
		ps.data[d] = buf[pos[best]]
		pos[best]++
	}
}

// extendRun returns the end of the maximal run starting at lo. A strictly
// descending run is reversed so every returned run is ascending.
func extendRun(data []float64, lo, hi int, less lessFunc) int {
	j := lo + 1
	if j >= hi {
		return hi
	}
	if less(data[j], data[lo]) {
		for j+1 < hi && less(data[j+1], data[j]) {
			j++
		}
		reverseRange(data, lo, j+1)
	} else {
		for j+1 < hi && !less(data[j+1], data[j]) {
			j++
		}
	}
	return j + 1
}

// nodePower returns the power of the boundary between the adjacent runs
// [beginA, beginB) and [beginB, endB) inside [begin, end): the first binary digit
// at which the normalized midpoints of the two runs differ.
func nodePower(begin, end, beginA, beginB, endB int) int {
	n2 := 2 * (end - begin)
	a := beginA + beginB - 2*begin
	b := beginB + endB - 2*begin
	k := 0
	for {
		k++
		a *= 2
		b *= 2
		da, db := a >= n2, b >= n2
		if da != db {
			return k
		}
		if da {
			a -= n2
			b -= n2
		}
	}
}
