package sorts

import "github.com/greensort/greensort/bench"

// Peeksort is a stable top-down natural mergesort. Each range is split at the run
// boundary closest to its middle, found by peeking at the run that covers it.
type Peeksort struct {
	Threshold int
	CopyBoth  bool
}

// Sort implements bench.Strategy.
func (s Peeksort) Sort(data []float64, key bench.KeyFunc) (bench.Outcome, error) {
	less := lessOf(key)
	ps := peeksorter{
		data:      data,
		less:      less,
		threshold: max(s.Threshold, 1),
		merger:    merger{less: less, copyBoth: s.CopyBoth},
	}
	n := len(data)
	if n < 2 {
		return bench.Outcome{}, nil
	}
	e := ps.ascEnd(0, n)
	if e == n {
		return bench.Outcome{}, nil
	}
	ps.sortRange(0, n, e, ps.ascStart(0, n))
	return bench.Outcome{}, nil
}

type peeksorter struct {
	data      []float64
	less      lessFunc
	threshold int
	merger    merger
}

// sortRange sorts data[lo:hi], knowing that data[lo:e] and data[s:hi] are maximal
// ascending runs.
func (ps *peeksorter) sortRange(lo, hi, e, s int) {
	if e >= hi || s <= lo {
		return
	}
	if hi-lo <= ps.threshold {
		binaryInsertionSort(ps.data[lo:hi], e-lo, ps.less)
		return
	}

	m := lo + (hi-lo)/2
	switch {
	case m <= e:
		ps.sortRange(e, hi, ps.ascEnd(e, hi), s)
		ps.merger.merge(ps.data, lo, e, hi)
	case m >= s:
		ps.sortRange(lo, s, e, ps.ascStart(lo, s))
		ps.merger.merge(ps.data, lo, s, hi)
	default:
		i, j := ps.ascStart(lo, m), ps.ascEnd(m, hi)
		if ps.less(ps.data[m], ps.data[m-1]) {
			// m itself is a run boundary.
			ps.sortRange(lo, m, e, i)
			ps.sortRange(m, hi, j, s)
			ps.merger.merge(ps.data, lo, m, hi)
			return
		}
		i = ps.ascStart(lo, m+1)
		if m-i < j-m {
			ps.sortRange(lo, i, e, ps.ascStart(lo, i))
			ps.sortRange(i, hi, j, s)
			ps.merger.merge(ps.data, lo, i, hi)
		} else {
			ps.sortRange(lo, j, e, i)
			ps.sortRange(j, hi, ps.ascEnd(j, hi), s)
			ps.merger.merge(ps.data, lo, j, hi)
		}
	}
}

// ascStart returns the smallest i >= lo such that data[i:k] is ascending.
func (ps *peeksorter) ascStart(lo, k int) int {
	if k-lo < 2 {
		return lo
	}
	i := k - 1
	for i > lo && !ps.less(ps.data[i], ps.data[i-1]) {
		i--
	}
	return i
}

// ascEnd returns the largest j <= hi such that data[k:j] is ascending.
func (ps *peeksorter) ascEnd(k, hi int) int {
	if hi-k < 2 {
		return hi
	}
	j := k + 1
	for j < hi && !ps.less(ps.data[j], ps.data[j-1]) {
		j++
	}
	return j
}
