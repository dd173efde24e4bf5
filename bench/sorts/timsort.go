package sorts

import "github.com/greensort/greensort/bench"

// Timsort is a stable natural mergesort. Runs shorter than the computed minimum run
// length are extended with binary insertion sort; the run stack keeps the corrected
// collapse invariants. With Galloping disabled every merge is a plain one-at-a-time
// merge, which is the gfx-timsort variant.
type Timsort struct {
	MinMerge  int
	MinGallop int
	Galloping bool
}

// Sort implements bench.Strategy.
func (s Timsort) Sort(data []float64, key bench.KeyFunc) (bench.Outcome, error) {
	ts := timsorter{
		data:      data,
		less:      lessOf(key),
		minMerge:  max(s.MinMerge, 2),
		minGallop: max(s.MinGallop, 1),
		galloping: s.Galloping,
	}
	ts.sort()
	return bench.Outcome{}, nil
}

type timsorter struct {
	data      []float64
	less      lessFunc
	minMerge  int
	minGallop int
	galloping bool

	tmp     []float64
	runBase []int
	runLen  []int
}

func (ts *timsorter) sort() {
	n := len(ts.data)
	if n < 2 {
		return
	}
	if n < ts.minMerge {
		run := ts.countRunAndMakeAscending(0, n)
		binaryInsertionSort(ts.data, run, ts.less)
		return
	}

	minRun := ts.minRunLength(n)
	lo, remaining := 0, n
	for remaining != 0 {
		run := ts.countRunAndMakeAscending(lo, lo+remaining)
		if run < minRun {
			force := min(minRun, remaining)
			binaryInsertionSort(ts.data[lo:lo+force], run, ts.less)
			run = force
		}
		ts.runBase = append(ts.runBase, lo)
		ts.runLen = append(ts.runLen, run)
		ts.mergeCollapse()

		lo += run
		remaining -= run
	}
	ts.mergeForceCollapse()
}

// minRunLength returns n itself when n < minMerge, otherwise a k in
// [minMerge/2, minMerge] such that n/k is close to, but no larger than, a power of two.
func (ts *timsorter) minRunLength(n int) int {
	r := 0
	for n >= ts.minMerge {
		r |= n & 1
		n >>= 1
	}
	return n + r
}

// countRunAndMakeAscending returns the length of the run starting at lo. A strictly
// descending run is reversed in place; descending runs with equal elements are never
// reversed, which keeps the sort stable.
func (ts *timsorter) countRunAndMakeAscending(lo, hi int) int {
	data := ts.data
	runHi := lo + 1
	if runHi == hi {
		return 1
	}
	if ts.less(data[runHi], data[lo]) {
		runHi++
		for runHi < hi && ts.less(data[runHi], data[runHi-1]) {
			runHi++
		}
		reverseRange(data, lo, runHi)
	} else {
		runHi++
		for runHi < hi && !ts.less(data[runHi], data[runHi-1]) {
			runHi++
		}
	}
	return runHi - lo
}

func (ts *timsorter) mergeCollapse() {
	for len(ts.runLen) > 1 {
		n := len(ts.runLen) - 2
		if (n > 0 && ts.runLen[n-1] <= ts.runLen[n]+ts.runLen[n+1]) ||
			(n > 1 && ts.runLen[n-2] <= ts.runLen[n-1]+ts.runLen[n]) {
			if ts.runLen[n-1] < ts.runLen[n+1] {
				n--
			}
		} else if ts.runLen[n] > ts.runLen[n+1] {
			break
		}
		ts.mergeAt(n)
	}
}

func (ts *timsorter) mergeForceCollapse() {
	for len(ts.runLen) > 1 {
		n := len(ts.runLen) - 2
		if n > 0 && ts.runLen[n-1] < ts.runLen[n+1] {
			n--
		}
		ts.mergeAt(n)
	}
}

// mergeAt merges the runs at stack indices i and i+1.
func (ts *timsorter) mergeAt(i int) {
	base1, len1 := ts.runBase[i], ts.runLen[i]
	base2, len2 := ts.runBase[i+1], ts.runLen[i+1]

	ts.runLen[i] = len1 + len2
	ts.runBase = append(ts.runBase[:i+1], ts.runBase[i+2:]...)
	ts.runLen = append(ts.runLen[:i+1], ts.runLen[i+2:]...)

	data := ts.data
	// Elements of run 1 already in place relative to run 2 can be ignored.
	k := upperBound(data[base1:base1+len1], data[base2], ts.less)
	base1 += k
	len1 -= k
	if len1 == 0 {
		return
	}
	// Likewise the tail of run 2 that is not smaller than the last element of run 1.
	len2 = lowerBound(data[base2:base2+len2], data[base1+len1-1], ts.less)
	if len2 == 0 {
		return
	}

	if len1 <= len2 {
		ts.mergeLo(base1, len1, base2, len2)
	} else {
		ts.mergeHi(base1, len1, base2, len2)
	}
}

func (ts *timsorter) ensureCapacity(n int) []float64 {
	if cap(ts.tmp) < n {
		ts.tmp = make([]float64, n)
	}
	return ts.tmp[:n]
}

// mergeLo merges two adjacent runs left to right, len1 <= len2. Run 1 is moved to
// the temporary buffer.
func (ts *timsorter) mergeLo(base1, len1, base2, len2 int) {
	data, less := ts.data, ts.less
	tmp := ts.ensureCapacity(len1)
	copy(tmp, data[base1:base1+len1])

	i, j, d := 0, base2, base1
	end2 := base2 + len2
	wins1, wins2 := 0, 0
	for i < len1 && j < end2 {
		switch {
		case ts.galloping && wins1 >= ts.minGallop:
			k := upperBound(tmp[i:], data[j], less)
			copy(data[d:], tmp[i:i+k])
			d += k
			i += k
			wins1 = 0
		case ts.galloping && wins2 >= ts.minGallop:
			k := lowerBound(data[j:end2], tmp[i], less)
			copy(data[d:], data[j:j+k])
			d += k
			j += k
			wins2 = 0
		case less(data[j], tmp[i]):
			data[d] = data[j]
			d++
			j++
			wins2++
			wins1 = 0
		default:
			data[d] = tmp[i]
			d++
			i++
			wins1++
			wins2 = 0
		}
	}
	copy(data[d:], tmp[i:])
}

// mergeHi merges two adjacent runs right to left, len1 > len2. Run 2 is moved to
// the temporary buffer.
func (ts *timsorter) mergeHi(base1, len1, base2, len2 int) {
	data, less := ts.data, ts.less
	tmp := ts.ensureCapacity(len2)
	copy(tmp, data[base2:base2+len2])

	i, j, d := base1+len1-1, len2-1, base2+len2-1
	wins1, wins2 := 0, 0
	for i >= base1 && j >= 0 {
		switch {
		case ts.galloping && wins1 >= ts.minGallop:
			k := (i + 1 - base1) - upperBound(data[base1:i+1], tmp[j], less)
			copy(data[d-k+1:d+1], data[i-k+1:i+1])
			d -= k
			i -= k
			wins1 = 0
		case ts.galloping && wins2 >= ts.minGallop:
			k := (j + 1) - lowerBound(tmp[:j+1], data[i], less)
			copy(data[d-k+1:d+1], tmp[j-k+1:j+1])
			d -= k
			j -= k
			wins2 = 0
		case less(tmp[j], data[i]):
			data[d] = data[i]
			d--
			i--
			wins1++
			wins2 = 0
		default:
			data[d] = tmp[j]
			d--
			j--
			wins2++
			wins1 = 0
		}
	}
	copy(data[base1:], tmp[:j+1])
}
