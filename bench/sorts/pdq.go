package sorts

import (
	"math/bits"

	"github.com/greensort/greensort/bench"
)

// The pdqsort core follows the Go standard library's implementation (BSD license,
// https://golang.org/src/sort/zsortfunc.go), specialized to []float64 and a comparator,
// with a selectable partition scheme.

type sortedHint int // hint for pdqsort when choosing the pivot

const (
	unknownHint sortedHint = iota
	increasingHint
	decreasingHint
)

// pdqMaxInsertion is the range length at or below which pdqsort uses insertion sort.
const pdqMaxInsertion = 12

// pdqSorter sorts with pattern-defeating quicksort. With branchless set, ranges are
// partitioned by a branch-free Lomuto scan instead of the Hoare-style scan.
type pdqSorter struct {
	less       lessFunc
	branchless bool
}

// Pdqsort is the classic pdqsort strategy.
type Pdqsort struct {
	Branchless bool
}

// Sort implements bench.Strategy.
func (s Pdqsort) Sort(data []float64, key bench.KeyFunc) (bench.Outcome, error) {
	p := pdqSorter{less: lessOf(key), branchless: s.Branchless}
	p.sort(data)
	return bench.Outcome{}, nil
}

func (p *pdqSorter) sort(data []float64) {
	n := len(data)
	if n < 2 {
		return
	}
	p.pdqsort(data, 0, n, bits.Len(uint(n)))
}

func (p *pdqSorter) insertionSort(data []float64, a, b int) {
	for i := a + 1; i < b; i++ {
		for j := i; j > a && p.less(data[j], data[j-1]); j-- {
			data[j], data[j-1] = data[j-1], data[j]
		}
	}
}

func (p *pdqSorter) siftDown(data []float64, lo, hi, first int) {
	root := lo
	for {
		child := 2*root + 1
		if child >= hi {
			return
		}
		if child+1 < hi && p.less(data[first+child], data[first+child+1]) {
			child++
		}
		if !p.less(data[first+root], data[first+child]) {
			return
		}
		data[first+root], data[first+child] = data[first+child], data[first+root]
		root = child
	}
}

func (p *pdqSorter) heapSort(data []float64, a, b int) {
	first := a
	lo := 0
	hi := b - a
	for i := (hi - 1) / 2; i >= 0; i-- {
		p.siftDown(data, i, hi, first)
	}
	for i := hi - 1; i >= 0; i-- {
		data[first], data[first+i] = data[first+i], data[first]
		p.siftDown(data, lo, i, first)
	}
}

// pdqsort sorts data[a:b]. limit is the number of allowed bad (very unbalanced)
// pivots before falling back to heapsort.
func (p *pdqSorter) pdqsort(data []float64, a, b, limit int) {
	var (
		wasBalanced    = true
		wasPartitioned = true
	)
	for {
		length := b - a
		if length <= pdqMaxInsertion {
			p.insertionSort(data, a, b)
			return
		}
		if limit == 0 {
			p.heapSort(data, a, b)
			return
		}
		if !wasBalanced {
			p.breakPatterns(data, a, b)
			limit--
		}

		pivot, hint := p.choosePivot(data, a, b)
		if hint == decreasingHint {
			reverseRange(data, a, b)
			pivot = (b - 1) - (pivot - a)
			hint = increasingHint
		}

		// The slice is likely already sorted.
		if wasBalanced && wasPartitioned && hint == increasingHint {
			if p.partialInsertionSort(data, a, b) {
				return
			}
		}

		// Probably the slice contains many duplicate elements, partition the slice into
		// elements equal to and elements greater than the pivot.
		if a > 0 && !p.less(data[a-1], data[pivot]) {
			a = p.partitionEqual(data, a, b, pivot)
			continue
		}

		var mid int
		var alreadyPartitioned bool
		if p.branchless {
			mid, alreadyPartitioned = p.partitionBranchless(data, a, b, pivot)
		} else {
			mid, alreadyPartitioned = p.partition(data, a, b, pivot)
		}
		wasPartitioned = alreadyPartitioned

		leftLen, rightLen := mid-a, b-mid
		balanceThreshold := length / 8
		if leftLen < rightLen {
			wasBalanced = leftLen >= balanceThreshold
			p.pdqsort(data, a, mid, limit)
			a = mid + 1
		} else {
			wasBalanced = rightLen >= balanceThreshold
			p.pdqsort(data, mid+1, b, limit)
			b = mid
		}
	}
}

// partition does one quicksort partition. Let p = data[pivot]. It moves elements in
// data[a:b] around so that data[i] < p for i < newpivot, data[newpivot] = p and
// !(data[j] < p) for j > newpivot.
func (p *pdqSorter) partition(data []float64, a, b, pivot int) (newpivot int, alreadyPartitioned bool) {
	data[a], data[pivot] = data[pivot], data[a]
	i, j := a+1, b-1 // i and j are inclusive of the elements remaining to be partitioned

	for i <= j && p.less(data[i], data[a]) {
		i++
	}
	for i <= j && !p.less(data[j], data[a]) {
		j--
	}
	if i > j {
		data[j], data[a] = data[a], data[j]
		return j, true
	}
	data[i], data[j] = data[j], data[i]
	i++
	j--

	for {
		for i <= j && p.less(data[i], data[a]) {
			i++
		}
		for i <= j && !p.less(data[j], data[a]) {
			j--
		}
		if i > j {
			break
		}
		data[i], data[j] = data[j], data[i]
		i++
		j--
	}
	data[j], data[a] = data[a], data[j]
	return j, false
}

// partitionBranchless has the same contract as partition. The scan keeps
// data[a+1:i] < p and data[i:j] >= p, and advances i by the comparison result
// instead of branching on it.
func (p *pdqSorter) partitionBranchless(data []float64, a, b, pivot int) (newpivot int, alreadyPartitioned bool) {
	data[a], data[pivot] = data[pivot], data[a]
	pv := data[a]
	i := a + 1
	disorder, seenGE := 0, 0
	for j := a + 1; j < b; j++ {
		x := data[j]
		lt := b2i(p.less(x, pv))
		data[j] = data[i]
		data[i] = x
		i += lt
		disorder |= lt & seenGE
		seenGE |= lt ^ 1
	}
	mid := i - 1
	data[a], data[mid] = data[mid], data[a]
	return mid, disorder == 0
}

func b2i(b bool) int {
	var i int
	if b {
		i = 1
	}
	return i
}

// partitionEqual partitions data[a:b] into elements equal to data[pivot] followed by
// elements greater than data[pivot]. It assumes that data[a:b] does not contain
// elements smaller than data[pivot].
func (p *pdqSorter) partitionEqual(data []float64, a, b, pivot int) (newpivot int) {
	data[a], data[pivot] = data[pivot], data[a]
	i, j := a+1, b-1 // i and j are inclusive of the elements remaining to be partitioned

	for {
		for i <= j && !p.less(data[a], data[i]) {
			i++
		}
		for i <= j && p.less(data[a], data[j]) {
			j--
		}
		if i > j {
			break
		}
		data[i], data[j] = data[j], data[i]
		i++
		j--
	}
	return i
}

// partialInsertionSort partially sorts a slice, returns true if the slice is sorted at the end.
func (p *pdqSorter) partialInsertionSort(data []float64, a, b int) bool {
	const (
		maxSteps         = 5  // maximum number of adjacent out-of-order pairs that will get shifted
		shortestShifting = 50 // don't shift any elements on short arrays
	)
	i := a + 1
	for j := 0; j < maxSteps; j++ {
		for i < b && !p.less(data[i], data[i-1]) {
			i++
		}

		if i == b {
			return true
		}

		if b-a < shortestShifting {
			return false
		}

		data[i], data[i-1] = data[i-1], data[i]

		// Shift the smaller one to the left.
		if i-a >= 2 {
			for j := i - 1; j >= 1; j-- {
				if !p.less(data[j], data[j-1]) {
					break
				}
				data[j], data[j-1] = data[j-1], data[j]
			}
		}
		// Shift the greater one to the right.
		if b-i >= 2 {
			for j := i + 1; j < b; j++ {
				if !p.less(data[j], data[j-1]) {
					break
				}
				data[j], data[j-1] = data[j-1], data[j]
			}
		}
	}
	return false
}

// breakPatterns scatters some elements around in an attempt to break some patterns
// that might cause imbalanced partitions in quicksort.
func (p *pdqSorter) breakPatterns(data []float64, a, b int) {
	length := b - a
	if length >= 8 {
		random := newXorshift(uint64(length))
		modulus := nextPowerOfTwo(length)

		idx := a + (length/4)*2 - 1
		for i := 0; i < 3; i++ {
			other := int(uint(random.Next()) & (modulus - 1))
			if other >= length {
				other -= length
			}
			data[idx-1+i], data[a+other] = data[a+other], data[idx-1+i]
		}
	}
}

func nextPowerOfTwo(length int) uint {
	return 1 << bits.Len(uint(length))
}

// choosePivot chooses a pivot in data[a:b].
//
// [0,8): chooses a static pivot.
// [8,shortestNinther): uses the simple median-of-three method.
// [shortestNinther,∞): uses the Tukey ninther method.
func (p *pdqSorter) choosePivot(data []float64, a, b int) (pivot int, hint sortedHint) {
	const (
		shortestNinther = 50
		maxSwaps        = 4 * 3
	)

	l := b - a

	var (
		swaps int
		i     = a + l/4*1
		j     = a + l/4*2
		k     = a + l/4*3
	)

	if l >= 8 {
		if l >= shortestNinther {
			// Tukey ninther method, the idea came from Rust's implementation.
			i = p.medianAdjacent(data, i, &swaps)
			j = p.medianAdjacent(data, j, &swaps)
			k = p.medianAdjacent(data, k, &swaps)
		}
		// Find the median among i, j, k and stores it into j.
		j = p.median(data, i, j, k, &swaps)
	}

	switch swaps {
	case 0:
		return j, increasingHint
	case maxSwaps:
		return j, decreasingHint
	default:
		return j, unknownHint
	}
}

// order2 returns x,y where data[x] <= data[y], where x,y=a,b or x,y=y,x.
func (p *pdqSorter) order2(data []float64, a, b int, swaps *int) (int, int) {
	if p.less(data[b], data[a]) {
		*swaps++
		return b, a
	}
	return a, b
}

// median returns x where data[x] is the median of a,b,c, where x is a, b, or c.
func (p *pdqSorter) median(data []float64, a, b, c int, swaps *int) int {
	a, b = p.order2(data, a, b, swaps)
	b, c = p.order2(data, b, c, swaps)
	a, b = p.order2(data, a, b, swaps)
	_ = a
	_ = c
	return b
}

// medianAdjacent finds the median of data[a - 1], data[a], data[a + 1] and stores the index into a.
func (p *pdqSorter) medianAdjacent(data []float64, a int, swaps *int) int {
	return p.median(data, a-1, a, a+1, swaps)
}
