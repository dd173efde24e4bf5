package sorts

import (
	"errors"
	"math"

	"github.com/greensort/greensort/bench"
)

var (
	// ErrEmptyInput is returned by strategies that require at least one element.
	ErrEmptyInput = errors.New("input must be non-empty")

	// ErrSentinelKey is returned by sentinel-merging strategies when a key is +Inf
	// or NaN, or when the ordering maps neither infinity to a +Inf key.
	ErrSentinelKey = errors.New("key collides with the merge sentinel")
)

type lessFunc func(a, b float64) bool

func naturalLess(a, b float64) bool { return a < b }

// lessOf derives the comparator for a KeyFunc.
func lessOf(key bench.KeyFunc) lessFunc {
	if key == nil {
		return naturalLess
	}
	return func(a, b float64) bool { return key(a) < key(b) }
}

func identity(x float64) float64 { return x }

func keyOrIdentity(key bench.KeyFunc) bench.KeyFunc {
	if key == nil {
		return identity
	}
	return key
}

// FloorKey orders elements by their integer part. Elements sharing an integer part
// compare equal, which makes fractional parts usable as stability tags.
func FloorKey(x float64) float64 { return math.Floor(x) }

// DescendingKey orders elements from largest to smallest.
func DescendingKey(x float64) float64 { return -x }

// Keys maps ordering names accepted on the command line to key functions.
// "identity" maps to nil, the natural order.
var Keys = map[string]bench.KeyFunc{
	"identity":   nil,
	"floor":      FloorKey,
	"descending": DescendingKey,
}

// IsValidKey returns true if name is a recognized ordering.
func IsValidKey(name string) bool {
	_, ok := Keys[name]
	return ok
}

// insertionSort sorts data stably.
func insertionSort(data []float64, less lessFunc) {
	for i := 1; i < len(data); i++ {
		for j := i; j > 0 && less(data[j], data[j-1]); j-- {
			data[j], data[j-1] = data[j-1], data[j]
		}
	}
}

// binaryInsertionSort extends the sorted prefix data[:sorted] to all of data.
// Equal elements are inserted after their peers, so the sort is stable.
func binaryInsertionSort(data []float64, sorted int, less lessFunc) {
	if sorted < 1 {
		sorted = 1
	}
	for i := sorted; i < len(data); i++ {
		pivot := data[i]
		lo, hi := 0, i
		for lo < hi {
			mid := int(uint(lo+hi) >> 1)
			if less(pivot, data[mid]) {
				hi = mid
			} else {
				lo = mid + 1
			}
		}
		copy(data[lo+1:i+1], data[lo:i])
		data[lo] = pivot
	}
}

func reverseRange(data []float64, a, b int) {
	for i, j := a, b-1; i < j; i, j = i+1, j-1 {
		data[i], data[j] = data[j], data[i]
	}
}

// lowerBound returns the first index i in data with !less(data[i], x).
func lowerBound(data []float64, x float64, less lessFunc) int {
	lo, hi := 0, len(data)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if less(data[mid], x) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// upperBound returns the first index i in data with less(x, data[i]).
func upperBound(data []float64, x float64, less lessFunc) int {
	lo, hi := 0, len(data)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if less(x, data[mid]) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// xorshift paper: https://www.jstatsoft.org/article/view/v008i14/xorshift.pdf
type xorshift uint64

func (r *xorshift) Next() uint64 {
	*r ^= *r << 13
	*r ^= *r >> 7
	*r ^= *r << 17
	return uint64(*r)
}

func newXorshift(seed uint64) xorshift {
	if seed == 0 {
		seed = 0x9E3779B97F4A7C15
	}
	return xorshift(seed)
}
