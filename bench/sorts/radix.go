package sorts

import (
	"math"

	"github.com/greensort/greensort/bench"
)

const radixPasses = 8

// sortableBits maps a float64 to a uint64 whose unsigned order matches the float
// order. Negative zero sorts immediately before positive zero.
func sortableBits(x float64) uint64 {
	b := math.Float64bits(x)
	if b>>63 == 1 {
		return ^b
	}
	return b | 1<<63
}

// Skasort is a stable LSD byte radix sort over the keys' sortable bit patterns. It
// ping-pongs between the input and a full auxiliary buffer, skipping passes in which
// every key has the same byte. Outcome.BufferSwapped reports whether the final pass
// left the result in the auxiliary buffer, in which case it is copied back.
type Skasort struct {
	Threshold int
}

// Sort implements bench.Strategy.
func (s Skasort) Sort(data []float64, key bench.KeyFunc) (bench.Outcome, error) {
	n := len(data)
	if n < 2 {
		return bench.Outcome{}, nil
	}
	if n <= s.Threshold {
		insertionSort(data, lessOf(key))
		return bench.Outcome{}, nil
	}

	kf := keyOrIdentity(key)
	keys := make([]uint64, n)
	var counts [radixPasses][256]int
	for i, x := range data {
		k := sortableBits(kf(x))
		keys[i] = k
		for p := 0; p < radixPasses; p++ {
			counts[p][byte(k>>(8*p))]++
		}
	}

	srcK, dstK := keys, make([]uint64, n)
	srcV, dstV := data, make([]float64, n)
	swapped := false
	for p := 0; p < radixPasses; p++ {
		shift := uint(8 * p)
		c := &counts[p]
		if c[byte(keys[0]>>shift)] == n {
			continue
		}
		sum := 0
		for b := range c {
			cnt := c[b]
			c[b] = sum
			sum += cnt
		}
		for i, k := range srcK {
			b := byte(k >> shift)
			d := c[b]
			c[b]++
			dstK[d] = k
			dstV[d] = srcV[i]
		}
		srcK, dstK = dstK, srcK
		srcV, dstV = dstV, srcV
		swapped = !swapped
	}
	if swapped {
		copy(data, srcV)
	}
	return bench.Outcome{BufferSwapped: swapped}, nil
}

// Iskasort is an in-place MSD radix sort (American flag sort). Each range is
// permuted into its 256 byte buckets by cycle leading and buckets are sorted on the
// next byte; ranges at or below Threshold use insertion sort. It is not stable.
type Iskasort struct {
	Threshold int
}

// Sort implements bench.Strategy.
func (s Iskasort) Sort(data []float64, key bench.KeyFunc) (bench.Outcome, error) {
	if len(data) < 2 {
		return bench.Outcome{}, nil
	}
	kf := keyOrIdentity(key)
	r := iska{
		bits:      func(x float64) uint64 { return sortableBits(kf(x)) },
		threshold: max(s.Threshold, 1),
	}
	r.sortRange(data, 8*(radixPasses-1))
	return bench.Outcome{}, nil
}

type iska struct {
	bits      func(float64) uint64
	threshold int
}

func (r *iska) digit(x float64, shift uint) byte {
	return byte(r.bits(x) >> shift)
}

func (r *iska) sortRange(data []float64, shift uint) {
	n := len(data)
	if n <= r.threshold {
		r.insertionSort(data)
		return
	}

	var counts [256]int
	for _, x := range data {
		counts[r.digit(x, shift)]++
	}
	if counts[r.digit(data[0], shift)] == n {
		if shift > 0 {
			r.sortRange(data, shift-8)
		}
		return
	}

	var heads, tails [256]int
	sum := 0
	for b := range counts {
		heads[b] = sum
		sum += counts[b]
		tails[b] = sum
	}
	for b := range heads {
		for heads[b] < tails[b] {
			x := data[heads[b]]
			d := int(r.digit(x, shift))
			for d != b {
				pos := heads[d]
				heads[d]++
				data[pos], x = x, data[pos]
				d = int(r.digit(x, shift))
			}
			data[heads[b]] = x
			heads[b]++
		}
	}

	if shift == 0 {
		return
	}
	start := 0
	for b := range tails {
		end := tails[b]
		if end-start > 1 {
			r.sortRange(data[start:end], shift-8)
		}
		start = end
	}
}

func (r *iska) insertionSort(data []float64) {
	for i := 1; i < len(data); i++ {
		for j := i; j > 0 && r.bits(data[j]) < r.bits(data[j-1]); j-- {
			data[j], data[j-1] = data[j-1], data[j]
		}
	}
}
