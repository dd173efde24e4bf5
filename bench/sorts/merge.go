package sorts

// merger merges adjacent sorted runs stably through a reusable buffer.
//
// With copyBoth unset only the shorter run is copied out, so the buffer never
// exceeds half of the merged length. With copyBoth set both runs are copied and
// merged back left to right.
type merger struct {
	less     lessFunc
	copyBoth bool
	buf      []float64
}

func (m *merger) scratch(n int) []float64 {
	if cap(m.buf) < n {
		m.buf = make([]float64, n)
	}
	return m.buf[:n]
}

// merge merges the sorted runs data[lo:mid] and data[mid:hi].
func (m *merger) merge(data []float64, lo, mid, hi int) {
	if mid <= lo || mid >= hi || !m.less(data[mid], data[mid-1]) {
		return
	}
	switch {
	case m.copyBoth:
		m.mergeCopyBoth(data, lo, mid, hi)
	case mid-lo <= hi-mid:
		m.mergeForward(data, lo, mid, hi)
	default:
		m.mergeBackward(data, lo, mid, hi)
	}
}

func (m *merger) mergeForward(data []float64, lo, mid, hi int) {
	left := m.scratch(mid - lo)
	copy(left, data[lo:mid])
	i, j, d := 0, mid, lo
	for i < len(left) && j < hi {
		if m.less(data[j], left[i]) {
			data[d] = data[j]
			j++
		} else {
			data[d] = left[i]
			i++
		}
		d++
	}
	copy(data[d:], left[i:])
}

func (m *merger) mergeBackward(data []float64, lo, mid, hi int) {
	right := m.scratch(hi - mid)
	copy(right, data[mid:hi])
	i, j, d := mid-1, len(right)-1, hi-1
	for i >= lo && j >= 0 {
		if m.less(right[j], data[i]) {
			data[d] = data[i]
			i--
		} else {
			data[d] = right[j]
			j--
		}
		d--
	}
	copy(data[lo:], right[:j+1])
}

func (m *merger) mergeCopyBoth(data []float64, lo, mid, hi int) {
	buf := m.scratch(hi - lo)
	copy(buf, data[lo:hi])
	left, right := buf[:mid-lo], buf[mid-lo:]
	i, j, d := 0, 0, lo
	for i < len(left) && j < len(right) {
		if m.less(right[j], left[i]) {
			data[d] = right[j]
			j++
		} else {
			data[d] = left[i]
			i++
		}
		d++
	}
	d += copy(data[d:], left[i:])
	copy(data[d:], right[j:])
}

// mergeStages merges the runs delimited by bounds pairwise, round by round, until
// a single run remains. bounds holds the run starts followed by the end of the last run.
func (m *merger) mergeStages(data []float64, bounds []int) {
	for len(bounds) > 2 {
		next := []int{bounds[0]}
		i := 0
		for ; i+2 < len(bounds); i += 2 {
			m.merge(data, bounds[i], bounds[i+1], bounds[i+2])
			next = append(next, bounds[i+2])
		}
		if i+1 < len(bounds) {
			next = append(next, bounds[len(bounds)-1])
		}
		bounds = next
	}
}
