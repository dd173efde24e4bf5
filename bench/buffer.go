package bench

import (
	"fmt"
	"math"
	"runtime"
)

// elementWidthBytes is the size of one sequence element.
const elementWidthBytes = 8

// Allocator provides scratch sequences for out-of-place runs.
type Allocator interface {
	// Alloc returns a slice of exactly n elements or an error wrapping
	// ErrAllocationFailure.
	Alloc(n int) ([]float64, error)
	// Free releases a slice obtained from Alloc. The slice must not be used afterwards.
	Free(s []float64)
}

// HeapAllocator allocates scratch sequences on the Go heap.
// MaxBytes > 0 caps a single allocation; 0 means unlimited.
type HeapAllocator struct {
	MaxBytes int64
}

// Alloc implements Allocator. A runtime makeslice panic (length out of range) is
// converted into ErrAllocationFailure.
func (a HeapAllocator) Alloc(n int) (s []float64, err error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrAllocationFailure, n)
	}
	if a.MaxBytes > 0 && int64(n) > a.MaxBytes/elementWidthBytes {
		return nil, fmt.Errorf("%w: %d elements exceed limit of %d bytes", ErrAllocationFailure, n, a.MaxBytes)
	}
	if uint64(n) > math.MaxInt64/elementWidthBytes {
		return nil, fmt.Errorf("%w: %d elements overflow the address space", ErrAllocationFailure, n)
	}
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(runtime.Error); ok {
				s, err = nil, fmt.Errorf("%w: %v", ErrAllocationFailure, rerr)
				return
			}
			panic(r)
		}
	}()
	return make([]float64, n), nil
}

// Free implements Allocator. Heap scratch is left to the garbage collector.
func (HeapAllocator) Free([]float64) {}

// BufferAdapter implements one execution Mode.
type BufferAdapter interface {
	Mode() Mode
	// Prepare performs every allocation the run needs. It is called before the
	// timed window opens.
	Prepare(data []float64) (*PreparedRun, error)
}

// PreparedRun is one prepared execution: Ready after Prepare, Done after Execute.
// It must be released exactly once.
type PreparedRun struct {
	data    []float64
	scratch []float64 // nil for in-place runs
	alloc   Allocator
	done    bool
}

// Execute runs the strategy. For out-of-place runs it copies data into scratch,
// sorts scratch and copies scratch back; on strategy failure data is left untouched.
func (r *PreparedRun) Execute(s Strategy, key KeyFunc) (Outcome, error) {
	if r.done {
		return Outcome{}, fmt.Errorf("prepared run executed twice")
	}
	r.done = true
	if r.scratch == nil {
		return s.Sort(r.data, key)
	}
	copy(r.scratch, r.data)
	out, err := s.Sort(r.scratch, key)
	if err != nil {
		return out, err
	}
	copy(r.data, r.scratch)
	return out, nil
}

// Release returns the scratch sequence to its allocator. Safe to call on in-place runs.
func (r *PreparedRun) Release() {
	if r.scratch != nil {
		r.alloc.Free(r.scratch)
		r.scratch = nil
	}
	r.data = nil
}

// inPlaceAdapter runs the strategy on the caller's sequence.
type inPlaceAdapter struct{}

func (inPlaceAdapter) Mode() Mode { return InPlace }

func (inPlaceAdapter) Prepare(data []float64) (*PreparedRun, error) {
	return &PreparedRun{data: data}, nil
}

// outOfPlaceAdapter runs the strategy on a scratch copy.
type outOfPlaceAdapter struct {
	alloc Allocator
}

func (outOfPlaceAdapter) Mode() Mode { return OutOfPlace }

func (a outOfPlaceAdapter) Prepare(data []float64) (*PreparedRun, error) {
	scratch, err := a.alloc.Alloc(len(data))
	if err != nil {
		return nil, err
	}
	if len(scratch) != len(data) {
		a.alloc.Free(scratch)
		return nil, fmt.Errorf("%w: allocator returned %d elements, want %d", ErrAllocationFailure, len(scratch), len(data))
	}
	if scratch == nil {
		// A zero-length run still follows the out-of-place path.
		scratch = []float64{}
	}
	return &PreparedRun{data: data, scratch: scratch, alloc: a.alloc}, nil
}

// NewBufferAdapter returns the adapter for mode.
func NewBufferAdapter(mode Mode, alloc Allocator) (BufferAdapter, error) {
	switch mode {
	case InPlace:
		return inPlaceAdapter{}, nil
	case OutOfPlace:
		if alloc == nil {
			alloc = HeapAllocator{}
		}
		return outOfPlaceAdapter{alloc: alloc}, nil
	default:
		return nil, fmt.Errorf("%w %d", ErrUnknownMode, int(mode))
	}
}
