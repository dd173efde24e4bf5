package bench

import "errors"

var (
	// ErrUnknownAlgorithm is returned when an algorithm ID has no dispatch entry.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")

	// ErrUnknownMode is returned for a Mode without a BufferAdapter.
	ErrUnknownMode = errors.New("unknown execution mode")

	// ErrAllocationFailure is returned when an out-of-place run cannot obtain its
	// scratch sequence. No timing or energy measurement is taken in that case.
	ErrAllocationFailure = errors.New("scratch allocation failed")

	// ErrEnergyProbeUnavailable reports that energy counters cannot be read on this
	// host. The harness never fails a run for it; deltas fall back to zero.
	ErrEnergyProbeUnavailable = errors.New("energy counters unavailable")

	// ErrSnapshotConsumed is returned by a second Delta call on the same snapshot.
	ErrSnapshotConsumed = errors.New("energy snapshot already consumed")

	// ErrDuplicateAlgorithm is returned by NewTable when two entries share an ID.
	ErrDuplicateAlgorithm = errors.New("duplicate algorithm id")
)
