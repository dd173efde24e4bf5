package bench

// Counters is a raw counter reading in a probe-specific layout. Only the probe that
// produced it can interpret it.
type Counters []uint64

// EnergyDelta is the energy consumed between two readings, in joules, per domain.
// All fields are non-negative.
type EnergyDelta struct {
	Base float64 `json:"base" yaml:"base"` // package
	Core float64 `json:"core" yaml:"core"`
	Unco float64 `json:"unco" yaml:"unco"` // uncore
	Dram float64 `json:"dram" yaml:"dram"`
}

// EnergyProbe reads process-wide energy counters.
// Read must be cheap; it runs immediately before and after the timed window.
type EnergyProbe interface {
	// Read returns the current raw counters, or an error wrapping
	// ErrEnergyProbeUnavailable when the counters cannot be read.
	Read() (Counters, error)

	// Delta converts two readings taken by this probe into consumed energy,
	// resolving counter wraparound.
	Delta(from, to Counters) EnergyDelta
}

// EnergySnapshot is a single-use token holding the counters read at one instant.
type EnergySnapshot struct {
	probe    EnergyProbe
	from     Counters
	readErr  error
	consumed bool
}

// TakeSnapshot reads the probe's counters. A read failure is remembered rather than
// returned: the matching Delta reports zero energy together with the error.
func TakeSnapshot(p EnergyProbe) *EnergySnapshot {
	from, err := p.Read()
	return &EnergySnapshot{probe: p, from: from, readErr: err}
}

// Delta returns the energy consumed since the snapshot was taken. It may be called
// once; later calls return ErrSnapshotConsumed. If either reading failed the delta
// is zero and the returned error wraps the read failure. Callers treat such errors
// as non-fatal.
func (s *EnergySnapshot) Delta() (EnergyDelta, error) {
	if s.consumed {
		return EnergyDelta{}, ErrSnapshotConsumed
	}
	s.consumed = true
	if s.readErr != nil {
		return EnergyDelta{}, s.readErr
	}
	to, err := s.probe.Read()
	if err != nil {
		return EnergyDelta{}, err
	}
	return s.probe.Delta(s.from, to), nil
}
