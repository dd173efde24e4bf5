package bench

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// Harness runs one strategy per call between two clock readings and two energy
// readings. A Harness holds no per-run state and may be used concurrently; energy
// readings of concurrent runs are not isolated from each other.
type Harness struct {
	table    *Table
	probe    EnergyProbe
	adapters map[Mode]BufferAdapter
	now      func() time.Time
	log      logrus.FieldLogger
}

// Option configures a Harness.
type Option func(*Harness)

// WithEnergyProbe sets the energy probe. The default reports zero energy.
func WithEnergyProbe(p EnergyProbe) Option {
	return func(h *Harness) { h.probe = p }
}

// WithAllocator sets the scratch allocator used by out-of-place runs.
func WithAllocator(a Allocator) Option {
	return func(h *Harness) {
		if a == nil {
			a = HeapAllocator{}
		}
		h.adapters[OutOfPlace] = outOfPlaceAdapter{alloc: a}
	}
}

// WithClock replaces time.Now. The clock must carry a monotonic reading (as
// time.Now does) so that elapsed time never goes backwards.
func WithClock(now func() time.Time) Option {
	return func(h *Harness) { h.now = now }
}

// WithLogger sets the logger. The default is the logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(h *Harness) { h.log = l }
}

// NewHarness creates a Harness dispatching through table.
func NewHarness(table *Table, opts ...Option) *Harness {
	h := &Harness{
		table: table,
		probe: zeroProbe{},
		adapters: map[Mode]BufferAdapter{
			InPlace:    inPlaceAdapter{},
			OutOfPlace: outOfPlaceAdapter{alloc: HeapAllocator{}},
		},
		now: time.Now,
		log: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Table returns the harness's dispatch table.
func (h *Harness) Table() *Table { return h.table }

type runConfig struct {
	key    KeyFunc
	keySet bool
}

// RunOption configures a single Run.
type RunOption func(*runConfig)

// WithKey overrides the entry's default ordering for one run.
func WithKey(key KeyFunc) RunOption {
	return func(c *runConfig) {
		c.key = key
		c.keySet = true
	}
}

// Run sorts data with the algorithm registered under algorithmID in the given mode
// and returns the measurement. On any failure no Record is returned.
//
// Everything that can fail before the sort (lookup, adapter, scratch allocation) is
// done before the energy snapshot and the clock start. Strategy errors are returned
// unchanged.
func (h *Harness) Run(algorithmID string, mode Mode, data []float64, opts ...RunOption) (*Record, error) {
	entry, err := h.table.Lookup(algorithmID)
	if err != nil {
		return nil, err
	}
	adapter, ok := h.adapters[mode]
	if !ok {
		return nil, fmt.Errorf("%w %d", ErrUnknownMode, int(mode))
	}
	cfg := runConfig{key: entry.Key}
	for _, opt := range opts {
		opt(&cfg)
	}
	n := len(data)
	log := h.log.WithFields(logrus.Fields{"algorithm": algorithmID, "mode": mode.String(), "n": n})

	prepared, err := adapter.Prepare(data)
	if err != nil {
		log.WithError(err).Debug("scratch allocation failed")
		return nil, err
	}
	defer prepared.Release()
	if mode == OutOfPlace {
		log.Debugf("allocated %s of scratch", humanize.IBytes(uint64(n)*elementWidthBytes))
	}

	snap := TakeSnapshot(h.probe)
	start := h.now()
	outcome, sortErr := prepared.Execute(entry.Strategy, cfg.key)
	stop := h.now()
	delta, energyErr := snap.Delta()

	if sortErr != nil {
		log.WithError(sortErr).Debug("strategy failed")
		return nil, sortErr
	}
	if energyErr != nil {
		if !errors.Is(energyErr, ErrEnergyProbeUnavailable) {
			energyErr = fmt.Errorf("%w: %v", ErrEnergyProbeUnavailable, energyErr)
		}
		log.WithError(energyErr).Warn("energy counters unreadable; reporting zero energy")
		delta = EnergyDelta{}
	}

	elapsed := stop.Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}
	rec := newRecord(entry, mode, n, elapsed.Seconds(), delta, outcome)
	log.WithField("elapsed", elapsed).Debug("run complete")
	return rec, nil
}

// zeroProbe is the harness default: no counters, zero energy.
type zeroProbe struct{}

func (zeroProbe) Read() (Counters, error)         { return nil, nil }
func (zeroProbe) Delta(_, _ Counters) EnergyDelta { return EnergyDelta{} }
