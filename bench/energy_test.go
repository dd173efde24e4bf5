package bench

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnergySnapshot_SingleUse(t *testing.T) {
	// GIVEN a snapshot from a working probe
	log := &eventLog{}
	snap := TakeSnapshot(&loggingProbe{log: log, perRead: 1_000_000})

	// WHEN Delta is called twice
	first, err := snap.Delta()
	require.NoError(t, err)
	_, err = snap.Delta()

	// THEN the first succeeds and the second is rejected without reading counters again
	assert.InDelta(t, 1.0, first.Base, 1e-12)
	assert.ErrorIs(t, err, ErrSnapshotConsumed)
	assert.Equal(t, []string{"energy", "energy"}, log.events)
}

func TestEnergySnapshot_ReadFailure_ZeroDelta(t *testing.T) {
	unavailable := fmt.Errorf("%w: no powercap", ErrEnergyProbeUnavailable)
	snap := TakeSnapshot(&loggingProbe{log: &eventLog{}, err: unavailable})

	d, err := snap.Delta()

	assert.Equal(t, EnergyDelta{}, d)
	assert.ErrorIs(t, err, ErrEnergyProbeUnavailable)
}

type flakyProbe struct {
	calls int
}

func (p *flakyProbe) Read() (Counters, error) {
	p.calls++
	if p.calls > 1 {
		return nil, errors.New("counter vanished")
	}
	return Counters{1}, nil
}

func (p *flakyProbe) Delta(_, _ Counters) EnergyDelta { return EnergyDelta{Base: 99} }

func TestEnergySnapshot_SecondReadFailure_ZeroDelta(t *testing.T) {
	snap := TakeSnapshot(&flakyProbe{})

	d, err := snap.Delta()

	assert.Error(t, err)
	assert.Equal(t, EnergyDelta{}, d)
}
