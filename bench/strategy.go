package bench

// KeyFunc maps an element to its sort key. Elements are ordered by key(a) < key(b),
// which must be a strict weak ordering (NaN keys are not supported).
// A nil KeyFunc orders elements by value.
type KeyFunc func(float64) float64

// Outcome carries facts a strategy reports about its own execution. The harness
// copies them into the Record without interpreting them.
type Outcome struct {
	// BufferSwapped is set by strategies that ping-pong between the sequence and an
	// auxiliary buffer when the final pass landed in the auxiliary buffer.
	BufferSwapped bool
}

// Strategy sorts a sequence in place. Implementations must leave data sorted by key
// when they return a nil error and must not retain data after returning.
// An error is propagated to the caller of Harness.Run unchanged.
type Strategy interface {
	Sort(data []float64, key KeyFunc) (Outcome, error)
}

// StrategyFunc adapts an ordinary function to the Strategy interface.
type StrategyFunc func(data []float64, key KeyFunc) (Outcome, error)

// Sort implements Strategy.
func (f StrategyFunc) Sort(data []float64, key KeyFunc) (Outcome, error) {
	return f(data, key)
}
