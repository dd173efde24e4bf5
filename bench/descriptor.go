package bench

import "math"

// CostModel returns the nominal memory multiplier of an algorithm for n elements.
// It is a documented label, never a measurement.
type CostModel func(n int) float64

// ConstantCost returns a CostModel that ignores n.
func ConstantCost(c float64) CostModel {
	return func(int) float64 { return c }
}

// SqrtOverheadCost models algorithms whose auxiliary memory grows with sqrt(n):
// (n + sqrt(n)) / n. It reports 1.0 for n == 0.
func SqrtOverheadCost() CostModel {
	return func(n int) float64 {
		if n <= 0 {
			return 1.0
		}
		f := float64(n)
		return (f + math.Sqrt(f)) / f
	}
}

// Descriptor identifies one strategy variant and its documented traits.
type Descriptor struct {
	ID           string    `json:"id" yaml:"id"`
	Family       string    `json:"family" yaml:"family"`
	Description  string    `json:"description" yaml:"description"`
	Stable       bool      `json:"stable" yaml:"stable"`               // equal keys keep their relative order
	Parallel     bool      `json:"parallel" yaml:"parallel"`           // strategy may use several goroutines
	AcceptsEmpty bool      `json:"accepts_empty" yaml:"accepts_empty"` // n == 0 is a valid input
	Cost         CostModel `json:"-" yaml:"-"`
}

// CostMultiplier evaluates the descriptor's cost model; a nil model means 1.0.
func (d Descriptor) CostMultiplier(n int) float64 {
	if d.Cost == nil {
		return 1.0
	}
	return d.Cost(n)
}
