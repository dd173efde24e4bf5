package input

import (
	"fmt"
	"math/rand"
	"sort"
)

// Distribution names accepted by Spec.Distribution.
const (
	DistUniform      = "uniform"
	DistNormal       = "normal"
	DistExponential  = "exponential"
	DistSorted       = "sorted"
	DistReversed     = "reversed"
	DistNearlySorted = "nearly-sorted"
	DistFewUnique    = "few-unique"
	DistRuns         = "runs"
	DistSawtooth     = "sawtooth"
	DistOrganPipe    = "organ-pipe"
	DistAllEqual     = "all-equal"
	DistTagged       = "tagged"
)

// ValidDistributions maps every distribution name to its parameters and defaults.
var ValidDistributions = map[string]map[string]float64{
	DistUniform:      {"min": 0, "max": 1},
	DistNormal:       {"mean": 0, "std_dev": 1},
	DistExponential:  {"mean": 1},
	DistSorted:       {"min": 0, "max": 1},
	DistReversed:     {"min": 0, "max": 1},
	DistNearlySorted: {"min": 0, "max": 1, "swap_fraction": 0.01},
	DistFewUnique:    {"distinct": 8},
	DistRuns:         {"run_length": 32},
	DistSawtooth:     {"period": 64},
	DistOrganPipe:    {},
	DistAllEqual:     {"value": 1},
	DistTagged:       {"groups": 16},
}

// DistributionNames returns the distribution names in sorted order.
func DistributionNames() []string {
	names := make([]string, 0, len(ValidDistributions))
	for name := range ValidDistributions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValueSampler draws one element value.
type ValueSampler interface {
	Sample(rng *rand.Rand) float64
}

// UniformSampler draws from [lo, hi).
type UniformSampler struct {
	lo, hi float64
}

func (s *UniformSampler) Sample(rng *rand.Rand) float64 {
	return s.lo + rng.Float64()*(s.hi-s.lo)
}

// GaussianSampler draws from a normal distribution.
type GaussianSampler struct {
	mean, stdDev float64
}

func (s *GaussianSampler) Sample(rng *rand.Rand) float64 {
	return rng.NormFloat64()*s.stdDev + s.mean
}

// ExponentialSampler draws exponentially distributed values.
type ExponentialSampler struct {
	mean float64
}

func (s *ExponentialSampler) Sample(rng *rand.Rand) float64 {
	return rng.ExpFloat64() * s.mean
}

// ChoiceSampler draws uniformly from a fixed set of values.
type ChoiceSampler struct {
	values []float64
}

func (s *ChoiceSampler) Sample(rng *rand.Rand) float64 {
	return s.values[rng.Intn(len(s.values))]
}

// ConstantSampler always returns the same value.
type ConstantSampler struct {
	value float64
}

func (s *ConstantSampler) Sample(_ *rand.Rand) float64 { return s.value }

// params merges user parameters over the distribution defaults and rejects
// parameters the distribution does not use.
func params(dist string, user map[string]float64) (map[string]float64, error) {
	defaults, ok := ValidDistributions[dist]
	if !ok {
		return nil, fmt.Errorf("unknown distribution %q", dist)
	}
	out := make(map[string]float64, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range user {
		if _, ok := defaults[k]; !ok {
			return nil, fmt.Errorf("distribution %q has no parameter %q", dist, k)
		}
		out[k] = v
	}
	return out, nil
}

// NewValueSampler creates the sampler that draws the values of a distribution
// before it is arranged.
func NewValueSampler(dist string, p map[string]float64) (ValueSampler, error) {
	switch dist {
	case DistUniform, DistSorted, DistReversed, DistNearlySorted:
		if p["max"] <= p["min"] {
			return nil, fmt.Errorf("%s: max must be greater than min, got [%v, %v]", dist, p["min"], p["max"])
		}
		return &UniformSampler{lo: p["min"], hi: p["max"]}, nil
	case DistNormal:
		if p["std_dev"] < 0 {
			return nil, fmt.Errorf("normal: std_dev must be >= 0, got %v", p["std_dev"])
		}
		return &GaussianSampler{mean: p["mean"], stdDev: p["std_dev"]}, nil
	case DistExponential:
		if p["mean"] <= 0 {
			return nil, fmt.Errorf("exponential: mean must be positive, got %v", p["mean"])
		}
		return &ExponentialSampler{mean: p["mean"]}, nil
	case DistFewUnique:
		k := int(p["distinct"])
		if k < 1 {
			return nil, fmt.Errorf("few-unique: distinct must be >= 1, got %v", p["distinct"])
		}
		values := make([]float64, k)
		for i := range values {
			values[i] = float64(i)
		}
		return &ChoiceSampler{values: values}, nil
	case DistAllEqual:
		return &ConstantSampler{value: p["value"]}, nil
	case DistRuns, DistSawtooth, DistOrganPipe, DistTagged:
		return &UniformSampler{lo: 0, hi: 1}, nil
	default:
		return nil, fmt.Errorf("unknown distribution %q", dist)
	}
}
