package input

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Spec describes one input sequence. When File is set the sequence is read from
// that file and the generator fields are ignored.
type Spec struct {
	N            int                `yaml:"n"`
	Seed         int64              `yaml:"seed"`
	Distribution string             `yaml:"distribution"`
	Params       map[string]float64 `yaml:"params,omitempty"`
	File         string             `yaml:"file,omitempty"`
}

// DefaultSpec returns the input used when nothing is configured.
func DefaultSpec() Spec {
	return Spec{N: 1_000_000, Seed: 42, Distribution: DistUniform}
}

// LoadSpec reads a Spec from a YAML file. Unknown fields are rejected.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input spec: %w", err)
	}
	var spec Spec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing input spec: %w", err)
	}
	return &spec, nil
}

// Validate checks that all fields in the spec are valid.
func (s Spec) Validate() error {
	if s.File != "" {
		return nil
	}
	if s.N < 0 {
		return fmt.Errorf("n must be >= 0, got %d", s.N)
	}
	p, err := params(s.Distribution, s.Params)
	if err != nil {
		return err
	}
	if _, err := NewValueSampler(s.Distribution, p); err != nil {
		return err
	}
	switch s.Distribution {
	case DistNearlySorted:
		if f := p["swap_fraction"]; f < 0 || f > 1 {
			return fmt.Errorf("nearly-sorted: swap_fraction must be in [0, 1], got %v", f)
		}
	case DistRuns:
		if p["run_length"] < 1 {
			return fmt.Errorf("runs: run_length must be >= 1, got %v", p["run_length"])
		}
	case DistSawtooth:
		if p["period"] < 1 {
			return fmt.Errorf("sawtooth: period must be >= 1, got %v", p["period"])
		}
	case DistTagged:
		if p["groups"] < 1 {
			return fmt.Errorf("tagged: groups must be >= 1, got %v", p["groups"])
		}
	}
	return nil
}

// Generate produces the sequence. The same Spec always yields the same sequence.
func (s Spec) Generate() ([]float64, error) {
	if s.File != "" {
		return ReadFile(s.File)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	p, _ := params(s.Distribution, s.Params)
	sampler, _ := NewValueSampler(s.Distribution, p)
	rng := NewPartitionedRNG(s.Seed)
	values := rng.ForSubsystem(SubsystemValues)

	n := s.N
	out := make([]float64, n)
	switch s.Distribution {
	case DistSawtooth:
		period := int(p["period"])
		for i := range out {
			out[i] = float64(i % period)
		}
		return out, nil
	case DistOrganPipe:
		for i := range out {
			out[i] = float64(min(i, n-1-i))
		}
		return out, nil
	case DistTagged:
		groups := int(p["groups"])
		for i := range out {
			out[i] = float64(values.Intn(groups)) + float64(i+1)/float64(n+1)
		}
		return out, nil
	}

	for i := range out {
		out[i] = sampler.Sample(values)
	}
	switch s.Distribution {
	case DistSorted:
		sort.Float64s(out)
	case DistReversed:
		sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	case DistNearlySorted:
		sort.Float64s(out)
		if n > 1 {
			arrange := rng.ForSubsystem(SubsystemArrange)
			swaps := int(p["swap_fraction"] * float64(n))
			for k := 0; k < swaps; k++ {
				i, j := arrange.Intn(n), arrange.Intn(n)
				out[i], out[j] = out[j], out[i]
			}
		}
	case DistRuns:
		runLen := int(p["run_length"])
		for lo := 0; lo < n; lo += runLen {
			sort.Float64s(out[lo:min(lo+runLen, n)])
		}
	}
	return out, nil
}
