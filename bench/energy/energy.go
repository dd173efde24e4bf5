// Package energy provides bench.EnergyProbe implementations: a RAPL reader over the
// Linux powercap sysfs tree and a Null probe that reports zero energy.
package energy

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/greensort/greensort/bench"
)

// Probe sources accepted by Config.Source.
const (
	SourceAuto = "auto"
	SourceRAPL = "rapl"
	SourceNone = "none"
)

// DefaultSysfsRoot is the sysfs mount point searched for powercap zones.
const DefaultSysfsRoot = "/sys"

// ValidSources is the set of recognized probe sources.
var ValidSources = map[string]bool{"": true, SourceAuto: true, SourceRAPL: true, SourceNone: true}

// Config selects and configures an energy probe.
type Config struct {
	Source string `yaml:"source"` // auto (default), rapl or none
	Root   string `yaml:"root"`   // sysfs mount point; DefaultSysfsRoot when empty
}

// Validate checks the source name.
func (c Config) Validate() error {
	if !ValidSources[c.Source] {
		return fmt.Errorf("unknown energy source %q; valid: auto, rapl, none", c.Source)
	}
	return nil
}

// New returns the probe selected by cfg. A RAPL probe that cannot be opened is
// replaced by Null with a warning: missing energy counters never stop a run.
func New(cfg Config, log logrus.FieldLogger) (bench.EnergyProbe, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Source == SourceNone {
		return Null{}, nil
	}
	root := cfg.Root
	if root == "" {
		root = DefaultSysfsRoot
	}
	r, err := OpenRAPL(root)
	if err != nil {
		log.Warnf("energy counters unavailable, reporting zero energy: %v", err)
		return Null{}, nil
	}
	log.Debugf("energy: %d RAPL zones under %s", len(r.zones), root)
	return r, nil
}

// SourceName names the source behind a probe for report headers.
func SourceName(p bench.EnergyProbe) string {
	switch p.(type) {
	case *RAPL:
		return SourceRAPL
	default:
		return SourceNone
	}
}

// Null is a probe without counters. Every delta is zero.
type Null struct{}

// Read implements bench.EnergyProbe.
func (Null) Read() (bench.Counters, error) { return nil, nil }

// Delta implements bench.EnergyProbe.
func (Null) Delta(_, _ bench.Counters) bench.EnergyDelta { return bench.EnergyDelta{} }
