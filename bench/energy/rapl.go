package energy

import (
	"fmt"
	"strings"

	"github.com/prometheus/procfs/sysfs"

	"github.com/greensort/greensort/bench"
)

// domain identifies which EnergyDelta field a zone contributes to.
type domain int

const (
	domainNone domain = iota
	domainPackage
	domainCore
	domainUncore
	domainDram
)

// classify maps a powercap zone name to its energy domain. Zones such as psys
// that fall outside the four reported domains are ignored.
func classify(name string) domain {
	switch {
	case strings.HasPrefix(name, "package"):
		return domainPackage
	case strings.HasPrefix(name, "uncore"):
		return domainUncore
	case strings.HasPrefix(name, "core"):
		return domainCore
	case strings.HasPrefix(name, "dram"):
		return domainDram
	default:
		return domainNone
	}
}

// zone is the subset of a RAPL powercap zone the probe reads.
type zone interface {
	Energy() (uint64, error) // cumulative microjoules
	MaxEnergy() uint64       // counter range; the counter wraps to zero here
}

type sysfsZone struct {
	rz sysfs.RaplZone
}

func (z sysfsZone) Energy() (uint64, error) { return z.rz.GetEnergyMicrojoules() }
func (z sysfsZone) MaxEnergy() uint64       { return z.rz.MaxMicrojoules }

// RAPL reads the Running Average Power Limit counters of every package, core,
// uncore and DRAM zone. Zones of the same domain on several sockets are summed.
type RAPL struct {
	zones   []zone
	domains []domain
}

// OpenRAPL discovers the powercap zones below the sysfs mount point root. It fails
// with bench.ErrEnergyProbeUnavailable when no readable zone exists.
func OpenRAPL(root string) (*RAPL, error) {
	fs, err := sysfs.NewFS(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", bench.ErrEnergyProbeUnavailable, err)
	}
	rzs, err := sysfs.GetRaplZones(fs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", bench.ErrEnergyProbeUnavailable, err)
	}
	r := &RAPL{}
	for _, rz := range rzs {
		d := classify(rz.Name)
		if d == domainNone {
			continue
		}
		z := sysfsZone{rz: rz}
		if _, err := z.Energy(); err != nil {
			return nil, fmt.Errorf("%w: zone %s: %v", bench.ErrEnergyProbeUnavailable, rz.Name, err)
		}
		r.zones = append(r.zones, z)
		r.domains = append(r.domains, d)
	}
	if len(r.zones) == 0 {
		return nil, fmt.Errorf("%w: no RAPL zones under %s", bench.ErrEnergyProbeUnavailable, root)
	}
	return r, nil
}

// Read implements bench.EnergyProbe. Counters hold one microjoule reading per zone.
func (r *RAPL) Read() (bench.Counters, error) {
	c := make(bench.Counters, len(r.zones))
	for i, z := range r.zones {
		v, err := z.Energy()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", bench.ErrEnergyProbeUnavailable, err)
		}
		c[i] = v
	}
	return c, nil
}

// Delta implements bench.EnergyProbe. A counter that went backwards is assumed to
// have wrapped once; a reading outside the zone's range counts as zero.
func (r *RAPL) Delta(from, to bench.Counters) bench.EnergyDelta {
	var e bench.EnergyDelta
	if len(from) != len(r.zones) || len(to) != len(r.zones) {
		return e
	}
	for i, z := range r.zones {
		j := float64(wrappedDelta(from[i], to[i], z.MaxEnergy())) / 1e6
		switch r.domains[i] {
		case domainPackage:
			e.Base += j
		case domainCore:
			e.Core += j
		case domainUncore:
			e.Unco += j
		case domainDram:
			e.Dram += j
		}
	}
	return e
}

func wrappedDelta(from, to, maxRange uint64) uint64 {
	if to >= from {
		return to - from
	}
	if maxRange == 0 || from > maxRange {
		return 0
	}
	return maxRange - from + to
}
