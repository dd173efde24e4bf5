// Package bench provides the measurement-and-dispatch core of greensort.
//
// # Reading Guide
//
// Start with these files to understand a single measurement:
//   - harness.go: the Run protocol (lookup, prepare, snapshot, clock, sort, clock, delta, record)
//   - buffer.go: in-place and out-of-place execution modes and the scratch Allocator
//   - energy.go: EnergyProbe and the single-use EnergySnapshot
//   - record.go: the fixed-shape Record and its positional vector
//
// # Architecture
//
// The bench package defines interfaces and the dispatch table; implementations live in
// sub-packages:
//   - bench/sorts/: the sorting strategy family and the default dispatch table
//   - bench/energy/: energy probes (RAPL powercap, null)
//   - bench/input/: deterministic input generation
//   - bench/report/: record writers
//   - bench/host/: CPU pinning and GC quiescing around a run
//
// bench/sorts registers its table constructor via init() by setting
// NewDefaultTableFunc, so bench never imports its implementations.
//
// # Key Interfaces
//
//   - Strategy: sort a []float64 under an optional KeyFunc
//   - BufferAdapter: prepare and execute a run in one execution Mode
//   - Allocator: provide scratch sequences for out-of-place runs
//   - EnergyProbe: read raw counters and turn two readings into an EnergyDelta
package bench
