// Package host keeps measurements repeatable: it pins the measuring goroutine to a
// CPU, quiesces the garbage collector around a run and describes the machine for
// report headers.
package host

import (
	"errors"
	"os"
	"runtime"
	"runtime/debug"

	"golang.org/x/sys/cpu"
)

// ErrPinUnsupported is returned by Pin on platforms without CPU affinity control.
var ErrPinUnsupported = errors.New("cpu pinning is not supported on this platform")

// Info describes the measuring machine.
type Info struct {
	Hostname  string   `json:"hostname" yaml:"hostname"`
	OS        string   `json:"os" yaml:"os"`
	Arch      string   `json:"arch" yaml:"arch"`
	Kernel    string   `json:"kernel" yaml:"kernel"`
	CPUs      int      `json:"cpus" yaml:"cpus"`
	GoVersion string   `json:"go_version" yaml:"go_version"`
	Features  []string `json:"features,omitempty" yaml:"features,omitempty"`
}

// Describe collects Info for the current machine. Fields that cannot be
// determined are left empty.
func Describe() Info {
	hostname, _ := os.Hostname()
	return Info{
		Hostname:  hostname,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		Kernel:    kernelRelease(),
		CPUs:      runtime.NumCPU(),
		GoVersion: runtime.Version(),
		Features:  cpuFeatures(),
	}
}

func cpuFeatures() []string {
	var out []string
	add := func(ok bool, name string) {
		if ok {
			out = append(out, name)
		}
	}
	add(cpu.X86.HasAVX2, "avx2")
	add(cpu.X86.HasAVX512F, "avx512f")
	add(cpu.X86.HasBMI2, "bmi2")
	add(cpu.ARM64.HasASIMD, "asimd")
	add(cpu.ARM64.HasSVE, "sve")
	return out
}

// Quiesce runs a full collection so that garbage from earlier runs is not
// collected inside the next timed window. With disableGC set the collector stays
// off until the returned function is called.
//
//	defer host.Quiesce(true)()
func Quiesce(disableGC bool) func() {
	runtime.GC()
	if !disableGC {
		return func() {}
	}
	prev := debug.SetGCPercent(-1)
	return func() { debug.SetGCPercent(prev) }
}
