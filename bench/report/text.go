package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/greensort/greensort/bench"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Faint(true)
)

type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *textWriter) field(label, format string, args ...any) {
	t.printf("%s : %s\n", labelStyle.Render(fmt.Sprintf("%-20s", label)), fmt.Sprintf(format, args...))
}

func (t *textWriter) WriteHeader(h Header) error {
	t.printf("%s\n", titleStyle.Render("=== Sort Benchmark ==="))
	t.field("Run ID", "%s", h.RunID)
	t.field("Host", "%s (%s/%s, %d CPUs)", h.Host.Hostname, h.Host.OS, h.Host.Arch, h.Host.CPUs)
	if h.Host.Kernel != "" {
		t.field("Kernel", "%s", h.Host.Kernel)
	}
	t.field("Energy Source", "%s", h.EnergySource)
	if h.Distribution != "" {
		t.field("Input", "%s, n=%d, seed=%d", h.Distribution, h.Input.N, h.Seed)
	} else {
		t.field("Input", "n=%d", h.Input.N)
	}
	if h.Input.N > 0 {
		t.field("Input Range", "[%g, %g] mean %g", h.Input.Min, h.Input.Max, h.Input.Mean)
	}
	return t.err
}

func (t *textWriter) WriteRecord(r *bench.Record) error {
	t.printf("\n%s\n", titleStyle.Render(fmt.Sprintf("--- %s (%s) ---", r.Algorithm, r.Mode)))
	t.field("Elements", "%d", r.N)
	t.field("Elapsed", "%.6f s", r.ElapsedSeconds)
	t.field("Cost Multiplier", "%.4f", r.CostMultiplier)
	t.field("Energy Package", "%.6f J", r.EnergyBase)
	t.field("Energy Core", "%.6f J", r.EnergyCore)
	t.field("Energy Uncore", "%.6f J", r.EnergyUnco)
	t.field("Energy DRAM", "%.6f J", r.EnergyDram)
	if r.BufferSwapped {
		t.field("Buffer Swapped", "yes")
	}
	return t.err
}

func (t *textWriter) Flush() error { return t.err }
