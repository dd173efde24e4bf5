package report

import (
	"bufio"
	"fmt"
	"strconv"

	"golang.org/x/perf/benchfmt"

	"github.com/greensort/greensort/bench"
)

// benchfmtWriter writes the Go benchmark format: file configuration lines, then
// one result line per record of the form
//
//	BenchmarkSort/algo=pdqsort/mode=in-place/n=1000 1 123456 ns/op 0.5 J-pkg/op ...
//
// so that records can be compared with benchstat. The configuration is emitted
// by benchfmt.Writer ahead of the first result.
type benchfmtWriter struct {
	buf    *bufio.Writer
	w      *benchfmt.Writer
	config []benchfmt.Config
}

func newBenchfmtWriter(buf *bufio.Writer) *benchfmtWriter {
	return &benchfmtWriter{buf: buf, w: benchfmt.NewWriter(buf)}
}

func (b *benchfmtWriter) WriteHeader(h Header) error {
	b.config = b.config[:0]
	for _, kv := range [][2]string{
		{"goos", h.Host.OS},
		{"goarch", h.Host.Arch},
		{"pkg", "github.com/greensort/greensort"},
		{"run-id", h.RunID},
		{"energy-source", h.EnergySource},
		{"distribution", h.Distribution},
		{"seed", strconv.FormatInt(h.Seed, 10)},
	} {
		if kv[1] == "" {
			continue
		}
		b.config = append(b.config, benchfmt.Config{Key: kv[0], Value: []byte(kv[1]), File: true})
	}
	return nil
}

func (b *benchfmtWriter) WriteRecord(r *bench.Record) error {
	res := &benchfmt.Result{
		Config: b.config,
		Name:   benchfmt.Name(fmt.Sprintf("Sort/algo=%s/mode=%s/n=%d", r.Algorithm, r.Mode, r.N)),
		Iters:  1,
		Values: []benchfmt.Value{
			{Value: r.ElapsedSeconds * 1e9, Unit: "ns/op"},
			{Value: r.CostMultiplier, Unit: "cost-x"},
			{Value: r.EnergyBase, Unit: "J-pkg/op"},
			{Value: r.EnergyCore, Unit: "J-core/op"},
			{Value: r.EnergyUnco, Unit: "J-uncore/op"},
			{Value: r.EnergyDram, Unit: "J-dram/op"},
		},
	}
	return b.w.Write(res)
}

func (b *benchfmtWriter) Flush() error { return b.buf.Flush() }
