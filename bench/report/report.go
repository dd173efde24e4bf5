// Package report writes bench.Record values in the formats the CLI offers: an
// aligned text summary, JSON, YAML, Go benchmark format and a CSV of the
// positional record vector.
package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/greensort/greensort/bench"
	"github.com/greensort/greensort/bench/host"
	"github.com/greensort/greensort/bench/input"
)

// Output formats accepted by New.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatBenchfmt = "benchfmt"
	FormatVector   = "vector"
)

// ValidFormats is the set of record formats.
var ValidFormats = map[string]bool{
	FormatText:     true,
	FormatJSON:     true,
	FormatYAML:     true,
	FormatBenchfmt: true,
	FormatVector:   true,
}

// FormatNames returns the record format names in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for name := range ValidFormats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Header describes the invocation that produced a set of records.
type Header struct {
	RunID        string        `json:"run_id" yaml:"run_id"`
	Started      time.Time     `json:"started" yaml:"started"`
	Host         host.Info     `json:"host" yaml:"host"`
	EnergySource string        `json:"energy_source" yaml:"energy_source"`
	Input        input.Summary `json:"input" yaml:"input"`
	Distribution string        `json:"distribution,omitempty" yaml:"distribution,omitempty"`
	Seed         int64         `json:"seed" yaml:"seed"`
}

// NewRunID returns a fresh identifier for one CLI invocation.
func NewRunID() string {
	return uuid.New().String()
}

// Writer emits one header followed by any number of records. Formats that produce
// a single document buffer records until Flush.
type Writer interface {
	WriteHeader(h Header) error
	WriteRecord(r *bench.Record) error
	Flush() error
}

// New returns a Writer for format writing to w.
func New(format string, w io.Writer) (Writer, error) {
	switch format {
	case FormatText, "":
		return &textWriter{w: w}, nil
	case FormatJSON:
		return &documentWriter{w: w, encode: encodeJSON}, nil
	case FormatYAML:
		return &documentWriter{w: w, encode: encodeYAML}, nil
	case FormatBenchfmt:
		return newBenchfmtWriter(bufio.NewWriter(w)), nil
	case FormatVector:
		return &vectorWriter{w: csv.NewWriter(w)}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q; valid: text, json, yaml, benchfmt, vector", format)
	}
}
