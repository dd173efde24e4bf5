package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/greensort/greensort/bench"
)

// ListEntry is a descriptor with its cost multiplier evaluated at a reference size.
type ListEntry struct {
	bench.Descriptor `yaml:",inline"`
	CostMultiplier   float64 `json:"cost_multiplier" yaml:"cost_multiplier"`
	CostAtN          int     `json:"cost_at_n" yaml:"cost_at_n"`
}

// ValidListFormats is the set of formats accepted by WriteList.
var ValidListFormats = map[string]bool{FormatText: true, FormatJSON: true, FormatYAML: true}

// WriteList writes descriptors in the given format, evaluating cost models at n.
func WriteList(w io.Writer, format string, descriptors []bench.Descriptor, n int) error {
	entries := make([]ListEntry, len(descriptors))
	for i, d := range descriptors {
		entries[i] = ListEntry{Descriptor: d, CostMultiplier: d.CostMultiplier(n), CostAtN: n}
	}
	switch format {
	case FormatText, "":
		return writeListText(w, entries, n)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown list format %q; valid: text, json, yaml", format)
	}
}

func writeListText(w io.Writer, entries []ListEntry, n int) error {
	if _, err := fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("=== Algorithms (cost at n=%d) ===", n))); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFAMILY\tSTABLE\tPARALLEL\tEMPTY\tCOST\tDESCRIPTION")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.4f\t%s\n",
			e.ID, e.Family, yesNo(e.Stable), yesNo(e.Parallel), yesNo(e.AcceptsEmpty), e.CostMultiplier, e.Description)
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
