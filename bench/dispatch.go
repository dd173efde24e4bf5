package bench

import (
	"fmt"
	"sort"
)

// Entry binds an algorithm ID to its strategy, default ordering and descriptor.
type Entry struct {
	Descriptor Descriptor
	Strategy   Strategy
	Key        KeyFunc // default ordering; nil = natural order
}

// Table maps algorithm IDs to entries. It is immutable after construction and safe
// for concurrent lookups.
type Table struct {
	entries map[string]Entry
	ids     []string
}

// NewTable builds a dispatch table. Empty IDs, duplicate IDs and nil strategies are
// rejected.
func NewTable(entries ...Entry) (*Table, error) {
	t := &Table{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		id := e.Descriptor.ID
		if id == "" {
			return nil, fmt.Errorf("dispatch entry with empty algorithm id")
		}
		if e.Strategy == nil {
			return nil, fmt.Errorf("dispatch entry %q has no strategy", id)
		}
		if _, exists := t.entries[id]; exists {
			return nil, fmt.Errorf("%w %q", ErrDuplicateAlgorithm, id)
		}
		t.entries[id] = e
		t.ids = append(t.ids, id)
	}
	sort.Strings(t.ids)
	return t, nil
}

// Lookup returns the entry for id, or ErrUnknownAlgorithm.
func (t *Table) Lookup(id string) (Entry, error) {
	e, ok := t.entries[id]
	if !ok {
		return Entry{}, fmt.Errorf("%w %q", ErrUnknownAlgorithm, id)
	}
	return e, nil
}

// IDs returns every registered algorithm ID in sorted order.
func (t *Table) IDs() []string {
	return append([]string(nil), t.ids...)
}

// Descriptors returns every descriptor, sorted by ID.
func (t *Table) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(t.ids))
	for _, id := range t.ids {
		out = append(out, t.entries[id].Descriptor)
	}
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.ids) }

// NewDefaultTableFunc builds the production dispatch table. It is set by bench/sorts
// in its init(); importing bench/sorts (directly or blank) is required before calling
// DefaultTable.
var NewDefaultTableFunc func(tuning Tuning) (*Table, error)

// DefaultTable validates tuning and builds the production dispatch table.
func DefaultTable(tuning Tuning) (*Table, error) {
	if NewDefaultTableFunc == nil {
		return nil, fmt.Errorf("no default table registered; import github.com/greensort/greensort/bench/sorts")
	}
	if err := tuning.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning: %w", err)
	}
	return NewDefaultTableFunc(tuning)
}
