package bench

import (
	"fmt"
	"strings"
)

// Mode selects how a run treats the caller's sequence.
type Mode int

const (
	// InPlace sorts the caller's sequence directly.
	InPlace Mode = iota + 1
	// OutOfPlace sorts a scratch copy and copies the result back.
	OutOfPlace
)

// Modes lists every execution mode in canonical order.
var Modes = []Mode{InPlace, OutOfPlace}

// modeNames maps accepted spellings to modes. The insitu/exsitu forms are the
// names used by the R bindings this tool replaces.
var modeNames = map[string]Mode{
	"in-place":     InPlace,
	"inplace":      InPlace,
	"in-situ":      InPlace,
	"insitu":       InPlace,
	"out-of-place": OutOfPlace,
	"outofplace":   OutOfPlace,
	"ex-situ":      OutOfPlace,
	"exsitu":       OutOfPlace,
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	if m, ok := modeNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownMode, s)
}

// IsValidMode returns true if the given name parses to a Mode.
func IsValidMode(s string) bool {
	_, err := ParseMode(s)
	return err == nil
}

func (m Mode) String() string {
	switch m {
	case InPlace:
		return "in-place"
	case OutOfPlace:
		return "out-of-place"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Flag is the value stored at index 3 of the record vector: 1 for in-place,
// 2 for out-of-place.
func (m Mode) Flag() int {
	return int(m)
}

// MarshalText implements encoding.TextMarshaler so records serialize the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	if m != InPlace && m != OutOfPlace {
		return nil, fmt.Errorf("%w %d", ErrUnknownMode, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
