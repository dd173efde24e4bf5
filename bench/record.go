package bench

// RecordWidth is the number of positional fields in a record vector.
const RecordWidth = 10

// RecordFieldNames names the positional fields returned by Record.Fields, in order.
var RecordFieldNames = [RecordWidth]string{
	"n",
	"element_width_bytes",
	"stride_elements",
	"mode_flag",
	"cost_multiplier",
	"elapsed_seconds",
	"energy_base",
	"energy_core",
	"energy_unco",
	"energy_dram",
}

// Record is the result of one measured run. It is produced only by a successful
// Harness.Run and never modified afterwards.
type Record struct {
	Algorithm string `json:"algorithm" yaml:"algorithm"`
	Mode      Mode   `json:"mode" yaml:"mode"`

	N                 int     `json:"n" yaml:"n"`
	ElementWidthBytes int     `json:"element_width_bytes" yaml:"element_width_bytes"`
	StrideElements    int     `json:"stride_elements" yaml:"stride_elements"`
	ModeFlag          int     `json:"mode_flag" yaml:"mode_flag"`
	CostMultiplier    float64 `json:"cost_multiplier" yaml:"cost_multiplier"`
	ElapsedSeconds    float64 `json:"elapsed_seconds" yaml:"elapsed_seconds"`
	EnergyBase        float64 `json:"energy_base" yaml:"energy_base"`
	EnergyCore        float64 `json:"energy_core" yaml:"energy_core"`
	EnergyUnco        float64 `json:"energy_unco" yaml:"energy_unco"`
	EnergyDram        float64 `json:"energy_dram" yaml:"energy_dram"`

	BufferSwapped bool `json:"buffer_swapped" yaml:"buffer_swapped"`
}

// Fields returns the positional record vector in RecordFieldNames order.
func (r Record) Fields() [RecordWidth]float64 {
	return [RecordWidth]float64{
		float64(r.N),
		float64(r.ElementWidthBytes),
		float64(r.StrideElements),
		float64(r.ModeFlag),
		r.CostMultiplier,
		r.ElapsedSeconds,
		r.EnergyBase,
		r.EnergyCore,
		r.EnergyUnco,
		r.EnergyDram,
	}
}

// Energy returns the record's energy fields as an EnergyDelta.
func (r Record) Energy() EnergyDelta {
	return EnergyDelta{Base: r.EnergyBase, Core: r.EnergyCore, Unco: r.EnergyUnco, Dram: r.EnergyDram}
}

func newRecord(entry Entry, mode Mode, n int, elapsedSeconds float64, e EnergyDelta, out Outcome) *Record {
	return &Record{
		Algorithm:         entry.Descriptor.ID,
		Mode:              mode,
		N:                 n,
		ElementWidthBytes: elementWidthBytes,
		StrideElements:    1,
		ModeFlag:          mode.Flag(),
		CostMultiplier:    entry.Descriptor.CostMultiplier(n),
		ElapsedSeconds:    elapsedSeconds,
		EnergyBase:        e.Base,
		EnergyCore:        e.Core,
		EnergyUnco:        e.Unco,
		EnergyDram:        e.Dram,
		BufferSwapped:     out.BufferSwapped,
	}
}
