package report

import (
	"encoding/csv"
	"strconv"

	"github.com/greensort/greensort/bench"
)

// vectorWriter writes one CSV row per record: algorithm, mode and the positional
// record vector in bench.RecordFieldNames order. WriteHeader emits the column
// names only.
type vectorWriter struct {
	w *csv.Writer
}

func (v *vectorWriter) WriteHeader(Header) error {
	row := append([]string{"algorithm", "mode"}, bench.RecordFieldNames[:]...)
	return v.w.Write(row)
}

func (v *vectorWriter) WriteRecord(r *bench.Record) error {
	row := make([]string, 0, bench.RecordWidth+2)
	row = append(row, r.Algorithm, r.Mode.String())
	for _, f := range r.Fields() {
		row = append(row, strconv.FormatFloat(f, 'g', -1, 64))
	}
	return v.w.Write(row)
}

func (v *vectorWriter) Flush() error {
	v.w.Flush()
	return v.w.Error()
}
