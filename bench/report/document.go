package report

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/greensort/greensort/bench"
)

// Document is the single-document form of a report.
type Document struct {
	Header  Header          `json:"header" yaml:"header"`
	Records []*bench.Record `json:"records" yaml:"records"`
}

type documentWriter struct {
	w      io.Writer
	encode func(io.Writer, Document) error
	doc    Document
}

func (d *documentWriter) WriteHeader(h Header) error {
	d.doc.Header = h
	return nil
}

func (d *documentWriter) WriteRecord(r *bench.Record) error {
	d.doc.Records = append(d.doc.Records, r)
	return nil
}

func (d *documentWriter) Flush() error {
	if d.doc.Records == nil {
		d.doc.Records = []*bench.Record{}
	}
	return d.encode(d.w, d.doc)
}

func encodeJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func encodeYAML(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
