package render

import (
	"bytes"
	"io"
)

// Result holds the bytes of one rendered PDF.
type Result struct {
	data []byte
}

// NewResult wraps already rendered PDF bytes, for renderers that do not
// go through Chrome.
func NewResult(data []byte) *Result {
	return &Result{data: data}
}

// Bytes returns the raw PDF content.
func (r *Result) Bytes() []byte {
	return r.data
}

// WriteTo writes the full PDF content to w. It implements [io.WriterTo].
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.data)
	return int64(n), err
}

// Len returns the size of the PDF in bytes.
func (r *Result) Len() int {
	return len(r.data)
}

// IsPDF reports whether the content starts with the PDF magic number.
func (r *Result) IsPDF() bool {
	return bytes.HasPrefix(r.data, []byte("%PDF-"))
}
