package render

import (
	"bytes"
	"testing"
)

var samplePDF = []byte("%PDF-1.4 fake content for testing")

func TestResult_Bytes(t *testing.T) {
	r := NewResult(samplePDF)
	if !bytes.Equal(r.Bytes(), samplePDF) {
		t.Error("Bytes() did not return original data")
	}
	if r.Len() != len(samplePDF) {
		t.Errorf("Len() = %d, want %d", r.Len(), len(samplePDF))
	}
}

func TestResult_WriteTo(t *testing.T) {
	r := NewResult(samplePDF)
	var buf bytes.Buffer
	n, err := r.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(len(samplePDF)) {
		t.Errorf("WriteTo wrote %d bytes, want %d", n, len(samplePDF))
	}
	if !bytes.Equal(buf.Bytes(), samplePDF) {
		t.Error("WriteTo produced different content")
	}
}

func TestResult_IsPDF(t *testing.T) {
	if !NewResult(samplePDF).IsPDF() {
		t.Error("IsPDF() = false for PDF data")
	}
	if NewResult([]byte("<html>")).IsPDF() {
		t.Error("IsPDF() = true for HTML data")
	}
}
