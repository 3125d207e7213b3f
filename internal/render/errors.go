package render

import "errors"

var (
	// ErrClosed is returned when attempting to use a closed [Converter].
	ErrClosed = errors.New("render: converter is closed")

	// ErrNotPDF is returned when the browser produced something that is not a PDF.
	ErrNotPDF = errors.New("render: output is not a PDF")
)
