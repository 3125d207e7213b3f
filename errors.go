package leadreport

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per failure stage. Match them with [errors.Is].
var (
	// ErrDataLoad is returned when the CSV source cannot be read or parsed.
	ErrDataLoad = errors.New("leadreport: data load failed")

	// ErrShapeMismatch is returned when explicit widths do not match the
	// column count.
	ErrShapeMismatch = errors.New("leadreport: width count does not match column count")

	// ErrRender is returned when the rendering engine fails.
	ErrRender = errors.New("leadreport: render failed")

	// ErrMerge is reported when the glossary merge fails. The single report
	// is kept in that case.
	ErrMerge = errors.New("leadreport: merge failed")

	// ErrPreferences is returned when the width preferences cannot be read or
	// written. It never aborts a generation.
	ErrPreferences = errors.New("leadreport: preferences unavailable")
)

// Stage names the step of a generation that failed.
type Stage string

const (
	StageLoad        Stage = "load"
	StageWidths      Stage = "widths"
	StageAssemble    Stage = "assemble"
	StageRender      Stage = "render"
	StageWrite       Stage = "write"
	StageMerge       Stage = "merge"
	StagePreferences Stage = "preferences"
)

func (s Stage) sentinel() error {
	switch s {
	case StageLoad:
		return ErrDataLoad
	case StageWidths:
		return ErrShapeMismatch
	case StageAssemble, StageRender, StageWrite:
		return ErrRender
	case StageMerge:
		return ErrMerge
	case StagePreferences:
		return ErrPreferences
	}
	return nil
}

// ReportError describes a failed generation step. errors.Is matches it
// against the sentinel of its stage as well as against its cause.
type ReportError struct {
	Stage Stage
	Path  string // file involved, if any
	Err   error
}

func (e *ReportError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("leadreport: %s: %s: %v", e.Stage, e.Path, e.Err)
	}
	return fmt.Sprintf("leadreport: %s: %v", e.Stage, e.Err)
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's stage.
func (e *ReportError) Is(target error) bool {
	s := e.Stage.sentinel()
	return s != nil && target == s
}

func stageError(stage Stage, path string, err error) error {
	return &ReportError{Stage: stage, Path: path, Err: err}
}
