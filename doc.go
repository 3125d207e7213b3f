// Package leadreport renders ';'-separated lead CSV files as styled,
// paginated PDF reports.
//
// A report is a title block followed by a color-themed table whose header
// row repeats on every page, with a page header and footer, an optional
// watermark and an optional cover page. Pages are printed by headless
// Chrome through [render.Converter]:
//
//	conv, err := render.NewConverter(render.WithNoSandbox())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	w, err := leadreport.NewWriter(conv)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rep, err := w.Generate(ctx, "leads.csv", nil, leadreport.Options{
//	    GlossaryPath: "glossary.pdf",
//	})
//
// Column widths are either derived from the content ([ComputeWidths] with
// nil widths) or taken from editor pixel widths, which are scaled to fill
// the printable width exactly. Confirmed editor widths are kept per column
// name with [SaveWidthPrefs] and restored with [LoadWidthPrefs].
//
// # Errors
//
// Generation failures are [*ReportError] values naming the failing stage.
// Use [errors.Is] with [ErrDataLoad], [ErrShapeMismatch] or [ErrRender] to
// branch on the kind. A failed glossary merge does not fail the generation;
// it is reported in [Report].MergeErr and matches [ErrMerge].
//
// [render.Converter]: https://pkg.go.dev/github.com/porticus-lab/go-lead-report/internal/render#Converter
package leadreport
