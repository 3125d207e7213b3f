package leadreport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/porticus-lab/go-lead-report/internal/pdfinfo"
	"github.com/porticus-lab/go-lead-report/internal/render"
)

// Output file names, written next to the source file.
const (
	ReportFileName   = "leads_report.pdf"
	CompleteFileName = "leads_report_complete.pdf"
)

// Renderer turns an HTML document into PDF. [render.Converter] implements it.
type Renderer interface {
	Render(ctx context.Context, html string, pg render.PageConfig) (*render.Result, error)
}

// Options are the per-generation inputs of [Writer.Generate].
type Options struct {
	// Title is the heading above the table.
	Title string
	// Sort orders the rows before layout. The zero value keeps file order.
	Sort SortKey
	// Scheme fixes the colors. When nil the writer draws one.
	Scheme *ColorScheme
	// Cover adds a cover page built from the writer's cover texts.
	Cover bool
	// GlossaryPath names a PDF placed before the report. It is only merged
	// when the file exists.
	GlossaryPath string
	// MinWidth is the column floor in points for computed widths.
	// Defaults to [DefaultMinWidth].
	MinWidth float64
	// OutputDir overrides the directory of the source file.
	OutputDir string
}

// Report is the outcome of a successful generation.
type Report struct {
	// Path is the file to hand to the user: the merged report when a
	// glossary was merged, otherwise the single report.
	Path string
	// SingleReportPath is where the single report was written. It is
	// removed after a successful merge.
	SingleReportPath string
	Merged           bool
	// MergeErr is set when the glossary merge failed. The single report
	// at Path is still valid in that case.
	MergeErr error
	Pages    int
	Scheme   ColorScheme
}

// Writer generates lead reports. Its configuration is fixed at construction,
// so one Writer may serve concurrent generations.
type Writer struct {
	renderer Renderer
	cfg      writerConfig
}

// NewWriter returns a Writer that renders through renderer.
func NewWriter(renderer Renderer, opts ...WriterOption) (*Writer, error) {
	if renderer == nil {
		return nil, errors.New("leadreport: nil renderer")
	}
	cfg := defaultWriterConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if err := cfg.style.Validate(); err != nil {
		return nil, err
	}
	if cfg.palettes == nil {
		cfg.palettes = newClockSelector()
	}
	return &Writer{renderer: renderer, cfg: cfg}, nil
}

// Generate reads the CSV at source and writes the report next to it.
//
// widths are editor pixel widths, one per column, or nil to size columns
// from their content. A failure before the report is written returns a
// [*ReportError] and leaves no file at the output paths. A failed glossary
// merge is not an error: it is reported in [Report].MergeErr and the single
// report is kept.
func (w *Writer) Generate(ctx context.Context, source string, widths []float64, opts Options) (*Report, error) {
	log := w.cfg.logger.With().
		Str("run", uuid.NewString()).
		Str("source", source).
		Logger()
	started := time.Now()

	ds, err := LoadCSV(source)
	if err != nil {
		return nil, stageError(StageLoad, source, err)
	}
	if ds, err = ds.SortedBy(opts.Sort); err != nil {
		return nil, stageError(StageLoad, source, err)
	}
	log.Debug().
		Int("columns", ds.NumColumns()).
		Int("rows", ds.NumRows()).
		Dur("elapsed", time.Since(started)).
		Msg("dataset loaded")

	minWidth := opts.MinWidth
	if minWidth <= 0 {
		minWidth = DefaultMinWidth
	}
	plan, err := ComputeWidths(ds, TotalWidth(w.cfg.page), minWidth, widths)
	if err != nil {
		return nil, stageError(StageWidths, "", err)
	}

	scheme := w.scheme(opts)
	log.Debug().Str("scheme", scheme.Name).Floats64("widths", plan).Msg("layout planned")

	aopts := AssembleOptions{
		Title:       opts.Title,
		GeneratedAt: w.cfg.now(),
		Decoration:  w.cfg.decoration,
		Page:        w.cfg.page,
	}
	if opts.Cover {
		cover := w.cfg.cover
		aopts.Cover = &cover
	}
	doc, err := Assemble(ds, plan, scheme, w.cfg.style, aopts)
	if err != nil {
		return nil, stageError(StageAssemble, "", err)
	}

	dir := opts.OutputDir
	if dir == "" {
		dir = filepath.Dir(source)
	}
	reportPath := filepath.Join(dir, ReportFileName)

	renderStart := time.Now()
	pages, err := w.renderTo(ctx, log, doc, reportPath)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Int("pages", pages).
		Dur("elapsed", time.Since(renderStart)).
		Msg("report rendered")

	rep := &Report{
		Path:             reportPath,
		SingleReportPath: reportPath,
		Pages:            pages,
		Scheme:           scheme,
	}
	w.mergeGlossary(log, rep, opts.GlossaryPath, filepath.Join(dir, CompleteFileName))

	log.Info().
		Str("path", rep.Path).
		Int("pages", rep.Pages).
		Bool("merged", rep.Merged).
		Dur("elapsed", time.Since(started)).
		Msg("report written")
	return rep, nil
}

func (w *Writer) scheme(opts Options) ColorScheme {
	if opts.Scheme != nil {
		return *opts.Scheme
	}
	return w.cfg.palettes.Select()
}

// renderTo renders doc and places the result at path. Nothing is left at
// path when it fails.
func (w *Writer) renderTo(ctx context.Context, log zerolog.Logger, doc *Document, path string) (int, error) {
	body, err := w.renderer.Render(ctx, doc.BodyHTML(), doc.Page())
	if err != nil {
		return 0, stageError(StageRender, "", err)
	}
	if !body.IsPDF() {
		return 0, stageError(StageRender, "", render.ErrNotPDF)
	}
	if !doc.HasCover() {
		if err := writeFileAtomic(path, body); err != nil {
			return 0, stageError(StageWrite, path, err)
		}
		pages, err := countPages(body.Bytes())
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("cannot count report pages")
		}
		return pages, nil
	}

	cover, err := w.renderer.Render(ctx, doc.CoverHTML(), doc.CoverPage())
	if err != nil {
		return 0, stageError(StageRender, "", fmt.Errorf("cover: %w", err))
	}
	if !cover.IsPDF() {
		return 0, stageError(StageRender, "", fmt.Errorf("cover: %w", render.ErrNotPDF))
	}

	dir := filepath.Dir(path)
	coverPath, err := writeTemp(dir, ".cover-*.pdf", cover)
	if err != nil {
		return 0, stageError(StageWrite, dir, err)
	}
	defer os.Remove(coverPath)
	bodyPath, err := writeTemp(dir, ".body-*.pdf", body)
	if err != nil {
		return 0, stageError(StageWrite, dir, err)
	}
	defer os.Remove(bodyPath)

	pages, err := concatPDFs(path, []string{coverPath, bodyPath})
	if err != nil {
		return 0, stageError(StageRender, path, fmt.Errorf("joining cover and body: %w", err))
	}
	return pages, nil
}

// mergeGlossary places the glossary before the report when glossary names
// an existing file. Failures are recorded on rep.
func (w *Writer) mergeGlossary(log zerolog.Logger, rep *Report, glossary, dst string) {
	if glossary == "" {
		return
	}
	info, err := os.Stat(glossary)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("glossary", glossary).Msg("glossary not found, skipping merge")
		return
	}
	if err == nil && info.IsDir() {
		err = fmt.Errorf("%s is a directory", glossary)
	}
	if err != nil {
		rep.MergeErr = stageError(StageMerge, glossary, err)
		log.Warn().Err(err).Msg("glossary merge skipped")
		return
	}

	pages, err := MergePDFs(dst, glossary, rep.SingleReportPath)
	if err != nil {
		rep.MergeErr = stageError(StageMerge, dst, err)
		log.Warn().Err(err).Msg("glossary merge failed, keeping single report")
		return
	}
	if err := os.Remove(rep.SingleReportPath); err != nil {
		log.Warn().Err(err).Str("path", rep.SingleReportPath).Msg("cannot remove intermediate report")
	}
	rep.Path = dst
	rep.Merged = true
	rep.Pages = pages
}

func countPages(data []byte) (int, error) {
	doc, err := pdfinfo.Load(data)
	if err != nil {
		return 0, err
	}
	pages, err := doc.Pages()
	if err != nil {
		return 0, err
	}
	return len(pages), nil
}

// writeFileAtomic writes src to a temp file next to path, syncs it and
// renames it over path.
func writeFileAtomic(path string, src io.WriterTo) error {
	tmp, err := writeTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp", src)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func writeTemp(dir, pattern string, src io.WriterTo) (string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", err
	}
	name := f.Name()
	_, err = src.WriteTo(f)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}
