package leadreport

import (
	"bytes"
	"embed"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/porticus-lab/go-lead-report/internal/render"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("leadreport").
		Funcs(template.FuncMap{"band": band}).
		ParseFS(templateFS, "templates/*.tmpl"),
)

// band names the banding class of body row i. The first row is odd.
func band(i int) string {
	if i%2 == 0 {
		return "odd"
	}
	return "even"
}

// AssembleOptions controls the content around the table.
type AssembleOptions struct {
	// Title is the heading above the table.
	Title string
	// TimestampLabel is printed under the title; {date} is replaced by the
	// generation time formatted with TimestampLayout.
	TimestampLabel  string
	TimestampLayout string
	GeneratedAt     time.Time

	Decoration Decoration
	// Cover adds a separate first page when set.
	Cover *Cover
	Page  render.PageConfig
}

func (o AssembleOptions) withDefaults() AssembleOptions {
	if o.Title == "" {
		o.Title = "Business contact listing"
	}
	if o.TimestampLabel == "" {
		o.TimestampLabel = "Generated automatically on {date}"
	}
	if o.TimestampLayout == "" {
		o.TimestampLayout = "02/01/2006 15:04"
	}
	if o.GeneratedAt.IsZero() {
		o.GeneratedAt = time.Now()
	}
	if o.Decoration.DateLayout == "" {
		o.Decoration.DateLayout = DefaultDecoration().DateLayout
	}
	if o.Decoration.WatermarkOpacity <= 0 || o.Decoration.WatermarkOpacity > 1 {
		o.Decoration.WatermarkOpacity = DefaultDecoration().WatermarkOpacity
	}
	o.Page = o.Page.Resolved()
	return o
}

// Document is an assembled report ready for rendering. The body and the
// optional cover are separate HTML documents with their own page layout.
type Document struct {
	body      string
	cover     string
	page      render.PageConfig
	coverPage render.PageConfig
}

// BodyHTML returns the HTML of the table pages.
func (d *Document) BodyHTML() string { return d.body }

// CoverHTML returns the HTML of the cover page, or "".
func (d *Document) CoverHTML() string { return d.cover }

// HasCover reports whether the document starts with a cover page.
func (d *Document) HasCover() bool { return d.cover != "" }

// Page returns the layout of the table pages, including the header and
// footer templates.
func (d *Document) Page() render.PageConfig { return d.page }

// CoverPage returns the layout of the cover page.
func (d *Document) CoverPage() render.PageConfig { return d.coverPage }

type pageData struct {
	Vars      template.CSS
	Title     string
	Timestamp string
	Watermark template.URL
	Logo      template.URL
	Cover     Cover
	Widths    []template.CSS
	Columns   []string
	Rows      [][]string
}

type bandData struct {
	Band         template.CSS
	TitleStyle   template.CSS
	DividerStyle template.CSS
	Divider      bool
	Title        string
	PageLabel    template.HTML
	DateLabel    string
}

// Assemble lays out ds as an HTML report using widths (points, one per
// column) and scheme.
func Assemble(ds *Dataset, widths []float64, scheme ColorScheme, style Style, opts AssembleOptions) (*Document, error) {
	if len(widths) != ds.NumColumns() {
		return nil, fmt.Errorf("%w: %d widths for %d columns", ErrShapeMismatch, len(widths), ds.NumColumns())
	}
	if err := scheme.validate(); err != nil {
		return nil, err
	}
	if err := style.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	watermark, err := dataURI(opts.Decoration.WatermarkPath)
	if err != nil {
		return nil, err
	}

	var tableWidth float64
	cols := make([]template.CSS, len(widths))
	for i, w := range widths {
		cols[i] = template.CSS("width:" + pt(w))
		tableWidth += w
	}

	data := pageData{
		Title:     opts.Title,
		Timestamp: strings.ReplaceAll(opts.TimestampLabel, "{date}", opts.GeneratedAt.Format(opts.TimestampLayout)),
		Watermark: watermark,
		Widths:    cols,
		Columns:   ds.columns,
		Rows:      ds.rows,
	}
	data.Vars = cssVars(scheme, style, opts, tableWidth, opts.Page)

	doc := &Document{page: opts.Page}
	if doc.body, err = execute("report", data); err != nil {
		return nil, err
	}

	doc.page.DisplayHeaderFooter = true
	hdr, ftr := decorationData(scheme, style, opts)
	if doc.page.HeaderTemplate, err = execute("header", hdr); err != nil {
		return nil, err
	}
	if doc.page.FooterTemplate, err = execute("footer", ftr); err != nil {
		return nil, err
	}

	if opts.Cover != nil {
		cover := *opts.Cover
		if cover.Title == "" {
			cover.Title = opts.Decoration.Title
		}
		logo, err := dataURI(cover.LogoPath)
		if err != nil {
			return nil, err
		}
		doc.coverPage = coverPage(opts.Page)

		data.Cover = cover
		data.Logo = logo
		data.Vars = cssVars(scheme, style, opts, tableWidth, doc.coverPage)
		if doc.cover, err = execute("cover", data); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (s ColorScheme) validate() error {
	for _, c := range []Color{s.HeaderBG, s.Accent, s.Grid, s.RowOdd, s.RowEven} {
		if !c.Valid() {
			return fmt.Errorf("leadreport: invalid color %q in scheme %q", c, s.Name)
		}
	}
	return nil
}

// coverPage is the body layout with even half-inch margins and no
// header or footer.
func coverPage(body render.PageConfig) render.PageConfig {
	m := 0.5 * render.PointsPerInch
	return render.PageConfig{
		Size:        body.Size,
		Orientation: body.Orientation,
		Margin:      render.Margin{Top: m, Right: m, Bottom: m, Left: m},
		Scale:       body.Scale,
	}
}

func cssVars(scheme ColorScheme, style Style, opts AssembleOptions, tableWidth float64, pg render.PageConfig) template.CSS {
	_, height := pg.Dimensions()
	var b strings.Builder
	fmt.Fprintf(&b, "--header-bg:%s;--accent:%s;--grid:%s;--row-odd:%s;--row-even:%s;",
		scheme.HeaderBG, scheme.Accent, scheme.Grid, scheme.RowOdd, scheme.RowEven)
	fmt.Fprintf(&b, "--font-family:%s;", style.FontFamily)
	fmt.Fprintf(&b, "--title-size:%s;--header-size:%s;--header-leading:%s;--body-size:%s;--body-leading:%s;--pad:%s;",
		pt(style.TitleFontSize), pt(style.HeaderFontSize), pt(style.HeaderLeading),
		pt(style.BodyFontSize), pt(style.BodyLeading), pt(style.CellPadding))
	fmt.Fprintf(&b, "--table-width:%s;--watermark-opacity:%s;--cover-height:%s;",
		pt(tableWidth),
		strconv.FormatFloat(opts.Decoration.WatermarkOpacity, 'f', 2, 64),
		pt(height-pg.Margin.Top-pg.Margin.Bottom))
	return template.CSS(b.String())
}

func decorationData(scheme ColorScheme, style Style, opts AssembleOptions) (header, footer bandData) {
	m := opts.Page.Margin
	dec := opts.Decoration

	header = bandData{
		Band: template.CSS(fmt.Sprintf(
			"box-sizing:border-box;width:100%%;padding:14pt %s 0 %s;font-family:%s;-webkit-print-color-adjust:exact;",
			pt(m.Right), pt(m.Left), style.FontFamily)),
		TitleStyle: template.CSS(fmt.Sprintf(
			"font-size:10pt;font-weight:bold;text-align:center;color:%s;", scheme.HeaderBG)),
		DividerStyle: template.CSS(fmt.Sprintf(
			"margin-top:%s;border-top:1pt solid %s;", pt(max(m.Top-44, 0)), scheme.Accent)),
		Divider: dec.Divider,
		Title:   dec.Title,
	}

	footer = bandData{
		Band: template.CSS(fmt.Sprintf(
			"box-sizing:border-box;width:100%%;padding:0 %s 18pt %s;display:flex;justify-content:space-between;"+
				"font-size:8pt;font-family:%s;color:%s;",
			pt(m.Right), pt(m.Left), style.FontFamily, scheme.Accent)),
		PageLabel: pageLabel(dec.PageLabel),
		DateLabel: strings.ReplaceAll(dec.DateLabel, "{date}", opts.GeneratedAt.Format(dec.DateLayout)),
	}
	return header, footer
}

var pagePlaceholders = strings.NewReplacer(
	"{page}", `<span class="pageNumber"></span>`,
	"{pages}", `<span class="totalPages"></span>`,
)

// pageLabel escapes format and swaps the placeholders for the elements
// Chrome fills with page numbers.
func pageLabel(format string) template.HTML {
	return template.HTML(pagePlaceholders.Replace(template.HTMLEscapeString(format)))
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("leadreport: executing %s template: %w", name, err)
	}
	return buf.String(), nil
}

// dataURI inlines the image at path. An empty path or a missing file yields
// "" so the image is left out.
func dataURI(path string) (template.URL, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("leadreport: reading image: %w", err)
	}
	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "image/") {
		ct = mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
		if !strings.HasPrefix(ct, "image/") {
			return "", fmt.Errorf("leadreport: %s is not an image", path)
		}
	}
	return template.URL("data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(data)), nil
}

func pt(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "pt"
}
