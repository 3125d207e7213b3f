package render

import (
	"fmt"
	"strings"
)

// PointsPerInch is the number of PDF points in one inch.
const PointsPerInch = 72.0

// PageSize represents paper dimensions in PDF points, portrait.
type PageSize struct {
	Width  float64
	Height float64
}

// Standard paper sizes.
var (
	A3     = PageSize{Width: 841.89, Height: 1190.55}
	A4     = PageSize{Width: 595.28, Height: 841.89}
	A5     = PageSize{Width: 419.53, Height: 595.28}
	Letter = PageSize{Width: 612, Height: 792}
	Legal  = PageSize{Width: 612, Height: 1008}
)

var pageSizes = map[string]PageSize{
	"a3":     A3,
	"a4":     A4,
	"a5":     A5,
	"letter": Letter,
	"legal":  Legal,
}

// ParsePageSize looks up a paper size by name ("a4", "letter", ...).
func ParsePageSize(name string) (PageSize, error) {
	s, ok := pageSizes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return PageSize{}, fmt.Errorf("render: unknown page size %q", name)
	}
	return s, nil
}

// Orientation represents the page orientation.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

// ParseOrientation accepts "portrait" or "landscape".
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "portrait":
		return Portrait, nil
	case "landscape", "":
		return Landscape, nil
	}
	return Portrait, fmt.Errorf("render: unknown orientation %q", s)
}

// Margin holds page margins in points.
type Margin struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// PageConfig controls the PDF output parameters of one render call.
//
// Zero-value fields fall back to the report defaults: A4 landscape with
// half-inch side margins, a one inch top band for the header and a 0.7 inch
// bottom band for the footer.
type PageConfig struct {
	Size        PageSize
	Orientation Orientation
	Margin      Margin

	// Scale of the webpage rendering, between 0.1 and 2.0.
	Scale float64

	// DisplayHeaderFooter enables HeaderTemplate and FooterTemplate. Chrome
	// fills elements with the classes date, title, url, pageNumber and
	// totalPages.
	DisplayHeaderFooter bool
	HeaderTemplate      string
	FooterTemplate      string
}

// DefaultPageConfig returns the report page layout.
func DefaultPageConfig() PageConfig {
	return PageConfig{
		Size:        A4,
		Orientation: Landscape,
		Margin: Margin{
			Top:    1 * PointsPerInch,
			Right:  0.5 * PointsPerInch,
			Bottom: 0.7 * PointsPerInch,
			Left:   0.5 * PointsPerInch,
		},
		Scale: 1.0,
	}
}

// Resolved returns a copy with zero values replaced by defaults.
func (p PageConfig) Resolved() PageConfig {
	d := DefaultPageConfig()
	if p.Size == (PageSize{}) {
		p.Size = d.Size
	}
	if p.Scale <= 0 {
		p.Scale = d.Scale
	}
	if p.Margin == (Margin{}) {
		p.Margin = d.Margin
	}
	return p
}

// Dimensions returns the paper width and height in points, accounting for
// orientation.
func (p PageConfig) Dimensions() (width, height float64) {
	r := p.Resolved()
	if r.Orientation == Landscape {
		return r.Size.Height, r.Size.Width
	}
	return r.Size.Width, r.Size.Height
}

// PrintableWidth is the paper width minus the left and right margins.
func (p PageConfig) PrintableWidth() float64 {
	r := p.Resolved()
	w, _ := r.Dimensions()
	return w - r.Margin.Left - r.Margin.Right
}

func pointsToInches(pt float64) float64 {
	return pt / PointsPerInch
}

func (p PageConfig) paperInches() (width, height float64) {
	w, h := p.Dimensions()
	return pointsToInches(w), pointsToInches(h)
}

func (p PageConfig) marginInches() (top, right, bottom, left float64) {
	r := p.Resolved()
	return pointsToInches(r.Margin.Top),
		pointsToInches(r.Margin.Right),
		pointsToInches(r.Margin.Bottom),
		pointsToInches(r.Margin.Left)
}
