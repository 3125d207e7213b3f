package leadreport

import (
	"errors"
	"fmt"
	"strings"
)

// Style holds the typography of the report table. Sizes are in points.
// The defaults pack dense, many-column lead data onto a landscape page.
type Style struct {
	FontFamily     string  `yaml:"font_family"`
	TitleFontSize  float64 `yaml:"title_font_size"`
	HeaderFontSize float64 `yaml:"header_font_size"`
	HeaderLeading  float64 `yaml:"header_leading"`
	BodyFontSize   float64 `yaml:"body_font_size"`
	BodyLeading    float64 `yaml:"body_leading"`
	CellPadding    float64 `yaml:"cell_padding"`
}

// DefaultStyle returns the standard report typography.
func DefaultStyle() Style {
	return Style{
		FontFamily:     "Helvetica, Arial, sans-serif",
		TitleFontSize:  18,
		HeaderFontSize: 6,
		HeaderLeading:  8,
		BodyFontSize:   5,
		BodyLeading:    6,
		CellPadding:    2,
	}
}

// Validate checks that every size is usable.
func (s Style) Validate() error {
	var errs []error
	check := func(name string, v, lo, hi float64) {
		if v < lo || v > hi {
			errs = append(errs, fmt.Errorf("%s %g out of range [%g, %g]", name, v, lo, hi))
		}
	}
	check("title font size", s.TitleFontSize, 1, 96)
	check("header font size", s.HeaderFontSize, 1, 72)
	check("body font size", s.BodyFontSize, 1, 72)
	check("header leading", s.HeaderLeading, s.HeaderFontSize, 144)
	check("body leading", s.BodyLeading, s.BodyFontSize, 144)
	check("cell padding", s.CellPadding, 0, 36)
	if strings.ContainsAny(s.FontFamily, ";{}<>") {
		errs = append(errs, fmt.Errorf("font family %q contains reserved characters", s.FontFamily))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("leadreport: invalid style: %w", err)
	}
	return nil
}

// Decoration describes what is drawn on every body page. It does not depend
// on the table content. PageLabel may use {page} and {pages}, DateLabel
// uses {date}, formatted with DateLayout.
type Decoration struct {
	Title            string  `yaml:"title"`
	PageLabel        string  `yaml:"page_label"`
	DateLabel        string  `yaml:"date_label"`
	DateLayout       string  `yaml:"date_layout"`
	Divider          bool    `yaml:"divider"`
	WatermarkPath    string  `yaml:"watermark"`
	WatermarkOpacity float64 `yaml:"watermark_opacity"`
}

// DefaultDecoration returns the standard page header and footer.
func DefaultDecoration() Decoration {
	return Decoration{
		Title:            "Lead Report",
		PageLabel:        "Page {page}",
		DateLabel:        "Generated on {date}",
		DateLayout:       "02/01/2006",
		Divider:          true,
		WatermarkOpacity: 0.1,
	}
}

// Cover is the optional first page.
type Cover struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	Notice   string `yaml:"notice"`
	LogoPath string `yaml:"logo"`
}

// DefaultCover returns the standard cover page texts.
func DefaultCover() Cover {
	return Cover{
		Title:    "Lead Report",
		Subtitle: "Business contact listing",
		Notice:   "Confidential. For internal use only.",
	}
}
