package leadreport

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/porticus-lab/go-lead-report/internal/render"
)

// writerConfig holds internal configuration for a Writer.
type writerConfig struct {
	logger     zerolog.Logger
	now        func() time.Time
	palettes   *PaletteSelector
	style      Style
	decoration Decoration
	cover      Cover
	page       render.PageConfig
}

func defaultWriterConfig() writerConfig {
	return writerConfig{
		logger:     zerolog.Nop(),
		now:        time.Now,
		style:      DefaultStyle(),
		decoration: DefaultDecoration(),
		cover:      DefaultCover(),
		page:       render.DefaultPageConfig(),
	}
}

// WriterOption configures a [Writer].
type WriterOption func(*writerConfig)

// WithLogger sets the logger for generation events. Defaults to a no-op
// logger.
func WithLogger(l zerolog.Logger) WriterOption {
	return func(c *writerConfig) {
		c.logger = l
	}
}

// WithClock replaces time.Now for the timestamps printed in reports.
func WithClock(now func() time.Time) WriterOption {
	return func(c *writerConfig) {
		c.now = now
	}
}

// WithPaletteSelector sets the source of color schemes for generations
// that do not pass one explicitly. Defaults to a clock-seeded selector.
func WithPaletteSelector(s *PaletteSelector) WriterOption {
	return func(c *writerConfig) {
		c.palettes = s
	}
}

// WithStyle sets the table typography.
func WithStyle(s Style) WriterOption {
	return func(c *writerConfig) {
		c.style = s
	}
}

// WithDecoration sets the page header, footer and watermark.
func WithDecoration(d Decoration) WriterOption {
	return func(c *writerConfig) {
		c.decoration = d
	}
}

// WithCover sets the cover page texts used when [Options].Cover is set.
func WithCover(cv Cover) WriterOption {
	return func(c *writerConfig) {
		c.cover = cv
	}
}

// WithPage sets the paper size, orientation and margins.
func WithPage(pg render.PageConfig) WriterOption {
	return func(c *writerConfig) {
		c.page = pg
	}
}
