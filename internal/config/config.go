// Package config handles leadreport configuration loading.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	leadreport "github.com/porticus-lab/go-lead-report"
	"github.com/porticus-lab/go-lead-report/internal/render"
)

// FileName is the configuration file looked up under the user config dir.
const FileName = "config.yaml"

// Config is the root configuration structure.
type Config struct {
	Page        PageConfig            `yaml:"page"`
	Chrome      ChromeConfig          `yaml:"chrome"`
	Report      ReportConfig          `yaml:"report"`
	Preferences string                `yaml:"preferences"`
	Style       leadreport.Style      `yaml:"style"`
	Decoration  leadreport.Decoration `yaml:"decoration"`
	Cover       leadreport.Cover      `yaml:"cover"`
}

// PageConfig holds paper settings. Margins are in points.
type PageConfig struct {
	Size        string        `yaml:"size"`
	Orientation string        `yaml:"orientation"`
	Margin      render.Margin `yaml:"margin"`
}

// ChromeConfig holds browser settings.
type ChromeConfig struct {
	Path         string        `yaml:"path"`
	Timeout      time.Duration `yaml:"timeout"`
	NoSandbox    bool          `yaml:"no_sandbox"`
	AutoDownload bool          `yaml:"auto_download"`
}

// ReportConfig holds per-report defaults.
type ReportConfig struct {
	Title    string  `yaml:"title"`
	Cover    bool    `yaml:"cover"`
	Glossary string  `yaml:"glossary"`
	MinWidth float64 `yaml:"min_width"` // points
	// Palette pins a catalog scheme by name. Empty draws one per session.
	Palette string `yaml:"palette"`
}

// Default returns the default configuration.
func Default() *Config {
	pg := render.DefaultPageConfig()
	return &Config{
		Page: PageConfig{
			Size:        "a4",
			Orientation: "landscape",
			Margin:      pg.Margin,
		},
		Chrome: ChromeConfig{
			Timeout: 30 * time.Second,
		},
		Report: ReportConfig{
			Title:    "Business contact listing",
			MinWidth: leadreport.DefaultMinWidth,
		},
		Style:      leadreport.DefaultStyle(),
		Decoration: leadreport.DefaultDecoration(),
		Cover:      leadreport.DefaultCover(),
	}
}

// Load loads configuration from a file. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads config from path, or returns the defaults when path
// is empty or the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: locating user config dir: %w", err)
	}
	return filepath.Join(dir, "leadreport", FileName), nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: failed to marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}
	return nil
}

// applyDefaults fills values an explicit empty entry in the file cleared.
func (c *Config) applyDefaults() {
	d := Default()
	if c.Page.Size == "" {
		c.Page.Size = d.Page.Size
	}
	if c.Page.Orientation == "" {
		c.Page.Orientation = d.Page.Orientation
	}
	if c.Chrome.Timeout == 0 {
		c.Chrome.Timeout = d.Chrome.Timeout
	}
	if c.Report.MinWidth <= 0 {
		c.Report.MinWidth = d.Report.MinWidth
	}
	if c.Style.FontFamily == "" {
		c.Style.FontFamily = d.Style.FontFamily
	}
	if c.Decoration.DateLayout == "" {
		c.Decoration.DateLayout = d.Decoration.DateLayout
	}
	if c.Decoration.WatermarkOpacity <= 0 || c.Decoration.WatermarkOpacity > 1 {
		c.Decoration.WatermarkOpacity = d.Decoration.WatermarkOpacity
	}
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	var errs []error
	if pg, err := c.PageConfig(); err != nil {
		errs = append(errs, err)
	} else if m := c.Page.Margin; m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		errs = append(errs, fmt.Errorf("negative page margin %+v", m))
	} else if pg.PrintableWidth() <= 0 {
		errs = append(errs, fmt.Errorf("margins leave no printable width"))
	}
	if c.Report.Palette != "" {
		if _, ok := leadreport.PaletteByName(c.Report.Palette); !ok {
			errs = append(errs, fmt.Errorf("unknown palette %q", c.Report.Palette))
		}
	}
	if err := c.Style.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// PageConfig resolves the paper settings.
func (c *Config) PageConfig() (render.PageConfig, error) {
	size, err := render.ParsePageSize(c.Page.Size)
	if err != nil {
		return render.PageConfig{}, err
	}
	orient, err := render.ParseOrientation(c.Page.Orientation)
	if err != nil {
		return render.PageConfig{}, err
	}
	pg := render.DefaultPageConfig()
	pg.Size = size
	pg.Orientation = orient
	pg.Margin = c.Page.Margin
	return pg, nil
}

// ConverterOptions returns the browser options for [render.NewConverter].
func (c *Config) ConverterOptions() []render.Option {
	opts := []render.Option{render.WithTimeout(c.Chrome.Timeout)}
	if c.Chrome.Path != "" {
		opts = append(opts, render.WithChromePath(c.Chrome.Path))
	}
	if c.Chrome.NoSandbox {
		opts = append(opts, render.WithNoSandbox())
	}
	if c.Chrome.AutoDownload {
		opts = append(opts, render.WithAutoDownload())
	}
	return opts
}

// Scheme returns the pinned palette, or false when none is configured.
func (c *Config) Scheme() (leadreport.ColorScheme, bool) {
	if c.Report.Palette == "" {
		return leadreport.ColorScheme{}, false
	}
	return leadreport.PaletteByName(c.Report.Palette)
}
