package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	leadreport "github.com/porticus-lab/go-lead-report"
)

// reportFlags are the per-report flags shared by generate and edit.
type reportFlags struct {
	title     string
	glossary  string
	cover     bool
	palette   string
	minWidth  float64
	outputDir string
	sort      string
	desc      bool
	prefs     string
}

func (f *reportFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.title, "title", "t", "", "heading above the table")
	fs.StringVarP(&f.glossary, "glossary", "g", "", "PDF placed before the report when it exists")
	fs.BoolVar(&f.cover, "cover", false, "add a cover page")
	fs.StringVar(&f.palette, "palette", "", "color scheme A-E (default: random per run)")
	fs.Float64Var(&f.minWidth, "min-width", 0, "minimum computed column width in points")
	fs.StringVarP(&f.outputDir, "output-dir", "o", "", "directory for the report (default: next to the CSV)")
	fs.StringVar(&f.sort, "sort", "", "column to sort rows by")
	fs.BoolVar(&f.desc, "desc", false, "sort descending")
	fs.StringVar(&f.prefs, "prefs", "", "column width preferences file")
}

// options merges the flags over the configuration.
func (f *reportFlags) options(a *app, scheme leadreport.ColorScheme) leadreport.Options {
	opts := leadreport.Options{
		Title:        a.cfg.Report.Title,
		Cover:        a.cfg.Report.Cover || f.cover,
		GlossaryPath: a.cfg.Report.Glossary,
		MinWidth:     a.cfg.Report.MinWidth,
		OutputDir:    f.outputDir,
		Scheme:       &scheme,
	}
	if f.title != "" {
		opts.Title = f.title
	}
	if f.glossary != "" {
		opts.GlossaryPath = f.glossary
	}
	if f.minWidth > 0 {
		opts.MinWidth = f.minWidth
	}
	if f.sort != "" {
		opts.Sort = leadreport.SortKey{Column: f.sort, Descending: f.desc}
	}
	return opts
}

func (a *app) generateCommand() *cobra.Command {
	var (
		flags  reportFlags
		widths string
		saved  bool
	)
	cmd := &cobra.Command{
		Use:   "generate [options] <leads.csv>",
		Short: "Generate the PDF report",
		Long: `Generate renders the CSV as a PDF report next to the input file.

Column widths are computed from the content unless --widths lists one
relative width per column or --saved-widths reuses the widths stored by
the edit command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			scheme, err := a.sessionScheme(flags.palette)
			if err != nil {
				return err
			}

			var plan []float64
			switch {
			case widths != "":
				if plan, err = parseWidths(widths); err != nil {
					return err
				}
			case saved:
				if plan, err = a.savedWidths(source, flags.prefs); err != nil {
					return err
				}
			}

			w, release, err := a.newWriter()
			if err != nil {
				return err
			}
			defer release()

			rep, err := w.Generate(cmd.Context(), source, plan, flags.options(a, scheme))
			if err != nil {
				return err
			}
			a.reportOutcome(rep)
			return nil
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&widths, "widths", "w", "", "comma separated relative column widths")
	cmd.Flags().BoolVar(&saved, "saved-widths", false, "use the widths stored by the edit command")
	cmd.MarkFlagsMutuallyExclusive("widths", "saved-widths")
	return cmd
}

// savedWidths returns the stored pixel widths for the columns of source.
func (a *app) savedWidths(source, prefsFlag string) ([]float64, error) {
	ds, err := leadreport.LoadCSV(source)
	if err != nil {
		return nil, err
	}
	path, err := a.prefsPath(prefsFlag)
	if err != nil {
		return nil, err
	}
	prefs, err := leadreport.LoadWidthPrefs(path)
	if err != nil {
		a.log.Warn().Err(err).Str("path", path).Msg("ignoring width preferences")
	}
	return leadreport.PixelsToFloats(prefs.For(ds.Columns(), leadreport.DefaultColumnPixels)), nil
}

// parseWidths reads a list such as "120,80,200".
func parseWidths(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid width %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}
