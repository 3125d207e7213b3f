package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	leadreport "github.com/porticus-lab/go-lead-report"
	"github.com/porticus-lab/go-lead-report/internal/editor"
)

func (a *app) editCommand() *cobra.Command {
	var (
		flags reportFlags
		rows  int
	)
	cmd := &cobra.Command{
		Use:   "edit [options] <leads.csv>",
		Short: "Adjust column widths in the terminal, then generate",
		Long: `Edit previews the first rows of the CSV and lets you resize and sort
columns before generating the report.

Keys: left/right or tab select a column, +/- resize it, s sorts by it
(press again to reverse), g generates, q or esc cancels.

Confirmed widths are saved and preloaded the next time a file with the
same column names is edited.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			ds, err := leadreport.LoadCSV(source)
			if err != nil {
				return err
			}
			scheme, err := a.sessionScheme(flags.palette)
			if err != nil {
				return err
			}
			path, err := a.prefsPath(flags.prefs)
			if err != nil {
				return err
			}
			prefs, err := leadreport.LoadWidthPrefs(path)
			if err != nil {
				a.log.Warn().Err(err).Str("path", path).Msg("ignoring width preferences")
			}
			opts := flags.options(a, scheme)

			res, err := a.runEditor(ds, prefs.For(ds.Columns(), leadreport.DefaultColumnPixels), scheme, editor.Options{
				Title:       "leadreport: " + source,
				PreviewRows: rows,
				Sort:        opts.Sort,
			})
			if err != nil {
				return err
			}
			if !res.Confirmed {
				fmt.Fprintln(a.stdout, "Cancelled, nothing generated.")
				return nil
			}

			if err := leadreport.SaveWidthPrefs(path, ds.Columns(), res.Widths); err != nil {
				a.log.Warn().Err(err).Str("path", path).Msg("width preferences not saved")
			}

			w, release, err := a.newWriter()
			if err != nil {
				return err
			}
			defer release()

			opts.Sort = res.Sort
			rep, err := w.Generate(cmd.Context(), source, leadreport.PixelsToFloats(res.Widths), opts)
			if err != nil {
				return err
			}
			a.reportOutcome(rep)
			return nil
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().IntVar(&rows, "rows", editor.DefaultPreviewRows, "number of preview rows")
	return cmd
}

// runEditor runs the width editor on the controlling terminal.
func (a *app) runEditor(ds *leadreport.Dataset, widths []int, scheme leadreport.ColorScheme, opts editor.Options) (editor.Result, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return editor.Result{}, fmt.Errorf("opening terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return editor.Result{}, fmt.Errorf("initializing terminal: %w", err)
	}
	defer screen.Fini()
	return editor.Run(screen, ds, widths, scheme, opts)
}
