// leadreport renders ';'-delimited lead CSV files as styled PDF reports.
//
// Usage:
//
//	leadreport generate [options] <leads.csv>
//	leadreport edit [options] <leads.csv>
//	leadreport inspect <file.pdf>
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	leadreport "github.com/porticus-lab/go-lead-report"
	"github.com/porticus-lab/go-lead-report/internal/config"
	"github.com/porticus-lab/go-lead-report/internal/render"
)

// app holds the global flags and the state shared by the subcommands.
type app struct {
	configPath   string
	verbose      bool
	chromePath   string
	noSandbox    bool
	autoDownload bool
	timeout      time.Duration

	cfg    *config.Config
	log    zerolog.Logger
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{stdout: os.Stdout, stderr: os.Stderr}
	if err := a.rootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "leadreport",
		Short:         "Render lead CSV files as styled PDF reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default: user config dir)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log debug details")
	pf.StringVar(&a.chromePath, "chrome-path", "", "Chrome or Chromium executable")
	pf.BoolVar(&a.noSandbox, "no-sandbox", false, "disable the Chrome sandbox")
	pf.BoolVar(&a.autoDownload, "auto-download", false, "download a managed Chromium when none is installed")
	pf.DurationVar(&a.timeout, "timeout", 0, "render timeout (default from config, 30s)")

	root.AddCommand(a.generateCommand(), a.editCommand(), a.inspectCommand())
	return root
}

// setup loads the configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	level := zerolog.InfoLevel
	if a.verbose {
		level = zerolog.DebugLevel
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{
		Out:        a.stderr,
		NoColor:    !isTerminal(a.stderr),
		TimeFormat: time.TimeOnly,
	}).Level(level).With().Timestamp().Logger()

	path := a.configPath
	if path == "" {
		def, err := config.DefaultPath()
		if err != nil {
			a.log.Debug().Err(err).Msg("no user config dir")
		}
		path = def
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("chrome-path") {
		cfg.Chrome.Path = a.chromePath
	}
	if flags.Changed("no-sandbox") {
		cfg.Chrome.NoSandbox = a.noSandbox
	}
	if flags.Changed("auto-download") {
		cfg.Chrome.AutoDownload = a.autoDownload
	}
	if flags.Changed("timeout") {
		cfg.Chrome.Timeout = a.timeout
	}
	a.cfg = cfg
	a.log.Debug().Str("config", path).Msg("configuration loaded")
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// newWriter starts the browser and returns a report writer bound to it.
// The returned function releases the browser.
func (a *app) newWriter() (*leadreport.Writer, func(), error) {
	pg, err := a.cfg.PageConfig()
	if err != nil {
		return nil, nil, err
	}
	opts := append(a.cfg.ConverterOptions(), render.WithLogger(a.log))
	conv, err := render.NewConverter(opts...)
	if err != nil {
		return nil, nil, err
	}
	w, err := leadreport.NewWriter(conv,
		leadreport.WithLogger(a.log),
		leadreport.WithStyle(a.cfg.Style),
		leadreport.WithDecoration(a.cfg.Decoration),
		leadreport.WithCover(a.cfg.Cover),
		leadreport.WithPage(pg),
	)
	if err != nil {
		conv.Close()
		return nil, nil, err
	}
	return w, func() { conv.Close() }, nil
}

// sessionScheme returns the palette used for the whole invocation: the
// flag, then the config, then one random draw.
func (a *app) sessionScheme(name string) (leadreport.ColorScheme, error) {
	if name != "" {
		s, ok := leadreport.PaletteByName(name)
		if !ok {
			return leadreport.ColorScheme{}, fmt.Errorf("unknown palette %q", name)
		}
		return s, nil
	}
	if s, ok := a.cfg.Scheme(); ok {
		return s, nil
	}
	return leadreport.NewPaletteSelector(uint64(time.Now().UnixNano())).Select(), nil
}

// prefsPath returns the width preferences file.
func (a *app) prefsPath(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if a.cfg.Preferences != "" {
		return a.cfg.Preferences, nil
	}
	return leadreport.DefaultPrefsPath()
}

// reportOutcome prints where the report went, and the merge failure when
// the glossary could not be merged.
func (a *app) reportOutcome(rep *leadreport.Report) {
	if rep.MergeErr != nil {
		fmt.Fprintf(a.stderr, "warning: glossary not merged: %v\n", rep.MergeErr)
	}
	fmt.Fprintf(a.stdout, "PDF generated: %s (%d pages, palette %s)\n", rep.Path, rep.Pages, rep.Scheme.Name)
}
