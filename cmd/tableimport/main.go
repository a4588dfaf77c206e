package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-table-importer/cmd/tableimport/internal/bootstrap"
	tablescmd "github.com/goliatone/go-table-importer/internal/commands/tables"
	"github.com/goliatone/go-table-importer/internal/shortcode"
	"github.com/goliatone/go-table-importer/internal/tables"
	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer cancel()

	app := newApp(os.Stdout, os.Stderr)
	if err := app.execute(ctx, os.Args[1:]); err != nil {
		cancel()
		os.Exit(1)
	}
}

type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	dataDir    string
	logLevel   string
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

func (a *app) execute(ctx context.Context, args []string) error {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	return root.ExecuteContext(ctx)
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "tableimport",
		Short:        "Render CSV, JSON and YAML data files as tables",
		SilenceUsage: true,
	}
	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVar(&a.dataDir, "data-dir", "", "Directory data: references resolve against")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	root.AddCommand(a.tableCommand(), a.pageCommand())
	return root
}

func (a *app) build(cmd *cobra.Command, active *bool, metrics interfaces.ShortcodeMetrics) (*bootstrap.Module, error) {
	module, err := moduleBuilder(bootstrap.Options{
		ConfigPath: a.configPath,
		DataDir:    a.dataDir,
		Active:     active,
		LogLevel:   a.logLevel,
		Out:        cmd.OutOrStdout(),
		LogWriter:  cmd.ErrOrStderr(),
		Metrics:    metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("bootstrap module: %w", err)
	}
	return module, nil
}

type tableFlags struct {
	format  string
	baseDir string
	options []string
	autoID  bool
	strict  bool

	typ       string
	delimiter string
	enclosure string
	escape    string
	class     string
	caption   string
	id        string
	noHeader  bool
	pad       bool
}

func addTableFlags(fs *pflag.FlagSet, f *tableFlags) {
	fs.StringVarP(&f.format, "format", "f", tablescmd.FormatHTML, "Output format: html or markdown")
	fs.StringVar(&f.baseDir, "base-dir", "", "Directory relative file names resolve against (defaults to the file's directory)")
	fs.StringArrayVarP(&f.options, "option", "o", nil, "Extra table option as key=value (repeatable)")
	fs.BoolVar(&f.autoID, "auto-id", true, "Generate a table id for HTML output when none is given")
	fs.BoolVar(&f.strict, "strict", false, "Fail instead of printing the inline error message")

	fs.StringVar(&f.typ, "type", "", "Data format: csv, json or yaml (defaults to the file extension)")
	fs.StringVar(&f.delimiter, "delimiter", "", "CSV delimiter")
	fs.StringVar(&f.enclosure, "enclosure", "", "CSV enclosure character")
	fs.StringVar(&f.escape, "escape", "", "CSV escape character")
	fs.StringVar(&f.class, "class", "", "CSS class of the table element")
	fs.StringVar(&f.caption, "caption", "", "Table caption")
	fs.StringVar(&f.id, "id", "", "Table element id")
	fs.BoolVar(&f.noHeader, "no-header", false, "Treat the first row as data")
	fs.BoolVar(&f.pad, "pad", false, "Pad Markdown cells to equal width")
}

// values merges the dedicated flags over the generic --option pairs.
func (f *tableFlags) values(fs *pflag.FlagSet) (map[string]string, error) {
	values, err := bootstrap.ParseOptions(f.options)
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = map[string]string{}
	}
	named := map[string]string{
		"type":      f.typ,
		"delimiter": f.delimiter,
		"enclosure": f.enclosure,
		"escape":    f.escape,
		"class":     f.class,
		"caption":   f.caption,
		"id":        f.id,
	}
	for key, value := range named {
		if fs.Changed(key) {
			values[key] = value
		}
	}
	if fs.Changed("no-header") {
		values["header"] = fmt.Sprint(!f.noHeader)
	}
	if fs.Changed("pad") {
		values["pad"] = fmt.Sprint(f.pad)
	}
	return values, nil
}

func (a *app) tableCommand() *cobra.Command {
	flags := &tableFlags{}
	cmd := &cobra.Command{
		Use:   "table FILE",
		Short: "Render a single data file as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := flags.values(cmd.Flags())
			if err != nil {
				return err
			}
			file, baseDir, err := splitFile(args[0], flags.baseDir)
			if err != nil {
				return err
			}

			module, err := a.build(cmd, nil, nil)
			if err != nil {
				return err
			}
			defer module.Close()

			return dispatcher.Dispatch(cmd.Context(), tablescmd.ImportTableCommand{
				File:    file,
				BaseDir: baseDir,
				Format:  flags.format,
				Options: values,
				AutoID:  flags.autoID,
				Strict:  flags.strict,
			})
		},
	}
	addTableFlags(cmd.Flags(), flags)
	return cmd
}

func (a *app) pageCommand() *cobra.Command {
	var (
		format string
		filter bool
		stats  bool
	)
	cmd := &cobra.Command{
		Use:   "page FILE",
		Short: "Render a Markdown page, expanding table markers and tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var active *bool
			if cmd.Flags().Changed("filter") {
				active = &filter
			}
			var (
				metrics  interfaces.ShortcodeMetrics
				counting *shortcode.CountingMetrics
			)
			if stats {
				counting = shortcode.NewCountingMetrics()
				metrics = counting
			}
			module, err := a.build(cmd, active, metrics)
			if err != nil {
				return err
			}
			defer module.Close()

			err = dispatcher.Dispatch(cmd.Context(), tablescmd.RenderPageCommand{
				Path:   args[0],
				Format: format,
			})
			if err != nil || counting == nil {
				return err
			}
			name := module.Module.Config().Shortcode.Name
			renders, failures, total := counting.Snapshot(name)
			fmt.Fprintf(cmd.ErrOrStderr(), "[%s] tags rendered: %d, failed: %d, time: %s\n", name, renders, failures, total)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", tablescmd.FormatHTML, "Output format: html or markdown (expanded body)")
	cmd.Flags().BoolVar(&filter, "filter", false, "Enable the [TableImporter>...] marker filter (overrides the config)")
	cmd.Flags().BoolVar(&stats, "stats", false, "Print inline tag render counts to stderr")
	return cmd
}

// splitFile turns a path on the command line into a file reference and the
// directory it resolves against. References using the data alias are kept.
func splitFile(arg, baseDir string) (string, string, error) {
	arg = strings.TrimSpace(arg)
	if strings.HasPrefix(arg, tables.DataAlias) || strings.TrimSpace(baseDir) != "" {
		return arg, baseDir, nil
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", "", fmt.Errorf("resolve %s: %w", arg, err)
	}
	return filepath.Base(abs), filepath.Dir(abs), nil
}
