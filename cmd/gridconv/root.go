package main

import (
	"github.com/spf13/cobra"

	"github.com/bjaus/gridconv/internal/config"
	"github.com/bjaus/gridconv/internal/logging"
)

// app holds state shared by every subcommand once the root has run.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
	log *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "gridconv",
		Short: "Convert tables between text formats",
		Long: `gridconv reads a table in one text format and writes it in another.

Formats:
  csv, tsv, json, html, markdown (md), xml, yaml, sql, latex, ascii, excel
  xlsx workbooks are read and written by convert and preview

Examples:
  gridconv convert data.csv --to markdown
  cat rows.json | gridconv convert --from json --to sql
  gridconv preview report.md --border double
  gridconv serve --addr :9000`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/gridconv/config.toml)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: text, json, logfmt")

	root.AddCommand(
		a.convertCmd(),
		a.formatsCmd(),
		a.previewCmd(),
		a.watchCmd(),
		a.diffCmd(),
		a.templatesCmd(),
		a.sampleCmd(),
		a.tablesCmd(),
		a.shareCmd(),
		a.serveCmd(),
	)
	return root
}

// setup loads configuration and builds the logger. Flags override the file
// and the environment.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	log, err := logging.New(cmd.ErrOrStderr(), logging.Options{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Timestamp: cfg.Log.Timestamp,
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}
