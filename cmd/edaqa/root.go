package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"edaqa/adapters/source"
	"edaqa/app"
	"edaqa/internal/config"
	"edaqa/internal/logging"
	"edaqa/ports"
)

// cli carries state shared by every subcommand once flags are parsed
type cli struct {
	configPath string
	logLevel   string
	delimiter  string
	sheet      string
	jsonPath   string

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "edaqa",
		Short: "Dataset profiling and quality scoring",
		Long: `Profile a tabular dataset (CSV, XLSX, JSON records or a SQL query),
evaluate quality flags against configurable thresholds and build a report.

Thresholds and weights come from an optional YAML file (--config) and
EDAQA_* environment variables; a .env file is loaded first if present.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level override (debug|info|warn|error)")
	root.PersistentFlags().StringVar(&c.delimiter, "delimiter", "", "CSV field delimiter")
	root.PersistentFlags().StringVar(&c.sheet, "sheet", "", "XLSX worksheet name (default: first sheet)")
	root.PersistentFlags().StringVar(&c.jsonPath, "json-path", "", "Path of the record array inside a JSON document")

	root.AddCommand(
		c.newOverviewCmd(),
		c.newReportCmd(),
		c.newFlagsCmd(),
		c.newQualityCmd(),
		c.newFeaturesCmd(),
		c.newSQLCmd(),
	)

	return root
}

func (c *cli) init() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.delimiter != "" {
		cfg.Source.Delimiter = c.delimiter
	}
	if c.sheet != "" {
		cfg.Source.Sheet = c.sheet
	}
	if c.jsonPath != "" {
		cfg.Source.JSONPath = c.jsonPath
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	c.cfg = *cfg
	c.logger = logger
	return nil
}

func (c *cli) service() *app.ProfilingService {
	return app.NewProfilingService(c.cfg, c.logger)
}

func (c *cli) open(location string) (ports.DataSource, error) {
	return source.Open(location, source.OptionsFrom(c.cfg.Source, c.logger))
}
