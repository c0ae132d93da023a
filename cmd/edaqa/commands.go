package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"edaqa/adapters/sink"
	"edaqa/adapters/source"
	"edaqa/domain/profile"
	"edaqa/domain/quality"
	"edaqa/internal/errors"
	"edaqa/ports"
)

func (c *cli) newOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview [file]",
		Short: "Print the shape and a per-column summary of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := c.open(args[0])
			if err != nil {
				return err
			}
			a, err := c.service().AnalyzeSource(cmd.Context(), src)
			if err != nil {
				return err
			}
			return writeOverview(cmd.OutOrStdout(), a.Profile)
		},
	}
}

func writeOverview(out io.Writer, p *profile.DatasetProfile) error {
	fmt.Fprintf(out, "Rows: %d\nColumns: %d\n\n", p.RowCount, p.ColumnCount)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tKIND\tMISSING\tUNIQUE")
	for _, col := range p.Columns {
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%d\n", col.Name, col.Kind, col.MissingShare, col.UniqueCount)
	}
	return w.Flush()
}

// reportFlags are the per-run overrides shared by file and SQL reports
type reportFlags struct {
	outDir          string
	title           string
	topK            int
	maxHistColumns  int
	histBins        int
	minMissingShare float64
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.outDir, "out-dir", "", "Output directory or afs URL (default from config)")
	cmd.Flags().StringVar(&f.title, "title", "", "Report title")
	cmd.Flags().IntVar(&f.topK, "top-k", 0, "Number of top values kept per categorical column")
	cmd.Flags().IntVar(&f.maxHistColumns, "max-hist-columns", 0, "Maximum number of numeric histograms")
	cmd.Flags().IntVar(&f.histBins, "hist-bins", 0, "Histogram bin count")
	cmd.Flags().Float64Var(&f.minMissingShare, "min-missing-share", 0, "Missing share above which a dataset is flagged")
}

// apply copies explicitly set flags over the loaded configuration
func (f *reportFlags) apply(cmd *cobra.Command, c *cli) error {
	changed := cmd.Flags().Changed
	if changed("out-dir") {
		c.cfg.Report.OutDir = f.outDir
	}
	if changed("title") {
		c.cfg.Report.Title = f.title
	}
	if changed("top-k") {
		c.cfg.Profiling.TopK = f.topK
	}
	if changed("max-hist-columns") {
		c.cfg.Report.MaxHistColumns = f.maxHistColumns
	}
	if changed("hist-bins") {
		c.cfg.Report.HistogramBins = f.histBins
	}
	if changed("min-missing-share") {
		c.cfg.Thresholds.MinMissingShare = f.minMissingShare
	}
	return c.cfg.Validate()
}

func (c *cli) newReportCmd() *cobra.Command {
	flags := &reportFlags{}
	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Profile a dataset and write the full report",
		Long: `Profile a CSV, XLSX or JSON file, evaluate quality flags and write
report.md, report.html, report.xlsx, one CSV per table, chart data and
quality.json into the output directory.

Example: edaqa report data.csv --out-dir reports/run1 --title "Sales extract"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cmd, c); err != nil {
				return err
			}
			src, err := c.open(args[0])
			if err != nil {
				return err
			}
			return c.writeReport(cmd, src)
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *cli) newSQLCmd() *cobra.Command {
	var dsn, query string
	flags := &reportFlags{}
	cmd := &cobra.Command{
		Use:   "sql",
		Short: "Profile the result of a Postgres query and write the full report",
		Long: `Run a query against Postgres and report on its result set. NULL values
count as missing.

Example: edaqa sql --dsn "postgres://localhost/app?sslmode=disable" --query "SELECT * FROM orders"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cmd, c); err != nil {
				return err
			}
			src := source.NewSQL(dsn, query, source.OptionsFrom(c.cfg.Source, c.logger))
			return c.writeReport(cmd, src)
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "", "Postgres connection string")
	cmd.Flags().StringVar(&query, "query", "", "Query whose result set is profiled")
	_ = cmd.MarkFlagRequired("dsn")
	_ = cmd.MarkFlagRequired("query")
	flags.register(cmd)
	return cmd
}

func (c *cli) writeReport(cmd *cobra.Command, src ports.DataSource) error {
	fileSink := sink.NewFileSink(c.cfg.Report.OutDir, c.logger)
	r, err := c.service().GenerateReport(cmd.Context(), src, fileSink)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report %s written to %s\nQuality: %.3f (%s)\n",
		r.ID, fileSink.Dir(), r.Quality.Score, r.Quality.Message)
	return nil
}

func (c *cli) newFlagsCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "flags [file]",
		Short: "Print quality flags and the score of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := c.open(args[0])
			if err != nil {
				return err
			}
			a, err := c.service().AnalyzeSource(cmd.Context(), src)
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), format, a.Score)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format (json|yaml)")
	return cmd
}

func (c *cli) newQualityCmd() *cobra.Command {
	var req quality.QualityRequest
	var format string
	cmd := &cobra.Command{
		Use:   "quality",
		Short: "Score a dataset from aggregated features",
		Long: `Score a dataset described only by its shape, highest missing share and
kind counts. Flags that need per-column data are reported as unavailable.

Example: edaqa quality --n-rows 5000 --n-cols 12 --max-missing-share 0.1 --numeric-cols 8 --categorical-cols 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := c.service().ScoreRequest(req)
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), format, score)
		},
	}
	cmd.Flags().IntVar(&req.NRows, "n-rows", 0, "Number of rows")
	cmd.Flags().IntVar(&req.NCols, "n-cols", 0, "Number of columns")
	cmd.Flags().Float64Var(&req.MaxMissingShare, "max-missing-share", 0, "Highest per-column missing share")
	cmd.Flags().IntVar(&req.NumericCols, "numeric-cols", 0, "Number of numeric columns")
	cmd.Flags().IntVar(&req.CategoricalCols, "categorical-cols", 0, "Number of categorical columns")
	cmd.Flags().StringVar(&format, "format", "json", "Output format (json|yaml)")
	_ = cmd.MarkFlagRequired("n-rows")
	_ = cmd.MarkFlagRequired("n-cols")
	return cmd
}

// features is the header-and-count summary of a file
type features struct {
	NRows   int      `json:"n_rows" yaml:"n_rows"`
	NCols   int      `json:"n_cols" yaml:"n_cols"`
	Columns []string `json:"columns" yaml:"columns"`
}

func (c *cli) newFeaturesCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "features [file]",
		Short: "Print row count and column names without profiling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := c.open(args[0])
			if err != nil {
				return err
			}
			shape, err := source.Peek(cmd.Context(), src)
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), format, features{
				NRows:   shape.Rows,
				NCols:   len(shape.Columns),
				Columns: shape.Columns,
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format (json|yaml)")
	return cmd
}

func encode(out io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.InvalidInput(fmt.Sprintf("unknown format %q (want json or yaml)", format))
	}
}
