package report

import (
	"edaqa/domain/core"
	"edaqa/domain/profile"
	"edaqa/domain/quality"
)

// Table names shared by the assembler and the sinks
const (
	TableSummary        = "summary"
	TableMissing        = "missing"
	TableCorrelation    = "correlation"
	TableProblemColumns = "problem_columns"
	TopTablePrefix      = "top_"
)

// Table is a rendered, string-valued table. Cells are already formatted so
// every sink prints the same digits.
type Table struct {
	Name    string     `json:"name"`
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ChartKind identifies the chart descriptor variant
type ChartKind string

const (
	ChartHistogram ChartKind = "histogram"
	ChartMissing   ChartKind = "missing"
	ChartHeatmap   ChartKind = "heatmap"
)

// Chart describes the data a renderer needs for one chart. Exactly one of
// the payload fields is set, matching Kind.
type Chart struct {
	Name      string          `json:"name"`
	Kind      ChartKind       `json:"kind"`
	Histogram *HistogramChart `json:"histogram,omitempty"`
	Missing   *MissingChart   `json:"missing,omitempty"`
	Heatmap   *HeatmapChart   `json:"heatmap,omitempty"`
}

// HistogramChart holds bin edges and counts; len(Edges) == len(Counts)+1
type HistogramChart struct {
	Column string    `json:"column"`
	Edges  []float64 `json:"edges"`
	Counts []float64 `json:"counts"`
}

// MissingChart is the missing-value grid, one row per record
type MissingChart struct {
	Columns []string `json:"columns"`
	Cells   [][]bool `json:"cells"`
}

// HeatmapChart wraps the correlation matrix; NaN cells encode as null
type HeatmapChart struct {
	Matrix *profile.CorrelationMatrix `json:"matrix"`
}

// Report is the structured document produced from a profile and its flags.
// It carries no file paths or formats.
type Report struct {
	ID          core.ReportID        `json:"id,omitempty"`
	Title       string               `json:"title"`
	RowCount    int                  `json:"row_count"`
	ColumnCount int                  `json:"column_count"`
	Quality     quality.QualityScore `json:"quality"`
	Narrative   []string             `json:"narrative"`
	Tables      []Table              `json:"tables"`
	Charts      []Chart              `json:"charts"`
}

// Table looks up a table by name
func (r *Report) Table(name string) (Table, bool) {
	for _, t := range r.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// ChartsOfKind returns charts of one kind in emission order
func (r *Report) ChartsOfKind(kind ChartKind) []Chart {
	var out []Chart
	for _, c := range r.Charts {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}
