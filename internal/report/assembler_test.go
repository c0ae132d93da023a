package report

import (
	"encoding/json"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"edaqa/domain/profile"
	"edaqa/domain/quality"
	"edaqa/domain/report"
	"edaqa/domain/table"
	"edaqa/internal/config"
	qualityeval "edaqa/internal/quality"
	"edaqa/internal/profiling"
)

func build(t *testing.T, header []string, rows [][]string) *profile.DatasetProfile {
	t.Helper()
	records := make([][]table.Cell, len(rows))
	for i, r := range rows {
		for _, v := range r {
			records[i] = append(records[i], table.Cell{Value: v})
		}
	}
	tbl, err := table.New(header, records)
	require.NoError(t, err)
	return profiling.NewBuilder(profiling.DefaultOptions()).Build(tbl)
}

func assemble(p *profile.DatasetProfile) *report.Report {
	cfg := config.Default()
	flags := qualityeval.EvaluateProfile(p, cfg.Thresholds)
	return Assemble(p, flags, cfg.Report, cfg.Scoring, cfg.Thresholds)
}

func sampleProfile(t *testing.T) *profile.DatasetProfile {
	rows := make([][]string, 0, 12)
	for i := 0; i < 12; i++ {
		note := ""
		if i%2 == 0 {
			note = "n" + strconv.Itoa(i)
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			strconv.Itoa(i * 3),
			[]string{"red", "blue", "green"}[i%3],
			note,
		})
	}
	return build(t, []string{"a", "b", "color", "note"}, rows)
}

func TestAssemble_Tables(t *testing.T) {
	r := assemble(sampleProfile(t))

	assert.Equal(t, "EDA report", r.Title)
	assert.Equal(t, 12, r.RowCount)
	assert.Equal(t, 4, r.ColumnCount)

	names := make([]string, len(r.Tables))
	for i, tb := range r.Tables {
		names[i] = tb.Name
	}
	assert.Equal(t, []string{"summary", "missing", "correlation", "top_color", "top_note", "problem_columns"}, names)

	summary, ok := r.Table(report.TableSummary)
	require.True(t, ok)
	require.Len(t, summary.Rows, 4)
	assert.Equal(t, []string{"a", "numeric", "0.0000", "12", "mean=5.5000 std=3.4521"}, summary.Rows[0])
	assert.Equal(t, "top=red (4)", summary.Rows[2][4])

	missing, _ := r.Table(report.TableMissing)
	assert.Equal(t, []string{"note", "6", "0.5000"}, missing.Rows[0])

	corr, _ := r.Table(report.TableCorrelation)
	assert.Equal(t, []string{"", "a", "b"}, corr.Columns)
	assert.Equal(t, []string{"a", "1.0000", "1.0000"}, corr.Rows[0])

	// 0.5 is not above the default threshold
	problems, _ := r.Table(report.TableProblemColumns)
	assert.Empty(t, problems.Rows)
}

func TestAssemble_ProblemColumnsAboveThreshold(t *testing.T) {
	p := sampleProfile(t)
	cfg := config.Default()
	cfg.Thresholds.MinMissingShare = 0.25

	flags := qualityeval.EvaluateProfile(p, cfg.Thresholds)
	r := Assemble(p, flags, cfg.Report, cfg.Scoring, cfg.Thresholds)

	problems, ok := r.Table(report.TableProblemColumns)
	require.True(t, ok)
	assert.Equal(t, [][]string{{"note", "0.5000"}}, problems.Rows)
	assert.Contains(t, r.Narrative, "Highest missing share 0.5000 is above 0.2500.")
}

func TestAssemble_NoCorrelationWithOneNumericColumn(t *testing.T) {
	p := build(t, []string{"x", "label"}, [][]string{{"1", "a"}, {"2", "b"}, {"3", "a"}})
	require.Nil(t, p.Correlation)

	r := assemble(p)

	_, ok := r.Table(report.TableCorrelation)
	assert.False(t, ok)
	assert.Empty(t, r.ChartsOfKind(report.ChartHeatmap))
	assert.Contains(t, r.Narrative, "Fewer than two numeric columns; correlation omitted.")
}

func TestAssemble_Charts(t *testing.T) {
	r := assemble(sampleProfile(t))

	hist := r.ChartsOfKind(report.ChartHistogram)
	require.Len(t, hist, 2)
	assert.Equal(t, "hist_a", hist[0].Name)

	h := hist[0].Histogram
	require.NotNil(t, h)
	assert.Len(t, h.Edges, 21)
	assert.Len(t, h.Counts, 20)
	assert.Equal(t, 0.0, h.Edges[0])
	assert.Equal(t, 11.0, h.Edges[20])
	total := 0.0
	for _, c := range h.Counts {
		total += c
	}
	assert.Equal(t, 12.0, total)

	missing := r.ChartsOfKind(report.ChartMissing)
	require.Len(t, missing, 1)
	assert.Len(t, missing[0].Missing.Cells, 12)

	assert.Len(t, r.ChartsOfKind(report.ChartHeatmap), 1)
}

func TestAssemble_HistogramCap(t *testing.T) {
	p := sampleProfile(t)
	cfg := config.Default()
	cfg.Report.MaxHistColumns = 1
	cfg.Report.HistogramBins = 4

	r := Assemble(p, qualityeval.EvaluateProfile(p, cfg.Thresholds), cfg.Report, cfg.Scoring, cfg.Thresholds)

	hist := r.ChartsOfKind(report.ChartHistogram)
	require.Len(t, hist, 1)
	assert.Len(t, hist[0].Histogram.Counts, 4)
}

func TestHistogram_ConstantColumn(t *testing.T) {
	h := histogram("c", []float64{2, 2, 2}, 3)
	assert.Equal(t, []float64{1.5, 2.5}, []float64{h.Edges[0], h.Edges[3]})
	assert.Equal(t, 3.0, h.Counts[0]+h.Counts[1]+h.Counts[2])
}

func TestHistogram_SpanBeyondFloatRange(t *testing.T) {
	values := []float64{-1.7e308, 0, 1.7e308}

	var h *report.HistogramChart
	require.NotPanics(t, func() { h = histogram("x", values, 20) })

	require.Len(t, h.Edges, 21)
	assert.Equal(t, -1.7e308, h.Edges[0])
	assert.Equal(t, 1.7e308, h.Edges[20])
	for i := 1; i < len(h.Edges); i++ {
		assert.False(t, math.IsInf(h.Edges[i], 0))
		assert.Less(t, h.Edges[i-1], h.Edges[i])
	}
	assert.Equal(t, 3.0, floats.Sum(h.Counts))
}

func TestAssemble_ExtremeMagnitudes(t *testing.T) {
	p := build(t, []string{"x", "y"}, [][]string{
		{"-1.7e308", "1"},
		{"1.7e308", "2"},
		{"1.7e308", "3"},
	})

	var r *report.Report
	require.NotPanics(t, func() { r = assemble(p) })
	require.Len(t, r.ChartsOfKind(report.ChartHistogram), 2)

	_, err := json.Marshal(p)
	assert.NoError(t, err)
	_, err = json.Marshal(r)
	assert.NoError(t, err)
}

func TestAssemble_AggregatedNarrative(t *testing.T) {
	p := sampleProfile(t)
	flags := qualityeval.EvaluateRequest(quality.QualityRequest{NRows: 12, NCols: 4, NumericCols: 2, CategoricalCols: 2}, config.Default().Thresholds)

	cfg := config.Default()
	r := Assemble(p, flags, cfg.Report, cfg.Scoring, cfg.Thresholds)
	assert.Contains(t, r.Narrative,
		"Flags were computed from aggregated features; not evaluated: has_constant_columns, has_many_zero_values, has_datetime.")
	assert.Contains(t, r.Narrative, "Only 12 rows; at least 100 are expected.")
}

func TestAssemble_Deterministic(t *testing.T) {
	first, err := json.Marshal(assemble(sampleProfile(t)))
	require.NoError(t, err)
	second, err := json.Marshal(assemble(sampleProfile(t)))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}
