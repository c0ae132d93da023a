package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"edaqa/domain/profile"
	"edaqa/domain/quality"
	"edaqa/domain/report"
	"edaqa/internal/config"
	qualityeval "edaqa/internal/quality"
)

const statDecimals = 4

// Assemble builds the structured report for a profile and its flags. It
// only shapes data; rendering and persistence belong to a ReportSink.
func Assemble(p *profile.DatasetProfile, flags quality.QualityFlags, cfg config.Report, scoring config.Scoring, th config.Thresholds) *report.Report {
	score := qualityeval.Score(flags, scoring)

	r := &report.Report{
		Title:       cfg.Title,
		RowCount:    p.RowCount,
		ColumnCount: p.ColumnCount,
		Quality:     score,
		Narrative:   narrative(p, score, th),
	}

	r.Tables = append(r.Tables, summaryTable(p), missingTable(p))
	if p.Correlation != nil {
		r.Tables = append(r.Tables, correlationTable(p.Correlation))
	}
	for _, c := range p.Columns {
		if c.Kind != profile.KindCategorical || len(c.TopValues) == 0 {
			continue
		}
		r.Tables = append(r.Tables, topTable(c))
	}
	r.Tables = append(r.Tables, problemColumnsTable(p, th))

	r.Charts = charts(p, cfg)

	return r
}

func narrative(p *profile.DatasetProfile, score quality.QualityScore, th config.Thresholds) []string {
	flags := score.Flags
	lines := []string{
		fmt.Sprintf("Dataset has %d rows and %d columns.", p.RowCount, p.ColumnCount),
	}

	for _, name := range score.Triggered {
		switch name {
		case quality.FlagTooFewRows:
			lines = append(lines, fmt.Sprintf("Only %d rows; at least %d are expected.", p.RowCount, th.MinRows))
		case quality.FlagTooManyColumns:
			lines = append(lines, fmt.Sprintf("%d columns exceed the maximum of %d.", p.ColumnCount, th.MaxColumns))
		case quality.FlagTooManyMissing:
			lines = append(lines, fmt.Sprintf("Highest missing share %s is above %s.",
				formatFloat(flags.MaxMissingShare), formatFloat(th.MinMissingShare)))
		case quality.FlagHasConstantColumns:
			lines = append(lines, "Constant columns: "+strings.Join(flags.ConstantColumnNames, ", ")+".")
		case quality.FlagHasManyZeroValues:
			lines = append(lines, "Columns dominated by zeros: "+strings.Join(flags.HighZeroColumnNames, ", ")+".")
		}
	}
	if len(score.Triggered) == 0 {
		lines = append(lines, "No quality problems detected.")
	}

	if flags.Scope == quality.ScopeAggregated {
		lines = append(lines, "Flags were computed from aggregated features; not evaluated: "+
			strings.Join(flags.Unavailable, ", ")+".")
	}
	if p.Correlation == nil {
		lines = append(lines, "Fewer than two numeric columns; correlation omitted.")
	}

	return lines
}

func summaryTable(p *profile.DatasetProfile) report.Table {
	t := report.Table{
		Name:    report.TableSummary,
		Title:   "Columns",
		Columns: []string{"name", "kind", "missing_share", "unique", "key_statistic"},
	}
	for _, c := range p.Columns {
		t.Rows = append(t.Rows, []string{
			c.Name,
			string(c.Kind),
			formatFloat(c.MissingShare),
			strconv.Itoa(c.UniqueCount),
			keyStatistic(c),
		})
	}
	return t
}

// keyStatistic is the one-cell description shown per column
func keyStatistic(c profile.ColumnProfile) string {
	switch {
	case c.Numeric != nil:
		s := "mean=" + formatFloat(c.Numeric.Mean)
		if c.Numeric.StdUndefined {
			return s + " std=undefined"
		}
		return s + " std=" + formatFloat(c.Numeric.StdDev)
	case c.Boolean != nil:
		return "true_share=" + formatFloat(c.Boolean.TrueShare)
	case c.Datetime != nil:
		return c.Datetime.Min.Format(c.Datetime.Layout) + " .. " + c.Datetime.Max.Format(c.Datetime.Layout)
	case len(c.TopValues) > 0:
		return fmt.Sprintf("top=%s (%d)", c.TopValues[0].Value, c.TopValues[0].Count)
	}
	return ""
}

func missingTable(p *profile.DatasetProfile) report.Table {
	t := report.Table{
		Name:    report.TableMissing,
		Title:   "Missing values",
		Columns: []string{"column", "missing_count", "missing_share"},
	}
	for _, row := range p.MissingTable() {
		t.Rows = append(t.Rows, []string{row.Column, strconv.Itoa(row.Count), formatFloat(row.Share)})
	}
	return t
}

func correlationTable(m *profile.CorrelationMatrix) report.Table {
	t := report.Table{
		Name:    report.TableCorrelation,
		Title:   "Correlation (Pearson)",
		Columns: append([]string{""}, m.Columns...),
	}
	for i, name := range m.Columns {
		row := []string{name}
		for _, v := range m.Values[i] {
			row = append(row, formatFloat(v))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func topTable(c profile.ColumnProfile) report.Table {
	t := report.Table{
		Name:    report.TopTablePrefix + c.Name,
		Title:   "Top values of " + c.Name,
		Columns: []string{"value", "count", "share"},
	}
	for _, v := range c.TopValues {
		t.Rows = append(t.Rows, []string{v.Value, strconv.Itoa(v.Count), formatFloat(v.Share)})
	}
	return t
}

func problemColumnsTable(p *profile.DatasetProfile, th config.Thresholds) report.Table {
	t := report.Table{
		Name:    report.TableProblemColumns,
		Title:   "Problem columns",
		Columns: []string{"column", "missing_share"},
	}
	for _, row := range p.MissingTable() {
		if row.Share > th.MinMissingShare {
			t.Rows = append(t.Rows, []string{row.Column, formatFloat(row.Share)})
		}
	}
	return t
}

// formatFloat prints a fixed number of decimals; NaN prints empty
func formatFloat(x float64) string {
	if math.IsNaN(x) {
		return ""
	}
	scale := math.Pow10(statDecimals)
	return strconv.FormatFloat(math.Round(x*scale)/scale, 'f', statDecimals, 64)
}
