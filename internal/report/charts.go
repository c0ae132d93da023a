package report

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"edaqa/domain/profile"
	"edaqa/domain/report"
	"edaqa/internal/config"
)

// Chart names double as file names in the sinks
const (
	histogramPrefix  = "hist_"
	missingChartName = "missing_matrix"
	heatmapChartName = "correlation_heatmap"
)

func charts(p *profile.DatasetProfile, cfg config.Report) []report.Chart {
	var out []report.Chart

	for _, c := range p.ColumnsOfKind(profile.KindNumeric) {
		if len(out) >= cfg.MaxHistColumns {
			break
		}
		if c.Numeric == nil || len(c.Numeric.Values) == 0 {
			continue
		}
		out = append(out, report.Chart{
			Name:      histogramPrefix + c.Name,
			Kind:      report.ChartHistogram,
			Histogram: histogram(c.Name, c.Numeric.Values, cfg.HistogramBins),
		})
	}

	out = append(out, report.Chart{
		Name: missingChartName,
		Kind: report.ChartMissing,
		Missing: &report.MissingChart{
			Columns: p.Missing.Columns,
			Cells:   p.Missing.Cells,
		},
	})

	if p.Correlation != nil {
		out = append(out, report.Chart{
			Name:    heatmapChartName,
			Kind:    report.ChartHeatmap,
			Heatmap: &report.HeatmapChart{Matrix: p.Correlation},
		})
	}

	return out
}

// histogram bins sorted values into equal-width bins spanning [min, max].
// A constant column gets a unit-wide range centred on its value.
func histogram(column string, sorted []float64, bins int) *report.HistogramChart {
	if bins < 1 {
		bins = 1
	}

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	edges := make([]float64, bins+1)
	if math.IsInf(hi-lo, 0) {
		// the span overflows float64; interpolate so no edge does
		for i := range edges {
			t := float64(i) / float64(bins)
			edges[i] = lo*(1-t) + hi*t
		}
	} else {
		floats.Span(edges, lo, hi)
	}
	edges[0], edges[bins] = lo, hi

	// stat.Histogram counts x in [div[i], div[i+1]), so the last divider
	// must sit strictly above the maximum
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	return &report.HistogramChart{
		Column: column,
		Edges:  edges,
		Counts: stat.Histogram(nil, dividers, sorted, nil),
	}
}
