package profiling

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"edaqa/domain/profile"
	"edaqa/domain/table"
)

// numericColumn keeps parsed values aligned with row positions
type numericColumn struct {
	name    string
	values  []float64
	present []bool
}

func parseNumericColumn(col table.Column) numericColumn {
	nc := numericColumn{
		name:    col.Name,
		values:  make([]float64, len(col.Cells)),
		present: make([]bool, len(col.Cells)),
	}
	for i, c := range col.Cells {
		if c.Missing() {
			continue
		}
		if v, ok := parseNumber(trim(c.Value)); ok {
			nc.values[i] = v
			nc.present[i] = true
		}
	}
	return nc
}

// correlationMatrix computes pairwise Pearson coefficients. Each pair uses
// only the rows present in both columns. Undefined coefficients (fewer than
// two shared rows, or a constant side) are NaN.
func correlationMatrix(columns []numericColumn) *profile.CorrelationMatrix {
	if len(columns) < 2 {
		return nil
	}

	n := len(columns)
	m := &profile.CorrelationMatrix{
		Columns: make([]string, n),
		Values:  make([][]float64, n),
	}
	for i := range columns {
		m.Columns[i] = columns[i].name
		m.Values[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		x, _ := pairwiseComplete(columns[i], columns[i])
		if varies(x) {
			m.Values[i][i] = 1
		} else {
			m.Values[i][i] = math.NaN()
		}

		for j := i + 1; j < n; j++ {
			r := pearson(pairwiseComplete(columns[i], columns[j]))
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}

	return m
}

func pairwiseComplete(a, b numericColumn) ([]float64, []float64) {
	var x, y []float64
	for i := range a.values {
		if a.present[i] && b.present[i] {
			x = append(x, a.values[i])
			y = append(y, b.values[i])
		}
	}
	return x, y
}

func pearson(x, y []float64) float64 {
	if len(x) < 2 || !varies(x) || !varies(y) {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	// float noise can push |r| a hair above one
	return math.Max(-1, math.Min(1, r))
}

func varies(x []float64) bool {
	for i := 1; i < len(x); i++ {
		if x[i] != x[0] {
			return true
		}
	}
	return false
}
