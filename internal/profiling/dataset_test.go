package profiling

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edaqa/domain/table"
)

func buildTable(t *testing.T, header []string, rows ...[]string) *table.Table {
	t.Helper()
	records := make([][]table.Cell, len(rows))
	for i, r := range rows {
		records[i] = cells(r...)
	}
	tbl, err := table.New(header, records)
	require.NoError(t, err)
	return tbl
}

func sampleTable(t *testing.T) *table.Table {
	return buildTable(t, []string{"id", "price", "qty", "city", "note"},
		[]string{"1", "10", "3", "Moscow", ""},
		[]string{"2", "20", "", "Kazan", ""},
		[]string{"3", "30", "1", "Moscow", "late"},
		[]string{"4", "", "0", "Perm", ""},
		[]string{"5", "50", "0", "Kazan", ""},
	)
}

func TestBuild_Shape(t *testing.T) {
	p := NewBuilder(DefaultOptions()).Build(sampleTable(t))

	assert.Equal(t, 5, p.RowCount)
	assert.Equal(t, 5, p.ColumnCount)
	assert.Len(t, p.Columns, p.ColumnCount)
	assert.Equal(t, "city", p.Columns[3].Name)
	assert.Contains(t, p.TopCategories, "city")
	assert.Contains(t, p.TopCategories, "note")
	assert.NotContains(t, p.TopCategories, "price")
}

func TestBuild_MissingMatrixMatchesColumnCounts(t *testing.T) {
	p := NewBuilder(DefaultOptions()).Build(sampleTable(t))

	sum := 0
	for _, c := range p.Columns {
		sum += c.MissingCount
	}
	assert.Equal(t, sum, p.Missing.Total())
	assert.Len(t, p.Missing.Cells, p.RowCount)
	assert.True(t, p.Missing.Cells[1][2])
	assert.False(t, p.Missing.Cells[0][0])
}

func TestBuild_CorrelationSymmetricWithUnitDiagonal(t *testing.T) {
	p := NewBuilder(DefaultOptions()).Build(sampleTable(t))
	require.NotNil(t, p.Correlation)

	m := p.Correlation
	assert.Equal(t, []string{"id", "price", "qty"}, m.Columns)
	for i := range m.Values {
		assert.Equal(t, 1.0, m.Values[i][i])
		for j := range m.Values {
			if math.IsNaN(m.Values[i][j]) {
				assert.True(t, math.IsNaN(m.Values[j][i]))
				continue
			}
			assert.Equal(t, m.Values[i][j], m.Values[j][i])
		}
	}

	// id and price are perfectly linear on the rows they share
	r, ok := m.At("id", "price")
	require.True(t, ok)
	assert.InDelta(t, 1.0, r, 1e-12)
}

func TestBuild_CorrelationPairwiseComplete(t *testing.T) {
	tbl := buildTable(t, []string{"a", "b", "c"},
		[]string{"1", "2", ""},
		[]string{"2", "4", "9"},
		[]string{"3", "", "7"},
		[]string{"4", "8", "5"},
	)
	p := NewBuilder(DefaultOptions()).Build(tbl)
	require.NotNil(t, p.Correlation)

	ab, _ := p.Correlation.At("a", "b")
	ac, _ := p.Correlation.At("a", "c")
	bc, _ := p.Correlation.At("b", "c")
	assert.InDelta(t, 1.0, ab, 1e-12)
	assert.InDelta(t, -1.0, ac, 1e-12)
	assert.InDelta(t, -1.0, bc, 1e-12)
}

func TestBuild_ConstantNumericColumnHasNaNDiagonal(t *testing.T) {
	tbl := buildTable(t, []string{"x", "k"},
		[]string{"1", "5"},
		[]string{"2", "5"},
		[]string{"3", "5"},
	)
	p := NewBuilder(DefaultOptions()).Build(tbl)
	require.NotNil(t, p.Correlation)

	assert.Equal(t, 1.0, p.Correlation.Values[0][0])
	assert.True(t, math.IsNaN(p.Correlation.Values[1][1]))
	assert.True(t, math.IsNaN(p.Correlation.Values[0][1]))

	raw, err := json.Marshal(p.Correlation)
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns":["x","k"],"values":[[1,null],[null,null]]}`, string(raw))
}

func TestBuild_FewerThanTwoNumericColumns(t *testing.T) {
	tbl := buildTable(t, []string{"n", "city"},
		[]string{"1", "a"},
		[]string{"2", "b"},
	)
	p := NewBuilder(DefaultOptions()).Build(tbl)
	assert.Nil(t, p.Correlation)
}

func TestBuild_Deterministic(t *testing.T) {
	b := NewBuilder(DefaultOptions())
	first, err := json.Marshal(b.Build(sampleTable(t)))
	require.NoError(t, err)
	second, err := json.Marshal(b.Build(sampleTable(t)))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestBuild_NoRows(t *testing.T) {
	tbl := buildTable(t, []string{"a", "b"})
	p := NewBuilder(DefaultOptions()).Build(tbl)

	assert.Equal(t, 0, p.RowCount)
	assert.Equal(t, 2, p.ColumnCount)
	assert.Nil(t, p.Correlation)
	assert.Equal(t, 0.0, p.Columns[0].MissingShare)
}
