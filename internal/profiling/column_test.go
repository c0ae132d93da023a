package profiling

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edaqa/domain/profile"
	"edaqa/domain/table"
)

func cells(values ...string) []table.Cell {
	out := make([]table.Cell, len(values))
	for i, v := range values {
		out[i] = table.Cell{Value: v}
	}
	return out
}

func TestInferKind_Order(t *testing.T) {
	layouts := DefaultOptions().DatetimeLayouts

	tests := []struct {
		name   string
		values []string
		want   profile.Kind
	}{
		{"booleans", []string{"true", "False", "YES", "no"}, profile.KindBoolean},
		{"zero one stays numeric", []string{"0", "1", "1", "0"}, profile.KindNumeric},
		{"dates", []string{"2024-01-01", "2024-02-29"}, profile.KindDatetime},
		{"timestamps", []string{"2024-01-01 10:00:00", "2024-01-02 11:30:00"}, profile.KindDatetime},
		{"numbers", []string{"1", "2.5", "-3e2"}, profile.KindNumeric},
		{"mixed", []string{"1", "two"}, profile.KindCategorical},
		{"empty", nil, profile.KindCategorical},
		{"nan is not a number", []string{"1", "NaN"}, profile.KindCategorical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, _ := inferKind(tt.values, layouts)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestProfileColumn_Numeric(t *testing.T) {
	cp := ProfileColumn("amount", cells("0", "2", "", "4", "0", "1.0", "1"), DefaultOptions())

	assert.Equal(t, profile.KindNumeric, cp.Kind)
	assert.Equal(t, 7, cp.RowCount)
	assert.Equal(t, 1, cp.MissingCount)
	assert.Equal(t, 0.1429, cp.MissingShare)
	// "1.0" and "1" are the same value
	assert.Equal(t, 4, cp.UniqueCount)

	require.NotNil(t, cp.Numeric)
	assert.InDelta(t, 8.0/6.0, cp.Numeric.Mean, 1e-12)
	assert.Equal(t, 0.0, cp.Numeric.Min)
	assert.Equal(t, 4.0, cp.Numeric.Max)
	assert.Equal(t, 2, cp.Numeric.ZeroCount)
	assert.InDelta(t, 2.0/6.0, cp.Numeric.ZeroShare, 1e-12)
	assert.False(t, cp.Numeric.StdUndefined)

	// population standard deviation
	var ss float64
	for _, x := range []float64{0, 2, 4, 0, 1, 1} {
		ss += (x - 8.0/6.0) * (x - 8.0/6.0)
	}
	assert.InDelta(t, math.Sqrt(ss/6), cp.Numeric.StdDev, 1e-12)
	assert.Nil(t, cp.TopValues)
}

func TestProfileColumn_SingleValueHasUndefinedSpread(t *testing.T) {
	cp := ProfileColumn("x", cells("", "7", ""), DefaultOptions())

	require.NotNil(t, cp.Numeric)
	assert.True(t, cp.Numeric.StdUndefined)
	assert.Equal(t, 0.0, cp.Numeric.StdDev)
	assert.Equal(t, 7.0, cp.Numeric.Q25)
	assert.Equal(t, 7.0, cp.Numeric.Q75)
}

func TestProfileColumn_ExtremeMagnitudesStayFinite(t *testing.T) {
	cp := ProfileColumn("x", cells("1.7e308", "1.7e308", "-1.7e308", "1e308"), DefaultOptions())

	require.NotNil(t, cp.Numeric)
	assert.False(t, math.IsInf(cp.Numeric.Mean, 0) || math.IsNaN(cp.Numeric.Mean))
	assert.False(t, math.IsInf(cp.Numeric.StdDev, 0) || math.IsNaN(cp.Numeric.StdDev))
	assert.InDelta(t, 0.675e308, cp.Numeric.Mean, 1e294)
	assert.Greater(t, cp.Numeric.StdDev, 1e308)
}

func TestProfileColumn_ExampleValues(t *testing.T) {
	cp := ProfileColumn("c", cells("b", "", "a", "b", "c", "d"), DefaultOptions())
	assert.Equal(t, []string{"b", "a", "c"}, cp.ExampleValues)

	opts := DefaultOptions()
	opts.ExampleValues = 0
	assert.Empty(t, ProfileColumn("c", cells("x"), opts).ExampleValues)

	empty := ProfileColumn("c", cells("", ""), DefaultOptions())
	assert.NotNil(t, empty.ExampleValues)
	assert.Empty(t, empty.ExampleValues)
}

func TestProfileColumn_AllMissing(t *testing.T) {
	cp := ProfileColumn("empty", []table.Cell{{Null: true}, {Value: " "}, {Null: true}}, DefaultOptions())

	assert.Equal(t, profile.KindCategorical, cp.Kind)
	assert.Equal(t, 3, cp.MissingCount)
	assert.Equal(t, 1.0, cp.MissingShare)
	assert.Equal(t, 0, cp.UniqueCount)
	assert.Empty(t, cp.TopValues)
}

func TestProfileColumn_ConstantColumn(t *testing.T) {
	cp := ProfileColumn("constant", cells("5", "5", "5", "5"), DefaultOptions())

	assert.Equal(t, profile.KindNumeric, cp.Kind)
	assert.Equal(t, 0, cp.MissingCount)
	assert.Equal(t, 1, cp.UniqueCount)
}

func TestProfileColumn_TopKTiesByFirstSeen(t *testing.T) {
	opts := DefaultOptions()
	opts.TopK = 3

	values := cells("pear", "apple", "fig", "apple", "kiwi", "fig", "pear", "kiwi", "plum")
	var first []profile.ValueCount
	for run := 0; run < 5; run++ {
		cp := ProfileColumn("fruit", values, opts)
		require.Len(t, cp.TopValues, 3)
		if run == 0 {
			first = cp.TopValues
			continue
		}
		assert.Equal(t, first, cp.TopValues)
	}

	// pear, apple, fig and kiwi all appear twice; first-seen order wins
	assert.Equal(t, "pear", first[0].Value)
	assert.Equal(t, "apple", first[1].Value)
	assert.Equal(t, "fig", first[2].Value)
	assert.Equal(t, 2, first[0].Count)
	assert.InDelta(t, 2.0/9.0, first[0].Share, 1e-12)
}

func TestProfileColumn_TopKOrdersByCount(t *testing.T) {
	cp := ProfileColumn("c", cells("a", "b", "b", "c", "c", "c"), DefaultOptions())

	require.Len(t, cp.TopValues, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{cp.TopValues[0].Value, cp.TopValues[1].Value, cp.TopValues[2].Value})
	assert.Equal(t, 3, cp.UniqueCount)
}

func TestProfileColumn_Boolean(t *testing.T) {
	cp := ProfileColumn("flag", cells("yes", "no", "YES", ""), DefaultOptions())

	assert.Equal(t, profile.KindBoolean, cp.Kind)
	assert.Equal(t, 2, cp.UniqueCount)
	require.NotNil(t, cp.Boolean)
	assert.Equal(t, 2, cp.Boolean.TrueCount)
	assert.InDelta(t, 2.0/3.0, cp.Boolean.TrueShare, 1e-12)
}

func TestProfileColumn_Datetime(t *testing.T) {
	cp := ProfileColumn("day", cells("2024-03-01", "2023-12-31", "2024-01-15"), DefaultOptions())

	assert.Equal(t, profile.KindDatetime, cp.Kind)
	require.NotNil(t, cp.Datetime)
	assert.Equal(t, "2006-01-02", cp.Datetime.Layout)
	assert.Equal(t, "2023-12-31", cp.Datetime.Min.Format("2006-01-02"))
	assert.Equal(t, "2024-03-01", cp.Datetime.Max.Format("2006-01-02"))
}

func TestProfileColumn_MissingSharePrecision(t *testing.T) {
	opts := DefaultOptions()
	opts.MissingSharePrecision = 2

	cp := ProfileColumn("x", cells("", "1", "2"), opts)
	assert.Equal(t, 0.33, cp.MissingShare)
}

func TestProfileColumn_Invariants(t *testing.T) {
	columns := [][]table.Cell{
		cells("a", "b", "c"),
		cells("", "", ""),
		cells("1", "1", "1"),
		nil,
	}
	for _, c := range columns {
		cp := ProfileColumn("c", c, DefaultOptions())
		assert.GreaterOrEqual(t, cp.MissingShare, 0.0)
		assert.LessOrEqual(t, cp.MissingShare, 1.0)
		assert.LessOrEqual(t, cp.UniqueCount, cp.RowCount)
	}
}
