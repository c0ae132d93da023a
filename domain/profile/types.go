package profile

import (
	"encoding/json"
	"math"
	"sort"
	"time"
)

// Kind is the semantic type inferred for a column
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
	KindDatetime    Kind = "datetime"
	KindBoolean     Kind = "boolean"
)

// ColumnProfile contains the complete statistical profile of one column.
// It is built once per profiling run and never modified afterwards.
type ColumnProfile struct {
	Name         string  `json:"name"`
	Kind         Kind    `json:"kind"`
	RowCount     int     `json:"row_count"`
	MissingCount int     `json:"missing_count"`
	MissingShare float64 `json:"missing_share"`
	UniqueCount  int     `json:"unique_count"`

	// ExampleValues are the first distinct present values in row order
	ExampleValues []string `json:"example_values"`

	Numeric  *NumericStats  `json:"numeric,omitempty"`
	Datetime *DatetimeStats `json:"datetime,omitempty"`
	Boolean  *BooleanStats  `json:"boolean,omitempty"`

	// TopValues is only filled for categorical columns
	TopValues []ValueCount `json:"top_values,omitempty"`
}

// NonMissing returns the number of present cells
func (c ColumnProfile) NonMissing() int {
	return c.RowCount - c.MissingCount
}

// NumericStats contains statistics for numeric columns. Population
// conventions are used throughout.
type NumericStats struct {
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Median    float64 `json:"median"`
	Q25       float64 `json:"q25"`
	Q75       float64 `json:"q75"`
	ZeroCount int     `json:"zero_count"`
	ZeroShare float64 `json:"zero_share"`

	// OutlierCount uses the 1.5 IQR rule on nearest-rank quartiles
	OutlierCount int `json:"outlier_count"`

	// StdUndefined is set when fewer than two values were present; StdDev
	// is then reported as zero.
	StdUndefined bool `json:"std_undefined,omitempty"`

	// Values holds the present values in ascending order for charting.
	// It is not serialized.
	Values []float64 `json:"-" yaml:"-"`
}

// DatetimeStats holds the observed range of a datetime column
type DatetimeStats struct {
	Layout string    `json:"layout"`
	Min    time.Time `json:"min"`
	Max    time.Time `json:"max"`
}

// BooleanStats counts true values among present cells
type BooleanStats struct {
	TrueCount int     `json:"true_count"`
	TrueShare float64 `json:"true_share"`
}

// ValueCount represents a value and its frequency
type ValueCount struct {
	Value string  `json:"value"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// MissingMatrix is a dense row-major grid; Cells[i][j] is true when row i of
// column j was absent.
type MissingMatrix struct {
	Columns []string `json:"columns"`
	Cells   [][]bool `json:"cells"`
}

// Total counts absent cells across the whole grid
func (m MissingMatrix) Total() int {
	total := 0
	for _, row := range m.Cells {
		for _, missing := range row {
			if missing {
				total++
			}
		}
	}
	return total
}

// CorrelationMatrix is a square symmetric Pearson matrix over numeric
// columns. Undefined coefficients are NaN and encode as JSON null.
type CorrelationMatrix struct {
	Columns []string
	Values  [][]float64
}

// At returns the coefficient for a pair of column names
func (m *CorrelationMatrix) At(a, b string) (float64, bool) {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

func (m *CorrelationMatrix) index(name string) int {
	for i, c := range m.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// MarshalJSON encodes NaN coefficients as null
func (m *CorrelationMatrix) MarshalJSON() ([]byte, error) {
	values := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]*float64, len(row))
		for j, v := range row {
			if math.IsNaN(v) {
				continue
			}
			v := v
			values[i][j] = &v
		}
	}
	return json.Marshal(struct {
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}{m.Columns, values})
}

// DatasetProfile is the result of one profiling run. Downstream consumers
// only read it.
type DatasetProfile struct {
	RowCount      int                     `json:"row_count"`
	ColumnCount   int                     `json:"column_count"`
	Columns       []ColumnProfile         `json:"columns"`
	Missing       MissingMatrix           `json:"missing_matrix"`
	Correlation   *CorrelationMatrix      `json:"correlation,omitempty"`
	TopCategories map[string][]ValueCount `json:"top_categories,omitempty"`
}

// ColumnsOfKind returns the profiles of the given kind in column order
func (p *DatasetProfile) ColumnsOfKind(kind Kind) []ColumnProfile {
	var out []ColumnProfile
	for _, c := range p.Columns {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// MissingRow is one line of the missing-value table
type MissingRow struct {
	Column string  `json:"column"`
	Count  int     `json:"missing_count"`
	Share  float64 `json:"missing_share"`
}

// MissingTable lists per-column missing counts, highest share first and
// column name as tie-break.
func (p *DatasetProfile) MissingTable() []MissingRow {
	rows := make([]MissingRow, len(p.Columns))
	for i, c := range p.Columns {
		rows[i] = MissingRow{Column: c.Name, Count: c.MissingCount, Share: c.MissingShare}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Share != rows[j].Share {
			return rows[i].Share > rows[j].Share
		}
		return rows[i].Column < rows[j].Column
	})
	return rows
}
