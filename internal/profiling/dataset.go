package profiling

import (
	"edaqa/domain/profile"
	"edaqa/domain/table"
)

// Builder turns a rectangular table into a DatasetProfile
type Builder struct {
	opts Options
}

// NewBuilder creates a builder with fixed options
func NewBuilder(opts Options) *Builder {
	return &Builder{opts: opts}
}

// Build profiles every column independently and adds the cross-column
// artifacts: the missing matrix, top-category tables and, when at least two
// numeric columns exist, the correlation matrix.
func (b *Builder) Build(t *table.Table) *profile.DatasetProfile {
	p := &profile.DatasetProfile{
		RowCount:    t.RowCount(),
		ColumnCount: t.ColumnCount(),
		Columns:     make([]profile.ColumnProfile, t.ColumnCount()),
		Missing:     missingMatrix(t),
	}

	var numeric []numericColumn
	for i, col := range t.Columns {
		cp := ProfileColumn(col.Name, col.Cells, b.opts)
		p.Columns[i] = cp

		switch cp.Kind {
		case profile.KindNumeric:
			numeric = append(numeric, parseNumericColumn(col))
		case profile.KindCategorical:
			if len(cp.TopValues) == 0 {
				continue
			}
			if p.TopCategories == nil {
				p.TopCategories = make(map[string][]profile.ValueCount)
			}
			p.TopCategories[cp.Name] = cp.TopValues
		}
	}

	p.Correlation = correlationMatrix(numeric)

	return p
}

func missingMatrix(t *table.Table) profile.MissingMatrix {
	m := profile.MissingMatrix{
		Columns: t.Names(),
		Cells:   make([][]bool, t.RowCount()),
	}
	for i := range m.Cells {
		row := make([]bool, t.ColumnCount())
		for j, col := range t.Columns {
			row[j] = col.Cells[i].Missing()
		}
		m.Cells[i] = row
	}
	return m
}
