package table

import (
	"edaqa/domain/core"
)

// Cell is one scalar value read from a data source. Null marks a cell the
// source recognised as absent (empty field, NA marker, SQL NULL, JSON null).
type Cell struct {
	Value string `json:"value"`
	Null  bool   `json:"null,omitempty"`
}

// Missing reports whether the cell carries no usable value
func (c Cell) Missing() bool {
	return c.Null || isBlank(c.Value)
}

// Column is an ordered sequence of cells under one name
type Column struct {
	Name  string `json:"name"`
	Cells []Cell `json:"cells"`
}

// Table is rectangular column-major data. Every column has the same length.
type Table struct {
	Columns []Column `json:"columns"`
	rows    int
}

// New builds a table from a header and row-major records. Ragged records
// and repeated header names are rejected; the engine never sees them.
func New(header []string, records [][]Cell) (*Table, error) {
	if len(header) == 0 {
		return nil, core.ErrNoColumns
	}

	seen := make(map[string]struct{}, len(header))
	for _, name := range header {
		if _, dup := seen[name]; dup {
			return nil, core.NewDuplicateColumnError(name)
		}
		seen[name] = struct{}{}
	}

	columns := make([]Column, len(header))
	for j, name := range header {
		columns[j] = Column{Name: name, Cells: make([]Cell, len(records))}
	}

	for i, record := range records {
		if len(record) != len(header) {
			return nil, core.NewRaggedRowError(i+1, len(record), len(header))
		}
		for j, cell := range record {
			columns[j].Cells[i] = cell
		}
	}

	return &Table{Columns: columns, rows: len(records)}, nil
}

// RowCount returns the number of records
func (t *Table) RowCount() int {
	return t.rows
}

// ColumnCount returns the number of fields
func (t *Table) ColumnCount() int {
	return len(t.Columns)
}

// Names returns column names in order
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks a column up by name
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

func isBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n':
		default:
			return false
		}
	}
	return true
}
