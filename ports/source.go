package ports

import (
	"context"

	"edaqa/domain/table"
)

// DataSource supplies rectangular tabular data. Sources validate shape and
// encoding themselves; a returned table is always well formed.
type DataSource interface {
	Name() string
	Load(ctx context.Context) (*table.Table, error)
}

// Shape is the cheap summary of a source: its header and record count
type Shape struct {
	Columns []string `json:"columns"`
	Rows    int      `json:"rows"`
}

// ShapePeeker is implemented by sources that can report their shape without
// building cells for every record
type ShapePeeker interface {
	Peek(ctx context.Context) (Shape, error)
}
