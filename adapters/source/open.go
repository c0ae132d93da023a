package source

import (
	"context"
	"path"
	"strings"

	"edaqa/internal/errors"
	"edaqa/ports"
)

// Open picks a file source by extension
func Open(location string, opts Options) (ports.DataSource, error) {
	switch strings.ToLower(path.Ext(location)) {
	case ".csv", ".tsv", ".txt":
		if strings.EqualFold(path.Ext(location), ".tsv") && opts.Delimiter == ',' {
			opts.Delimiter = '\t'
		}
		return NewCSV(location, opts), nil
	case ".xlsx", ".xlsm":
		return NewXLSX(location, opts), nil
	case ".json":
		return NewJSON(location, opts), nil
	default:
		return nil, errors.InvalidInput("unsupported file type: " + location)
	}
}

// Peek returns the shape of a source, cheaply when the source supports it
func Peek(ctx context.Context, src ports.DataSource) (ports.Shape, error) {
	if p, ok := src.(ports.ShapePeeker); ok {
		return p.Peek(ctx)
	}
	t, err := src.Load(ctx)
	if err != nil {
		return ports.Shape{}, err
	}
	return ports.Shape{Columns: t.Names(), Rows: t.RowCount()}, nil
}
