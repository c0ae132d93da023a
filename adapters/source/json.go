package source

import (
	"context"
	"time"

	"github.com/tidwall/gjson"
	"github.com/viant/afs"
	"go.uber.org/zap"

	"edaqa/domain/core"
	"edaqa/domain/table"
	"edaqa/internal/errors"
)

// JSONSource reads an array of flat records. Column order follows the
// order keys are first seen; absent keys and JSON null are missing cells.
type JSONSource struct {
	location string
	opts     Options
	fs       afs.Service
}

// NewJSON creates a JSON records source for a location
func NewJSON(location string, opts Options) *JSONSource {
	return &JSONSource{location: location, opts: opts, fs: afs.New()}
}

func (s *JSONSource) Name() string { return s.location }

func (s *JSONSource) Load(ctx context.Context) (*table.Table, error) {
	data, err := download(ctx, s.fs, s.location)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	t, err := ReadJSON(data, s.opts)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", s.location)
	}

	s.opts.logger().Debug("json loaded",
		zap.String("location", s.location),
		zap.Int("rows", t.RowCount()),
		zap.Duration("elapsed", time.Since(start)))
	return t, nil
}

// ReadJSON parses records from a document, optionally at opts.JSONPath
func ReadJSON(data []byte, opts Options) (*table.Table, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.InvalidInput("cannot read JSON: invalid document")
	}

	records := gjson.ParseBytes(data)
	if opts.JSONPath != "" {
		records = gjson.GetBytes(data, opts.JSONPath)
	}
	if !records.IsArray() {
		return nil, errors.InvalidInput("cannot read JSON: expected an array of records")
	}

	var (
		header []string
		index  = map[string]int{}
		rows   []map[string]gjson.Result
		bad    bool
	)
	records.ForEach(func(_, record gjson.Result) bool {
		if !record.IsObject() {
			bad = true
			return false
		}
		row := map[string]gjson.Result{}
		record.ForEach(func(key, value gjson.Result) bool {
			name := key.String()
			if _, seen := index[name]; !seen {
				index[name] = len(header)
				header = append(header, name)
			}
			row[name] = value
			return true
		})
		rows = append(rows, row)
		return true
	})

	if bad {
		return nil, errors.InvalidInput("cannot read JSON: every record must be an object")
	}
	if len(header) == 0 {
		return nil, errors.InvalidInputf(core.ErrNoColumns, "empty JSON")
	}

	b := newCellBuilder(opts)
	cells := make([][]table.Cell, len(rows))
	for i, row := range rows {
		cells[i] = make([]table.Cell, len(header))
		for j, name := range header {
			cells[i][j] = jsonCell(b, row[name])
		}
	}

	t, err := table.New(header, cells)
	if err != nil {
		return nil, errors.InvalidInputf(err, "cannot read JSON")
	}
	if t.RowCount() == 0 {
		return nil, errors.InvalidInputf(core.ErrEmptyTable, "empty JSON")
	}
	return t, nil
}

// jsonCell keeps the literal spelling of numbers and booleans
func jsonCell(b cellBuilder, v gjson.Result) table.Cell {
	switch v.Type {
	case gjson.Null:
		return table.Cell{Null: true}
	case gjson.String:
		return b.cell(v.Str)
	default:
		return table.Cell{Value: v.Raw}
	}
}
