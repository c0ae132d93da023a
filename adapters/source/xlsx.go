package source

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/viant/afs"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"edaqa/domain/core"
	"edaqa/domain/table"
	"edaqa/internal/errors"
	"edaqa/ports"
)

// XLSXSource reads one worksheet of a workbook. The first row is the
// header; short rows are padded with missing cells.
type XLSXSource struct {
	location string
	opts     Options
	fs       afs.Service
}

// NewXLSX creates a workbook source for a location
func NewXLSX(location string, opts Options) *XLSXSource {
	return &XLSXSource{location: location, opts: opts, fs: afs.New()}
}

func (s *XLSXSource) Name() string { return s.location }

// Load reads the configured sheet, or the first one
func (s *XLSXSource) Load(ctx context.Context) (*table.Table, error) {
	data, err := download(ctx, s.fs, s.location)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, sheet, err := readSheet(bytes.NewReader(data), s.opts.Sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", s.location)
	}

	t, err := tableFromSheet(rows, s.opts)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", s.location)
	}

	s.opts.logger().Debug("xlsx loaded",
		zap.String("location", s.location),
		zap.String("sheet", sheet),
		zap.Int("rows", t.RowCount()),
		zap.Duration("elapsed", time.Since(start)))
	return t, nil
}

// Peek reports the header and record count of the sheet
func (s *XLSXSource) Peek(ctx context.Context) (ports.Shape, error) {
	data, err := download(ctx, s.fs, s.location)
	if err != nil {
		return ports.Shape{}, err
	}
	rows, _, err := readSheet(bytes.NewReader(data), s.opts.Sheet)
	if err != nil {
		return ports.Shape{}, err
	}
	if len(rows) == 0 {
		return ports.Shape{}, errors.InvalidInputf(core.ErrNoColumns, "empty worksheet")
	}
	return ports.Shape{Columns: cleanHeader(rows[0]), Rows: len(rows) - 1}, nil
}

// ReadXLSX parses a workbook from a reader; used for uploads
func ReadXLSX(r io.Reader, opts Options) (*table.Table, error) {
	rows, _, err := readSheet(r, opts.Sheet)
	if err != nil {
		return nil, err
	}
	return tableFromSheet(rows, opts)
}

func readSheet(r io.Reader, sheet string) ([][]string, string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, "", errors.InvalidInputf(err, "cannot read workbook")
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, "", errors.InvalidInputf(core.ErrNoColumns, "workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, sheet, errors.InvalidInputf(err, "cannot read sheet %q", sheet)
	}
	return rows, sheet, nil
}

func tableFromSheet(rows [][]string, opts Options) (*table.Table, error) {
	switch len(rows) {
	case 0:
		return nil, errors.InvalidInputf(core.ErrNoColumns, "empty worksheet")
	case 1:
		return nil, errors.InvalidInputf(core.ErrEmptyTable, "empty worksheet")
	}

	t, err := fromRows(rows[0], rows[1:], opts, true)
	if err != nil {
		return nil, errors.InvalidInputf(err, "cannot read worksheet")
	}
	return t, nil
}
