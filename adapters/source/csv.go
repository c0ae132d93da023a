package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"time"
	"unicode/utf8"

	"github.com/viant/afs"
	"go.uber.org/zap"

	"edaqa/domain/core"
	"edaqa/domain/table"
	"edaqa/internal/errors"
	"edaqa/ports"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVSource reads a delimited file from a local path or any afs URL
type CSVSource struct {
	location string
	opts     Options
	fs       afs.Service
}

// NewCSV creates a CSV source for a location
func NewCSV(location string, opts Options) *CSVSource {
	return &CSVSource{location: location, opts: opts, fs: afs.New()}
}

func (s *CSVSource) Name() string { return s.location }

// Load downloads and parses the whole file
func (s *CSVSource) Load(ctx context.Context) (*table.Table, error) {
	data, err := download(ctx, s.fs, s.location)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	t, err := ReadCSV(bytes.NewReader(data), s.opts)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", s.location)
	}

	s.opts.logger().Debug("csv loaded",
		zap.String("location", s.location),
		zap.Int("rows", t.RowCount()),
		zap.Int("columns", t.ColumnCount()),
		zap.Duration("elapsed", time.Since(start)))
	return t, nil
}

// Peek reads the header and counts records without building cells
func (s *CSVSource) Peek(ctx context.Context) (ports.Shape, error) {
	data, err := download(ctx, s.fs, s.location)
	if err != nil {
		return ports.Shape{}, err
	}
	data, err = checkEncoding(data)
	if err != nil {
		return ports.Shape{}, err
	}

	r := newCSVReader(bytes.NewReader(data), s.opts)
	header, err := r.Read()
	if err == io.EOF {
		return ports.Shape{}, errors.InvalidInputf(core.ErrNoColumns, "empty CSV")
	}
	if err != nil {
		return ports.Shape{}, errors.InvalidInputf(err, "cannot read CSV")
	}

	shape := ports.Shape{Columns: cleanHeader(header)}
	for {
		_, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ports.Shape{}, errors.InvalidInputf(err, "cannot read CSV")
		}
		shape.Rows++
	}
	return shape, nil
}

// ReadCSV parses CSV with a header row. Empty input, a header without
// records, ragged rows and invalid UTF-8 are rejected as INVALID_INPUT.
func ReadCSV(r io.Reader, opts Options) (*table.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.InvalidInputf(err, "cannot read CSV")
	}
	data, err = checkEncoding(data)
	if err != nil {
		return nil, err
	}

	rows, err := newCSVReader(bytes.NewReader(data), opts).ReadAll()
	if err != nil {
		return nil, errors.InvalidInputf(err, "cannot read CSV")
	}
	if len(rows) == 0 {
		return nil, errors.InvalidInputf(core.ErrNoColumns, "empty CSV")
	}
	if len(rows) == 1 {
		return nil, errors.InvalidInputf(core.ErrEmptyTable, "empty CSV")
	}

	t, err := fromRows(rows[0], rows[1:], opts, false)
	if err != nil {
		return nil, errors.InvalidInputf(err, "cannot read CSV")
	}
	return t, nil
}

func newCSVReader(r io.Reader, opts Options) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = opts.delimiter()
	// row widths are checked by table.New so the error names the row
	reader.FieldsPerRecord = -1
	return reader
}

// checkEncoding strips a UTF-8 byte order mark and rejects anything that
// is not UTF-8
func checkEncoding(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, errors.InvalidInputf(core.ErrInvalidEncoding, "unparseable encoding")
	}
	return data, nil
}

// download fetches a location through afs; plain paths resolve to file://
func download(ctx context.Context, fs afs.Service, location string) ([]byte, error) {
	data, err := fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, errors.Wrapf(errors.ExternalServiceError("storage", err), "download %s", location)
	}
	return data, nil
}
