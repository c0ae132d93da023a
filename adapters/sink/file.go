package sink

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"go.uber.org/zap"

	"edaqa/domain/report"
	"edaqa/internal/errors"
)

// Output file names under the sink directory
const (
	MarkdownFile = "report.md"
	HTMLFile     = "report.html"
	XLSXFile     = "report.xlsx"
	QualityFile  = "quality.json"
	ChartsDir    = "charts"
)

const fileMode os.FileMode = 0o644

// FileSink writes every report artifact under one directory, which may be
// a local path or any afs URL
type FileSink struct {
	outDir string
	fs     afs.Service
	logger *zap.Logger
}

// NewFileSink creates a sink rooted at outDir
func NewFileSink(outDir string, logger *zap.Logger) *FileSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSink{outDir: outDir, fs: afs.New(), logger: logger}
}

// Dir is the output location
func (s *FileSink) Dir() string { return s.outDir }

// Write renders and uploads all artifacts. The first failure stops the
// write; files already written stay in place.
func (s *FileSink) Write(ctx context.Context, r *report.Report) error {
	md, err := RenderMarkdown(r)
	if err != nil {
		return errors.Wrap(err, "render markdown")
	}
	if err := s.put(ctx, MarkdownFile, md); err != nil {
		return err
	}
	if err := s.put(ctx, HTMLFile, MarkdownToHTML(md, r.Title)); err != nil {
		return err
	}

	for _, t := range r.Tables {
		data, err := RenderCSV(t)
		if err != nil {
			return errors.Wrapf(err, "render table %s", t.Name)
		}
		if err := s.put(ctx, FileName(t.Name)+".csv", data); err != nil {
			return err
		}
	}

	workbook, err := RenderXLSX(r)
	if err != nil {
		return errors.Wrap(err, "render workbook")
	}
	if err := s.put(ctx, XLSXFile, workbook); err != nil {
		return err
	}

	for _, c := range r.Charts {
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return errors.Wrapf(err, "encode chart %s", c.Name)
		}
		if err := s.put(ctx, ChartsDir+"/"+FileName(c.Name)+".json", data); err != nil {
			return err
		}
	}

	quality, err := json.MarshalIndent(r.Quality, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode quality")
	}
	if err := s.put(ctx, QualityFile, quality); err != nil {
		return err
	}

	s.logger.Info("report written",
		zap.String("dir", s.outDir),
		zap.String("report_id", string(r.ID)),
		zap.Int("tables", len(r.Tables)),
		zap.Int("charts", len(r.Charts)))
	return nil
}

func (s *FileSink) put(ctx context.Context, name string, data []byte) error {
	location := url.Join(s.outDir, name)
	if err := s.fs.Upload(ctx, location, fileMode, bytes.NewReader(data)); err != nil {
		return errors.Wrapf(errors.ExternalServiceError("storage", err), "write %s", location)
	}
	return nil
}

// RenderCSV writes one table with its header row
func RenderCSV(t report.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, err
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
