package ports

import (
	"context"

	"edaqa/domain/report"
)

// ReportSink serializes an assembled report to a concrete form
type ReportSink interface {
	Write(ctx context.Context, r *report.Report) error
}
