package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"edaqa/domain/core"
	"edaqa/domain/profile"
	"edaqa/domain/quality"
	"edaqa/domain/report"
	"edaqa/domain/table"
	"edaqa/internal/config"
	"edaqa/internal/errors"
	"edaqa/internal/profiling"
	qualityeval "edaqa/internal/quality"
	reportassembler "edaqa/internal/report"
	"edaqa/ports"
)

// Analysis is the result of profiling one table: the profile, its flags and
// the score derived from them
type Analysis struct {
	Profile *profile.DatasetProfile
	Flags   quality.QualityFlags
	Score   quality.QualityScore
}

// ProfilingService runs the profiling, scoring and reporting pipelines.
// It holds only configuration, so one instance serves concurrent callers.
type ProfilingService struct {
	cfg     config.Config
	builder *profiling.Builder
	logger  *zap.Logger
}

// NewProfilingService creates a service bound to a configuration
func NewProfilingService(cfg config.Config, logger *zap.Logger) *ProfilingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfilingService{
		cfg:     cfg,
		builder: profiling.NewBuilder(profiling.OptionsFrom(cfg.Profiling)),
		logger:  logger,
	}
}

// Config returns the configuration the service was built with
func (s *ProfilingService) Config() config.Config {
	return s.cfg
}

// Analyze profiles a table and scores it
func (s *ProfilingService) Analyze(t *table.Table) *Analysis {
	p := s.builder.Build(t)
	flags := qualityeval.EvaluateProfile(p, s.cfg.Thresholds)
	return &Analysis{
		Profile: p,
		Flags:   flags,
		Score:   qualityeval.Score(flags, s.cfg.Scoring),
	}
}

// AnalyzeSource loads a source and analyzes it
func (s *ProfilingService) AnalyzeSource(ctx context.Context, src ports.DataSource) (*Analysis, error) {
	start := time.Now()
	t, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", src.Name())
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.WithCode(errors.CodeUnavailable, err)
	}

	a := s.Analyze(t)
	s.logger.Debug("dataset analyzed",
		zap.String("source", src.Name()),
		zap.Int("rows", a.Profile.RowCount),
		zap.Int("columns", a.Profile.ColumnCount),
		zap.Float64("score", a.Score.Score),
		zap.Duration("elapsed", time.Since(start)))
	return a, nil
}

// ScoreRequest evaluates an aggregated feature summary. Per-column flags
// are unavailable on this path and reported as such.
func (s *ProfilingService) ScoreRequest(req quality.QualityRequest) (quality.QualityScore, error) {
	if err := ValidateRequest(req); err != nil {
		return quality.QualityScore{}, err
	}
	flags := qualityeval.EvaluateRequest(req, s.cfg.Thresholds)
	return qualityeval.Score(flags, s.cfg.Scoring), nil
}

// ValidateRequest rejects summaries no dataset could produce
func ValidateRequest(req quality.QualityRequest) error {
	switch {
	case req.NRows <= 0 || req.NCols <= 0:
		return errors.InvalidInput("n_rows and n_cols must be > 0")
	case req.MaxMissingShare < 0 || req.MaxMissingShare > 1:
		return errors.InvalidInput("max_missing_share must be within [0, 1]")
	case req.NumericCols < 0 || req.CategoricalCols < 0:
		return errors.InvalidInput("numeric_cols and categorical_cols must be >= 0")
	}
	return nil
}

// BuildReport assembles the report for an analysis and gives it an ID
func (s *ProfilingService) BuildReport(a *Analysis) *report.Report {
	r := reportassembler.Assemble(a.Profile, a.Flags, s.cfg.Report, s.cfg.Scoring, s.cfg.Thresholds)
	r.ID = core.NewReportID()
	return r
}

// GenerateReport runs the full pipeline from a source into a sink
func (s *ProfilingService) GenerateReport(ctx context.Context, src ports.DataSource, sink ports.ReportSink) (*report.Report, error) {
	a, err := s.AnalyzeSource(ctx, src)
	if err != nil {
		return nil, err
	}

	r := s.BuildReport(a)
	if err := sink.Write(ctx, r); err != nil {
		return nil, errors.Wrap(err, "write report")
	}

	s.logger.Info("report generated",
		zap.String("report_id", string(r.ID)),
		zap.String("source", src.Name()),
		zap.String("verdict", r.Quality.Message))
	return r, nil
}
