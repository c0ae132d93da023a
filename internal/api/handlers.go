package api

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"edaqa/adapters/source"
	"edaqa/app"
	"edaqa/domain/core"
	"edaqa/domain/quality"
	"edaqa/internal/errors"
)

const uploadField = "file"

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": serviceName, "version": Version})
}

// quality scores an aggregated feature summary
func (s *Server) quality(c *gin.Context) {
	start := time.Now()

	var req quality.QualityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errors.InvalidInputf(err, "invalid request body"))
		return
	}

	score, err := s.svc.ScoreRequest(req)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, newQualityResponse(score, req.NRows, req.NCols, elapsedMS(start), requestIDFrom(c)))
}

func (s *Server) qualityFromCSV(c *gin.Context) {
	start := time.Now()

	a, ok := s.analyzeUpload(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, newQualityResponse(a.Score, a.Profile.RowCount, a.Profile.ColumnCount, elapsedMS(start), requestIDFrom(c)))
}

func (s *Server) qualityFlagsFromCSV(c *gin.Context) {
	start := time.Now()

	a, ok := s.analyzeUpload(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, FlagsResponse{
		Flags:        a.Flags,
		QualityScore: round(a.Score.Score, 3),
		LatencyMS:    round(elapsedMS(start), 1),
		NRows:        a.Profile.RowCount,
		NCols:        a.Profile.ColumnCount,
		RequestID:    requestIDFrom(c),
	})
}

func (s *Server) profileFromCSV(c *gin.Context) {
	start := time.Now()

	a, ok := s.analyzeUpload(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{
		Profile:   a.Profile,
		LatencyMS: round(elapsedMS(start), 1),
		RequestID: requestIDFrom(c),
	})
}

// analyzeUpload reads the multipart CSV and runs the profiling pipeline.
// It writes the error response itself and reports whether to continue.
func (s *Server) analyzeUpload(c *gin.Context) (*app.Analysis, bool) {
	if c.Request.ContentLength > s.cfg.MaxUploadBytes {
		s.tooLarge(c)
		return nil, false
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)

	header, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.tooLarge(c)
			return nil, false
		}
		s.fail(c, errors.InvalidInputf(err, "multipart field %q is required", uploadField))
		return nil, false
	}

	file, err := header.Open()
	if err != nil {
		s.fail(c, errors.InvalidInputf(err, "Cannot read CSV"))
		return nil, false
	}
	defer file.Close()

	t, err := source.ReadCSV(file, s.sourceOpts)
	if err != nil {
		detail := "Cannot read CSV"
		if stderrors.Is(err, core.ErrEmptyTable) || stderrors.Is(err, core.ErrNoColumns) {
			detail = "Empty CSV"
		}
		c.AbortWithStatusJSON(statusFor(err), ErrorResponse{
			Detail: detail,
			Code:   errors.GetCode(err),
			Reason: err.Error(),
		})
		return nil, false
	}

	if err := c.Request.Context().Err(); err != nil {
		s.fail(c, errors.WithCode(errors.CodeUnavailable, err))
		return nil, false
	}

	return s.svc.Analyze(t), true
}

func elapsedMS(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}

func (s *Server) tooLarge(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResponse{
		Detail: fmt.Sprintf("upload exceeds %d bytes", s.cfg.MaxUploadBytes),
		Code:   errors.CodeInvalidInput,
	})
}
