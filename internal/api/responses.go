package api

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"edaqa/domain/core"
	"edaqa/domain/profile"
	"edaqa/domain/quality"
	"edaqa/internal/errors"
)

// QualityResponse is returned by /quality and /quality-from-csv
type QualityResponse struct {
	OKForModel   bool                 `json:"ok_for_model"`
	QualityScore float64              `json:"quality_score"`
	Message      string               `json:"message"`
	LatencyMS    float64              `json:"latency_ms"`
	Flags        quality.QualityFlags `json:"flags"`
	Triggered    []string             `json:"triggered"`
	DatasetShape [2]int               `json:"dataset_shape"`
	Scope        quality.Scope        `json:"scope"`
	RequestID    core.RequestID       `json:"request_id"`
}

// FlagsResponse is returned by /quality-flags-from-csv
type FlagsResponse struct {
	Flags        quality.QualityFlags `json:"flags"`
	QualityScore float64              `json:"quality_score"`
	LatencyMS    float64              `json:"latency_ms"`
	NRows        int                  `json:"n_rows"`
	NCols        int                  `json:"n_cols"`
	RequestID    core.RequestID       `json:"request_id"`
}

// ProfileResponse is returned by /profile-from-csv
type ProfileResponse struct {
	Profile   *profile.DatasetProfile `json:"profile"`
	LatencyMS float64                 `json:"latency_ms"`
	RequestID core.RequestID          `json:"request_id"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
	Reason string `json:"reason,omitempty"`
}

func newQualityResponse(score quality.QualityScore, rows, cols int, latencyMS float64, id core.RequestID) QualityResponse {
	return QualityResponse{
		OKForModel:   score.OKForModel,
		QualityScore: round(score.Score, 3),
		Message:      score.Message,
		LatencyMS:    round(latencyMS, 1),
		Flags:        score.Flags,
		Triggered:    score.Triggered,
		DatasetShape: [2]int{rows, cols},
		Scope:        score.Flags.Scope,
		RequestID:    id,
	}
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes an error body; internal errors are logged and their detail
// is not echoed
func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	body := ErrorResponse{Detail: err.Error(), Code: errors.GetCode(err)}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", string(requestIDFrom(c))),
			zap.Error(err))
		body.Detail = "internal error"
	}
	c.AbortWithStatusJSON(status, body)
}

func round(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(v*scale) / scale
}
