package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"edaqa/domain/core"
	"edaqa/internal/errors"
)

const requestIDKey = "request_id"

// requestID tags every request with a time-ordered ID, echoed in the
// X-Request-ID header and in response bodies
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := core.NewRequestID()
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", string(id))
		c.Next()
	}
}

func requestIDFrom(c *gin.Context) core.RequestID {
	if v, ok := c.Get(requestIDKey); ok {
		if id, ok := v.(core.RequestID); ok {
			return id
		}
	}
	return ""
}

// requestLogger logs each request at debug level
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", string(requestIDFrom(c))),
		)
	}
}

// limited caps concurrent file-profiling requests; excess requests are
// turned away instead of queued
func (s *Server) limited(next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limit.TryAcquire(1) {
			s.fail(c, errors.Unavailable("server busy, retry later"))
			return
		}
		defer s.limit.Release(1)
		next(c)
	}
}
