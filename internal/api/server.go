package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"edaqa/adapters/source"
	"edaqa/app"
	"edaqa/internal/config"
)

// Version is reported by the health endpoint
const Version = "0.1"

const serviceName = "edaqa"

// Server exposes the quality endpoints over HTTP. Each request builds and
// discards its own profile; the only shared state is the upload limiter.
type Server struct {
	svc        *app.ProfilingService
	sourceOpts source.Options
	cfg        config.Server
	limit      *semaphore.Weighted
	logger     *zap.Logger
}

// NewServer wires the API to a profiling service
func NewServer(svc *app.ProfilingService, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := svc.Config()
	maxConcurrent := int64(cfg.Server.MaxConcurrent)
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Server{
		svc:        svc,
		sourceOpts: source.OptionsFrom(cfg.Source, logger),
		cfg:        cfg.Server,
		limit:      semaphore.NewWeighted(maxConcurrent),
		logger:     logger,
	}
}

// Router builds the gin engine with all routes registered
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = s.cfg.MaxUploadBytes
	router.Use(gin.Recovery(), requestID(), requestLogger(s.logger))

	router.GET("/health", s.health)
	router.POST("/quality", s.quality)
	router.POST("/quality-from-csv", s.limited(s.qualityFromCSV))
	router.POST("/quality-flags-from-csv", s.limited(s.qualityFlagsFromCSV))
	router.POST("/profile-from-csv", s.limited(s.profileFromCSV))

	return router
}

// HTTPServer wraps the router with the configured address and timeouts
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.APIAddr,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
}
