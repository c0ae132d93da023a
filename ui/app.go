package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"edaqa/adapters/sink"
	"edaqa/adapters/source"
	"edaqa/app"
	"edaqa/domain/table"
	"edaqa/internal/errors"
)

//go:embed templates/*.html
var embeddedFiles embed.FS

const uploadField = "file"

// App is the HTML report viewer: upload a dataset, get its report page
type App struct {
	router     *chi.Mux
	svc        *app.ProfilingService
	sourceOpts source.Options
	maxUpload  int64
	templates  *template.Template
	logger     *zap.Logger
}

// NewApp creates the viewer around a profiling service
func NewApp(svc *app.ProfilingService, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	templates, err := template.New("").ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	cfg := svc.Config()
	a := &App{
		router:     chi.NewRouter(),
		svc:        svc,
		sourceOpts: source.OptionsFrom(cfg.Source, logger),
		maxUpload:  cfg.Server.MaxUploadBytes,
		templates:  templates,
		logger:     logger,
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a, nil
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Post("/report", a.handleReport)
	a.router.Get("/health", a.handleHealth)
}

// Handler exposes the router
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	a.renderTemplate(w, http.StatusOK, "index.html", indexData{Title: a.svc.Config().Report.Title})
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"status":"ok"}`)
}

// handleReport profiles the uploaded file and renders the report page
func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUpload)

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		a.renderError(w, http.StatusBadRequest, "choose a file to upload")
		return
	}
	defer file.Close()

	t, err := a.readUpload(file, header.Filename)
	if err != nil {
		a.renderError(w, http.StatusBadRequest, err.Error())
		return
	}

	analysis := a.svc.Analyze(t)
	rep := a.svc.BuildReport(analysis)
	if title := strings.TrimSpace(r.FormValue("title")); title != "" {
		rep.Title = title
	}

	page, err := sink.RenderHTML(rep)
	if err != nil {
		a.logger.Error("render report", zap.Error(err))
		a.renderError(w, http.StatusInternalServerError, "could not render report")
		return
	}

	a.logger.Info("report rendered",
		zap.String("report_id", string(rep.ID)),
		zap.String("file", header.Filename),
		zap.Float64("score", rep.Quality.Score))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (a *App) readUpload(file io.Reader, name string) (*table.Table, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".xlsx", ".xlsm":
		return source.ReadXLSX(file, a.sourceOpts)
	case ".json":
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, errors.InvalidInputf(err, "cannot read upload")
		}
		return source.ReadJSON(data, a.sourceOpts)
	default:
		return source.ReadCSV(file, a.sourceOpts)
	}
}

type indexData struct {
	Title string
	Error string
}

func (a *App) renderError(w http.ResponseWriter, status int, message string) {
	a.renderTemplate(w, status, "index.html", indexData{Title: a.svc.Config().Report.Title, Error: message})
}

func (a *App) renderTemplate(w http.ResponseWriter, status int, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		a.logger.Error("template error", zap.String("template", templateName), zap.Error(err))
	}
}
