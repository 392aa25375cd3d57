package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/IshaanNene/keyscope/internal/aggregator"
	"github.com/IshaanNene/keyscope/internal/analysis"
	"github.com/IshaanNene/keyscope/internal/config"
	"github.com/IshaanNene/keyscope/internal/dashboard"
	"github.com/IshaanNene/keyscope/internal/observability"
	"github.com/IshaanNene/keyscope/internal/storage"
	"github.com/IshaanNene/keyscope/internal/types"
)

const (
	maxBodyBytes    = 1 << 20
	defaultTopWords = 50
	shutdownTimeout = 10 * time.Second
)

var contentTypes = map[string]string{
	".xlsx":  "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".json":  "application/json",
	".jsonl": "application/x-ndjson",
	".csv":   "text/csv; charset=utf-8",
}

// Server provides the dashboard and the REST API over the aggregator.
type Server struct {
	cfg    *config.Config
	agg    *aggregator.Aggregator
	mux    *http.ServeMux
	logger *slog.Logger
}

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	aggregator.Request
	Export bool   `json:"export"`
	Format string `json:"format,omitempty"`
}

// SearchResponse wraps a search result with the export file name, if any.
type SearchResponse struct {
	*aggregator.Result
	Export string `json:"export,omitempty"`
}

// NewServer creates a new API server.
func NewServer(cfg *config.Config, agg *aggregator.Aggregator, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		agg:    agg,
		mux:    http.NewServeMux(),
		logger: logger.With("component", "api_server"),
	}

	s.registerRoutes()
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.mux }

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.Port))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) registerRoutes() {
	// Dashboard
	s.mux.Handle("GET /{$}", dashboard.New(s.logger))

	// Health
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)

	// Search
	s.mux.HandleFunc("GET /api/sources", s.handleSources)
	s.mux.HandleFunc("POST /api/search", s.handleSearch)

	// Exports
	s.mux.HandleFunc("GET /api/exports", s.handleListExports)
	s.mux.HandleFunc("GET /api/exports/{name}", s.handleDownload)
	s.mux.HandleFunc("GET /api/exports/{name}/analysis", s.handleAnalysis)

	s.mux.HandleFunc("GET /api/settings", s.handleSettings)

	if s.cfg.Metrics.Enabled {
		s.mux.Handle("GET "+s.cfg.Metrics.Path, observability.Handler())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": config.Version,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]any{
		"timestamp": time.Now().Format(time.RFC3339),
	}
	for k, v := range observability.Global.Snapshot() {
		stats[k] = v
	}
	s.jsonResponse(w, http.StatusOK, stats)
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"sources":  s.agg.Registry().Describe(),
		"defaults": s.cfg.Search.DefaultSources,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var body SearchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.Format != "" && !config.IsExportFormat(body.Format) {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("unsupported export format %q", body.Format))
		return
	}

	res, err := s.agg.Search(r.Context(), body.Request)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrEmptyKeyword), errors.Is(err, types.ErrUnknownSource):
			s.errorResponse(w, http.StatusBadRequest, err.Error())
		case r.Context().Err() != nil:
			s.logger.Debug("search cancelled by client", "keyword", body.Keyword)
		default:
			s.logger.Error("search failed", "keyword", body.Keyword, "error", err)
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	resp := SearchResponse{Result: res}
	if body.Export && len(res.Records) > 0 {
		path, err := s.export(r.Context(), res, body.Format)
		if err != nil {
			s.logger.Error("export failed", "keyword", res.Keyword, "error", err)
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.Export = filepath.Base(path)
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) export(ctx context.Context, res *aggregator.Result, format string) (string, error) {
	cfg := *s.cfg
	if format != "" {
		cfg.Export.Format = format
	}
	st, path, err := storage.NewFromConfig(&cfg, res.Keyword, s.logger)
	if err != nil {
		return "", err
	}
	if err := storage.Export(ctx, st, res.Records); err != nil {
		return "", err
	}
	s.logger.Info("results exported", "run_id", res.RunID, "path", path, "records", len(res.Records))
	return path, nil
}

func (s *Server) handleListExports(w http.ResponseWriter, r *http.Request) {
	files, err := analysis.ListExports(s.cfg.Export.Dir)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, files)
}

// exportPath resolves name inside the export directory. Names that are not
// a plain file name with a known export extension are rejected.
func (s *Server) exportPath(name string) (string, bool) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") ||
		strings.ContainsAny(name, `/\`) {
		return "", false
	}
	if _, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; !ok {
		return "", false
	}
	return filepath.Join(s.cfg.Export.Dir, name), true
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	path, ok := s.exportPath(name)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "invalid export name")
		return
	}
	if _, err := analysis.Stat(path); err != nil {
		s.errorResponse(w, http.StatusNotFound, "export not found")
		return
	}

	w.Header().Set("Content-Type", contentTypes[strings.ToLower(filepath.Ext(name))])
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(name)))
	http.ServeFile(w, r, path)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	path, ok := s.exportPath(name)
	if !ok || !strings.EqualFold(filepath.Ext(name), ".xlsx") {
		s.errorResponse(w, http.StatusBadRequest, "invalid export name")
		return
	}

	top := defaultTopWords
	if v := r.URL.Query().Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.errorResponse(w, http.StatusBadRequest, "top must be a positive integer")
			return
		}
		top = n
	}

	report, err := analysis.Analyze(path, top)
	if err != nil {
		if _, statErr := analysis.Stat(path); statErr != nil {
			s.errorResponse(w, http.StatusNotFound, "export not found")
			return
		}
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"display":  s.cfg.Display,
		"search":   s.cfg.Search,
		"advanced": s.cfg.Advanced,
		"export":   s.cfg.Export,
	})
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, msg string) {
	s.jsonResponse(w, status, map[string]string{"error": msg})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
