// Package dashboard serves the single-page search and analysis UI. The page
// talks to the JSON API for settings, sources, searches and exports.
package dashboard

import (
	"log/slog"
	"net/http"
)

// Dashboard serves the embedded dashboard page.
type Dashboard struct {
	logger *slog.Logger
}

// New creates a dashboard handler.
func New(logger *slog.Logger) *Dashboard {
	return &Dashboard{logger: logger.With("component", "dashboard")}
}

func (d *Dashboard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write([]byte(dashboardHTML)); err != nil {
		d.logger.Debug("dashboard write failed", "error", err)
	}
}
