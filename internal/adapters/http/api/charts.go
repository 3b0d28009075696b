package api

import (
	"fmt"
	"net/http"
	"strings"
)

const chartsPrefix = "/charts/"

// ChartsHandler serves single charts for the current company.
type ChartsHandler struct {
	deps Dependencies
}

// NewChartsHandler creates a new charts handler.
func NewChartsHandler(deps Dependencies) *ChartsHandler {
	return &ChartsHandler{deps: deps}
}

// HandleChart handles GET /charts/{id} requests. SVG charts are served as
// images, widget charts as HTML fragments.
func (h *ChartsHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, chartsPrefix), "/")
	if id == "" || strings.Contains(id, "/") {
		writeFailure(w, fmt.Errorf("chart: %w: invalid chart id %q", ErrNotFound, id))
		return
	}
	body, err := h.deps.Chart(r.Context(), id)
	if err != nil {
		writeFailure(w, wrap("chart "+id, err))
		return
	}
	if strings.HasPrefix(body, "<svg") {
		w.Header().Set("Content-Type", "image/svg+xml")
	} else {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
