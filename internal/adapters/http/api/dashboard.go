package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/climatedash/pkg/logger"
)

// DashboardHandler serves the rendered dashboard page.
type DashboardHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps Dependencies, log logger.Logger) *DashboardHandler {
	return &DashboardHandler{deps: deps, logger: log}
}

// HandleDashboard handles GET /dashboard[?company=<index>|?name=<name>].
// A query selects the company before rendering.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	ctx := r.Context()
	if err := selectFromQuery(r, h.deps); err != nil {
		writeFailure(w, wrap("dashboard", err))
		return
	}

	_, index := h.deps.Current(ctx)
	etag := fmt.Sprintf(`"%s-%d"`, h.deps.LoadID(), index)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	page, err := h.deps.Render(ctx)
	if err != nil {
		h.logger.Error(ctx, "dashboard render failed", logger.Error(err))
		writeFailure(w, wrap("dashboard", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("X-Company-Index", strconv.Itoa(index))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(page))
}

// selectFromQuery applies ?company=<index> or ?name=<name> when present.
func selectFromQuery(r *http.Request, deps Dependencies) error {
	q := r.URL.Query()
	switch {
	case q.Has("company"):
		i, err := parseIndex(q.Get("company"))
		if err != nil {
			return err
		}
		if deps.Select(r.Context(), i) == nil {
			return fmt.Errorf("%w: company %d", ErrNotFound, i)
		}
	case q.Has("name"):
		if _, err := deps.SelectByName(r.Context(), q.Get("name")); err != nil {
			return err
		}
	}
	return nil
}
