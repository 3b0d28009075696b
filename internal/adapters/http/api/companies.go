package api

import (
	"fmt"
	"net/http"
)

// CompanyEntry is one row of the company selector.
type CompanyEntry struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Current bool   `json:"current,omitempty"`
}

// SelectResponse reports the company made current.
type SelectResponse struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// CompaniesHandler handles the company list and selection.
type CompaniesHandler struct {
	deps Dependencies
}

// NewCompaniesHandler creates a new companies handler.
func NewCompaniesHandler(deps Dependencies) *CompaniesHandler {
	return &CompaniesHandler{deps: deps}
}

// HandleList handles GET /companies requests.
func (h *CompaniesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	ctx := r.Context()
	_, current := h.deps.Current(ctx)
	list := h.deps.Companies(ctx)
	out := make([]CompanyEntry, len(list))
	for i, c := range list {
		out[i] = CompanyEntry{Index: c.Index, Name: c.Name, Current: c.Index == current}
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleSelect handles POST /companies/select?index=<n> or ?name=<name>.
func (h *CompaniesHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeFailure(w, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	ctx := r.Context()
	switch {
	case r.Form.Has("index"):
		i, err := parseIndex(r.Form.Get("index"))
		if err != nil {
			writeFailure(w, wrap("select", err))
			return
		}
		if h.deps.Select(ctx, i) == nil {
			writeFailure(w, fmt.Errorf("select: %w: company %d", ErrNotFound, i))
			return
		}
	case r.Form.Has("name"):
		if _, err := h.deps.SelectByName(ctx, r.Form.Get("name")); err != nil {
			writeFailure(w, wrap("select", err))
			return
		}
	default:
		writeFailure(w, fmt.Errorf("select: %w: index or name is required", ErrBadRequest))
		return
	}
	c, i := h.deps.Current(ctx)
	resp := SelectResponse{Index: i}
	if c != nil {
		resp.Name = c.Name()
	}
	writeJSON(w, http.StatusOK, resp)
}
