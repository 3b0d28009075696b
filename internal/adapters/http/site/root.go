// Package site serves the dashboard's static assets and the root redirect.
package site

import (
	"context"
	"errors"
	"net/http"
)

// Error constants
var (
	ErrServe = errors.New("site serve failed")
)

// AssetsPrefix is the URL prefix of the embedded stylesheet and script.
const AssetsPrefix = "/assets/"

// DashboardPath is where the root path redirects.
const DashboardPath = "/dashboard"

// Register attaches the asset and root routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	files := http.StripPrefix(AssetsPrefix, http.FileServer(FS()))
	mux.Handle(AssetsPrefix, files)
	mux.HandleFunc("/", NewRootHandler().HandleRoot)
}

// RootHandler handles root path requests
type RootHandler struct{}

// NewRootHandler creates a new root handler
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot redirects GET / to the dashboard. Any other unmatched path is
// not found.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, DashboardPath, http.StatusFound)
}
