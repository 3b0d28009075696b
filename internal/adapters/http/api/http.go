// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/climatedash/internal/adapters/repository"
	"github.com/okian/climatedash/internal/domain/model"
	"github.com/okian/climatedash/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Render returns the dashboard page for the current company.
	Render(ctx context.Context) (string, error)

	// Selection changes the current company.
	Select(ctx context.Context, index int) *model.Company
	SelectByName(ctx context.Context, name string) (*model.Company, error)
	Current(ctx context.Context) (*model.Company, int)

	// Read operations expose the loaded data set.
	Companies(ctx context.Context) []repository.Summary
	Chart(ctx context.Context, id string) (string, error)
	Export(ctx context.Context, format string) (model.Export, error)

	// LoadID identifies the loaded data set for caching.
	LoadID() string
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	dashboardHandler *DashboardHandler
	companiesHandler *CompaniesHandler
	exportHandler    *ExportHandler
	chartsHandler    *ChartsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, log logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		dashboardHandler: NewDashboardHandler(deps, log),
		companiesHandler: NewCompaniesHandler(deps),
		exportHandler:    NewExportHandler(deps),
		chartsHandler:    NewChartsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/dashboard", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("/companies", MetricsMiddleware(s.companiesHandler.HandleList, "companies"))
	mux.HandleFunc("/companies/select", MetricsMiddleware(s.companiesHandler.HandleSelect, "companies_select"))
	mux.HandleFunc("/export", MetricsMiddleware(s.exportHandler.HandleExport, "export"))
	mux.HandleFunc("/charts/", MetricsMiddleware(s.chartsHandler.HandleChart, "charts"))
}
