// Package service holds the dashboard application state: the loaded data
// set, the current selection and the operations the HTTP API and CLI call.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/climatedash/internal/adapters/render"
	"github.com/okian/climatedash/internal/adapters/repository"
	"github.com/okian/climatedash/internal/adapters/source"
	"github.com/okian/climatedash/internal/domain/formatter"
	"github.com/okian/climatedash/internal/domain/model"
	"github.com/okian/climatedash/internal/domain/schema"
	"github.com/okian/climatedash/pkg/logger"
	"github.com/okian/climatedash/pkg/metrics"
)

const noSelection = -1

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	source   source.Source
	store    repository.Store
	renderer *render.Renderer

	// Company construction
	table      *schema.Table
	formatter  *formatter.Formatter
	nameColumn string

	// Configuration
	defaultIndex int

	// State
	started  bool
	current  int
	loadID   string
	loadedAt time.Time
	lastErr  error

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets where companies are loaded from.
func WithSource(src source.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithStore sets the company store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRenderer sets the dashboard renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithSchema maps rows through a custom column table.
func WithSchema(t *schema.Table) Option {
	return func(s *Service) {
		if t != nil {
			s.table = t
		}
	}
}

// WithFormatter sets the value formatter used to build companies.
func WithFormatter(f *formatter.Formatter) Option {
	return func(s *Service) {
		if f != nil {
			s.formatter = f
		}
	}
}

// WithNameColumn sets the column holding the company name.
func WithNameColumn(column string) Option {
	return func(s *Service) {
		if column != "" {
			s.nameColumn = column
		}
	}
}

// WithDefaultCompany sets the index selected after a load.
func WithDefaultCompany(index int) Option {
	return func(s *Service) {
		if index >= 0 {
			s.defaultIndex = index
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		current:    noSelection,
		nameColumn: model.DefaultNameColumn,
		logger:     nil, // replaced on Start
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	return s
}

// log returns the configured logger, discarding output before Start.
func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Discard()
	}
	return s.logger
}

// Start fills in missing components and performs the initial load. A failed
// load leaves the service running with an empty data set.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.table == nil {
		s.table = schema.Default()
	}
	if s.formatter == nil {
		s.formatter = formatter.New()
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.renderer == nil {
		r, err := render.New(render.WithLogger(s.logger), render.WithFormatter(s.formatter))
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("create renderer: %w", err)
		}
		s.renderer = r
	}
	s.started = true
	s.mu.Unlock()

	s.logger.Info(ctx, "starting dashboard service...")
	list := s.Load(ctx)
	s.logger.Info(ctx, "dashboard service started", logger.Int("companies", len(list)))
	return nil
}

// Stop marks the service stopped. The loaded data set is kept.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.log().Info(context.Background(), "dashboard service stopped")
}

// Load fetches the source once and replaces the data set. A failure is
// logged and yields an empty list; nothing is retried.
func (s *Service) Load(ctx context.Context) []repository.Summary {
	start := time.Now()
	companies, err := s.fetch(ctx)
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadID = uuid.NewString()
	s.loadedAt = time.Now()
	s.lastErr = err
	s.current = noSelection

	if err != nil {
		metrics.RecordLoad("error", elapsed)
		metrics.RecordErrorByComponent("source", "load")
		s.log().Error(ctx, "failed to load companies", logger.Error(err), logger.String("load_id", s.loadID))
		s.store.Replace(ctx, nil)
		return []repository.Summary{}
	}

	s.store.Replace(ctx, companies)
	metrics.RecordLoad("ok", elapsed)

	if n := s.store.Count(ctx); n > 0 {
		s.current = 0
		if s.defaultIndex < n {
			s.current = s.defaultIndex
		}
	}
	s.log().Info(ctx, "companies loaded",
		logger.Int("count", s.store.Count(ctx)),
		logger.String("load_id", s.loadID),
		logger.Float64("elapsed_ms", elapsed),
	)
	return s.store.List(ctx)
}

func (s *Service) fetch(ctx context.Context) ([]*model.Company, error) {
	s.mu.RLock()
	src, table, f, column := s.source, s.table, s.formatter, s.nameColumn
	s.mu.RUnlock()

	if src == nil {
		return nil, ErrNoSource
	}
	recs, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Location(), err)
	}
	out := make([]*model.Company, 0, len(recs))
	for _, r := range recs {
		out = append(out, model.New(r, model.WithSchema(table), model.WithFormatter(f), model.WithNameColumn(column)))
	}
	return out, nil
}

// Companies lists the loaded companies.
func (s *Service) Companies(ctx context.Context) []repository.Summary {
	return s.store.List(ctx)
}

// Names returns the company names in load order.
func (s *Service) Names(ctx context.Context) []string {
	list := s.store.List(ctx)
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Name
	}
	return out
}

// Select makes the company at index current. An out of range index is
// logged and returns nil, leaving the selection unchanged.
func (s *Service) Select(ctx context.Context, index int) *model.Company {
	c, err := s.store.At(ctx, index)
	if err != nil {
		s.log().Warn(ctx, "company selection ignored", logger.Int("index", index), logger.Error(err))
		return nil
	}
	s.mu.Lock()
	s.current = index
	s.mu.Unlock()
	metrics.RecordSelection()
	return c
}

// SelectByName makes the first company called name current.
func (s *Service) SelectByName(ctx context.Context, name string) (*model.Company, error) {
	i, c, err := s.store.ByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("select %q: %w", name, err)
	}
	s.mu.Lock()
	s.current = i
	s.mu.Unlock()
	metrics.RecordSelection()
	return c, nil
}

// Current returns the selected company and its index, or nil and -1.
func (s *Service) Current(ctx context.Context) (*model.Company, int) {
	s.mu.RLock()
	i := s.current
	s.mu.RUnlock()
	if i == noSelection {
		return nil, noSelection
	}
	c, err := s.store.At(ctx, i)
	if err != nil {
		return nil, noSelection
	}
	return c, i
}

// Render returns the dashboard page for the current company, or the empty
// template when nothing is selected.
func (s *Service) Render(ctx context.Context) (string, error) {
	if s.renderer == nil {
		return "", ErrNotStarted
	}
	c, _ := s.Current(ctx)
	return s.renderer.Render(ctx, c)
}

// Template returns the unbound page, or nil before Start.
func (s *Service) Template() []byte {
	if s.renderer == nil {
		return nil
	}
	return s.renderer.Template()
}

// Chart returns the markup of one chart for the current company.
func (s *Service) Chart(ctx context.Context, id string) (string, error) {
	c, _ := s.Current(ctx)
	if c == nil {
		return "", ErrNoCompany
	}
	if s.renderer == nil {
		return "", ErrNotStarted
	}
	return s.renderer.RenderChart(ctx, c, id)
}

// Export serializes the current company's raw record.
func (s *Service) Export(ctx context.Context, format string) (model.Export, error) {
	c, _ := s.Current(ctx)
	if c == nil {
		return model.Export{}, ErrNoCompany
	}
	out, err := c.Export(format)
	if err != nil {
		return model.Export{}, err
	}
	metrics.RecordExport(out.Format)
	return out, nil
}

// LoadID identifies the current data set. It changes on every load.
func (s *Service) LoadID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadID
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started": s.started,
		"current": s.current,
		"loadId":  s.loadID,
	}
	if s.source != nil {
		stats["source"] = s.source.Location()
	}
	if !s.loadedAt.IsZero() {
		stats["loadedAt"] = s.loadedAt.UTC().Format(time.RFC3339)
	}
	if s.lastErr != nil {
		stats["lastError"] = s.lastErr.Error()
	}
	if s.store != nil {
		n := s.store.Count(ctx)
		stats["companies"] = n
		metrics.UpdateCompaniesLoaded(n)
		if s.current != noSelection {
			if c, err := s.store.At(ctx, s.current); err == nil {
				stats["currentName"] = c.Name()
			}
		}
	}
	return stats
}

// IsNotFound reports whether err means an unknown company.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrIndexOutOfRange)
}
