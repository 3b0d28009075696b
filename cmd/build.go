package main

import (
	"fmt"

	"github.com/okian/climatedash/internal/adapters/render"
	"github.com/okian/climatedash/internal/adapters/repository"
	"github.com/okian/climatedash/internal/adapters/source"
	app "github.com/okian/climatedash/internal/app"
	"github.com/okian/climatedash/internal/config"
	"github.com/okian/climatedash/internal/domain/chart"
	"github.com/okian/climatedash/internal/domain/formatter"
	"github.com/okian/climatedash/internal/domain/schema"
	"github.com/okian/climatedash/pkg/logger"
)

// newService wires the source, schema, formatter, renderer and store from
// cfg. The service is not started.
func newService(cfg *config.Config, log logger.Logger) (*app.Service, error) {
	src, err := source.Open(cfg.DataSource,
		source.WithTimeout(cfg.FetchTimeout),
		source.WithMaxBytes(cfg.MaxSourceBytes),
		source.WithSheet(cfg.Sheet),
		source.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("open data source: %w", err)
	}

	table := schema.Default()
	if cfg.SchemaPath != "" {
		if table, err = schema.Load(cfg.SchemaPath); err != nil {
			return nil, fmt.Errorf("load schema: %w", err)
		}
	}

	policy, err := chart.ParseAxisPolicy(cfg.AxisPolicy)
	if err != nil {
		return nil, err
	}

	f := formatter.New(formatter.WithLocale(cfg.Locale), formatter.WithCurrency(cfg.Currency))
	r, err := render.New(
		render.WithLogger(log),
		render.WithFormatter(f),
		render.WithAxisPolicy(policy),
		render.WithTrendLayout(cfg.TrendChartWidth, cfg.TrendChartHeight),
		render.WithPathwayLayout(cfg.PathwayWidth, cfg.PathwayHeight),
		render.WithPathway(cfg.PathwayYears, cfg.PathwayTargets, cfg.BaselineYear),
	)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	return app.New(
		app.WithLogger(log),
		app.WithSource(src),
		app.WithSchema(table),
		app.WithFormatter(f),
		app.WithRenderer(r),
		app.WithStore(repository.NewMemoryStore(repository.WithFoldedNames(cfg.FoldCompanyNames))),
		app.WithNameColumn(cfg.CompanyColumn),
		app.WithDefaultCompany(cfg.DefaultCompany),
	), nil
}
