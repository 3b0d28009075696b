package service

import (
	"errors"

	"github.com/okian/climatedash/internal/adapters/render"
	"github.com/okian/climatedash/internal/domain/model"
)

// Sentinel errors returned by the service.
var (
	ErrNoSource          = errors.New("no data source configured")
	ErrNotStarted        = errors.New("service not started")
	ErrNoCompany         = render.ErrNoCompany
	ErrUnsupportedFormat = model.ErrUnsupportedFormat
)
