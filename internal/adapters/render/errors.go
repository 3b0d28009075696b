package render

import "errors"

// Sentinel errors for rendering.
var (
	ErrUnknownChart = errors.New("unknown chart")
	ErrNoData       = errors.New("not enough data")
	ErrNoCompany    = errors.New("no company to render")
)
