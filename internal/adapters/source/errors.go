package source

import "errors"

// Sentinel errors for data sources.
var (
	ErrFetch         = errors.New("fetch failed")
	ErrSheetNotFound = errors.New("sheet not found")
	ErrUnsupported   = errors.New("unsupported source")
	ErrTooLarge      = errors.New("source exceeds size limit")
)
