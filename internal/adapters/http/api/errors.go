package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/climatedash/internal/adapters/render"
	"github.com/okian/climatedash/internal/adapters/repository"
	"github.com/okian/climatedash/internal/domain/chart"
	"github.com/okian/climatedash/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
	ErrInternal   = errors.New("internal error")
)

// wrap annotates err with the failing operation.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// kindOf maps an upstream error onto an API kind.
func kindOf(err error) error {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, model.ErrUnsupportedFormat):
		return ErrBadRequest
	case errors.Is(err, ErrNotFound),
		errors.Is(err, repository.ErrNotFound),
		errors.Is(err, repository.ErrIndexOutOfRange),
		errors.Is(err, render.ErrUnknownChart),
		errors.Is(err, render.ErrNoCompany),
		errors.Is(err, render.ErrNoData),
		errors.Is(err, chart.ErrInvalidPathway):
		return ErrNotFound
	default:
		return ErrInternal
	}
}

// statusOf returns the HTTP status and error code for err.
func statusOf(err error) (int, string) {
	switch kindOf(err) {
	case ErrBadRequest:
		return http.StatusBadRequest, "bad_request"
	case ErrNotFound:
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
