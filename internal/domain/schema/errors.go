package schema

import "errors"

// ErrInvalidSchema is returned when a table fails validation.
var ErrInvalidSchema = errors.New("invalid schema")
