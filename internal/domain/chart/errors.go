package chart

import "errors"

// Sentinel errors for chart computations.
var (
	ErrInvalidPathway = errors.New("invalid reduction pathway input")
	ErrUnknownPolicy  = errors.New("unknown axis policy")
)
