package fancurve

import "codeberg.org/mutker/atkctl/internal/errors"

const (
	// Parse Errors
	ErrCurveSyntax    = errors.ErrorCode("fancurve_syntax")
	ErrTooManyEntries = errors.ErrorCode("fancurve_too_many_entries")
	ErrInvalidDevice  = errors.ErrorCode("fancurve_invalid_device")

	// Policy Errors
	ErrCurveRejected = errors.ErrorCode("fancurve_rejected")
)
