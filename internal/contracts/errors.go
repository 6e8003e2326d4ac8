package contracts

import "errors"

var (
	// ErrInsufficientData is returned by quartile computation when fewer than
	// 3 observations are available. Callers treat it as "no signal" for the
	// item in question, never as a run-level failure.
	ErrInsufficientData = errors.New("quartiles need at least 3 observations")

	// ErrInvalidBound is returned when a region bound is neither an absolute
	// timestamp nor a relative day offset. This is a configuration bug and
	// fails fast at call time.
	ErrInvalidBound = errors.New("region bound must be an absolute timestamp or a relative day offset")
)
