package domain

import "errors"

// Every error below aborts the run; there is no skip-and-continue policy.
var (
	// ErrSourceUnavailable means the levee source could not be opened or queried.
	ErrSourceUnavailable = errors.New("levee source unavailable")

	// ErrMalformedDateTime means a start or end date could not be parsed,
	// or the end falls before the start.
	ErrMalformedDateTime = errors.New("malformed date-time")

	// ErrInvalidLevee means a record is missing a field every artifact needs.
	ErrInvalidLevee = errors.New("invalid levee: name is required")

	// ErrEmitterWrite means an output sink rejected an artifact.
	ErrEmitterWrite = errors.New("artifact write failed")
)
