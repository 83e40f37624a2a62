package model

import (
	"errors"
)

// Sentinel kinds for engine failures. Call sites wrap these with context
// via fmt.Errorf("...%w..."), and callers match with errors.Is.
var (
	// ErrInvalidParameter marks a request parameter outside the accepted
	// domain: unknown sort key or position, negative budget or limit,
	// inverted range bounds.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInsufficientData marks a derivation whose reference population is
	// empty after exclusions.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrEmptyCandidatePool marks a recommendation request where no
	// candidate survived eligibility filtering.
	ErrEmptyCandidatePool = errors.New("empty candidate pool")
)
