package provider

import "errors"

// Sentinel kinds for dataset source errors.
var (
	ErrNoRecords = errors.New("dataset contains no usable records")
	ErrBadHeader = errors.New("unexpected dataset header")
	ErrUpstream  = errors.New("upstream request failed")
)
