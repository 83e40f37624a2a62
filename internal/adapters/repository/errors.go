package repository

import "errors"

// Sentinel kinds for snapshot errors.
var (
	ErrNoSnapshot   = errors.New("no dataset snapshot loaded")
	ErrNotFound     = errors.New("player not found")
	ErrEmptyDataset = errors.New("empty dataset")
	ErrCacheMiss    = errors.New("snapshot cache empty")
)
