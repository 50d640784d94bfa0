package repository

import "errors"

// Sentinel kinds for cache store errors.
var (
	ErrLoad = errors.New("cache load failed")
	ErrSave = errors.New("cache save failed")
)
