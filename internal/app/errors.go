package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrNoUsername means a refresh had neither an override nor a configured user.
	ErrNoUsername = errors.New("no username configured")
	// ErrIngestion marks a refresh that aborted before replacing the cache.
	ErrIngestion = errors.New("ingestion failed")
	// ErrQuery marks a read that could not obtain the cached records.
	ErrQuery = errors.New("query failed")
)
