package bgg

import "errors"

// Sentinel kinds for BGG adapter errors.
var (
	// ErrTransport covers network failures and unexpected HTTP statuses.
	ErrTransport = errors.New("bgg transport failed")
	// ErrParse marks a response body that is not a usable XML document.
	ErrParse = errors.New("bgg document malformed")
	// ErrRemote marks a well-formed <errors> reply from BGG.
	ErrRemote = errors.New("bgg reported an error")
	// ErrCircuitOpen is returned while the collection breaker is open.
	ErrCircuitOpen = errors.New("bgg circuit open")
)
