package api

import "errors"

// ErrBadRequest marks a query parameter that could not be parsed.
var ErrBadRequest = errors.New("bad request")
