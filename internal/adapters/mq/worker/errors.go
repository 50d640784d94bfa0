package worker

import "errors"

// ErrNotProcessed marks a batch slot no worker reached before stopping.
var ErrNotProcessed = errors.New("batch not processed")
