package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrClosed           = errors.New("store closed")
	ErrUpdateContention = errors.New("update retries exhausted")
)
