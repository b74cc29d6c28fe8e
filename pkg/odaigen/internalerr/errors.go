package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrDuplicate     = errors.New("duplicate entry")
	ErrNoCapability  = errors.New("source exposes no capability")
	ErrFetch         = errors.New("fetch failed")
	ErrGateFailed    = errors.New("quality gate failed")
	ErrInvalidConfig = errors.New("invalid configuration")
)
