package types

import "errors"

// Validation errors are caller mistakes and are never retried internally.
// ErrStorageUnavailable is transient: retryable for ingestion, fatal for the
// current request on the query path.
var (
	ErrInvalidMetric      = errors.New("invalid metric")
	ErrInvalidTimeRange   = errors.New("invalid time range")
	ErrEmptySelection     = errors.New("empty region selection")
	ErrNoValidRegions     = errors.New("no valid regions")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
