package types

import (
	"errors"
	"time"
)

// ErrInvalidState marks a dashboard state blob that failed validation.
// Invalid state is rejected without touching any previously stored state.
var ErrInvalidState = errors.New("invalid dashboard state")

// ErrStorageUnavailable marks session store failures at the driver level.
var ErrStorageUnavailable = errors.New("session storage unavailable")

// DashboardState is the per-browser UI state persisted between visits:
// selected regions, metric, time window and refresh behavior.
type DashboardState struct {
	Regions        []string  `json:"regions"         validate:"omitempty,dive,required"`
	Metric         string    `json:"metric"          validate:"omitempty,weathermetric"`
	Hours          int       `json:"hours"           validate:"omitempty,min=1,max=168"`
	RefreshSeconds int       `json:"refresh_seconds" validate:"omitempty,min=5,max=3600"`
	AutoRefresh    bool      `json:"auto_refresh"`
	UpdatedAt      time.Time `json:"updated_at,omitzero"`
}

// Session is a stored state blob together with its lifecycle timestamps.
type Session struct {
	ID        string
	State     []byte
	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
}
