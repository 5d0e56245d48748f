package types

import (
	"context"
	"errors"
	"time"
)

// GeoPosition is a single GPS fix as reported by the device location API.
// It is never persisted; every check requests a fresh fix.
type GeoPosition struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyMeters float64 `json:"accuracyMeters"`
}

// CampusConfig is the static geofence configuration. Read-only at runtime.
type CampusConfig struct {
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	RadiusMeters        float64 `json:"radiusMeters" validate:"gt=0"`
	MaxAccuracyMeters   float64 `json:"maxAccuracyMeters" validate:"gt=0"`
	RequireHighAccuracy bool    `json:"requireHighAccuracy"`
	Enabled             bool    `json:"enabled"`
}

type VerdictStatus string

const (
	StatusChecking VerdictStatus = "checking"
	StatusInside   VerdictStatus = "inside"
	StatusOutside  VerdictStatus = "outside"
	StatusError    VerdictStatus = "error"
	StatusDenied   VerdictStatus = "denied"
	StatusDisabled VerdictStatus = "disabled"
)

// LocationVerdict is the outcome of one geofence check. Recomputed on every
// invocation; never persisted.
type LocationVerdict struct {
	Status           VerdictStatus `json:"status"`
	DistanceMeters   *float64      `json:"distanceMeters,omitempty"`
	AccuracyFallback bool          `json:"accuracyFallback,omitempty"`
	ErrorMessage     string        `json:"errorMessage,omitempty"`
}

// PositionRequest carries the options for a single position fix.
type PositionRequest struct {
	HighAccuracy bool
	Timeout      time.Duration
	// MaximumAge is the oldest cached fix the provider may serve. The gate
	// always requests 0 (fresh fix only).
	MaximumAge time.Duration
}

// LocationProvider abstracts the device location API. CurrentPosition has
// exactly one resolution per call: a fix or an error, never both.
type LocationProvider interface {
	CurrentPosition(ctx context.Context, req PositionRequest) (*GeoPosition, error)
}

var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrPositionTimeout     = errors.New("position request timed out")
)
