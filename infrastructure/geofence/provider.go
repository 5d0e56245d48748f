package geofence

import (
	"context"

	"campusgate.io/infrastructure/geofence/types"
)

// ClientReportedProvider adapts a single GPS fix reported by the caller's
// device into the provider interface the gate consumes. Each request builds
// a fresh provider so one caller's fix can never leak into another check.
type ClientReportedProvider struct {
	Position  *types.GeoPosition
	ErrorCode string
}

func (p *ClientReportedProvider) CurrentPosition(ctx context.Context, req types.PositionRequest) (*types.GeoPosition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch p.ErrorCode {
	case "permission_denied":
		return nil, types.ErrPermissionDenied
	case "position_unavailable":
		return nil, types.ErrPositionUnavailable
	case "timeout":
		return nil, types.ErrPositionTimeout
	}
	if p.Position == nil {
		return nil, types.ErrPositionUnavailable
	}
	return p.Position, nil
}
