package dto

// GeoFixDTO is one GPS sample as reported by the caller's device.
type GeoFixDTO struct {
	Latitude       float64 `json:"latitude" validate:"latitude_range"`
	Longitude      float64 `json:"longitude" validate:"longitude_range"`
	AccuracyMeters float64 `json:"accuracyMeters" validate:"gte=0"`
}

// LocationCheckDTO carries either a fix or the error code the device's
// location service raised while trying to get one.
type LocationCheckDTO struct {
	Fix       *GeoFixDTO `json:"fix" validate:"omitempty"`
	ErrorCode string     `json:"errorCode" validate:"omitempty,oneof=permission_denied position_unavailable timeout"`
}

type CreateSessionDTO struct {
	CourseCode string `json:"courseCode" validate:"required,max=20"`
}

type RefreshSessionQRDTO struct {
	SessionID string `json:"sessionID" validate:"required"`
}

type CloseSessionDTO struct {
	SessionID string `json:"sessionID" validate:"required"`
}

type MarkAttendanceDTO struct {
	SessionID string           `json:"sessionID" validate:"required"`
	QRNonce   string           `json:"qrNonce" validate:"required"`
	Location  LocationCheckDTO `json:"location"`
	Image     string           `json:"image" validate:"required,encoded_image"`
}
