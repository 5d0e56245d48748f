package entities

import (
	"time"

	"campusgate.io/application/utils"
)

// CampusSnapshot freezes the geofence configuration that was active when an
// attendance session was opened so later config edits do not affect it.
type CampusSnapshot struct {
	Latitude            float64 `bson:"latitude" json:"latitude"`
	Longitude           float64 `bson:"longitude" json:"longitude"`
	RadiusMeters        float64 `bson:"radiusMeters" json:"radiusMeters"`
	MaxAccuracyMeters   float64 `bson:"maxAccuracyMeters" json:"maxAccuracyMeters"`
	RequireHighAccuracy bool    `bson:"requireHighAccuracy" json:"requireHighAccuracy"`
	Enabled             bool    `bson:"enabled" json:"enabled"`
}

// AttendanceSession is a window opened by a teacher during which students can
// mark attendance. The QR nonce rotates in the cache; only the current value
// is accepted.
type AttendanceSession struct {
	CourseCode string         `bson:"courseCode" json:"courseCode"`
	TeacherID  string         `bson:"teacherID" json:"teacherID"`
	Campus     CampusSnapshot `bson:"campus" json:"campus"`
	OpenedAt   time.Time      `bson:"openedAt" json:"openedAt"`
	ClosedAt   *time.Time     `bson:"closedAt" json:"closedAt"`

	ID        string     `bson:"_id" json:"id"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt" json:"deletedAt"`
}

func (model AttendanceSession) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		if model.ID == "" {
			model.ID = utils.GenerateULIDString()
		}
	}
	model.UpdatedAt = now
	return &model
}

func (model AttendanceSession) Open() bool {
	return model.ClosedAt == nil
}

// AttendanceRecord stores one successful mark along with the evidence that
// both gates passed at the time.
type AttendanceRecord struct {
	SessionID        string    `bson:"sessionID" json:"sessionID"`
	StudentID        string    `bson:"studentID" json:"studentID"`
	CourseCode       string    `bson:"courseCode" json:"courseCode"`
	DistanceMeters   *float64  `bson:"distanceMeters" json:"distanceMeters"`
	AccuracyFallback bool      `bson:"accuracyFallback" json:"accuracyFallback"`
	FaceConfidence   float64   `bson:"faceConfidence" json:"faceConfidence"`
	MarkedAt         time.Time `bson:"markedAt" json:"markedAt"`

	ID        string     `bson:"_id" json:"id"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt" json:"deletedAt"`
}

func (model AttendanceRecord) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		if model.ID == "" {
			model.ID = utils.GenerateULIDString()
		}
	}
	model.UpdatedAt = now
	return &model
}
