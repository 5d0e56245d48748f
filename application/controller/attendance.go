package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	apperrors "campusgate.io/application/appErrors"
	"campusgate.io/application/controller/dto"
	"campusgate.io/application/interfaces"
	"campusgate.io/application/repository"
	"campusgate.io/application/utils"
	"campusgate.io/entities"
	"campusgate.io/infrastructure/biometric"
	biometric_types "campusgate.io/infrastructure/biometric/types"
	"campusgate.io/infrastructure/database/repository/cache"
	"campusgate.io/infrastructure/geofence"
	geofence_types "campusgate.io/infrastructure/geofence/types"
	"campusgate.io/infrastructure/logger"
	messagequeue "campusgate.io/infrastructure/message_queue"
	queue_tasks "campusgate.io/infrastructure/message_queue/tasks"
	mq_types "campusgate.io/infrastructure/message_queue/types"
	server_response "campusgate.io/infrastructure/serverResponse"
	"campusgate.io/infrastructure/validator"
)

// QR nonces rotate on this interval. A mark attempt must present the nonce
// currently in the cache.
const qrNonceTTL = 30 * time.Second

func qrNonceKey(sessionID string) string {
	return fmt.Sprintf("%s-qr-nonce", sessionID)
}

// geofenceConfigFromSnapshot replays the geofence configuration frozen at
// session open, including its enabled/accuracy switches, so the mark chain
// agrees with what location-check reported under the same deployment state.
func geofenceConfigFromSnapshot(snapshot entities.CampusSnapshot) geofence_types.CampusConfig {
	return geofence_types.CampusConfig{
		Latitude:            snapshot.Latitude,
		Longitude:           snapshot.Longitude,
		RadiusMeters:        snapshot.RadiusMeters,
		MaxAccuracyMeters:   snapshot.MaxAccuracyMeters,
		RequireHighAccuracy: snapshot.RequireHighAccuracy,
		Enabled:             snapshot.Enabled,
	}
}

// locationGatePassed accepts an inside verdict, or a disabled one: a campus
// that switched the geofence off still takes attendance.
func locationGatePassed(verdict geofence_types.LocationVerdict) bool {
	return verdict.Status == geofence_types.StatusInside || verdict.Status == geofence_types.StatusDisabled
}

func locationProviderFromDTO(body dto.LocationCheckDTO) *geofence.ClientReportedProvider {
	provider := &geofence.ClientReportedProvider{ErrorCode: body.ErrorCode}
	if body.Fix != nil {
		provider.Position = &geofence_types.GeoPosition{
			Latitude:       body.Fix.Latitude,
			Longitude:      body.Fix.Longitude,
			AccuracyMeters: body.Fix.AccuracyMeters,
		}
	}
	return provider
}

// CheckLocation runs the geofence gate against a device-reported fix without
// marking anything. The client polls this to drive its location status UI.
func CheckLocation(ctx *interfaces.ApplicationContext[dto.LocationCheckDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}
	gate := &geofence.GateService{Provider: locationProviderFromDTO(*ctx.Body)}
	verdict := gate.CheckLocation(context.Background(), geofence.CampusConfigFromEnv())
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "location checked", verdict, nil, nil)
}

// CreateAttendanceSession opens a session for a course and issues the first
// QR nonce. Teacher only.
func CreateAttendanceSession(ctx *interfaces.ApplicationContext[dto.CreateSessionDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	config := geofence.CampusConfigFromEnv()
	session, err := repository.AttendanceSessionRepo().CreateOne(context.Background(), entities.AttendanceSession{
		CourseCode: ctx.Body.CourseCode,
		TeacherID:  ctx.GetStringContextData("UserID"),
		Campus: entities.CampusSnapshot{
			Latitude:            config.Latitude,
			Longitude:           config.Longitude,
			RadiusMeters:        config.RadiusMeters,
			MaxAccuracyMeters:   config.MaxAccuracyMeters,
			RequireHighAccuracy: config.RequireHighAccuracy,
			Enabled:             config.Enabled,
		},
		OpenedAt: time.Now(),
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	nonce := utils.GenerateULIDString()
	if !cache.Cache.CreateEntry(qrNonceKey(session.ID), nonce, qrNonceTTL) {
		apperrors.FatalServerError(ctx.Ctx, fmt.Errorf("could not issue qr nonce for session %s", session.ID))
		return
	}

	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, "attendance session opened", map[string]any{
		"session": session,
		"qrNonce": nonce,
	}, nil, nil)
}

// RefreshSessionQR rotates the QR nonce for an open session. Teacher only.
func RefreshSessionQR(ctx *interfaces.ApplicationContext[dto.RefreshSessionQRDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	session, err := repository.AttendanceSessionRepo().FindByID(ctx.Body.SessionID)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if session == nil {
		apperrors.NotFoundError(ctx.Ctx, "this session does not exist")
		return
	}
	if session.TeacherID != ctx.GetStringContextData("UserID") {
		apperrors.ForbiddenError(ctx.Ctx, "you did not open this session")
		return
	}
	if !session.Open() {
		apperrors.ClientError(ctx.Ctx, "this session has been closed", nil, nil)
		return
	}

	nonce := utils.GenerateULIDString()
	if !cache.Cache.CreateEntry(qrNonceKey(session.ID), nonce, qrNonceTTL) {
		apperrors.FatalServerError(ctx.Ctx, fmt.Errorf("could not rotate qr nonce for session %s", session.ID))
		return
	}

	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "qr nonce rotated", map[string]any{
		"qrNonce": nonce,
	}, nil, nil)
}

// CloseAttendanceSession closes a session and retires its QR nonce. Teacher only.
func CloseAttendanceSession(ctx *interfaces.ApplicationContext[dto.CloseSessionDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	session, err := repository.AttendanceSessionRepo().FindByID(ctx.Body.SessionID)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if session == nil {
		apperrors.NotFoundError(ctx.Ctx, "this session does not exist")
		return
	}
	if session.TeacherID != ctx.GetStringContextData("UserID") {
		apperrors.ForbiddenError(ctx.Ctx, "you did not open this session")
		return
	}
	if !session.Open() {
		apperrors.ClientError(ctx.Ctx, "this session has already been closed", nil, nil)
		return
	}

	now := time.Now()
	_, err = repository.AttendanceSessionRepo().UpdatePartialByID(context.Background(), session.ID, map[string]any{
		"closedAt": now,
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	cache.Cache.DeleteOne(qrNonceKey(session.ID))

	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "attendance session closed", nil, nil, nil)
}

// MarkAttendance is the student-facing gate chain. The QR nonce proves the
// student is looking at the live session screen, the geofence gate proves the
// device is on campus, and the face gate proves who is holding it. Only after
// all three pass is the record queued for persistence.
func MarkAttendance(ctx *interfaces.ApplicationContext[dto.MarkAttendanceDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	session, err := repository.AttendanceSessionRepo().FindByID(ctx.Body.SessionID)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if session == nil {
		apperrors.NotFoundError(ctx.Ctx, "this session does not exist")
		return
	}
	if !session.Open() {
		apperrors.ClientError(ctx.Ctx, "this session has been closed", nil, nil)
		return
	}

	currentNonce := cache.Cache.FindOne(qrNonceKey(session.ID))
	if currentNonce == nil || *currentNonce != ctx.Body.QRNonce {
		apperrors.ClientError(ctx.Ctx, "this QR code has expired. Scan the current one and try again", nil, nil)
		return
	}

	gate := &geofence.GateService{Provider: locationProviderFromDTO(ctx.Body.Location)}
	verdict := gate.CheckLocation(context.Background(), geofenceConfigFromSnapshot(session.Campus))
	if !locationGatePassed(verdict) {
		message := verdict.ErrorMessage
		if message == "" {
			message = "you are not inside the campus geofence"
		}
		apperrors.ClientError(ctx.Ctx, message, nil, nil)
		return
	}

	studentID := ctx.GetStringContextData("UserID")
	student, err := repository.StudentRepo().FindByID(studentID)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if student == nil {
		apperrors.NotFoundError(ctx.Ctx, "this account does not exist")
		return
	}
	if !student.HasEnrolledFace() {
		apperrors.ClientError(ctx.Ctx, "you have not enrolled your face yet. Enroll before marking attendance", nil, nil)
		return
	}

	result, err := verifyFaceAgainstReference(context.Background(), *student.FaceDescriptor, ctx.Body.Image)
	if err != nil {
		respondFaceError(ctx.Ctx, err)
		return
	}
	if !result.IsMatch {
		apperrors.ClientError(ctx.Ctx, "face verification failed. Make sure you are marking your own attendance", nil, nil)
		return
	}

	err = queueAttendanceRecord(queue_tasks.AttendanceSubmissionPayload{
		SessionID:        session.ID,
		StudentID:        studentID,
		CourseCode:       session.CourseCode,
		DistanceMeters:   verdict.DistanceMeters,
		AccuracyFallback: verdict.AccuracyFallback,
		FaceConfidence:   result.ConfidencePercent,
		MarkedAt:         time.Now(),
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	logger.Info("attendance marked", logger.LoggerOptions{
		Key:  "sessionID",
		Data: session.ID,
	}, logger.LoggerOptions{
		Key:  "studentID",
		Data: studentID,
	})
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "attendance marked", map[string]any{
		"distanceMeters": verdict.DistanceMeters,
		"confidence":     result.ConfidencePercent,
	}, nil, nil)
}

// queueAttendanceRecord hands the accepted mark to the background queue. The
// success response waits on this: a student must never be told "marked" for a
// record that was never queued.
func queueAttendanceRecord(payload queue_tasks.AttendanceSubmissionPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return messagequeue.TaskQueue.Enqueue(mq_types.QueueTask{
		Name:     queue_tasks.HandleAttendanceSubmissionTaskName,
		Payload:  raw,
		Priority: mq_types.High,
	})
}

func verifyFaceAgainstReference(c context.Context, referenceEncoded string, image string) (*biometric_types.FaceMatchResult, error) {
	reference, err := biometric.DecodeReference(referenceEncoded)
	if err != nil {
		return nil, err
	}
	imageBytes, err := utils.DecodeBase64Image(image)
	if err != nil {
		return nil, err
	}
	live, err := biometric.Pipeline.DescriptorFromImage(c, imageBytes)
	if err != nil {
		return nil, err
	}
	if live == nil {
		return nil, &biometric_types.NoFaceDetectedError{}
	}
	return biometric.MatchDescriptors(reference, live)
}
