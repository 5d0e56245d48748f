package queue_tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"campusgate.io/application/repository"
	"campusgate.io/entities"
	"campusgate.io/infrastructure/logger"
	mq_types "campusgate.io/infrastructure/message_queue/types"
	"github.com/hibiken/asynq"
)

var HandleAttendanceSubmissionTaskName mq_types.Queues = "record_attendance"

type AttendanceSubmissionPayload struct {
	SessionID        string
	StudentID        string
	CourseCode       string
	DistanceMeters   *float64
	AccuracyFallback bool
	FaceConfidence   float64
	MarkedAt         time.Time
}

func HandleAttendanceSubmissionTask(ctx context.Context, t *asynq.Task) error {
	var payload AttendanceSubmissionPayload
	err := json.Unmarshal(t.Payload(), &payload)
	if err != nil {
		logger.Error("an error occured while unmarshalling attendance queue payload", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return err
	}

	existing, err := repository.AttendanceRecordRepo().FindOneByFilter(map[string]interface{}{
		"sessionID": payload.SessionID,
		"studentID": payload.StudentID,
	})
	if err != nil {
		return err
	}
	if existing != nil {
		logger.Info("attendance already recorded for this session", logger.LoggerOptions{
			Key:  "sessionID",
			Data: payload.SessionID,
		}, logger.LoggerOptions{
			Key:  "studentID",
			Data: payload.StudentID,
		})
		return nil
	}

	_, err = repository.AttendanceRecordRepo().CreateOne(ctx, entities.AttendanceRecord{
		SessionID:        payload.SessionID,
		StudentID:        payload.StudentID,
		CourseCode:       payload.CourseCode,
		DistanceMeters:   payload.DistanceMeters,
		AccuracyFallback: payload.AccuracyFallback,
		FaceConfidence:   payload.FaceConfidence,
		MarkedAt:         payload.MarkedAt,
	})
	if err != nil {
		logger.Error("failed to persist attendance record", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "studentID",
			Data: payload.StudentID,
		})
		return fmt.Errorf("failed to record attendance for %s", payload.StudentID)
	}
	return nil
}
