package controller

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"campusgate.io/entities"
	"campusgate.io/infrastructure/geofence"
	geofence_types "campusgate.io/infrastructure/geofence/types"
	messagequeue "campusgate.io/infrastructure/message_queue"
	queue_tasks "campusgate.io/infrastructure/message_queue/tasks"
	mq_types "campusgate.io/infrastructure/message_queue/types"
)

func campusSnapshot() entities.CampusSnapshot {
	return entities.CampusSnapshot{
		Latitude:            12.824940,
		Longitude:           80.045784,
		RadiusMeters:        200,
		MaxAccuracyMeters:   100,
		RequireHighAccuracy: true,
		Enabled:             true,
	}
}

func TestGeofenceConfigFromSnapshot(t *testing.T) {
	snapshot := campusSnapshot()
	snapshot.Enabled = false
	snapshot.RequireHighAccuracy = false

	config := geofenceConfigFromSnapshot(snapshot)

	if config.Latitude != snapshot.Latitude || config.Longitude != snapshot.Longitude {
		t.Errorf("coordinates not carried over: got (%f, %f)", config.Latitude, config.Longitude)
	}
	if config.RadiusMeters != snapshot.RadiusMeters {
		t.Errorf("expected radius %f, got %f", snapshot.RadiusMeters, config.RadiusMeters)
	}
	if config.MaxAccuracyMeters != snapshot.MaxAccuracyMeters {
		t.Errorf("expected max accuracy %f, got %f", snapshot.MaxAccuracyMeters, config.MaxAccuracyMeters)
	}
	if config.Enabled {
		t.Error("a disabled snapshot must produce a disabled config")
	}
	if config.RequireHighAccuracy {
		t.Error("the high-accuracy switch must come from the snapshot, not a default")
	}
}

func TestMarkGateAgreesWithLocationCheckWhenDisabled(t *testing.T) {
	// A fix nowhere near campus. With geofencing switched off, both the
	// standalone location check and the mark chain must wave it through;
	// the same deployment state cannot say disabled in one place and
	// outside in the other.
	provider := &geofence.ClientReportedProvider{
		Position: &geofence_types.GeoPosition{Latitude: 48.8584, Longitude: 2.2945, AccuracyMeters: 10},
	}
	gate := &geofence.GateService{Provider: provider}

	snapshot := campusSnapshot()
	snapshot.Enabled = false

	verdict := gate.CheckLocation(context.Background(), geofenceConfigFromSnapshot(snapshot))
	if verdict.Status != geofence_types.StatusDisabled {
		t.Fatalf("expected disabled, got %s", verdict.Status)
	}
	if !locationGatePassed(verdict) {
		t.Error("a disabled verdict must pass the mark chain")
	}

	// The identical fix against the enabled snapshot is rejected.
	snapshot.Enabled = true
	verdict = gate.CheckLocation(context.Background(), geofenceConfigFromSnapshot(snapshot))
	if verdict.Status != geofence_types.StatusOutside {
		t.Fatalf("expected outside with geofencing enabled, got %s", verdict.Status)
	}
	if locationGatePassed(verdict) {
		t.Error("an outside verdict must not pass the mark chain")
	}
}

func TestLocationGatePassed(t *testing.T) {
	cases := []struct {
		status geofence_types.VerdictStatus
		want   bool
	}{
		{geofence_types.StatusInside, true},
		{geofence_types.StatusDisabled, true},
		{geofence_types.StatusOutside, false},
		{geofence_types.StatusDenied, false},
		{geofence_types.StatusError, false},
	}

	for _, tc := range cases {
		got := locationGatePassed(geofence_types.LocationVerdict{Status: tc.status})
		if got != tc.want {
			t.Errorf("status %s: expected %t, got %t", tc.status, tc.want, got)
		}
	}
}

type stubBroker struct {
	enqueueErr error
	tasks      []mq_types.QueueTask
}

func (sb *stubBroker) Start() {}

func (sb *stubBroker) Enqueue(task mq_types.QueueTask) error {
	sb.tasks = append(sb.tasks, task)
	return sb.enqueueErr
}

func swapBroker(t *testing.T, broker mq_types.TaskQueueBroker) {
	t.Helper()
	previous := messagequeue.TaskQueue
	messagequeue.TaskQueue = broker
	t.Cleanup(func() { messagequeue.TaskQueue = previous })
}

func TestQueueAttendanceRecord(t *testing.T) {
	broker := &stubBroker{}
	swapBroker(t, broker)

	distance := 42.5
	payload := queue_tasks.AttendanceSubmissionPayload{
		SessionID:      "01J0SESSION",
		StudentID:      "01J0STUDENT",
		CourseCode:     "CS101",
		DistanceMeters: &distance,
		FaceConfidence: 0.93,
	}

	if err := queueAttendanceRecord(payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(broker.tasks) != 1 {
		t.Fatalf("expected one task, got %d", len(broker.tasks))
	}

	task := broker.tasks[0]
	if task.Name != queue_tasks.HandleAttendanceSubmissionTaskName {
		t.Errorf("expected task %s, got %s", queue_tasks.HandleAttendanceSubmissionTaskName, task.Name)
	}
	if task.Priority != mq_types.High {
		t.Errorf("attendance persistence must run on the high queue, got %s", task.Priority)
	}

	var decoded queue_tasks.AttendanceSubmissionPayload
	if err := json.Unmarshal(task.Payload, &decoded); err != nil {
		t.Fatalf("task payload does not round-trip: %v", err)
	}
	if decoded.SessionID != payload.SessionID || decoded.StudentID != payload.StudentID {
		t.Errorf("payload identifiers lost in transit: %+v", decoded)
	}
	if decoded.DistanceMeters == nil || *decoded.DistanceMeters != distance {
		t.Errorf("expected distance %f, got %v", distance, decoded.DistanceMeters)
	}
}

func TestQueueAttendanceRecordSurfacesBrokerFailure(t *testing.T) {
	brokerErr := errors.New("redis connection refused")
	swapBroker(t, &stubBroker{enqueueErr: brokerErr})

	err := queueAttendanceRecord(queue_tasks.AttendanceSubmissionPayload{
		SessionID: "01J0SESSION",
		StudentID: "01J0STUDENT",
	})
	if !errors.Is(err, brokerErr) {
		t.Fatalf("a failed enqueue must reach the caller, got %v", err)
	}
}
