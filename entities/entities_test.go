package entities

import (
	"testing"
	"time"

	"campusgate.io/application/utils"
)

func TestParseModelAssignsIdentity(t *testing.T) {
	parsed := Student{FirstName: "Ada", Role: StudentRole}.ParseModel().(*Student)
	if parsed.ID == "" {
		t.Fatal("a new record must be assigned an id")
	}
	if parsed.CreatedAt.IsZero() || parsed.UpdatedAt.IsZero() {
		t.Fatal("a new record must be timestamped")
	}
}

func TestParseModelPreservesExistingIdentity(t *testing.T) {
	id := utils.GenerateULIDString()
	created := time.Now().Add(-time.Hour)
	parsed := Student{ID: id, CreatedAt: created}.ParseModel().(*Student)
	if parsed.ID != id {
		t.Fatalf("existing id was replaced: %s", parsed.ID)
	}
	if !parsed.CreatedAt.Equal(created) {
		t.Fatal("createdAt must not change on update")
	}
	if !parsed.UpdatedAt.After(created) {
		t.Fatal("updatedAt must advance on update")
	}
}

func TestHasEnrolledFace(t *testing.T) {
	if (Student{}).HasEnrolledFace() {
		t.Fatal("no descriptor means not enrolled")
	}
	empty := ""
	if (Student{FaceDescriptor: &empty}).HasEnrolledFace() {
		t.Fatal("an empty descriptor means not enrolled")
	}
	encoded := "ZGVzY3JpcHRvcg=="
	if !(Student{FaceDescriptor: &encoded}).HasEnrolledFace() {
		t.Fatal("a stored descriptor means enrolled")
	}
}

func TestAttendanceSessionOpen(t *testing.T) {
	session := AttendanceSession{}
	if !session.Open() {
		t.Fatal("a session without closedAt is open")
	}
	now := time.Now()
	session.ClosedAt = &now
	if session.Open() {
		t.Fatal("a session with closedAt is closed")
	}
}
