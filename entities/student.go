package entities

import (
	"time"

	"campusgate.io/application/utils"
)

type UserRole string

const (
	StudentRole UserRole = "student"
	TeacherRole UserRole = "teacher"
)

// Student is a person enrolled on the platform. Teachers are stored in the
// same collection with Role set to TeacherRole.
type Student struct {
	FirstName      string     `bson:"firstName" json:"firstName"`
	LastName       string     `bson:"lastName" json:"lastName"`
	Email          string     `bson:"email" json:"email"`
	MatricNumber   *string    `bson:"matricNumber" json:"matricNumber"`
	Role           UserRole   `bson:"role" json:"role"`
	FaceDescriptor *string    `bson:"faceDescriptor" json:"-"`
	FaceEnrolledAt *time.Time `bson:"faceEnrolledAt" json:"faceEnrolledAt"`
	Deactivated    bool       `bson:"deactivated" json:"deactivated"`

	ID        string     `bson:"_id" json:"id"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt" json:"deletedAt"`
}

func (model Student) ParseModel() any {
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

func (model Student) HasEnrolledFace() bool {
	return model.FaceDescriptor != nil && *model.FaceDescriptor != ""
}
