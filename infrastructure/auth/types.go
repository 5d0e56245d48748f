package auth

import "campusgate.io/entities"

type ClaimsData struct {
	UserID    string
	FirstName string
	LastName  string
	Email     string
	Role      entities.UserRole
	ExpiresAt int64
	IssuedAt  int64
	DeviceID  string
}
