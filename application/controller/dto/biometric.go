package dto

// EnrollFaceDTO carries the base64 encoded photo to build the reference
// descriptor from.
type EnrollFaceDTO struct {
	Image string `json:"image" validate:"required,encoded_image"`
}

type VerifyFaceDTO struct {
	Image string `json:"image" validate:"required,encoded_image"`
}
