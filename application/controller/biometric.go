package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	apperrors "campusgate.io/application/appErrors"
	"campusgate.io/application/controller/dto"
	"campusgate.io/application/interfaces"
	"campusgate.io/application/repository"
	"campusgate.io/application/utils"
	"campusgate.io/infrastructure/biometric"
	biometric_types "campusgate.io/infrastructure/biometric/types"
	"campusgate.io/infrastructure/logger"
	server_response "campusgate.io/infrastructure/serverResponse"
	"campusgate.io/infrastructure/validator"
)

// EnrollFace builds the reference descriptor for the signed-in account from
// an uploaded photo. One face per account, one account per face.
func EnrollFace(ctx *interfaces.ApplicationContext[dto.EnrollFaceDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	userID := ctx.GetStringContextData("UserID")
	student, err := repository.StudentRepo().FindByID(userID)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if student == nil {
		apperrors.NotFoundError(ctx.Ctx, "this account does not exist")
		return
	}

	imageBytes, err := utils.DecodeBase64Image(ctx.Body.Image)
	if err != nil {
		apperrors.ClientError(ctx.Ctx, "the uploaded image could not be decoded", nil, nil)
		return
	}

	descriptor, err := biometric.Pipeline.DescriptorFromImage(context.Background(), imageBytes)
	if err != nil {
		respondFaceError(ctx.Ctx, err)
		return
	}
	if descriptor == nil {
		respondFaceError(ctx.Ctx, &biometric_types.NoFaceDetectedError{})
		return
	}

	if matchedID, found := biometric.Enrollments.NearestMatch(descriptor, userID); found {
		logger.Warning("duplicate face enrollment blocked", logger.LoggerOptions{
			Key:  "userID",
			Data: userID,
		}, logger.LoggerOptions{
			Key:  "matchedID",
			Data: matchedID,
		})
		apperrors.EntityAlreadyExistsError(ctx.Ctx, "this face is already enrolled on another account")
		return
	}

	encoded := biometric.EncodeVersionedDescriptor(descriptor)
	now := time.Now()
	_, err = repository.StudentRepo().UpdatePartialByID(context.Background(), userID, map[string]any{
		"faceDescriptor": encoded,
		"faceEnrolledAt": now,
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	biometric.Enrollments.Add(userID, descriptor)

	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, "face enrolled", map[string]any{
		"enrolledAt": now,
	}, nil, nil)
}

// VerifyFace compares an uploaded photo against the account's enrolled
// descriptor without marking anything.
func VerifyFace(ctx *interfaces.ApplicationContext[dto.VerifyFaceDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	userID := ctx.GetStringContextData("UserID")
	student, err := repository.StudentRepo().FindByID(userID)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if student == nil {
		apperrors.NotFoundError(ctx.Ctx, "this account does not exist")
		return
	}
	if !student.HasEnrolledFace() {
		apperrors.ClientError(ctx.Ctx, "you have not enrolled your face yet", nil, nil)
		return
	}

	result, err := verifyFaceAgainstReference(context.Background(), *student.FaceDescriptor, ctx.Body.Image)
	if err != nil {
		respondFaceError(ctx.Ctx, err)
		return
	}

	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "face verification complete", result, nil, nil)
}

// respondFaceError translates pipeline failures into responses a client can
// act on. Model version mismatches ask for re-enrollment rather than retry.
func respondFaceError(ctx interface{}, err error) {
	var noFace *biometric_types.NoFaceDetectedError
	if errors.As(err, &noFace) {
		apperrors.ClientError(ctx, noFace.Error(), nil, nil)
		return
	}
	var mismatch *biometric.ModelVersionMismatchError
	if errors.As(err, &mismatch) {
		apperrors.ClientError(ctx, "your enrolled face data was made with an older model. Enroll your face again", nil, nil)
		return
	}
	var decode *biometric.DecodeError
	if errors.As(err, &decode) {
		apperrors.ClientError(ctx, "your enrolled face data is unreadable. Enroll your face again", nil, nil)
		return
	}
	if errors.Is(err, biometric.ErrInferenceBusy) {
		code := uint(http.StatusTooManyRequests)
		apperrors.CustomError(ctx, biometric.ErrInferenceBusy.Error(), &code)
		return
	}
	apperrors.FatalServerError(ctx, err)
}
