package controller

import (
	"context"
	"net/http"
	"time"

	apperrors "campusgate.io/application/appErrors"
	"campusgate.io/application/controller/dto"
	"campusgate.io/application/interfaces"
	"campusgate.io/application/repository"
	"campusgate.io/entities"
	"campusgate.io/infrastructure/auth"
	server_response "campusgate.io/infrastructure/serverResponse"
	"campusgate.io/infrastructure/validator"
)

const authTokenTTL = 24 * time.Hour

// CreateAccount registers a student or teacher and signs them in.
func CreateAccount(ctx *interfaces.ApplicationContext[dto.CreateAccountDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	existing, err := repository.StudentRepo().FindOneByFilter(map[string]interface{}{
		"email": ctx.Body.Email,
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if existing != nil {
		apperrors.EntityAlreadyExistsError(ctx.Ctx, "an account with this email already exists")
		return
	}

	account, err := repository.StudentRepo().CreateOne(context.Background(), entities.Student{
		FirstName:    ctx.Body.FirstName,
		LastName:     ctx.Body.LastName,
		Email:        ctx.Body.Email,
		MatricNumber: ctx.Body.MatricNumber,
		Role:         entities.UserRole(ctx.Body.Role),
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	token, err := issueToken(account, ctx.DeviceID)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, "account created", map[string]any{
		"account": account,
		"token":   token,
	}, nil, nil)
}

// Login signs an existing account in.
func Login(ctx *interfaces.ApplicationContext[dto.LoginDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	account, err := repository.StudentRepo().FindOneByFilter(map[string]interface{}{
		"email": ctx.Body.Email,
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if account == nil {
		apperrors.NotFoundError(ctx.Ctx, "no account with this email exists")
		return
	}
	if account.Deactivated {
		apperrors.ForbiddenError(ctx.Ctx, "this account has been deactivated")
		return
	}

	token, err := issueToken(account, ctx.DeviceID)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "signed in", map[string]any{
		"account": account,
		"token":   token,
	}, nil, nil)
}

func issueToken(account *entities.Student, deviceID *string) (*string, error) {
	now := time.Now()
	device := ""
	if deviceID != nil {
		device = *deviceID
	}
	return auth.GenerateAuthToken(auth.ClaimsData{
		UserID:    account.ID,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Email:     account.Email,
		Role:      account.Role,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(authTokenTTL).Unix(),
		DeviceID:  device,
	})
}
