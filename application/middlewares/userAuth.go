package middlewares

import (
	"strings"

	apperrors "campusgate.io/application/appErrors"
	"campusgate.io/application/interfaces"
	"campusgate.io/entities"
	"campusgate.io/infrastructure/auth"
)

func UserAuthenticationMiddleware(ctx *interfaces.ApplicationContext[any], requiredRole *entities.UserRole, authTokenHeader string) (*interfaces.ApplicationContext[any], bool) {
	authToken := strings.TrimPrefix(authTokenHeader, "Bearer ")
	if authToken == "" {
		apperrors.AuthenticationError(ctx.Ctx, "provide an auth token")
		return nil, false
	}

	token, err := auth.DecodeAuthToken(authToken)
	if err != nil {
		apperrors.AuthenticationError(ctx.Ctx, "this session has expired. Sign in again")
		return nil, false
	}
	claims, err := auth.ParseClaims(token)
	if err != nil {
		apperrors.AuthenticationError(ctx.Ctx, "this session has expired. Sign in again")
		return nil, false
	}

	if requiredRole != nil && claims.Role != *requiredRole {
		apperrors.ForbiddenError(ctx.Ctx, "you do not have permission to perform this action")
		return nil, false
	}

	ctx.SetContextData("UserID", claims.UserID)
	ctx.SetContextData("Email", claims.Email)
	ctx.SetContextData("FirstName", claims.FirstName)
	ctx.SetContextData("LastName", claims.LastName)
	ctx.SetContextData("Role", string(claims.Role))
	ctx.SetContextData("DeviceID", claims.DeviceID)

	return ctx, true
}
