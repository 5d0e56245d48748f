package middlewares

import (
	"campusgate.io/application/interfaces"
	"campusgate.io/application/middlewares"
	"campusgate.io/application/utils"
	"campusgate.io/entities"
	"github.com/gin-gonic/gin"
)

func UserAuthenticationMiddleware(requiredRole *entities.UserRole) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		appContext, next := middlewares.UserAuthenticationMiddleware(&interfaces.ApplicationContext[any]{
			Ctx:      ctx,
			Keys:     ctx.Keys,
			Header:   ctx.Request.Header,
			DeviceID: utils.GetStringPointer(ctx.Request.Header.Get("X-Device-Id")),
		}, requiredRole, ctx.Request.Header.Get("Authorization"))
		if next {
			ctx.Set("AppContext", appContext)
			ctx.Next()
		}
	}
}
