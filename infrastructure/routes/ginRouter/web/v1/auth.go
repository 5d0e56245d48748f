package routev1

import (
	apperrors "campusgate.io/application/appErrors"
	"campusgate.io/application/controller"
	"campusgate.io/application/controller/dto"
	"campusgate.io/application/interfaces"
	"campusgate.io/application/utils"
	"github.com/gin-gonic/gin"
)

func AuthRouter(router *gin.RouterGroup) {
	authRouter := router.Group("/auth")
	{
		authRouter.POST("/register", func(ctx *gin.Context) {
			var body dto.CreateAccountDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.CreateAccount(&interfaces.ApplicationContext[dto.CreateAccountDTO]{
				Ctx:      ctx,
				DeviceID: utils.GetStringPointer(ctx.Request.Header.Get("X-Device-Id")),
				Body:     &body,
			})
		})

		authRouter.POST("/login", func(ctx *gin.Context) {
			var body dto.LoginDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.Login(&interfaces.ApplicationContext[dto.LoginDTO]{
				Ctx:      ctx,
				DeviceID: utils.GetStringPointer(ctx.Request.Header.Get("X-Device-Id")),
				Body:     &body,
			})
		})
	}
}
