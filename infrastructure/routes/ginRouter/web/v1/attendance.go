package routev1

import (
	apperrors "campusgate.io/application/appErrors"
	"campusgate.io/application/controller"
	"campusgate.io/application/controller/dto"
	"campusgate.io/application/interfaces"
	"campusgate.io/entities"
	middlewares "campusgate.io/infrastructure/middleware"
	"github.com/gin-gonic/gin"
)

func AttendanceRouter(router *gin.RouterGroup) {
	attendanceRouter := router.Group("/attendance")
	{
		attendanceRouter.POST("/location-check", middlewares.UserAuthenticationMiddleware(nil), func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.LocationCheckDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.CheckLocation(&interfaces.ApplicationContext[dto.LocationCheckDTO]{
				Ctx:      ctx,
				Keys:     appContext.Keys,
				DeviceID: appContext.DeviceID,
				Body:     &body,
			})
		})

		attendanceRouter.POST("/session", middlewares.UserAuthenticationMiddleware(roleRef(entities.TeacherRole)), func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.CreateSessionDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.CreateAttendanceSession(&interfaces.ApplicationContext[dto.CreateSessionDTO]{
				Ctx:      ctx,
				Keys:     appContext.Keys,
				DeviceID: appContext.DeviceID,
				Body:     &body,
			})
		})

		attendanceRouter.POST("/session/refresh-qr", middlewares.UserAuthenticationMiddleware(roleRef(entities.TeacherRole)), func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.RefreshSessionQRDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.RefreshSessionQR(&interfaces.ApplicationContext[dto.RefreshSessionQRDTO]{
				Ctx:      ctx,
				Keys:     appContext.Keys,
				DeviceID: appContext.DeviceID,
				Body:     &body,
			})
		})

		attendanceRouter.POST("/session/close", middlewares.UserAuthenticationMiddleware(roleRef(entities.TeacherRole)), func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.CloseSessionDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.CloseAttendanceSession(&interfaces.ApplicationContext[dto.CloseSessionDTO]{
				Ctx:      ctx,
				Keys:     appContext.Keys,
				DeviceID: appContext.DeviceID,
				Body:     &body,
			})
		})

		attendanceRouter.POST("/mark", middlewares.UserAuthenticationMiddleware(roleRef(entities.StudentRole)), func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.MarkAttendanceDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.MarkAttendance(&interfaces.ApplicationContext[dto.MarkAttendanceDTO]{
				Ctx:      ctx,
				Keys:     appContext.Keys,
				DeviceID: appContext.DeviceID,
				Body:     &body,
			})
		})
	}
}

func roleRef(role entities.UserRole) *entities.UserRole {
	return &role
}
