package routes

import (
	"github.com/gin-gonic/gin"

	"activity_hub/internal/controllers"
	"activity_hub/internal/middleware"
)

func AuthRoutes(r *gin.Engine, auth *controllers.AuthController, tokens *middleware.TokenManager) {
	r.POST("/login", auth.Login)
	r.POST("/participant/check-or-create", auth.CheckOrCreateParticipant)
	r.POST("/login-otp", auth.LoginWithOTP)

	r.DELETE("/account", tokens.RequireAuth(), auth.DeleteAccount)
}
