package routes

import (
	"github.com/gin-gonic/gin"

	"activity_hub/internal/controllers"
	"activity_hub/internal/middleware"
)

func UserRoutes(r *gin.Engine, uc *controllers.UserController, tokens *middleware.TokenManager) {
	users := r.Group("/users")
	users.Use(tokens.RequireAuth())
	{
		users.GET("", uc.List)
		users.GET("/:id", uc.Get)
		users.PUT("/:id", uc.Update)
	}
}
