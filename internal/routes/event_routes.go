package routes

import (
	"github.com/gin-gonic/gin"

	"activity_hub/internal/controllers"
	"activity_hub/internal/middleware"
	"activity_hub/internal/models"
)

func EventRoutes(r *gin.Engine, ec *controllers.EventController, tokens *middleware.TokenManager) {
	events := r.Group("/events")
	{
		events.GET("", ec.List)
		events.GET("/:id", ec.Get)
	}

	manage := r.Group("/events")
	manage.Use(tokens.RequireAuthWithRole(models.RoleStaff))
	{
		manage.POST("", ec.Create)
		manage.PUT("/:id", ec.Update)
		manage.DELETE("/:id", ec.Delete)
	}
}
