package routes

import (
	"github.com/gin-gonic/gin"

	"activity_hub/internal/controllers"
)

// RegistrationRoutes mounts admit, list and unregister under prefix.
func RegistrationRoutes(r *gin.Engine, prefix string, rc *controllers.RegistrationController) {
	g := r.Group(prefix)
	{
		g.POST("", rc.Register)
		g.GET("", rc.List)
		g.DELETE("/:"+rc.IDParam()+"/:eventID", rc.Unregister)
	}
}
