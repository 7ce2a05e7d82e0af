package routes

import (
	"github.com/gin-gonic/gin"

	"activity_hub/internal/controllers"
	"activity_hub/internal/middleware"
	"activity_hub/internal/models"
)

// AccountRoutes mounts sign-up (public) and the staff-only admin CRUD for
// participants, volunteers and staff.
func AccountRoutes(r *gin.Engine, ac *controllers.AccountController, tokens *middleware.TokenManager) {
	staffOnly := tokens.RequireAuthWithRole(models.RoleStaff)

	participants := r.Group("/participants")
	{
		participants.POST("", ac.CreateParticipant)
		participants.GET("", staffOnly, ac.ListParticipants)
		participants.GET("/:id", staffOnly, ac.GetParticipant)
		participants.PUT("/:id", staffOnly, ac.UpdateParticipant)
		participants.DELETE("/:id", staffOnly, ac.DeleteParticipant)
	}

	volunteers := r.Group("/volunteers")
	{
		volunteers.POST("", ac.CreateVolunteer)
		volunteers.GET("", staffOnly, ac.ListVolunteers)
		volunteers.GET("/:id", staffOnly, ac.GetVolunteer)
		volunteers.PUT("/:id", staffOnly, ac.UpdateVolunteer)
		volunteers.DELETE("/:id", staffOnly, ac.DeleteVolunteer)
	}

	staff := r.Group("/staff")
	{
		staff.POST("", ac.CreateStaff)
		staff.GET("", staffOnly, ac.ListStaff)
		staff.GET("/:id", staffOnly, ac.GetStaff)
		staff.PUT("/:id", staffOnly, ac.UpdateStaff)
		staff.DELETE("/:id", staffOnly, ac.DeleteStaff)
	}
}
