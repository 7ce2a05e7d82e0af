package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"activity_hub/internal/apperr"
	"activity_hub/internal/middleware"
	"activity_hub/internal/models"
	"activity_hub/internal/services"
)

type UserController struct {
	svc *services.AccountService
}

func NewUserController(svc *services.AccountService) *UserController {
	return &UserController{svc: svc}
}

func (uc *UserController) List(c *gin.Context) {
	users, err := uc.svc.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, users)
}

func (uc *UserController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	u, err := uc.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, u)
}

// Update accepts full_name and image_url; role is not editable. Only staff
// may edit someone else's record.
func (uc *UserController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if c.GetString(middleware.ContextRole) != models.RoleStaff {
		if self, _ := middleware.CurrentUserID(c); self != id {
			respondError(c, apperr.New(apperr.ErrForbidden, "cannot edit another user"))
			return
		}
	}
	var input struct {
		FullName *string `json:"full_name"`
		ImageURL *string `json:"image_url"`
	}
	if !bindJSON(c, &input) {
		return
	}
	u, err := uc.svc.UpdateUser(c.Request.Context(), id, services.UserUpdate{
		FullName: input.FullName,
		ImageURL: input.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, u)
}
