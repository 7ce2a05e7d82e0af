package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"activity_hub/internal/services"
)

// AccountController serves participant, volunteer and staff records.
type AccountController struct {
	svc *services.AccountService
}

func NewAccountController(svc *services.AccountService) *AccountController {
	return &AccountController{svc: svc}
}

type participantInput struct {
	FullName  string  `json:"full_name" binding:"required"`
	Phone     string  `json:"phone" binding:"required"`
	Birthdate string  `json:"birthdate" binding:"required"`
	ImageURL  *string `json:"image_url"`
}

type credentialInput struct {
	FullName string  `json:"full_name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required"`
	ImageURL *string `json:"image_url"`
}

type participantUpdateInput struct {
	FullName  *string `json:"full_name"`
	Phone     *string `json:"phone"`
	Birthdate *string `json:"birthdate"`
	ImageURL  *string `json:"image_url"`
}

type credentialUpdateInput struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password"`
	ImageURL *string `json:"image_url"`
}

func (in credentialInput) toService() services.CredentialInput {
	return services.CredentialInput{FullName: in.FullName, Email: in.Email, Password: in.Password, ImageURL: in.ImageURL}
}

func (in credentialUpdateInput) toService() services.CredentialUpdate {
	return services.CredentialUpdate{FullName: in.FullName, Email: in.Email, Password: in.Password, ImageURL: in.ImageURL}
}

// Participants

func (ac *AccountController) CreateParticipant(c *gin.Context) {
	var input participantInput
	if !bindJSON(c, &input) {
		return
	}
	p, err := ac.svc.CreateParticipant(c.Request.Context(), services.ParticipantInput{
		FullName:  input.FullName,
		Phone:     input.Phone,
		Birthdate: input.Birthdate,
		ImageURL:  input.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, p)
}

func (ac *AccountController) ListParticipants(c *gin.Context) {
	out, err := ac.svc.ListParticipants(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, out)
}

func (ac *AccountController) GetParticipant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := ac.svc.GetParticipant(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, p)
}

func (ac *AccountController) UpdateParticipant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input participantUpdateInput
	if !bindJSON(c, &input) {
		return
	}
	p, err := ac.svc.UpdateParticipant(c.Request.Context(), id, services.ParticipantUpdate{
		FullName:  input.FullName,
		Phone:     input.Phone,
		Birthdate: input.Birthdate,
		ImageURL:  input.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, p)
}

func (ac *AccountController) DeleteParticipant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ac.svc.DeleteParticipant(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "participant deleted"})
}

// Volunteers

func (ac *AccountController) CreateVolunteer(c *gin.Context) {
	var input credentialInput
	if !bindJSON(c, &input) {
		return
	}
	v, err := ac.svc.CreateVolunteer(c.Request.Context(), input.toService())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, v)
}

func (ac *AccountController) ListVolunteers(c *gin.Context) {
	out, err := ac.svc.ListVolunteers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, out)
}

func (ac *AccountController) GetVolunteer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	v, err := ac.svc.GetVolunteer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, v)
}

func (ac *AccountController) UpdateVolunteer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input credentialUpdateInput
	if !bindJSON(c, &input) {
		return
	}
	v, err := ac.svc.UpdateVolunteer(c.Request.Context(), id, input.toService())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, v)
}

func (ac *AccountController) DeleteVolunteer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ac.svc.DeleteVolunteer(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "volunteer deleted"})
}

// Staff

func (ac *AccountController) CreateStaff(c *gin.Context) {
	var input credentialInput
	if !bindJSON(c, &input) {
		return
	}
	st, err := ac.svc.CreateStaff(c.Request.Context(), input.toService())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, st)
}

func (ac *AccountController) ListStaff(c *gin.Context) {
	out, err := ac.svc.ListStaff(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, out)
}

func (ac *AccountController) GetStaff(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	st, err := ac.svc.GetStaff(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, st)
}

func (ac *AccountController) UpdateStaff(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input credentialUpdateInput
	if !bindJSON(c, &input) {
		return
	}
	st, err := ac.svc.UpdateStaff(c.Request.Context(), id, input.toService())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, st)
}

func (ac *AccountController) DeleteStaff(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ac.svc.DeleteStaff(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "staff deleted"})
}
