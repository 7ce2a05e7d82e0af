package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"activity_hub/internal/apperr"
	"activity_hub/internal/middleware"
	"activity_hub/internal/services"
)

type AuthController struct {
	auth     *services.AuthService
	accounts *services.AccountService
}

func NewAuthController(auth *services.AuthService, accounts *services.AccountService) *AuthController {
	return &AuthController{auth: auth, accounts: accounts}
}

// Login handles POST /login for staff and volunteers.
func (ac *AuthController) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}

	res, err := ac.auth.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, res)
}

// CheckOrCreateParticipant handles POST /participant/check-or-create.
func (ac *AuthController) CheckOrCreateParticipant(c *gin.Context) {
	var body struct {
		Phone     string  `json:"phone" binding:"required"`
		FullName  string  `json:"full_name"`
		Birthdate string  `json:"birthdate"`
		ImageURL  *string `json:"image_url"`
	}
	if !bindJSON(c, &body) {
		return
	}

	res, err := ac.auth.CheckOrCreateParticipant(c.Request.Context(), services.CheckOrCreateInput{
		Phone:     body.Phone,
		FullName:  body.FullName,
		Birthdate: body.Birthdate,
		ImageURL:  body.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if !res.Exists {
		status = http.StatusCreated
	}
	respondOK(c, status, gin.H{
		"exists":      res.Exists,
		"participant": res.Participant,
		"message":     "verification code sent",
	})
}

// LoginWithOTP handles POST /login-otp.
func (ac *AuthController) LoginWithOTP(c *gin.Context) {
	var body struct {
		Phone string `json:"phone" binding:"required"`
		OTP   string `json:"otp" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}

	res, err := ac.auth.LoginWithOTP(c.Request.Context(), body.Phone, body.OTP)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, res)
}

// DeleteAccount handles DELETE /account for the bearer of the token.
func (ac *AuthController) DeleteAccount(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperr.Unauthorized("not authenticated"))
		return
	}
	if err := ac.accounts.DeleteAccount(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "account deleted"})
}
