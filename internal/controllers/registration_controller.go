package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"activity_hub/internal/services"
)

// RegistrationController serves one join table; the kind decides which.
type RegistrationController struct {
	svc  *services.RegistrationService
	kind services.RegistrantKind
}

func NewRegistrationController(svc *services.RegistrationService, kind services.RegistrantKind) *RegistrationController {
	return &RegistrationController{svc: svc, kind: kind}
}

func (rc *RegistrationController) idField() string {
	return string(rc.kind) + "_id"
}

// IDParam is the path parameter naming the registrant, e.g. participantID.
func (rc *RegistrationController) IDParam() string {
	return string(rc.kind) + "ID"
}

type registrationInput struct {
	ParticipantID uint `json:"participant_id"`
	VolunteerID   uint `json:"volunteer_id"`
	EventID       uint `json:"event_id" binding:"required"`
}

// Register handles POST /participant-events and /volunteer-events.
func (rc *RegistrationController) Register(c *gin.Context) {
	var input registrationInput
	if !bindJSON(c, &input) {
		return
	}
	registrantID := input.ParticipantID
	if rc.kind == services.KindVolunteer {
		registrantID = input.VolunteerID
	}

	reg, err := rc.svc.Admit(c.Request.Context(), rc.kind, registrantID, input.EventID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, reg)
}

func (rc *RegistrationController) List(c *gin.Context) {
	registrantID, ok := queryID(c, rc.idField())
	if !ok {
		return
	}
	eventID, ok := queryID(c, "event_id")
	if !ok {
		return
	}

	regs, err := rc.svc.List(c.Request.Context(), rc.kind, services.RegistrationFilter{
		RegistrantID: registrantID,
		EventID:      eventID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, regs)
}

// Unregister handles DELETE /participant-events/:participantID/:eventID and
// its volunteer twin.
func (rc *RegistrationController) Unregister(c *gin.Context) {
	registrantID, ok := paramID(c, rc.IDParam())
	if !ok {
		return
	}
	eventID, ok := paramID(c, "eventID")
	if !ok {
		return
	}

	if err := rc.svc.Unregister(c.Request.Context(), rc.kind, registrantID, eventID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "unregistered"})
}
