package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"activity_hub/internal/apperr"
	"activity_hub/internal/middleware"
	"activity_hub/internal/services"
)

type EventController struct {
	svc *services.EventService
}

func NewEventController(svc *services.EventService) *EventController {
	return &EventController{svc: svc}
}

type eventInput struct {
	Name            *string         `json:"name"`
	Description     *string         `json:"description"`
	Accessible      *bool           `json:"accessible"`
	ScheduledAt     *time.Time      `json:"scheduled_at"`
	Location        *string         `json:"location"`
	Notes           *string         `json:"notes"`
	MaxParticipants *int            `json:"max_participants"`
	MaxVolunteers   *int            `json:"max_volunteers"`
	Venue           json.RawMessage `json:"venue"` // GeoJSON Point
}

func (in eventInput) toService() services.EventInput {
	return services.EventInput{
		Name:            in.Name,
		Description:     in.Description,
		Accessible:      in.Accessible,
		ScheduledAt:     in.ScheduledAt,
		Location:        in.Location,
		Notes:           in.Notes,
		MaxParticipants: in.MaxParticipants,
		MaxVolunteers:   in.MaxVolunteers,
		Venue:           in.Venue,
	}
}

// List handles GET /events; ?from=<RFC3339> hides earlier events.
func (ec *EventController) List(c *gin.Context) {
	var from *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, apperr.Validation("from must be an RFC3339 timestamp"))
			return
		}
		from = &t
	}

	events, err := ec.svc.List(c.Request.Context(), from)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, events)
}

func (ec *EventController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	e, err := ec.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, e)
}

// Create records the calling staff member as the event's creator.
func (ec *EventController) Create(c *gin.Context) {
	creatorID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperr.Unauthorized("not authenticated"))
		return
	}
	var input eventInput
	if !bindJSON(c, &input) {
		return
	}

	e, err := ec.svc.Create(c.Request.Context(), creatorID, input.toService())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, e)
}

func (ec *EventController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input eventInput
	if !bindJSON(c, &input) {
		return
	}

	e, err := ec.svc.Update(c.Request.Context(), id, input.toService())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, e)
}

func (ec *EventController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ec.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "event deleted"})
}
