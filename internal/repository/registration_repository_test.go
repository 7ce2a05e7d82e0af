package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"activity_hub/internal/models"
	"activity_hub/internal/services"
)

func TestTableFor(t *testing.T) {
	p := tableFor(services.KindParticipant)
	assert.Equal(t, "participant_events", p.table)
	assert.Equal(t, "participant_id", p.column)
	assert.Equal(t, "participants", p.registrants)
	assert.IsType(t, &models.ParticipantEvent{}, p.model())

	v := tableFor(services.KindVolunteer)
	assert.Equal(t, "volunteer_events", v.table)
	assert.Equal(t, "volunteer_id", v.column)
	assert.Equal(t, "volunteers", v.registrants)
	assert.IsType(t, &models.VolunteerEvent{}, v.model())
}
