package models

import "time"

// ParticipantEvent links a participant to an event. The pair is unique.
type ParticipantEvent struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ParticipantID uint      `gorm:"not null;uniqueIndex:uq_participant_events_pair" json:"participant_id"`
	EventID       uint      `gorm:"not null;uniqueIndex:uq_participant_events_pair;index" json:"event_id"`
	SignedAt      time.Time `gorm:"not null" json:"signed_at"`

	Participant *Participant `gorm:"foreignKey:ParticipantID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Event       *Event       `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
