package models

import "time"

// VolunteerEvent links a volunteer to an event. The pair is unique.
type VolunteerEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	VolunteerID uint      `gorm:"not null;uniqueIndex:uq_volunteer_events_pair" json:"volunteer_id"`
	EventID     uint      `gorm:"not null;uniqueIndex:uq_volunteer_events_pair;index" json:"event_id"`
	SignedAt    time.Time `gorm:"not null" json:"signed_at"`

	Volunteer *Volunteer `gorm:"foreignKey:VolunteerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Event     *Event     `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
