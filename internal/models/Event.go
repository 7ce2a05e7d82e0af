package models

import "time"

// Event is an activity organised by a staff member. MaxParticipants and
// MaxVolunteers cap the rows in the two registration tables.
type Event struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	Description     string    `json:"description"`
	Accessible      bool      `gorm:"not null;default:false" json:"accessible"`
	ScheduledAt     time.Time `gorm:"not null;index" json:"scheduled_at"`
	Location        string    `json:"location"`
	Notes           string    `json:"notes"`
	CreatedBy       *uint     `gorm:"index" json:"created_by"`
	MaxParticipants int       `gorm:"not null;default:0" json:"max_participants"`
	MaxVolunteers   int       `gorm:"not null;default:0" json:"max_volunteers"`

	// Venue point stored as WKB; the API exchanges GeoJSON.
	Geometry []byte `gorm:"type:bytea" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Creator *User `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
}
