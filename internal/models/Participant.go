// internal/models/participant.go
package models

import "time"

// Participant is the elderly member profile. Phone is the login identifier
// for the one-time-code flow.
type Participant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Phone     string    `gorm:"uniqueIndex;not null" json:"phone"`
	Birthdate time.Time `gorm:"type:date" json:"birthdate"`
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
