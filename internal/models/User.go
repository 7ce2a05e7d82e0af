package models

import "time"

const (
	RoleParticipant = "participant"
	RoleVolunteer   = "volunteer"
	RoleStaff       = "staff"
)

// User is the identity record shared by every actor. Role is fixed once the
// role-specific row has been created.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FullName  string    `gorm:"not null" json:"full_name"`
	Role      string    `gorm:"type:varchar(16);not null;index" json:"role"` // "participant", "volunteer", "staff"
	ImageURL  *string   `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Actor-specific relations
	Participant *Participant `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"participant,omitempty"`
	Volunteer   *Volunteer   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"volunteer,omitempty"`
	Staff       *Staff       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"staff,omitempty"`
}

// ValidRole reports whether role is one of the known actor roles.
func ValidRole(role string) bool {
	switch role {
	case RoleParticipant, RoleVolunteer, RoleStaff:
		return true
	}
	return false
}
