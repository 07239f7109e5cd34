package models

import "time"

type ParticipantRole string

const (
	RoleSupervisor    ParticipantRole = "SUPERVISOR"    // full control
	RoleAdministrator ParticipantRole = "ADMINISTRATOR" // everything except deletion
	RoleSpecialist    ParticipantRole = "SPECIALIST"    // chart editing only
	RoleObserver      ParticipantRole = "OBSERVER"      // read only
)

type ProjectParticipant struct {
	ID            uint64          `gorm:"primarykey" json:"id"`
	ProjectID     uint64          `gorm:"not null;uniqueIndex:idx_project_participant" json:"project_id"`
	ParticipantID uint64          `gorm:"not null;uniqueIndex:idx_project_participant" json:"participant_id"`
	Role          ParticipantRole `gorm:"type:varchar(64);not null" json:"role"`
	CreatedAt     time.Time       `json:"created_at"`

	// Relations
	Project     Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Participant User    `gorm:"foreignKey:ParticipantID" json:"participant,omitempty"`
}
