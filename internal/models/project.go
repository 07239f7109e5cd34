package models

import (
	"time"
)

type Project struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	Name        string `gorm:"type:varchar(512);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	// A project without a supervisor or administrator stays in draft state
	// and is visible to every user.
	IsDraft bool `gorm:"not null;default:true" json:"is_draft"`
	// Opaque token rewritten on every event mutation. Chart clients poll it
	// to detect that the tree changed without re-reading every event row.
	ProjectVersion string `gorm:"type:varchar(64);uniqueIndex;not null" json:"project_version"`
	// When enabled, saving or deleting an event recomputes the completion
	// percentage of its ancestor chain.
	UpdatePercentageCompletion bool      `gorm:"not null;default:false" json:"update_percentage_completion"`
	CreatedAt                  time.Time `json:"created_at"`
	UpdatedAt                  time.Time `json:"updated_at"`

	// Relations
	Participants []ProjectParticipant `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"participants,omitempty"`
	ChartEvents  []ChartEvent         `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"chart_events,omitempty"`
}
