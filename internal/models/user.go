package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	ProjectRoles      []ProjectParticipant `gorm:"foreignKey:ParticipantID" json:"-"`
	ResponsibleEvents []ChartEvent         `gorm:"foreignKey:ResponsibleID" json:"-"`
	Comments          []UniversalComment   `gorm:"foreignKey:AuthorID" json:"-"`
}
