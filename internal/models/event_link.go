package models

import (
	"time"
)

// EventLink is a display-only dependency edge between two events of the same
// project. It is not used for any scheduling computation.
type EventLink struct {
	ID            uint64    `gorm:"primarykey" json:"id"`
	PredecessorID uint64    `gorm:"not null;uniqueIndex:idx_event_link" json:"predecessor_id"`
	FollowerID    uint64    `gorm:"not null;uniqueIndex:idx_event_link" json:"follower_id"`
	CreatedAt     time.Time `json:"created_at"`

	// Relations
	Predecessor ChartEvent `gorm:"foreignKey:PredecessorID" json:"predecessor,omitempty"`
	Follower    ChartEvent `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
}
