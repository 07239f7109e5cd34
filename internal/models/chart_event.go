package models

import (
	"fmt"
	"time"
)

// ChartEvent is a single node of a project's Gantt tree. Exactly one event
// per project is the root (no parent); every other event hangs off a parent
// within the same project.
type ChartEvent struct {
	ID        uint64  `gorm:"primarykey" json:"id"`
	ProjectID uint64  `gorm:"not null;uniqueIndex:idx_event_number" json:"project_id"`
	ParentID  *uint64 `gorm:"index" json:"parent_id"`
	// Dotted tree position ("1", "1.2", "1.2.3"). Assigned once on first
	// save and never recomputed afterwards.
	HierarchicalNumber string `gorm:"type:varchar(2048);not null;uniqueIndex:idx_event_number" json:"hierarchical_number"`
	Name               string `gorm:"type:varchar(512);not null" json:"name"`
	// Planned dates: planned_end is always start + duration - 1 day.
	PlannedStart    time.Time `gorm:"type:date;not null" json:"planned_start"`
	PlannedDuration int       `gorm:"not null;default:0" json:"planned_duration"`
	PlannedEnd      time.Time `gorm:"type:date;not null" json:"planned_end"`
	// Actual dates are derived from percentage_completion and are all null
	// exactly when the percentage is 0.
	ActualStart          *time.Time `gorm:"type:date" json:"actual_start"`
	ActualDuration       *int       `json:"actual_duration"`
	ActualEnd            *time.Time `gorm:"type:date" json:"actual_end"`
	PercentageCompletion int        `gorm:"not null;default:0" json:"percentage_completion"`
	IsRoot               bool       `gorm:"not null;default:false" json:"is_root"`
	ResponsibleID        *uint64    `json:"responsible_id"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	// Relations
	Project     Project      `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Parent      *ChartEvent  `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"parent,omitempty"`
	Children    []ChartEvent `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Responsible *User        `gorm:"foreignKey:ResponsibleID;constraint:OnDelete:RESTRICT" json:"responsible,omitempty"`

	FollowerLinks    []EventLink `gorm:"foreignKey:PredecessorID;constraint:OnDelete:CASCADE" json:"follower_links,omitempty"`
	PredecessorLinks []EventLink `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"predecessor_links,omitempty"`
}

func (e *ChartEvent) String() string {
	return fmt.Sprintf("%s | %s", e.HierarchicalNumber, e.Name)
}
