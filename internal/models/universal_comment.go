package models

import (
	"time"
)

// EntityKind tags the type of entity a comment is attached to. Kinds are
// registered explicitly at startup; see services.CommentService.
type EntityKind string

const (
	EntityKindProject EntityKind = "project"
	EntityKindEvent   EntityKind = "event"
)

// UniversalComment is a free-text comment attached to an arbitrary entity by
// kind tag and identifier.
type UniversalComment struct {
	ID         uint64     `gorm:"primarykey" json:"id"`
	EntityKind EntityKind `gorm:"type:varchar(64);not null;index:idx_comment_target" json:"entity_kind"`
	ObjectID   string     `gorm:"type:varchar(64);not null;index:idx_comment_target" json:"object_id"`
	Comment    string     `gorm:"type:text;not null" json:"comment"`
	AuthorID   uint64     `gorm:"not null" json:"author_id"`
	CreatedAt  time.Time  `json:"created_at"`

	// Relations
	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
