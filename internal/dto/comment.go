package dto

import (
	"time"

	"github.com/gmakarov/gantt-chart-api/internal/models"
)

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID         uint64            `json:"id"`
	EntityKind models.EntityKind `json:"entity_kind"`
	ObjectID   string            `json:"object_id"`
	Comment    string            `json:"comment"`
	Author     *UserDTO          `json:"author,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// ToCommentDTO converts a UniversalComment model to CommentDTO
func ToCommentDTO(comment models.UniversalComment) CommentDTO {
	dto := CommentDTO{
		ID:         comment.ID,
		EntityKind: comment.EntityKind,
		ObjectID:   comment.ObjectID,
		Comment:    comment.Comment,
		CreatedAt:  comment.CreatedAt,
	}

	if comment.Author.ID != 0 {
		author := ToUserDTO(comment.Author)
		dto.Author = &author
	}

	return dto
}

// ToCommentDTOs converts a slice of comments to DTOs
func ToCommentDTOs(comments []models.UniversalComment) []CommentDTO {
	items := make([]CommentDTO, len(comments))
	for i, comment := range comments {
		items[i] = ToCommentDTO(comment)
	}
	return items
}
