package repository

import (
	"gorm.io/gorm"

	"github.com/gmakarov/gantt-chart-api/internal/models"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment
func (r *GormCommentRepository) Create(comment *models.UniversalComment) error {
	return r.db.Create(comment).Error
}

// FindByID finds a comment by ID
func (r *GormCommentRepository) FindByID(id uint64) (*models.UniversalComment, error) {
	var comment models.UniversalComment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByTarget lists comments attached to one entity, newest first
func (r *GormCommentRepository) ListByTarget(kind models.EntityKind, objectID string) ([]models.UniversalComment, error) {
	var comments []models.UniversalComment
	err := r.db.Where("entity_kind = ? AND object_id = ?", kind, objectID).
		Preload("Author").
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Delete removes a comment
func (r *GormCommentRepository) Delete(id uint64) error {
	return r.db.Delete(&models.UniversalComment{}, id).Error
}
