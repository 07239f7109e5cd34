package repository

import (
	"gorm.io/gorm"

	"github.com/gmakarov/gantt-chart-api/internal/models"
)

// GormLinkRepository is a GORM implementation of LinkRepository
type GormLinkRepository struct {
	db *gorm.DB
}

// NewLinkRepository creates a new LinkRepository
func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &GormLinkRepository{db: db}
}

// Create creates a new link
func (r *GormLinkRepository) Create(link *models.EventLink) error {
	return r.db.Create(link).Error
}

// FindByID finds a link by ID with optional preloading
func (r *GormLinkRepository) FindByID(id uint64, preload ...string) (*models.EventLink, error) {
	var link models.EventLink
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&link, id).Error; err != nil {
		return nil, err
	}

	return &link, nil
}

// FindByPair finds a link by its (predecessor, follower) pair
func (r *GormLinkRepository) FindByPair(predecessorID, followerID uint64) (*models.EventLink, error) {
	var link models.EventLink
	err := r.db.Where("predecessor_id = ? AND follower_id = ?", predecessorID, followerID).
		First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// ListByPredecessor lists outgoing links of an event
func (r *GormLinkRepository) ListByPredecessor(predecessorID uint64) ([]models.EventLink, error) {
	var links []models.EventLink
	err := r.db.Where("predecessor_id = ?", predecessorID).
		Preload("Follower").
		Order("id ASC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

// Update updates a link
func (r *GormLinkRepository) Update(link *models.EventLink) error {
	return r.db.Save(link).Error
}

// Delete removes a link
func (r *GormLinkRepository) Delete(id uint64) error {
	return r.db.Delete(&models.EventLink{}, id).Error
}
