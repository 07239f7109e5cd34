package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/gmakarov/gantt-chart-api/internal/models"
)

// GormEventRepository is a GORM implementation of EventRepository
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &GormEventRepository{db: db}
}

// FindByID finds an event by ID with optional preloading
func (r *GormEventRepository) FindByID(id uint64, preload ...string) (*models.ChartEvent, error) {
	var event models.ChartEvent
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&event, id).Error; err != nil {
		return nil, err
	}

	return &event, nil
}

// ListByProject lists a project's events ordered by hierarchical number
func (r *GormEventRepository) ListByProject(projectID uint64) ([]models.ChartEvent, error) {
	var events []models.ChartEvent
	err := r.db.Where("project_id = ?", projectID).
		Preload("Responsible").
		Preload("PredecessorLinks").
		Order("hierarchical_number ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ListChildren lists the direct children of an event in creation order
func (r *GormEventRepository) ListChildren(parentID uint64) ([]models.ChartEvent, error) {
	var children []models.ChartEvent
	err := r.db.Where("parent_id = ?", parentID).
		Order("id ASC").
		Find(&children).Error
	if err != nil {
		return nil, err
	}
	return children, nil
}

// FindRoot finds the root event of a project, nil when absent
func (r *GormEventRepository) FindRoot(projectID uint64) (*models.ChartEvent, error) {
	var root models.ChartEvent
	err := r.db.Where("project_id = ? AND is_root = ?", projectID, true).
		First(&root).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &root, nil
}

// CountByProject counts a project's events
func (r *GormEventRepository) CountByProject(projectID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.ChartEvent{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}
