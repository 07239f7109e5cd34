package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/gmakarov/gantt-chart-api/internal/models"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// FindByName finds a project by its unique name
func (r *GormProjectRepository) FindByName(name string) (*models.Project, error) {
	var project models.Project
	if err := r.db.Where("name = ?", name).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListForUser lists projects the user participates in plus all drafts
func (r *GormProjectRepository) ListForUser(userID uint64) ([]models.Project, error) {
	var projects []models.Project

	participantSubQuery := r.db.Model(&models.ProjectParticipant{}).
		Select("1").
		Where("project_participants.project_id = projects.id").
		Where("project_participants.participant_id = ?", userID)

	err := r.db.Model(&models.Project{}).
		Where("projects.is_draft = ? OR EXISTS (?)", true, participantSubQuery).
		Order("projects.name ASC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}

	return projects, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// UpdateDraftFlag persists only the draft flag
func (r *GormProjectRepository) UpdateDraftFlag(id uint64, isDraft bool) error {
	return r.db.Model(&models.Project{}).
		Where("id = ?", id).
		Update("is_draft", isDraft).Error
}

// Delete removes a project with its events, links and participant roles
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var eventIDs []uint64
		if err := tx.Model(&models.ChartEvent{}).
			Where("project_id = ?", id).
			Pluck("id", &eventIDs).Error; err != nil {
			return err
		}

		if len(eventIDs) > 0 {
			if err := tx.Where("predecessor_id IN ? OR follower_id IN ?", eventIDs, eventIDs).
				Delete(&models.EventLink{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", id).Delete(&models.ChartEvent{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectParticipant{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// Version reads the current opaque version token
func (r *GormProjectRepository) Version(id uint64) (string, error) {
	var version string
	err := r.db.Model(&models.Project{}).
		Where("id = ?", id).
		Pluck("project_version", &version).Error
	if err != nil {
		return "", err
	}
	if version == "" {
		return "", gorm.ErrRecordNotFound
	}
	return version, nil
}

// AddParticipant adds a participant role to a project
func (r *GormProjectRepository) AddParticipant(participant *models.ProjectParticipant) error {
	return r.db.Create(participant).Error
}

// RemoveParticipant removes a participant role
func (r *GormProjectRepository) RemoveParticipant(id uint64) error {
	return r.db.Delete(&models.ProjectParticipant{}, id).Error
}

// FindParticipant finds a participant row by project and user
func (r *GormProjectRepository) FindParticipant(projectID, userID uint64) (*models.ProjectParticipant, error) {
	var participant models.ProjectParticipant
	err := r.db.Where("project_id = ? AND participant_id = ?", projectID, userID).
		Preload("Participant").
		First(&participant).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

// ListParticipants lists all participant roles of a project
func (r *GormProjectRepository) ListParticipants(projectID uint64) ([]models.ProjectParticipant, error) {
	var participants []models.ProjectParticipant
	err := r.db.Where("project_id = ?", projectID).
		Preload("Participant").
		Order("id ASC").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// HasParticipantWithRole reports whether the project has any participant
// holding one of the given roles
func (r *GormProjectRepository) HasParticipantWithRole(projectID uint64, roles ...models.ParticipantRole) (bool, error) {
	if len(roles) == 0 {
		return false, errors.New("at least one role is required")
	}

	var count int64
	err := r.db.Model(&models.ProjectParticipant{}).
		Where("project_id = ? AND role IN ?", projectID, roles).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
