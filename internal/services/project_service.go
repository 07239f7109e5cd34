package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gmakarov/gantt-chart-api/internal/chart"
	"github.com/gmakarov/gantt-chart-api/internal/models"
	"github.com/gmakarov/gantt-chart-api/internal/repository"
)

var (
	ErrProjectNotFound        = errors.New("project not found")
	ErrProjectNameRequired    = errors.New("project name cannot be empty")
	ErrProjectNameTaken       = errors.New("a project with this name already exists")
	ErrParticipantNotFound    = errors.New("project participant not found")
	ErrAlreadyParticipant     = errors.New("user is already a participant of this project")
	ErrInvalidParticipantRole = errors.New("unknown participant role")
)

var participantRoles = map[models.ParticipantRole]struct{}{
	models.RoleSupervisor:    {},
	models.RoleAdministrator: {},
	models.RoleSpecialist:    {},
	models.RoleObserver:      {},
}

// ProjectService provides business logic for project lifecycle operations.
// It owns the transitions the hierarchy engine leaves to its callers:
// auto-creating the root event and recomputing the draft flag whenever the
// participant role set changes.
type ProjectService struct {
	db          *gorm.DB
	projectRepo repository.ProjectRepository
	eventRepo   repository.EventRepository
	clock       chart.Clock
}

// NewProjectService creates a new ProjectService.
func NewProjectService(db *gorm.DB, projectRepo repository.ProjectRepository, eventRepo repository.EventRepository) *ProjectService {
	return &ProjectService{
		db:          db,
		projectRepo: projectRepo,
		eventRepo:   eventRepo,
		clock:       chart.SystemClock(),
	}
}

// WithClock overrides the clock, for deterministic tests.
func (s *ProjectService) WithClock(clock chart.Clock) *ProjectService {
	s.clock = clock
	return s
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name                       string
	Description                string
	UpdatePercentageCompletion bool
}

// CreateProject creates a project together with its root event. A fresh
// project has no participants, so it starts as a draft.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	if _, err := s.projectRepo.FindByName(name); err == nil {
		return nil, ErrProjectNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check project name: %w", err)
	}

	project := &models.Project{
		Name:                       name,
		Description:                input.Description,
		IsDraft:                    true,
		ProjectVersion:             uuid.NewString(),
		UpdatePercentageCompletion: input.UpdatePercentageCompletion,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	if _, err := s.EnsureRootEvent(project); err != nil {
		return nil, err
	}

	return project, nil
}

// GetProject returns a project by ID.
func (s *ProjectService) GetProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// ListProjectsForUser returns the projects visible to a user: all drafts
// plus the ones they participate in.
func (s *ProjectService) ListProjectsForUser(userID uint64) ([]models.Project, error) {
	projects, err := s.projectRepo.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// UpdateProjectInput represents parameters to update a project.
type UpdateProjectInput struct {
	Name                       *string
	Description                *string
	UpdatePercentageCompletion *bool
}

// UpdateProject updates a project's own fields, re-evaluates its draft
// state and heals a missing root event.
func (s *ProjectService) UpdateProject(projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.GetProject(projectID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrProjectNameRequired
		}
		if existing, err := s.projectRepo.FindByName(name); err == nil && existing.ID != projectID {
			return nil, ErrProjectNameTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check project name: %w", err)
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.UpdatePercentageCompletion != nil {
		project.UpdatePercentageCompletion = *input.UpdatePercentageCompletion
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	if err := s.RecomputeDraftFlag(project); err != nil {
		return nil, err
	}
	if _, err := s.EnsureRootEvent(project); err != nil {
		return nil, err
	}

	return project, nil
}

// DeleteProject removes a project with everything it owns.
func (s *ProjectService) DeleteProject(projectID uint64) error {
	if _, err := s.GetProject(projectID); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// ProjectVersion reads the project's current version token for the chart
// staleness poll.
func (s *ProjectService) ProjectVersion(projectID uint64) (string, error) {
	version, err := s.projectRepo.Version(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrProjectNotFound
		}
		return "", fmt.Errorf("failed to read project version: %w", err)
	}
	return version, nil
}

// ProjectStats aggregates the chart header figures of a project.
func (s *ProjectService) ProjectStats(projectID uint64) (*chart.ProjectStats, error) {
	if _, err := s.GetProject(projectID); err != nil {
		return nil, err
	}
	return chart.ComputeProjectStats(s.db, projectID, s.clock)
}

// AddParticipantInput represents parameters to add a participant role.
type AddParticipantInput struct {
	ProjectID     uint64
	ParticipantID uint64
	Role          models.ParticipantRole
}

// AddParticipant adds a participant role and re-evaluates the draft state.
func (s *ProjectService) AddParticipant(input AddParticipantInput) (*models.ProjectParticipant, error) {
	if _, ok := participantRoles[input.Role]; !ok {
		return nil, ErrInvalidParticipantRole
	}

	project, err := s.GetProject(input.ProjectID)
	if err != nil {
		return nil, err
	}

	if _, err := s.projectRepo.FindParticipant(input.ProjectID, input.ParticipantID); err == nil {
		return nil, ErrAlreadyParticipant
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check participant: %w", err)
	}

	participant := &models.ProjectParticipant{
		ProjectID:     input.ProjectID,
		ParticipantID: input.ParticipantID,
		Role:          input.Role,
	}

	if err := s.projectRepo.AddParticipant(participant); err != nil {
		return nil, fmt.Errorf("failed to add participant: %w", err)
	}

	if err := s.RecomputeDraftFlag(project); err != nil {
		return nil, err
	}

	// Reload to pick up the participant's user for the response.
	saved, err := s.projectRepo.FindParticipant(input.ProjectID, input.ParticipantID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload participant: %w", err)
	}
	return saved, nil
}

// RemoveParticipant removes a participant role and re-evaluates the draft
// state.
func (s *ProjectService) RemoveParticipant(projectID, participantRowID uint64) error {
	project, err := s.GetProject(projectID)
	if err != nil {
		return err
	}

	participants, err := s.projectRepo.ListParticipants(projectID)
	if err != nil {
		return fmt.Errorf("failed to list participants: %w", err)
	}

	found := false
	for _, p := range participants {
		if p.ID == participantRowID {
			found = true
			break
		}
	}
	if !found {
		return ErrParticipantNotFound
	}

	if err := s.projectRepo.RemoveParticipant(participantRowID); err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}

	return s.RecomputeDraftFlag(project)
}

// ListParticipants lists a project's participant roles.
func (s *ProjectService) ListParticipants(projectID uint64) ([]models.ProjectParticipant, error) {
	if _, err := s.GetProject(projectID); err != nil {
		return nil, err
	}
	participants, err := s.projectRepo.ListParticipants(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return participants, nil
}

// RecomputeDraftFlag derives the draft state from the participant role set:
// a project without a supervisor or administrator is a draft.
func (s *ProjectService) RecomputeDraftFlag(project *models.Project) error {
	hasLead, err := s.projectRepo.HasParticipantWithRole(project.ID,
		models.RoleSupervisor, models.RoleAdministrator)
	if err != nil {
		return fmt.Errorf("failed to check participant roles: %w", err)
	}

	isDraft := !hasLead
	if isDraft == project.IsDraft {
		return nil
	}

	project.IsDraft = isDraft
	if err := s.projectRepo.UpdateDraftFlag(project.ID, isDraft); err != nil {
		return fmt.Errorf("failed to update draft flag: %w", err)
	}

	return nil
}

// EnsureRootEvent returns the project's root event, creating it when
// missing: a one day event starting today, named after the project, with
// the last supervisor as responsible when one exists.
func (s *ProjectService) EnsureRootEvent(project *models.Project) (*models.ChartEvent, error) {
	root, err := s.eventRepo.FindRoot(project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up root event: %w", err)
	}
	if root != nil {
		return root, nil
	}

	today := s.clock.Today()
	root = &models.ChartEvent{
		ProjectID:          project.ID,
		HierarchicalNumber: "1",
		Name:               project.Name,
		PlannedStart:       today,
		PlannedDuration:    1,
		PlannedEnd:         today,
		IsRoot:             true,
	}

	participants, err := s.projectRepo.ListParticipants(project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	for i := len(participants) - 1; i >= 0; i-- {
		if participants[i].Role == models.RoleSupervisor {
			responsibleID := participants[i].ParticipantID
			root.ResponsibleID = &responsibleID
			break
		}
	}

	if err := s.db.Create(root).Error; err != nil {
		return nil, fmt.Errorf("failed to create root event: %w", err)
	}

	return root, nil
}
