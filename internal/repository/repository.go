package repository

import (
	"github.com/gmakarov/gantt-chart-api/internal/models"
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// FindByName finds a project by its unique name
	FindByName(name string) (*models.Project, error)

	// ListForUser lists projects the user participates in plus all drafts
	ListForUser(userID uint64) ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// UpdateDraftFlag persists only the draft flag
	UpdateDraftFlag(id uint64, isDraft bool) error

	// Delete removes a project and all owned rows
	Delete(id uint64) error

	// Version reads the current opaque version token
	Version(id uint64) (string, error)

	// AddParticipant adds a participant role to a project
	AddParticipant(participant *models.ProjectParticipant) error

	// RemoveParticipant removes a participant role
	RemoveParticipant(id uint64) error

	// FindParticipant finds a participant row by project and user
	FindParticipant(projectID, userID uint64) (*models.ProjectParticipant, error)

	// ListParticipants lists all participant roles of a project
	ListParticipants(projectID uint64) ([]models.ProjectParticipant, error)

	// HasParticipantWithRole reports whether the project has any participant
	// holding one of the given roles
	HasParticipantWithRole(projectID uint64, roles ...models.ParticipantRole) (bool, error)
}

// EventRepository defines the interface for chart event data access
type EventRepository interface {
	// FindByID finds an event by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.ChartEvent, error)

	// ListByProject lists a project's events ordered by hierarchical number
	ListByProject(projectID uint64) ([]models.ChartEvent, error)

	// ListChildren lists the direct children of an event in creation order
	ListChildren(parentID uint64) ([]models.ChartEvent, error)

	// FindRoot finds the root event of a project, nil when absent
	FindRoot(projectID uint64) (*models.ChartEvent, error)

	// CountByProject counts a project's events
	CountByProject(projectID uint64) (int64, error)
}

// LinkRepository defines the interface for event link data access
type LinkRepository interface {
	// Create creates a new link
	Create(link *models.EventLink) error

	// FindByID finds a link by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.EventLink, error)

	// FindByPair finds a link by its (predecessor, follower) pair
	FindByPair(predecessorID, followerID uint64) (*models.EventLink, error)

	// ListByPredecessor lists outgoing links of an event
	ListByPredecessor(predecessorID uint64) ([]models.EventLink, error)

	// Update updates a link
	Update(link *models.EventLink) error

	// Delete removes a link
	Delete(id uint64) error
}

// CommentRepository defines the interface for universal comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.UniversalComment) error

	// FindByID finds a comment by ID
	FindByID(id uint64) (*models.UniversalComment, error)

	// ListByTarget lists comments attached to one entity, newest first
	ListByTarget(kind models.EntityKind, objectID string) ([]models.UniversalComment, error)

	// Delete removes a comment
	Delete(id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}
