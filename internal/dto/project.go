package dto

import (
	"time"

	"github.com/gmakarov/gantt-chart-api/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID                         uint64    `json:"id"`
	Name                       string    `json:"name"`
	Description                string    `json:"description"`
	IsDraft                    bool      `json:"is_draft"`
	ProjectVersion             string    `json:"project_version"`
	UpdatePercentageCompletion bool      `json:"update_percentage_completion"`
	CreatedAt                  time.Time `json:"created_at"`
	UpdatedAt                  time.Time `json:"updated_at"`
}

// ParticipantDTO represents a project participant in API responses
type ParticipantDTO struct {
	User     UserDTO                `json:"user"`
	Role     models.ParticipantRole `json:"role"`
	JoinedAt time.Time              `json:"joined_at"`
}

// ProjectPermissionsDTO reports what the requesting user may do with a project
type ProjectPermissionsDTO struct {
	CanWatch  bool `json:"can_watch"`
	CanWork   bool `json:"can_work"`
	CanChange bool `json:"can_change"`
	CanDelete bool `json:"can_delete"`
}

// ProjectDetailDTO represents detailed project information
type ProjectDetailDTO struct {
	ProjectDTO
	Participants []ParticipantDTO      `json:"participants"`
	Permissions  ProjectPermissionsDTO `json:"permissions"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects   []ProjectDTO `json:"projects"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalCount int64        `json:"total_count"`
	TotalPages int          `json:"total_pages"`
}

// VersionDTO carries the opaque project version token for polling clients
type VersionDTO struct {
	ProjectVersion string `json:"project_version"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:                         project.ID,
		Name:                       project.Name,
		Description:                project.Description,
		IsDraft:                    project.IsDraft,
		ProjectVersion:             project.ProjectVersion,
		UpdatePercentageCompletion: project.UpdatePercentageCompletion,
		CreatedAt:                  project.CreatedAt,
		UpdatedAt:                  project.UpdatedAt,
	}
}

// ToParticipantDTO converts a participant to DTO
func ToParticipantDTO(participant models.ProjectParticipant) ParticipantDTO {
	return ParticipantDTO{
		User:     ToUserDTO(participant.Participant),
		Role:     participant.Role,
		JoinedAt: participant.CreatedAt,
	}
}

// ToProjectDetailDTO converts a project with participants to detailed DTO
func ToProjectDetailDTO(project models.Project, participants []models.ProjectParticipant, permissions ProjectPermissionsDTO) ProjectDetailDTO {
	participantDTOs := make([]ParticipantDTO, len(participants))
	for i, participant := range participants {
		participantDTOs[i] = ToParticipantDTO(participant)
	}

	return ProjectDetailDTO{
		ProjectDTO:   ToProjectDTO(project),
		Participants: participantDTOs,
		Permissions:  permissions,
	}
}

// ToProjectListResponse converts a slice of projects to ProjectListResponse
func ToProjectListResponse(projects []models.Project, page, pageSize int, totalCount int64) ProjectListResponse {
	items := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		items[i] = ToProjectDTO(project)
	}

	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		totalPages++
	}

	return ProjectListResponse{
		Projects:   items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
