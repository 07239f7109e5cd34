package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gmakarov/gantt-chart-api/internal/database"
	"github.com/gmakarov/gantt-chart-api/internal/dto"
	apierrors "github.com/gmakarov/gantt-chart-api/internal/errors"
	"github.com/gmakarov/gantt-chart-api/internal/metrics"
	"github.com/gmakarov/gantt-chart-api/internal/middleware"
	"github.com/gmakarov/gantt-chart-api/internal/models"
	"github.com/gmakarov/gantt-chart-api/internal/permissions"
	"github.com/gmakarov/gantt-chart-api/internal/services"
	"github.com/gmakarov/gantt-chart-api/internal/utils"
)

// ProjectHandler coordinates project lifecycle and chart projection handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
	eventService   *services.EventService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService, eventService *services.EventService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		eventService:   eventService,
	}
}

// ListProjects returns the projects visible to the current user: all drafts
// plus the ones they participate in.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	participantSubQuery := database.GetDB().Model(&models.ProjectParticipant{}).
		Select("1").
		Where("project_participants.project_id = projects.id").
		Where("project_participants.participant_id = ?", userID)

	query := database.GetDB().Model(&models.Project{}).
		Where("projects.is_draft = ? OR EXISTS (?)", true, participantSubQuery)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		apierrors.InternalError(c, "Failed to count projects")
		return
	}

	var projects []models.Project
	if err := query.
		Order("projects.name ASC").
		Scopes(database.Paginate(params)).
		Find(&projects).Error; err != nil {
		apierrors.InternalError(c, "Failed to fetch projects")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectListResponse(projects, params.Page, params.Limit, total))
}

// CreateProject creates a project together with its root event.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Name                       string `json:"name" binding:"required"`
		Description                string `json:"description"`
		UpdatePercentageCompletion bool   `json:"update_percentage_completion"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Name:                       req.Name,
		Description:                req.Description,
		UpdatePercentageCompletion: req.UpdatePercentageCompletion,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// GetProject returns a project with its participants and the caller's
// permissions. The project is loaded by RequireProjectAccess.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	userID, _ := middleware.GetUserID(c)

	participants, err := h.projectService.ListParticipants(project.ID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	perms, err := userPermissions(c, userID, &project)
	if err != nil {
		apierrors.InternalError(c, "Failed to evaluate permissions")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDetailDTO(project, participants, perms))
}

// UpdateProject updates a project's own fields.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type UpdateProjectRequest struct {
		Name                       *string `json:"name"`
		Description                *string `json:"description"`
		UpdatePercentageCompletion *bool   `json:"update_percentage_completion"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.projectService.UpdateProject(project.ID, services.UpdateProjectInput{
		Name:                       req.Name,
		Description:                req.Description,
		UpdatePercentageCompletion: req.UpdatePercentageCompletion,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*updated))
}

// DeleteProject removes a project with everything it owns.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	if err := h.projectService.DeleteProject(project.ID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}

// GetProjectVersion returns the opaque version token chart clients poll to
// detect that the tree changed.
func (h *ProjectHandler) GetProjectVersion(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	version, err := h.projectService.ProjectVersion(project.ID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	metrics.VersionPolls.Inc()
	c.JSON(http.StatusOK, dto.VersionDTO{ProjectVersion: version})
}

// GetProjectStats returns the chart header aggregates of a project.
func (h *ProjectHandler) GetProjectStats(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	stats, err := h.projectService.ProjectStats(project.ID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetChartData returns the chart projection of a project's events. The
// view query parameter selects the planned or actual schedule.
func (h *ProjectHandler) GetChartData(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	view := c.DefaultQuery("view", "planned")
	if view != "planned" && view != "actual" {
		apierrors.BadRequest(c, "view must be planned or actual")
		return
	}

	events, err := h.eventService.ListEvents(project.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch events")
		return
	}

	version, err := h.projectService.ProjectVersion(project.ID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	today := h.eventService.Today()
	c.JSON(http.StatusOK, dto.ToChartDataResponse(version, events, view == "actual", today))
}

// ListParticipants lists a project's participant roles.
func (h *ProjectHandler) ListParticipants(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	participants, err := h.projectService.ListParticipants(project.ID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	participantDTOs := make([]dto.ParticipantDTO, len(participants))
	for i, participant := range participants {
		participantDTOs[i] = dto.ToParticipantDTO(participant)
	}

	c.JSON(http.StatusOK, gin.H{
		"participants": participantDTOs,
	})
}

// AddParticipant adds a participant role to a project.
func (h *ProjectHandler) AddParticipant(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type AddParticipantRequest struct {
		ParticipantID uint64                 `json:"participant_id" binding:"required"`
		Role          models.ParticipantRole `json:"role" binding:"required"`
	}

	var req AddParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	participant, err := h.projectService.AddParticipant(services.AddParticipantInput{
		ProjectID:     project.ID,
		ParticipantID: req.ParticipantID,
		Role:          req.Role,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToParticipantDTO(*participant))
}

// RemoveParticipant removes a participant role from a project.
func (h *ProjectHandler) RemoveParticipant(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	participantIDStr := c.Param("participant_id")
	participantID, err := strconv.ParseUint(participantIDStr, 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid participant ID")
		return
	}

	if err := h.projectService.RemoveParticipant(project.ID, participantID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Participant removed successfully",
	})
}

func userPermissions(c *gin.Context, userID uint64, project *models.Project) (dto.ProjectPermissionsDTO, error) {
	db := database.GetDB()

	canWatch, err := permissions.CanWatch(db, userID, project)
	if err != nil {
		return dto.ProjectPermissionsDTO{}, err
	}
	canWork, err := permissions.CanWork(db, userID, project)
	if err != nil {
		return dto.ProjectPermissionsDTO{}, err
	}
	canChange, err := permissions.CanChange(db, userID, project)
	if err != nil {
		return dto.ProjectPermissionsDTO{}, err
	}
	canDelete, err := permissions.CanDelete(db, userID, project)
	if err != nil {
		return dto.ProjectPermissionsDTO{}, err
	}

	return dto.ProjectPermissionsDTO{
		CanWatch:  canWatch,
		CanWork:   canWork,
		CanChange: canChange,
		CanDelete: canDelete,
	}, nil
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrParticipantNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrProjectNameRequired),
		errors.Is(err, services.ErrInvalidParticipantRole):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrProjectNameTaken),
		errors.Is(err, services.ErrAlreadyParticipant):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
