package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gmakarov/gantt-chart-api/internal/chart"
	"github.com/gmakarov/gantt-chart-api/internal/database"
	"github.com/gmakarov/gantt-chart-api/internal/dto"
	apierrors "github.com/gmakarov/gantt-chart-api/internal/errors"
	"github.com/gmakarov/gantt-chart-api/internal/middleware"
	"github.com/gmakarov/gantt-chart-api/internal/models"
	"github.com/gmakarov/gantt-chart-api/internal/services"
	"github.com/gmakarov/gantt-chart-api/internal/utils"
)

// EventHandler coordinates chart event HTTP handlers.
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// ListEvents returns a project's events ordered by hierarchical number.
// The project is loaded by RequireProjectAccess.
func (h *EventHandler) ListEvents(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	params := utils.GetPaginationParams(c)

	query := database.GetDB().Model(&models.ChartEvent{}).
		Where("project_id = ?", project.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		apierrors.InternalError(c, "Failed to count events")
		return
	}

	var events []models.ChartEvent
	if err := database.GetDB().
		Where("project_id = ?", project.ID).
		Preload("Responsible").
		Preload("FollowerLinks").
		Order("hierarchical_number ASC").
		Scopes(database.Paginate(params)).
		Find(&events).Error; err != nil {
		apierrors.InternalError(c, "Failed to fetch events")
		return
	}

	c.JSON(http.StatusOK, dto.ToEventListResponse(events, params.Page, params.Limit, total))
}

type eventDateFields struct {
	PlannedStart         *string `json:"planned_start"`
	PlannedDuration      *int    `json:"planned_duration"`
	PercentageCompletion *int    `json:"percentage_completion"`
}

func parsePlannedStart(value string) (time.Time, bool) {
	parsed, err := time.Parse(chart.DateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// CreateEvent creates an event under a parent in the loaded project.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type CreateEventRequest struct {
		Name          string  `json:"name" binding:"required"`
		ParentID      *uint64 `json:"parent_id"`
		ResponsibleID *uint64 `json:"responsible_id"`
		eventDateFields
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateEventInput{
		ProjectID:     project.ID,
		ParentID:      req.ParentID,
		Name:          req.Name,
		ResponsibleID: req.ResponsibleID,
	}
	if req.PlannedStart == nil {
		apierrors.BadRequest(c, "planned_start is required")
		return
	}
	start, okStart := parsePlannedStart(*req.PlannedStart)
	if !okStart {
		apierrors.BadRequest(c, "planned_start must be formatted as YYYY-MM-DD")
		return
	}
	input.PlannedStart = start
	if req.PlannedDuration != nil {
		input.PlannedDuration = *req.PlannedDuration
	}
	if req.PercentageCompletion != nil {
		if *req.PercentageCompletion < 0 || *req.PercentageCompletion > 100 {
			apierrors.BadRequest(c, "percentage_completion must be between 0 and 100")
			return
		}
		input.PercentageCompletion = *req.PercentageCompletion
	}

	event, err := h.eventService.CreateEvent(input)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEventDTO(*event))
}

// GetEvent returns the event loaded by RequireEventAccess.
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(event))
}

// UpdateEvent applies field changes to an event and runs the validate/save
// cycle of the hierarchy engine.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	type UpdateEventRequest struct {
		Name          *string `json:"name"`
		ParentID      *uint64 `json:"parent_id"`
		ResponsibleID *uint64 `json:"responsible_id"`
		eventDateFields
	}

	// Parse raw JSON alongside the struct to tell "responsible_id": null
	// apart from an absent key.
	var raw map[string]any
	if err := c.ShouldBindBodyWithJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindBodyWithJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateEventInput{
		Name:          req.Name,
		ParentID:      req.ParentID,
		ResponsibleID: req.ResponsibleID,
	}
	if value, present := raw["responsible_id"]; present && value == nil {
		input.ClearResponsible = true
	}
	if req.PlannedStart != nil {
		start, ok := parsePlannedStart(*req.PlannedStart)
		if !ok {
			apierrors.BadRequest(c, "planned_start must be formatted as YYYY-MM-DD")
			return
		}
		input.PlannedStart = &start
	}
	if req.PlannedDuration != nil {
		input.PlannedDuration = req.PlannedDuration
	}
	if req.PercentageCompletion != nil {
		if *req.PercentageCompletion < 0 || *req.PercentageCompletion > 100 {
			apierrors.BadRequest(c, "percentage_completion must be between 0 and 100")
			return
		}
		input.PercentageCompletion = req.PercentageCompletion
	}

	updated, err := h.eventService.UpdateEvent(event.ID, input)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(*updated))
}

// DeleteEvent removes a non-root event together with its descendants.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	if err := h.eventService.DeleteEvent(event.ID); err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event deleted successfully",
	})
}

func respondEventError(c *gin.Context, err error) {
	var (
		missingRoot  *chart.MissingRootError
		parentReq    *chart.ParentRequiredError
		mismatch     *chart.ProjectMismatchError
		endMissing   *chart.PlannedEndMissingError
		dateRange    *chart.InvalidDateRangeError
		notValidated *chart.NotValidatedError
	)

	switch {
	case errors.Is(err, services.ErrEventNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrEventNameRequired),
		errors.Is(err, services.ErrCannotDeleteRoot):
		apierrors.BadRequest(c, err.Error())
	case errors.As(err, &missingRoot),
		errors.As(err, &parentReq),
		errors.As(err, &mismatch),
		errors.As(err, &endMissing),
		errors.As(err, &dateRange),
		errors.As(err, &notValidated):
		apierrors.ValidationFailed(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
