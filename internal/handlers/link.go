package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gmakarov/gantt-chart-api/internal/dto"
	apierrors "github.com/gmakarov/gantt-chart-api/internal/errors"
	"github.com/gmakarov/gantt-chart-api/internal/middleware"
	"github.com/gmakarov/gantt-chart-api/internal/services"
)

// LinkHandler coordinates dependency link HTTP handlers. Links hang off
// their predecessor event, so every route is scoped by RequireEventAccess.
type LinkHandler struct {
	linkService *services.LinkService
}

// NewLinkHandler creates a new LinkHandler.
func NewLinkHandler(linkService *services.LinkService) *LinkHandler {
	return &LinkHandler{
		linkService: linkService,
	}
}

// ListLinks returns the outgoing links of the loaded event.
func (h *LinkHandler) ListLinks(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	links, err := h.linkService.ListLinks(event.ID)
	if err != nil {
		respondLinkError(c, err)
		return
	}

	linkDTOs := make([]dto.EventLinkDTO, len(links))
	for i, link := range links {
		linkDTOs[i] = dto.ToEventLinkDTO(link)
	}

	c.JSON(http.StatusOK, gin.H{
		"links": linkDTOs,
	})
}

// CreateLink links a follower to the loaded event.
func (h *LinkHandler) CreateLink(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	type CreateLinkRequest struct {
		FollowerID uint64 `json:"follower_id" binding:"required"`
	}

	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	link, err := h.linkService.CreateLink(event.ID, req.FollowerID)
	if err != nil {
		respondLinkError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEventLinkDTO(*link))
}

// UpdateLink repoints one of the loaded event's links to another follower.
func (h *LinkHandler) UpdateLink(c *gin.Context) {
	linkID, ok := linkParam(c)
	if !ok {
		return
	}

	type UpdateLinkRequest struct {
		FollowerID uint64 `json:"follower_id" binding:"required"`
	}

	var req UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	link, err := h.linkService.UpdateLink(linkID, req.FollowerID)
	if err != nil {
		respondLinkError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventLinkDTO(*link))
}

// DeleteLink removes a link.
func (h *LinkHandler) DeleteLink(c *gin.Context) {
	linkID, ok := linkParam(c)
	if !ok {
		return
	}

	if err := h.linkService.DeleteLink(linkID); err != nil {
		respondLinkError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Link deleted successfully",
	})
}

func linkParam(c *gin.Context) (uint64, bool) {
	linkID, err := strconv.ParseUint(c.Param("link_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid link ID")
		return 0, false
	}
	return linkID, true
}

func respondLinkError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrLinkNotFound),
		errors.Is(err, services.ErrEventNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrLinkSelfReference),
		errors.Is(err, services.ErrLinkProjectMismatch):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrLinkExists):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
