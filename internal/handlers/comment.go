package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gmakarov/gantt-chart-api/internal/dto"
	apierrors "github.com/gmakarov/gantt-chart-api/internal/errors"
	"github.com/gmakarov/gantt-chart-api/internal/middleware"
	"github.com/gmakarov/gantt-chart-api/internal/models"
	"github.com/gmakarov/gantt-chart-api/internal/services"
)

// CommentHandler coordinates comment HTTP handlers.
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// ListComments returns the comments attached to one entity, newest first.
// The target is named by kind and object_id query parameters.
func (h *CommentHandler) ListComments(c *gin.Context) {
	kind := models.EntityKind(c.Query("kind"))
	objectID := c.Query("object_id")
	if kind == "" || objectID == "" {
		apierrors.BadRequest(c, "kind and object_id are required")
		return
	}

	comments, err := h.commentService.ListComments(kind, objectID)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": dto.ToCommentDTOs(comments),
	})
}

// CreateComment attaches a comment to an existing entity.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateCommentRequest struct {
		Kind     models.EntityKind `json:"kind" binding:"required"`
		ObjectID string            `json:"object_id" binding:"required"`
		Comment  string            `json:"comment" binding:"required"`
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.CreateComment(services.CreateCommentInput{
		Kind:     req.Kind,
		ObjectID: req.ObjectID,
		Comment:  req.Comment,
		AuthorID: userID,
	})
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// DeleteComment removes a comment authored by the current user.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid comment ID")
		return
	}

	if err := h.commentService.DeleteComment(commentID, userID); err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted successfully",
	})
}

func respondCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrCommentTargetGone):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCommentTextRequired),
		errors.Is(err, services.ErrUnknownEntityKind):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotCommentAuthor):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
