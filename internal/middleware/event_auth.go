package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gmakarov/gantt-chart-api/internal/constants"
	"github.com/gmakarov/gantt-chart-api/internal/database"
	apierrors "github.com/gmakarov/gantt-chart-api/internal/errors"
	"github.com/gmakarov/gantt-chart-api/internal/models"
	"github.com/gmakarov/gantt-chart-api/internal/permissions"
)

// RequireEventAccess checks that the user may view the event named by the
// :id URL parameter. Visibility follows the owning project. The event and
// its project are stored in the context.
func RequireEventAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventIDStr := c.Param("id")
		eventID, err := strconv.ParseUint(eventIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid event ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var event models.ChartEvent
		if err := database.GetDB().
			Preload("Responsible").
			Preload("FollowerLinks").
			First(&event, eventID).Error; err != nil {
			apierrors.NotFound(c, "Event not found")
			c.Abort()
			return
		}

		var project models.Project
		if err := database.GetDB().First(&project, event.ProjectID).Error; err != nil {
			apierrors.NotFound(c, "Event not found")
			c.Abort()
			return
		}

		allowed, err := permissions.CanWatch(database.GetDB(), userID, &project)
		if err != nil {
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}
		if !allowed {
			// Return 404 instead of 403 to avoid leaking event existence
			apierrors.NotFound(c, "Event not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyEvent, event)
		c.Set(constants.ContextKeyProject, project)
		c.Next()
	}
}

// RequireEventWork checks that the user may edit the loaded event's chart.
// Must run after RequireEventAccess.
func RequireEventWork() gin.HandlerFunc {
	return func(c *gin.Context) {
		project, ok := GetProject(c)
		if !ok {
			apierrors.Forbidden(c, "Event access required")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		allowed, err := permissions.CanWork(database.GetDB(), userID, &project)
		if err != nil {
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}
		if !allowed {
			apierrors.Forbidden(c, "Chart editing requires a working role")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetEvent retrieves the event loaded by RequireEventAccess
func GetEvent(c *gin.Context) (models.ChartEvent, bool) {
	value, exists := c.Get(constants.ContextKeyEvent)
	if !exists {
		return models.ChartEvent{}, false
	}
	event, ok := value.(models.ChartEvent)
	return event, ok
}
