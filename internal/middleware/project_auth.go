package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gmakarov/gantt-chart-api/internal/constants"
	"github.com/gmakarov/gantt-chart-api/internal/database"
	apierrors "github.com/gmakarov/gantt-chart-api/internal/errors"
	"github.com/gmakarov/gantt-chart-api/internal/models"
	"github.com/gmakarov/gantt-chart-api/internal/permissions"
)

// RequireProjectAccess checks that the user may view the project named by
// the :id URL parameter. The loaded project is stored in the context.
func RequireProjectAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectIDStr := c.Param("id")
		projectID, err := strconv.ParseUint(projectIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var project models.Project
		if err := database.GetDB().First(&project, projectID).Error; err != nil {
			apierrors.NotFound(c, "Project not found")
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
			// Return 404 instead of 403 to avoid leaking project existence
			apierrors.NotFound(c, "Project not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyProject, project)
		c.Next()
	}
}

// RequireProjectWork checks that the user may edit the project's chart.
// Must run after RequireProjectAccess.
func RequireProjectWork() gin.HandlerFunc {
	return requireProjectPermission(permissions.CanWork, "Chart editing requires a working role")
}

// RequireProjectChange checks that the user may change the project itself.
// Must run after RequireProjectAccess.
func RequireProjectChange() gin.HandlerFunc {
	return requireProjectPermission(permissions.CanChange, "Only supervisors and administrators can change the project")
}

// RequireProjectDelete checks that the user may delete the project.
// Must run after RequireProjectAccess.
func RequireProjectDelete() gin.HandlerFunc {
	return requireProjectPermission(permissions.CanDelete, "Only the supervisor can delete the project")
}

type permissionCheck func(db *gorm.DB, userID uint64, project *models.Project) (bool, error)

func requireProjectPermission(check permissionCheck, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		project, ok := GetProject(c)
		if !ok {
			apierrors.Forbidden(c, "Project access required")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		allowed, err := check(database.GetDB(), userID, &project)
		if err != nil {
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}
		if !allowed {
			apierrors.Forbidden(c, message)
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetProject retrieves the project loaded by RequireProjectAccess
func GetProject(c *gin.Context) (models.Project, bool) {
	value, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return models.Project{}, false
	}
	project, ok := value.(models.Project)
	return project, ok
}
