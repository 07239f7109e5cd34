package permissions

import (
	"gorm.io/gorm"

	"github.com/gmakarov/gantt-chart-api/internal/models"
)

// Permission predicates over a user's participant roles in a project. The
// hierarchy engine never evaluates these itself; handlers gate mutations
// with them before calling into services.

// CanWatch reports whether the user may view the project. Draft projects
// are visible to everyone.
func CanWatch(db *gorm.DB, userID uint64, project *models.Project) (bool, error) {
	if project.IsDraft {
		return true, nil
	}
	return hasRole(db, userID, project.ID, nil)
}

// CanWork reports whether the user may edit the project's chart: any
// participant role except observer. Draft projects are open to everyone.
func CanWork(db *gorm.DB, userID uint64, project *models.Project) (bool, error) {
	if project.IsDraft {
		return true, nil
	}
	return hasRoleExcept(db, userID, project.ID, models.RoleObserver)
}

// CanChange reports whether the user may change the project itself. Draft
// projects are open to everyone.
func CanChange(db *gorm.DB, userID uint64, project *models.Project) (bool, error) {
	if project.IsDraft {
		return true, nil
	}
	return hasRole(db, userID, project.ID, []models.ParticipantRole{
		models.RoleSupervisor,
		models.RoleAdministrator,
	})
}

// CanDelete reports whether the user may delete the project. Draft projects
// are open to everyone; otherwise only the supervisor may delete.
func CanDelete(db *gorm.DB, userID uint64, project *models.Project) (bool, error) {
	if project.IsDraft {
		return true, nil
	}
	return hasRole(db, userID, project.ID, []models.ParticipantRole{models.RoleSupervisor})
}

// hasRole checks participant membership, optionally restricted to a role
// set. A nil role set matches any role.
func hasRole(db *gorm.DB, userID, projectID uint64, roles []models.ParticipantRole) (bool, error) {
	query := db.Model(&models.ProjectParticipant{}).
		Where("project_id = ? AND participant_id = ?", projectID, userID)
	if roles != nil {
		query = query.Where("role IN ?", roles)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func hasRoleExcept(db *gorm.DB, userID, projectID uint64, excluded models.ParticipantRole) (bool, error) {
	var count int64
	err := db.Model(&models.ProjectParticipant{}).
		Where("project_id = ? AND participant_id = ? AND role <> ?", projectID, userID, excluded).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
