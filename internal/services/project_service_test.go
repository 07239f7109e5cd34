package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gmakarov/gantt-chart-api/internal/models"
	"github.com/gmakarov/gantt-chart-api/internal/repository"
)

func newProjectService(t *testing.T, db *gorm.DB) *ProjectService {
	t.Helper()

	projectRepo := repository.NewProjectRepository(db)
	eventRepo := repository.NewEventRepository(db)
	return NewProjectService(db, projectRepo, eventRepo).
		WithClock(testClock{day: testDay()})
}

func TestProjectService_CreateProjectStartsAsDraftWithRoot(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newProjectService(t, db)

	project, err := svc.CreateProject(CreateProjectInput{
		Name:        "warehouse build",
		Description: "logistics hub",
	})
	require.NoError(t, err)

	require.True(t, project.IsDraft)
	require.NotEmpty(t, project.ProjectVersion)

	var root models.ChartEvent
	require.NoError(t, db.Where("project_id = ? AND is_root = ?", project.ID, true).
		First(&root).Error)
	require.Equal(t, "1", root.HierarchicalNumber)
	require.Equal(t, "warehouse build", root.Name)
	require.Equal(t, 1, root.PlannedDuration)
	require.True(t, root.PlannedStart.Equal(testDay()))
	require.True(t, root.PlannedEnd.Equal(testDay()))
}

func TestProjectService_CreateProjectRejectsDuplicateName(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newProjectService(t, db)

	_, err := svc.CreateProject(CreateProjectInput{Name: "twice"})
	require.NoError(t, err)

	_, err = svc.CreateProject(CreateProjectInput{Name: "twice"})
	require.ErrorIs(t, err, ErrProjectNameTaken)

	_, err = svc.CreateProject(CreateProjectInput{Name: "   "})
	require.ErrorIs(t, err, ErrProjectNameRequired)
}

func TestProjectService_DraftFlagFollowsParticipantRoles(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newProjectService(t, db)
	supervisor := createTestUser(t, db, "supervisor")
	observer := createTestUser(t, db, "observer")

	project, err := svc.CreateProject(CreateProjectInput{Name: "staffing"})
	require.NoError(t, err)
	require.True(t, project.IsDraft)

	// An observer alone does not lift the draft state.
	_, err = svc.AddParticipant(AddParticipantInput{
		ProjectID:     project.ID,
		ParticipantID: observer.ID,
		Role:          models.RoleObserver,
	})
	require.NoError(t, err)

	reloaded, err := svc.GetProject(project.ID)
	require.NoError(t, err)
	require.True(t, reloaded.IsDraft)

	lead, err := svc.AddParticipant(AddParticipantInput{
		ProjectID:     project.ID,
		ParticipantID: supervisor.ID,
		Role:          models.RoleSupervisor,
	})
	require.NoError(t, err)

	reloaded, err = svc.GetProject(project.ID)
	require.NoError(t, err)
	require.False(t, reloaded.IsDraft)

	require.NoError(t, svc.RemoveParticipant(project.ID, lead.ID))

	reloaded, err = svc.GetProject(project.ID)
	require.NoError(t, err)
	require.True(t, reloaded.IsDraft)
}

func TestProjectService_AddParticipantChecks(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newProjectService(t, db)
	user := createTestUser(t, db, "worker")

	project, err := svc.CreateProject(CreateProjectInput{Name: "checks"})
	require.NoError(t, err)

	_, err = svc.AddParticipant(AddParticipantInput{
		ProjectID:     project.ID,
		ParticipantID: user.ID,
		Role:          "JANITOR",
	})
	require.ErrorIs(t, err, ErrInvalidParticipantRole)

	_, err = svc.AddParticipant(AddParticipantInput{
		ProjectID:     project.ID,
		ParticipantID: user.ID,
		Role:          models.RoleSpecialist,
	})
	require.NoError(t, err)

	_, err = svc.AddParticipant(AddParticipantInput{
		ProjectID:     project.ID,
		ParticipantID: user.ID,
		Role:          models.RoleObserver,
	})
	require.ErrorIs(t, err, ErrAlreadyParticipant)
}

func TestProjectService_UpdateProjectHealsMissingRoot(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newProjectService(t, db)

	project, err := svc.CreateProject(CreateProjectInput{Name: "healing"})
	require.NoError(t, err)

	require.NoError(t, db.Where("project_id = ?", project.ID).
		Delete(&models.ChartEvent{}).Error)

	description := "restored"
	_, err = svc.UpdateProject(project.ID, UpdateProjectInput{Description: &description})
	require.NoError(t, err)

	var root models.ChartEvent
	require.NoError(t, db.Where("project_id = ? AND is_root = ?", project.ID, true).
		First(&root).Error)
	require.Equal(t, "1", root.HierarchicalNumber)
}

func TestProjectService_ProjectVersion(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newProjectService(t, db)

	project, err := svc.CreateProject(CreateProjectInput{Name: "polled"})
	require.NoError(t, err)

	version, err := svc.ProjectVersion(project.ID)
	require.NoError(t, err)
	require.Equal(t, project.ProjectVersion, version)

	_, err = svc.ProjectVersion(project.ID + 1000)
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestProjectService_DeleteProjectRemovesOwnedRows(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newProjectService(t, db)
	user := createTestUser(t, db, "member")

	project, err := svc.CreateProject(CreateProjectInput{Name: "doomed"})
	require.NoError(t, err)

	_, err = svc.AddParticipant(AddParticipantInput{
		ProjectID:     project.ID,
		ParticipantID: user.ID,
		Role:          models.RoleSupervisor,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProject(project.ID))

	var eventCount, participantCount int64
	require.NoError(t, db.Model(&models.ChartEvent{}).
		Where("project_id = ?", project.ID).Count(&eventCount).Error)
	require.NoError(t, db.Model(&models.ProjectParticipant{}).
		Where("project_id = ?", project.ID).Count(&participantCount).Error)
	require.Zero(t, eventCount)
	require.Zero(t, participantCount)

	err = svc.DeleteProject(project.ID)
	require.ErrorIs(t, err, ErrProjectNotFound)
}
