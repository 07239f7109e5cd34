package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gmakarov/gantt-chart-api/internal/models"
)

func TestSave_RequiresValidation(t *testing.T) {
	db := newTestDB(t)
	clock := fixedClock{day: date(2026, time.March, 10)}
	project := createTestProject(t, db, false)
	root := createTestRoot(t, db, project, clock)

	event := &models.ChartEvent{
		ProjectID:       project.ID,
		ParentID:        &root.ID,
		Name:            "unchecked",
		PlannedStart:    clock.Today(),
		PlannedDuration: 1,
	}

	svc := NewEventServiceWithClock(db, event, clock)
	err := svc.Save(false)

	var notValidated *NotValidatedError
	require.ErrorAs(t, err, &notValidated)
}

func TestSave_SkipValidationBypassesTheCheck(t *testing.T) {
	db := newTestDB(t)
	clock := fixedClock{day: date(2026, time.March, 10)}
	project := createTestProject(t, db, false)
	root := createTestRoot(t, db, project, clock)

	event := &models.ChartEvent{
		ProjectID:       project.ID,
		ParentID:        &root.ID,
		Name:            "unchecked",
		PlannedStart:    clock.Today(),
		PlannedDuration: 2,
		PlannedEnd:      clock.Today().AddDate(0, 0, 1),
	}

	svc := NewEventServiceWithClock(db, event, clock)
	require.NoError(t, svc.Save(true))
	require.NotZero(t, event.ID)
}

func TestSave_ValidationDoesNotSurviveASave(t *testing.T) {
	db := newTestDB(t)
	clock := fixedClock{day: date(2026, time.March, 10)}
	project := createTestProject(t, db, false)
	root := createTestRoot(t, db, project, clock)

	event := &models.ChartEvent{
		ProjectID:       project.ID,
		ParentID:        &root.ID,
		Name:            "once",
		PlannedStart:    clock.Today(),
		PlannedDuration: 1,
	}
	svc := saveNewEvent(t, db, event, clock)

	event.Name = "twice"
	err := svc.Save(false)

	var notValidated *NotValidatedError
	require.ErrorAs(t, err, &notValidated)
}

func TestSave_NormalizesZeroDuration(t *testing.T) {
	db := newTestDB(t)
	clock := fixedClock{day: date(2026, time.March, 10)}
	project := createTestProject(t, db, false)
	root := createTestRoot(t, db, project, clock)

	event := &models.ChartEvent{
		ProjectID:    project.ID,
		ParentID:     &root.ID,
		Name:         "instant",
		PlannedStart: clock.Today(),
	}
	saveNewEvent(t, db, event, clock)

	stored := reloadEvent(t, db, event.ID)
	require.Equal(t, 1, stored.PlannedDuration)
	require.Equal(t, clock.Today(), stored.PlannedEnd)
}

func TestSave_RecomputesPlannedEndWhenInputsChange(t *testing.T) {
	db := newTestDB(t)
	clock := fixedClock{day: date(2026, time.March, 10)}
	project := createTestProject(t, db, false)
	root := createTestRoot(t, db, project, clock)

	event := &models.ChartEvent{
		ProjectID:       project.ID,
		ParentID:        &root.ID,
		Name:            "shifting",
		PlannedStart:    clock.Today(),
		PlannedDuration: 3,
	}
	saveNewEvent(t, db, event, clock)
	require.Equal(t, clock.Today().AddDate(0, 0, 2), event.PlannedEnd)

	event.PlannedDuration = 7
	svc := NewEventServiceWithClock(db, event, clock)
	require.NoError(t, svc.Validate())
	require.NoError(t, svc.Save(false))

	stored := reloadEvent(t, db, event.ID)
	require.Equal(t, clock.Today().AddDate(0, 0, 6), stored.PlannedEnd)
}

func TestSave_PercentageChangeDerivesActualDates(t *testing.T) {
	db := newTestDB(t)
	clock := fixedClock{day: date(2026, time.March, 10)}
	project := createTestProject(t, db, false)
	root := createTestRoot(t, db, project, clock)

	event := &models.ChartEvent{
		ProjectID:       project.ID,
		ParentID:        &root.ID,
		Name:            "tracked",
		PlannedStart:    clock.Today(),
		PlannedDuration: 5,
	}
	saveNewEvent(t, db, event, clock)

	event.PercentageCompletion = 40
	svc := NewEventServiceWithClock(db, event, clock)
	require.NoError(t, svc.Validate())
	require.NoError(t, svc.Save(false))

	stored := reloadEvent(t, db, event.ID)
	require.NotNil(t, stored.ActualStart)
	require.Equal(t, clock.Today(), *stored.ActualStart)
	require.Nil(t, stored.ActualEnd)

	// Completing the event later keeps the recorded start.
	later := fixedClock{day: date(2026, time.March, 14)}
	stored = reloadEvent(t, db, event.ID)
	stored.PercentageCompletion = 100
	svc = NewEventServiceWithClock(db, stored, later)
	require.NoError(t, svc.Validate())
	require.NoError(t, svc.Save(false))

	final := reloadEvent(t, db, event.ID)
	require.Equal(t, clock.Today(), *final.ActualStart)
	require.Equal(t, later.Today(), *final.ActualEnd)
	require.Equal(t, 5, *final.ActualDuration)
}

func TestSave_StampsProjectVersion(t *testing.T) {
	db := newTestDB(t)
	clock := fixedClock{day: date(2026, time.March, 10)}
	project := createTestProject(t, db, false)
	root := createTestRoot(t, db, project, clock)
	originalVersion := project.ProjectVersion

	event := &models.ChartEvent{
		ProjectID:       project.ID,
		ParentID:        &root.ID,
		Name:            "bump",
		PlannedStart:    clock.Today(),
		PlannedDuration: 1,
	}
	saveNewEvent(t, db, event, clock)

	var afterSave models.Project
	require.NoError(t, db.First(&afterSave, project.ID).Error)
	require.NotEqual(t, originalVersion, afterSave.ProjectVersion)

	svc := NewEventServiceWithClock(db, reloadEvent(t, db, event.ID), clock)
	require.NoError(t, svc.Delete())

	var afterDelete models.Project
	require.NoError(t, db.First(&afterDelete, project.ID).Error)
	require.NotEqual(t, afterSave.ProjectVersion, afterDelete.ProjectVersion)
}

func TestDelete_RemovesSubtreeAndLinks(t *testing.T) {
	db := newTestDB(t)
	clock := fixedClock{day: date(2026, time.March, 10)}
	project := createTestProject(t, db, false)
	root := createTestRoot(t, db, project, clock)

	newChild := func(parentID uint64, name string) *models.ChartEvent {
		event := &models.ChartEvent{
			ProjectID:       project.ID,
			ParentID:        &parentID,
			Name:            name,
			PlannedStart:    clock.Today(),
			PlannedDuration: 1,
		}
		saveNewEvent(t, db, event, clock)
		return event
	}

	branch := newChild(root.ID, "branch")
	leaf := newChild(branch.ID, "leaf")
	keeper := newChild(root.ID, "keeper")

	link := &models.EventLink{PredecessorID: leaf.ID, FollowerID: keeper.ID}
	require.NoError(t, db.Create(link).Error)

	svc := NewEventServiceWithClock(db, reloadEvent(t, db, branch.ID), clock)
	require.NoError(t, svc.Delete())

	var eventCount int64
	require.NoError(t, db.Model(&models.ChartEvent{}).
		Where("project_id = ?", project.ID).Count(&eventCount).Error)
	require.Equal(t, int64(2), eventCount) // root and keeper

	var linkCount int64
	require.NoError(t, db.Model(&models.EventLink{}).Count(&linkCount).Error)
	require.Equal(t, int64(0), linkCount)
}

func TestSave_ProjectKeepsExactlyOneRoot(t *testing.T) {
	db := newTestDB(t)
	clock := fixedClock{day: date(2026, time.March, 10)}
	project := createTestProject(t, db, false)
	root := createTestRoot(t, db, project, clock)

	countRoots := func() int64 {
		var count int64
		require.NoError(t, db.Model(&models.ChartEvent{}).
			Where("project_id = ? AND is_root = ?", project.ID, true).
			Count(&count).Error)
		return count
	}
	require.EqualValues(t, 1, countRoots())

	parent := root
	for _, name := range []string{"first", "second", "third"} {
		event := &models.ChartEvent{
			ProjectID:    project.ID,
			ParentID:     &parent.ID,
			Name:         name,
			PlannedStart: clock.Today(),
		}
		saveNewEvent(t, db, event, clock)
		require.EqualValues(t, 1, countRoots())
		parent = event
	}
}
