package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gmakarov/gantt-chart-api/internal/models"
)

func TestValidate_MissingRoot(t *testing.T) {
	db := newTestDB(t)
	clock := fixedClock{day: date(2026, time.March, 10)}
	project := createTestProject(t, db, false)

	event := &models.ChartEvent{
		ProjectID:       project.ID,
		Name:            "orphan",
		PlannedStart:    clock.Today(),
		PlannedDuration: 1,
	}

	svc := NewEventServiceWithClock(db, event, clock)
	err := svc.Validate()

	var missingRoot *MissingRootError
	require.ErrorAs(t, err, &missingRoot)
	require.Equal(t, project.ID, missingRoot.ProjectID)
}

func TestValidate_NonRootNeedsParent(t *testing.T) {
	db := newTestDB(t)
	clock := fixedClock{day: date(2026, time.March, 10)}
	project := createTestProject(t, db, false)
	createTestRoot(t, db, project, clock)

	event := &models.ChartEvent{
		ProjectID:       project.ID,
		Name:            "floating",
		PlannedStart:    clock.Today(),
		PlannedDuration: 1,
	}

	svc := NewEventServiceWithClock(db, event, clock)
	err := svc.Validate()

	var parentRequired *ParentRequiredError
	require.ErrorAs(t, err, &parentRequired)
}

func TestValidate_SelfParentRejected(t *testing.T) {
	db := newTestDB(t)
	clock := fixedClock{day: date(2026, time.March, 10)}
	project := createTestProject(t, db, false)
	root := createTestRoot(t, db, project, clock)

	child := &models.ChartEvent{
		ProjectID:       project.ID,
		ParentID:        &root.ID,
		Name:            "child",
		PlannedStart:    clock.Today(),
		PlannedDuration: 1,
	}
	saveNewEvent(t, db, child, clock)

	child.ParentID = &child.ID
	svc := NewEventServiceWithClock(db, child, clock)
	err := svc.Validate()

	var parentRequired *ParentRequiredError
	require.ErrorAs(t, err, &parentRequired)
}

func TestValidate_ParentFromOtherProjectRejected(t *testing.T) {
	db := newTestDB(t)
	clock := fixedClock{day: date(2026, time.March, 10)}
	project := createTestProject(t, db, false)
	createTestRoot(t, db, project, clock)
	otherProject := createTestProject(t, db, false)
	otherRoot := createTestRoot(t, db, otherProject, clock)

	event := &models.ChartEvent{
		ProjectID:       project.ID,
		ParentID:        &otherRoot.ID,
		Name:            "stray",
		PlannedStart:    clock.Today(),
		PlannedDuration: 1,
	}

	svc := NewEventServiceWithClock(db, event, clock)
	err := svc.Validate()

	var mismatch *ProjectMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, otherProject.ID, mismatch.ParentProjectID)
}

func TestValidate_StartAfterEndRejected(t *testing.T) {
	db := newTestDB(t)
	clock := fixedClock{day: date(2026, time.March, 10)}
	project := createTestProject(t, db, false)
	root := createTestRoot(t, db, project, clock)

	child := &models.ChartEvent{
		ProjectID:       project.ID,
		ParentID:        &root.ID,
		Name:            "child",
		PlannedStart:    clock.Today(),
		PlannedDuration: 3,
	}
	saveNewEvent(t, db, child, clock)

	// Corrupt the stored end date without touching its inputs: the derived
	// end is not recomputed, so validation must catch the inversion.
	child.PlannedEnd = child.PlannedStart.AddDate(0, 0, -2)
	svc := NewEventServiceWithClock(db, child, clock)
	err := svc.Validate()

	var invalidRange *InvalidDateRangeError
	require.ErrorAs(t, err, &invalidRange)
}

func TestValidate_RootItselfNeedsNoParent(t *testing.T) {
	db := newTestDB(t)
	clock := fixedClock{day: date(2026, time.March, 10)}
	project := createTestProject(t, db, false)
	root := createTestRoot(t, db, project, clock)

	root.Name = "renamed root"
	svc := NewEventServiceWithClock(db, root, clock)
	require.NoError(t, svc.Validate())
}

func TestValidate_TwiceOnUnchangedEventIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	clock := fixedClock{day: date(2026, time.March, 10)}
	project := createTestProject(t, db, false)
	root := createTestRoot(t, db, project, clock)

	event := &models.ChartEvent{
		ProjectID:            project.ID,
		ParentID:             &root.ID,
		Name:                 "steady",
		PlannedStart:         clock.Today(),
		PlannedDuration:      4,
		PercentageCompletion: 30,
	}
	saveNewEvent(t, db, event, clock)

	stored := reloadEvent(t, db, event.ID)
	svc := NewEventServiceWithClock(db, stored, clock)

	require.NoError(t, svc.Validate())
	number := stored.HierarchicalNumber
	plannedEnd := stored.PlannedEnd
	actualStart := stored.ActualStart

	require.NoError(t, svc.Validate())
	require.Equal(t, number, stored.HierarchicalNumber)
	require.True(t, plannedEnd.Equal(stored.PlannedEnd))
	require.Equal(t, actualStart, stored.ActualStart)
	require.Empty(t, svc.Tracker().ChangedFields(stored))
}

func TestValidate_TwiceOnFreshEventKeepsTheAssignedNumber(t *testing.T) {
	db := newTestDB(t)
	clock := fixedClock{day: date(2026, time.March, 10)}
	project := createTestProject(t, db, false)
	root := createTestRoot(t, db, project, clock)

	event := &models.ChartEvent{
		ProjectID:    project.ID,
		ParentID:     &root.ID,
		Name:         "fresh",
		PlannedStart: clock.Today(),
	}
	svc := NewEventServiceWithClock(db, event, clock)

	require.NoError(t, svc.Validate())
	assigned := event.HierarchicalNumber
	require.Equal(t, "1.1", assigned)

	require.NoError(t, svc.Validate())
	require.Equal(t, assigned, event.HierarchicalNumber)
}
