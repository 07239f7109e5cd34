package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gmakarov/gantt-chart-api/internal/models"
)

func TestAssignNumber_ParentlessEventIsRoot(t *testing.T) {
	db := newTestDB(t)

	number, err := AssignNumber(db, &models.ChartEvent{})
	require.NoError(t, err)
	require.Equal(t, "1", number)
}

func TestAssignNumber_SiblingsCountUp(t *testing.T) {
	db := newTestDB(t)
	clock := fixedClock{day: date(2026, time.March, 10)}
	project := createTestProject(t, db, false)
	root := createTestRoot(t, db, project, clock)

	first := &models.ChartEvent{
		ProjectID:       project.ID,
		ParentID:        &root.ID,
		Name:            "first",
		PlannedStart:    clock.Today(),
		PlannedDuration: 1,
	}
	saveNewEvent(t, db, first, clock)
	require.Equal(t, "1.1", first.HierarchicalNumber)

	second := &models.ChartEvent{
		ProjectID:       project.ID,
		ParentID:        &root.ID,
		Name:            "second",
		PlannedStart:    clock.Today(),
		PlannedDuration: 1,
	}
	saveNewEvent(t, db, second, clock)
	require.Equal(t, "1.2", second.HierarchicalNumber)

	grandchild := &models.ChartEvent{
		ProjectID:       project.ID,
		ParentID:        &second.ID,
		Name:            "grandchild",
		PlannedStart:    clock.Today(),
		PlannedDuration: 1,
	}
	saveNewEvent(t, db, grandchild, clock)
	require.Equal(t, "1.2.1", grandchild.HierarchicalNumber)
}

func TestAssignNumber_ContinuesFromNewestSibling(t *testing.T) {
	db := newTestDB(t)
	clock := fixedClock{day: date(2026, time.March, 10)}
	project := createTestProject(t, db, false)
	root := createTestRoot(t, db, project, clock)

	var last *models.ChartEvent
	for _, name := range []string{"a", "b", "c"} {
		event := &models.ChartEvent{
			ProjectID:       project.ID,
			ParentID:        &root.ID,
			Name:            name,
			PlannedStart:    clock.Today(),
			PlannedDuration: 1,
		}
		saveNewEvent(t, db, event, clock)
		last = event
	}
	require.Equal(t, "1.3", last.HierarchicalNumber)

	// Removing a middle sibling leaves a gap; numbering follows the newest
	// remaining sibling instead of recounting.
	require.NoError(t, db.Delete(&models.ChartEvent{}, "hierarchical_number = ?", "1.2").Error)

	next := &models.ChartEvent{
		ProjectID:       project.ID,
		ParentID:        &root.ID,
		Name:            "d",
		PlannedStart:    clock.Today(),
		PlannedDuration: 1,
	}
	saveNewEvent(t, db, next, clock)
	require.Equal(t, "1.4", next.HierarchicalNumber)
}

func TestTrailingIndex(t *testing.T) {
	index, err := trailingIndex("1.2.7")
	require.NoError(t, err)
	require.Equal(t, 7, index)

	_, err = trailingIndex("1.2.x")
	require.Error(t, err)
}
