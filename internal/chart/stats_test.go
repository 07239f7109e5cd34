package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gmakarov/gantt-chart-api/internal/models"
)

func TestComputeProjectStats_EmptyProject(t *testing.T) {
	db := newTestDB(t)
	clock := fixedClock{day: date(2026, time.March, 10)}
	project := createTestProject(t, db, false)

	stats, err := ComputeProjectStats(db, project.ID, clock)
	require.NoError(t, err)

	require.Nil(t, stats.MinPlannedStart)
	require.Nil(t, stats.MaxPlannedEnd)
	require.Zero(t, stats.FullPlannedDuration)
	require.Zero(t, stats.FullActualDuration)
	require.Zero(t, stats.AvgPercentageCompletion)
}

func TestComputeProjectStats_PlannedSpan(t *testing.T) {
	db := newTestDB(t)
	clock := fixedClock{day: date(2026, time.March, 10)}
	project := createTestProject(t, db, false)
	root := createTestRoot(t, db, project, clock)

	long := &models.ChartEvent{
		ProjectID:       project.ID,
		ParentID:        &root.ID,
		Name:            "long",
		PlannedStart:    date(2026, time.March, 10),
		PlannedDuration: 5,
	}
	saveNewEvent(t, db, long, clock)

	short := &models.ChartEvent{
		ProjectID:       project.ID,
		ParentID:        &root.ID,
		Name:            "short",
		PlannedStart:    date(2026, time.March, 12),
		PlannedDuration: 2,
	}
	saveNewEvent(t, db, short, clock)

	stats, err := ComputeProjectStats(db, project.ID, clock)
	require.NoError(t, err)

	require.Equal(t, date(2026, time.March, 10), truncateToDay(*stats.MinPlannedStart))
	require.Equal(t, date(2026, time.March, 14), truncateToDay(*stats.MaxPlannedEnd))
	require.Equal(t, 5, stats.FullPlannedDuration)
	require.Equal(t, 3, stats.RestPlanned)
	require.Zero(t, stats.AvgPercentageCompletion)
	// Nothing has started, so the deviation runs from today to the planned
	// end.
	require.Equal(t, 5, stats.ActualDeviation)
}

func TestComputeProjectStats_ActualFigures(t *testing.T) {
	db := newTestDB(t)
	clock := fixedClock{day: date(2026, time.March, 10)}
	project := createTestProject(t, db, false)
	root := createTestRoot(t, db, project, clock)

	working := &models.ChartEvent{
		ProjectID:            project.ID,
		ParentID:             &root.ID,
		Name:                 "working",
		PlannedStart:         date(2026, time.March, 10),
		PlannedDuration:      5,
		PercentageCompletion: 50,
	}
	saveNewEvent(t, db, working, clock)

	idle := &models.ChartEvent{
		ProjectID:       project.ID,
		ParentID:        &root.ID,
		Name:            "idle",
		PlannedStart:    date(2026, time.March, 10),
		PlannedDuration: 2,
	}
	saveNewEvent(t, db, idle, clock)

	stats, err := ComputeProjectStats(db, project.ID, clock)
	require.NoError(t, err)

	// root + working + idle, percentages 0 + 50 + 0
	require.Equal(t, 16, stats.AvgPercentageCompletion)
	require.Equal(t, 1, stats.FullActualDuration)
	require.Equal(t, 5, stats.ActualDeviation)
}
