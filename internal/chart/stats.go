package chart

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/gmakarov/gantt-chart-api/internal/models"
)

// ProjectStats is a read-only aggregate projection over a project's event
// tree, shown in the chart header.
type ProjectStats struct {
	MinPlannedStart         *time.Time `json:"min_planned_start"`
	MaxPlannedEnd           *time.Time `json:"max_planned_end"`
	FullPlannedDuration     int        `json:"full_planned_duration"`
	RestPlanned             int        `json:"rest_planned"`
	FullActualDuration      int        `json:"full_actual_duration"`
	ActualDeviation         int        `json:"actual_deviation"`
	AvgPercentageCompletion int        `json:"avg_percentage_completion"`
}

type statsRow struct {
	MinPlannedStart *time.Time
	MaxPlannedEnd   *time.Time
	MinActualStart  *time.Time
	MaxActualStart  *time.Time
	MaxActualEnd    *time.Time
	SumPercentage   int
	CountEvents     int
}

// ComputeProjectStats aggregates the planned/actual spans and the average
// completion percentage of a project's events.
func ComputeProjectStats(db *gorm.DB, projectID uint64, clock Clock) (*ProjectStats, error) {
	var events []models.ChartEvent
	if err := db.Where("project_id = ?", projectID).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to load project events: %w", err)
	}

	row := aggregateEvents(events)

	stats := &ProjectStats{
		MinPlannedStart: row.MinPlannedStart,
		MaxPlannedEnd:   row.MaxPlannedEnd,
	}

	today := truncateToDay(clock.Today())

	if row.MinPlannedStart != nil && row.MaxPlannedEnd != nil {
		stats.FullPlannedDuration = daysInclusive(*row.MinPlannedStart, *row.MaxPlannedEnd)
		stats.RestPlanned = daysInclusive(today, *row.MaxPlannedEnd) - 2
	}

	stats.FullActualDuration = fullActualDuration(row, today)

	count := row.CountEvents
	if count == 0 {
		count = 1
	}
	stats.AvgPercentageCompletion = row.SumPercentage / count

	stats.ActualDeviation = actualDeviation(row, stats.AvgPercentageCompletion, today)

	return stats, nil
}

// aggregateEvents folds the per-event dates into the extreme values the
// header figures derive from.
func aggregateEvents(events []models.ChartEvent) statsRow {
	row := statsRow{CountEvents: len(events)}

	minDate := func(current *time.Time, candidate time.Time) *time.Time {
		if current == nil || candidate.Before(*current) {
			value := candidate
			return &value
		}
		return current
	}
	maxDate := func(current *time.Time, candidate time.Time) *time.Time {
		if current == nil || candidate.After(*current) {
			value := candidate
			return &value
		}
		return current
	}

	for _, event := range events {
		row.MinPlannedStart = minDate(row.MinPlannedStart, event.PlannedStart)
		row.MaxPlannedEnd = maxDate(row.MaxPlannedEnd, event.PlannedEnd)
		if event.ActualStart != nil {
			row.MinActualStart = minDate(row.MinActualStart, *event.ActualStart)
			row.MaxActualStart = maxDate(row.MaxActualStart, *event.ActualStart)
		}
		if event.ActualEnd != nil {
			row.MaxActualEnd = maxDate(row.MaxActualEnd, *event.ActualEnd)
		}
		row.SumPercentage += event.PercentageCompletion
	}

	return row
}

// fullActualDuration spans from the earliest actual start to the latest
// actual end, or to today while work is still running.
func fullActualDuration(row statsRow, today time.Time) int {
	if row.MinActualStart == nil {
		return 0
	}
	if row.MaxActualEnd != nil && row.MaxActualStart != nil && row.MaxActualEnd.After(*row.MaxActualStart) {
		return daysInclusive(*row.MinActualStart, *row.MaxActualEnd)
	}
	if row.MaxActualStart != nil && today.After(*row.MaxActualStart) {
		return daysInclusive(*row.MinActualStart, today)
	}
	if row.MaxActualStart != nil {
		return daysInclusive(*row.MinActualStart, *row.MaxActualStart)
	}
	return 0
}

// actualDeviation measures how far the latest recorded actual date drifted
// from the planned end, in days.
func actualDeviation(row statsRow, avgPercentage int, today time.Time) int {
	if row.MaxPlannedEnd == nil {
		return 0
	}

	if avgPercentage == 0 {
		return absDays(row.MaxPlannedEnd.Sub(today)) + 1
	}

	if row.MaxActualStart == nil {
		return 0
	}
	maxActual := *row.MaxActualStart
	if row.MaxActualEnd != nil && row.MaxActualEnd.After(maxActual) {
		maxActual = *row.MaxActualEnd
	}

	return absDays(row.MaxPlannedEnd.Sub(maxActual)) + 1
}

func absDays(d time.Duration) int {
	days := int(d.Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}
