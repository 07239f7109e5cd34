package dto

import (
	"strconv"
	"strings"
	"time"

	"github.com/gmakarov/gantt-chart-api/internal/chart"
	"github.com/gmakarov/gantt-chart-api/internal/models"
)

// ChartItemDTO is a single bar of the rendered Gantt chart. Dates are
// formatted as YYYY-MM-DD strings for the chart widget.
type ChartItemDTO struct {
	ID                 uint64  `json:"id"`
	ParentID           *uint64 `json:"parent_id"`
	HierarchicalNumber string  `json:"hierarchical_number"`
	Name               string  `json:"name"`
	Start              string  `json:"start"`
	End                string  `json:"end"`
	Duration           int     `json:"duration"`
	Progress           int     `json:"progress"`
	// "project" for container events, "task" for leaves.
	Type string `json:"type"`
	// Comma-joined IDs of the events this bar depends on.
	Dependencies string `json:"dependencies"`
}

// ChartDataResponse is the full chart projection for one project
type ChartDataResponse struct {
	ProjectVersion string         `json:"project_version"`
	Items          []ChartItemDTO `json:"items"`
}

func dependencyList(event models.ChartEvent) string {
	if len(event.PredecessorLinks) == 0 {
		return ""
	}
	ids := make([]string, len(event.PredecessorLinks))
	for i, link := range event.PredecessorLinks {
		ids[i] = strconv.FormatUint(link.PredecessorID, 10)
	}
	return strings.Join(ids, ",")
}

// ToPlannedChartItem projects an event's planned schedule onto a chart bar
func ToPlannedChartItem(event models.ChartEvent) ChartItemDTO {
	return ChartItemDTO{
		ID:                 event.ID,
		ParentID:           event.ParentID,
		HierarchicalNumber: event.HierarchicalNumber,
		Name:               event.Name,
		Start:              event.PlannedStart.Format(chart.DateLayout),
		End:                event.PlannedEnd.Format(chart.DateLayout),
		Duration:           event.PlannedDuration,
		Progress:           event.PercentageCompletion,
		Dependencies:       dependencyList(event),
	}
}

// ToActualChartItem projects an event's actual schedule onto a chart bar.
// Events that have not started yet render as a single-day bar on today.
func ToActualChartItem(event models.ChartEvent, today time.Time) ChartItemDTO {
	item := ChartItemDTO{
		ID:                 event.ID,
		ParentID:           event.ParentID,
		HierarchicalNumber: event.HierarchicalNumber,
		Name:               event.Name,
		Start:              today.Format(chart.DateLayout),
		End:                today.Format(chart.DateLayout),
		Duration:           1,
		Progress:           event.PercentageCompletion,
		Dependencies:       dependencyList(event),
	}

	if event.ActualStart != nil {
		item.Start = event.ActualStart.Format(chart.DateLayout)
	}
	if event.ActualDuration != nil {
		item.Duration = *event.ActualDuration
	}
	if event.ActualEnd != nil {
		item.End = event.ActualEnd.Format(chart.DateLayout)
	} else if event.ActualStart != nil {
		// Still in progress: the bar runs from the actual start through today.
		item.End = today.Format(chart.DateLayout)
	}

	return item
}

// ToChartDataResponse builds a chart projection for a list of events
func ToChartDataResponse(projectVersion string, events []models.ChartEvent, actual bool, today time.Time) ChartDataResponse {
	containers := make(map[uint64]bool, len(events))
	for _, event := range events {
		if event.ParentID != nil {
			containers[*event.ParentID] = true
		}
	}

	items := make([]ChartItemDTO, len(events))
	for i, event := range events {
		if actual {
			items[i] = ToActualChartItem(event, today)
		} else {
			items[i] = ToPlannedChartItem(event)
		}
		if containers[event.ID] {
			items[i].Type = "project"
		} else {
			items[i].Type = "task"
		}
	}

	return ChartDataResponse{
		ProjectVersion: projectVersion,
		Items:          items,
	}
}
