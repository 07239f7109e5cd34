package chart

import (
	"fmt"

	"github.com/gmakarov/gantt-chart-api/internal/models"
)

// MissingRootError reports that the target project has no root event. The
// root is auto-created with the project, so this normally means data
// corruption or a race with project creation.
type MissingRootError struct {
	ProjectID uint64
}

func (e *MissingRootError) Error() string {
	return fmt.Sprintf("project %d has no root event", e.ProjectID)
}

// ParentRequiredError reports a non-root event without a parent, or an event
// referencing itself as parent.
type ParentRequiredError struct {
	Event *models.ChartEvent
}

func (e *ParentRequiredError) Error() string {
	if e.Event.ParentID != nil && e.Event.ID == *e.Event.ParentID {
		return fmt.Sprintf("event %q cannot be its own parent", e.Event.String())
	}
	return fmt.Sprintf("event %q must have a parent", e.Event.String())
}

// ProjectMismatchError reports that an event's parent belongs to a different
// project.
type ProjectMismatchError struct {
	Event           *models.ChartEvent
	ParentProjectID uint64
}

func (e *ProjectMismatchError) Error() string {
	return fmt.Sprintf("event %q must belong to project %d of its parent", e.Event.String(), e.ParentProjectID)
}

// PlannedEndMissingError reports that the planned end date could not be
// derived for an event.
type PlannedEndMissingError struct {
	Event *models.ChartEvent
}

func (e *PlannedEndMissingError) Error() string {
	return fmt.Sprintf("event %q has no planned end date", e.Event.String())
}

// InvalidDateRangeError reports a planned start after the planned end.
type InvalidDateRangeError struct {
	Event *models.ChartEvent
}

func (e *InvalidDateRangeError) Error() string {
	return fmt.Sprintf("event %q planned start %s is after planned end %s",
		e.Event.String(),
		e.Event.PlannedStart.Format(DateLayout),
		e.Event.PlannedEnd.Format(DateLayout))
}

// NotValidatedError reports a save attempted without a prior successful
// Validate call on the same service instance.
type NotValidatedError struct {
	Event *models.ChartEvent
}

func (e *NotValidatedError) Error() string {
	return fmt.Sprintf("event %q has not been validated", e.Event.String())
}
