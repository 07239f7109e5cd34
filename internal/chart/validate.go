package chart

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gmakarov/gantt-chart-api/internal/models"
)

// RootEvent returns the root event of a project, or nil when the project has
// none.
func RootEvent(db *gorm.DB, projectID uint64) (*models.ChartEvent, error) {
	var root models.ChartEvent
	err := db.Where("project_id = ? AND is_root = ?", projectID, true).First(&root).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load root event: %w", err)
	}
	return &root, nil
}

// validateEvent enforces the tree-shape and project-linkage invariants for a
// single event, failing fast with a distinct error kind per check. It only
// inspects the in-memory entity; derived fields must already be computed.
func validateEvent(db *gorm.DB, event *models.ChartEvent) error {
	root, err := RootEvent(db, event.ProjectID)
	if err != nil {
		return err
	}
	if root == nil {
		return &MissingRootError{ProjectID: event.ProjectID}
	}

	isRoot := event.ID != 0 && event.ID == root.ID

	if !isRoot {
		if event.ParentID == nil {
			return &ParentRequiredError{Event: event}
		}
		if *event.ParentID == event.ID {
			return &ParentRequiredError{Event: event}
		}

		var parent models.ChartEvent
		if err := db.First(&parent, *event.ParentID).Error; err != nil {
			return fmt.Errorf("failed to load parent event: %w", err)
		}
		if parent.ProjectID != event.ProjectID {
			return &ProjectMismatchError{Event: event, ParentProjectID: parent.ProjectID}
		}
	}

	if event.PlannedEnd.IsZero() {
		return &PlannedEndMissingError{Event: event}
	}
	if event.PlannedStart.After(event.PlannedEnd) {
		return &InvalidDateRangeError{Event: event}
	}

	return nil
}
