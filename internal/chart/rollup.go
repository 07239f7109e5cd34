package chart

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/gmakarov/gantt-chart-api/internal/models"
)

// rollupStart carries the change markers of the event a roll-up walk begins
// from. At every further level the markers are replaced by the ones of the
// ancestor the walk stands on.
type rollupStart struct {
	newlyCreated bool
	pctChanged   bool
	deleted      bool
}

// rollupColumns is the exact set of columns a roll-up batch write touches.
var rollupColumns = []string{
	"percentage_completion",
	"actual_start",
	"actual_duration",
	"actual_end",
}

// planRollup walks from the given event strictly upward through parent
// references and recomputes each ancestor's aggregate completion percentage
// and derived actual dates. The walk is a pure planning pass: it returns the
// ordered list of ancestors to update without writing anything.
//
// A level is recomputed only when the node the walk stands on is newly
// created, had percentage_completion in its last persisted or current change
// set, or the walk operates in deleted mode. The walk itself always
// continues to the root regardless of whether a given level changed.
//
// Ancestor rows are locked for the duration of the transaction so that
// concurrent sibling updates cannot both read a stale sum.
func planRollup(tx *gorm.DB, event *models.ChartEvent, start rollupStart, clock Clock) ([]*models.ChartEvent, error) {
	var updates []*models.ChartEvent

	current := event
	newlyCreated := start.newlyCreated
	pctChanged := start.pctChanged

	for current.ParentID != nil {
		var parent models.ChartEvent
		if err := lockForUpdate(tx).
			First(&parent, *current.ParentID).Error; err != nil {
			return nil, fmt.Errorf("failed to load ancestor event: %w", err)
		}

		parentChanged := false
		if start.deleted || newlyCreated || pctChanged {
			// The deleted node contributes 0 and is excluded from the
			// divisor; every other node contributes its own percentage.
			contribution := current.PercentageCompletion
			deletedSelf := start.deleted && current.ID == event.ID
			if deletedSelf {
				contribution = 0
			}

			var siblings []models.ChartEvent
			if err := tx.Where("parent_id = ? AND id <> ?", parent.ID, current.ID).
				Find(&siblings).Error; err != nil {
				return nil, fmt.Errorf("failed to load sibling events: %w", err)
			}

			sum := contribution
			for _, sibling := range siblings {
				sum += sibling.PercentageCompletion
			}

			count := len(siblings)
			if !deletedSelf {
				count++
			}
			if count == 0 {
				count = 1
			}

			newPercentage := sum / count
			parentChanged = parent.PercentageCompletion != newPercentage
			parent.PercentageCompletion = newPercentage
			SetActualDates(&parent, clock)
			updates = append(updates, &parent)
		}

		current = &parent
		newlyCreated = false
		pctChanged = parentChanged
	}

	return updates, nil
}

// applyRollup persists the queued ancestor updates, touching only the
// aggregate completion columns.
func applyRollup(tx *gorm.DB, updates []*models.ChartEvent) error {
	for _, event := range updates {
		err := tx.Model(&models.ChartEvent{}).
			Where("id = ?", event.ID).
			Select(rollupColumns).
			Updates(map[string]any{
				"percentage_completion": event.PercentageCompletion,
				"actual_start":          event.ActualStart,
				"actual_duration":       event.ActualDuration,
				"actual_end":            event.ActualEnd,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update ancestor event %d: %w", event.ID, err)
		}
	}
	return nil
}
