package chart

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gmakarov/gantt-chart-api/internal/models"
)

// lockForUpdate adds a row lock where the dialect supports one. SQLite has
// no SELECT FOR UPDATE; its single-writer transactions serialize writes
// anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// AssignNumber computes the hierarchical number for an event whose number is
// not set yet: "1" for a parentless event, otherwise the parent's number
// with the next sibling index appended. Siblings are ordered by creation
// order, so the newest sibling's trailing index defines the next one.
//
// The parent row is locked for the duration of the surrounding transaction
// so that two concurrent sibling creations cannot compute the same index.
func AssignNumber(tx *gorm.DB, event *models.ChartEvent) (string, error) {
	if event.ParentID == nil {
		return "1", nil
	}

	var parent models.ChartEvent
	if err := lockForUpdate(tx).
		First(&parent, *event.ParentID).Error; err != nil {
		return "", fmt.Errorf("failed to load parent event: %w", err)
	}

	index := 1
	var lastChild models.ChartEvent
	err := tx.Where("parent_id = ? AND id <> ?", parent.ID, event.ID).
		Order("id DESC").
		First(&lastChild).Error
	switch {
	case err == nil:
		last, parseErr := trailingIndex(lastChild.HierarchicalNumber)
		if parseErr != nil {
			return "", parseErr
		}
		index = last + 1
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first child keeps index 1
	default:
		return "", fmt.Errorf("failed to load last sibling: %w", err)
	}

	return fmt.Sprintf("%s.%d", parent.HierarchicalNumber, index), nil
}

// trailingIndex extracts the numeric suffix of a dotted hierarchical number.
func trailingIndex(number string) (int, error) {
	parts := strings.Split(number, ".")
	index, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, fmt.Errorf("malformed hierarchical number %q: %w", number, err)
	}
	return index, nil
}
