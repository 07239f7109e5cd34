package chart

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gmakarov/gantt-chart-api/internal/models"
)

// columnsByField maps tracked field names to their database columns.
var columnsByField = map[string]string{
	FieldProject:              "project_id",
	FieldParent:               "parent_id",
	FieldHierarchicalNumber:   "hierarchical_number",
	FieldName:                 "name",
	FieldPlannedStart:         "planned_start",
	FieldPlannedDuration:      "planned_duration",
	FieldPlannedEnd:           "planned_end",
	FieldActualStart:          "actual_start",
	FieldActualDuration:       "actual_duration",
	FieldActualEnd:            "actual_end",
	FieldPercentageCompletion: "percentage_completion",
	FieldIsRoot:               "is_root",
	FieldResponsible:          "responsible_id",
}

// EventService orchestrates a single event mutation: derived-field
// computation, validation, persistence, parent roll-up and project version
// stamping. One instance covers one logical operation; validation state does
// not survive a successful save.
type EventService struct {
	db        *gorm.DB
	clock     Clock
	event     *models.ChartEvent
	tracker   *Tracker
	validated bool
}

// NewEventService wraps an event for mutation, snapshotting its current
// field values.
func NewEventService(db *gorm.DB, event *models.ChartEvent) *EventService {
	return NewEventServiceWithClock(db, event, SystemClock())
}

// NewEventServiceWithClock is NewEventService with an injected clock.
func NewEventServiceWithClock(db *gorm.DB, event *models.ChartEvent, clock Clock) *EventService {
	return &EventService{
		db:      db,
		clock:   clock,
		event:   event,
		tracker: NewTracker(event),
	}
}

// Event returns the wrapped event.
func (s *EventService) Event() *models.ChartEvent {
	return s.event
}

// Tracker returns the change tracker held alongside the event.
func (s *EventService) Tracker() *Tracker {
	return s.tracker
}

// Validate computes the event's derived fields and checks the tree-shape and
// date invariants. It must be called before Save unless validation is
// explicitly skipped; a successful call marks this instance validated for
// the current operation only.
func (s *EventService) Validate() error {
	if err := s.setData(); err != nil {
		return err
	}
	if err := validateEvent(s.db, s.event); err != nil {
		return err
	}
	s.validated = true
	return nil
}

// Save persists the event inside one transaction together with the parent
// roll-up (when the project opts in) and the project version stamp. Without
// skipValidation a prior successful Validate call on this instance is
// required.
func (s *EventService) Save(skipValidation bool) error {
	if !skipValidation && !s.validated {
		return &NotValidatedError{Event: s.event}
	}

	// A zero duration event still occupies its start day.
	if s.event.PlannedDuration < 1 {
		s.event.PlannedDuration = 1
	}

	isNew := s.tracker.IsNew()
	start := rollupStart{
		newlyCreated: isNew,
		pctChanged:   s.tracker.Changed(s.event, FieldPercentageCompletion),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if isNew {
			// Recompute the number under the parent lock: the value assigned
			// at validation time may have raced a concurrent sibling.
			number, err := AssignNumber(tx, s.event)
			if err != nil {
				return err
			}
			s.event.HierarchicalNumber = number

			if err := tx.Create(s.event).Error; err != nil {
				return fmt.Errorf("failed to create event: %w", err)
			}
		} else if columns := s.changedColumns(); len(columns) > 0 {
			if err := tx.Model(&models.ChartEvent{}).
				Where("id = ?", s.event.ID).
				Select(columns).
				Updates(s.event).Error; err != nil {
				return fmt.Errorf("failed to update event: %w", err)
			}
		}

		enabled, err := s.rollupEnabled(tx)
		if err != nil {
			return err
		}
		if enabled {
			updates, err := planRollup(tx, s.event, start, s.clock)
			if err != nil {
				return err
			}
			if err := applyRollup(tx, updates); err != nil {
				return err
			}
		}

		return stampProjectVersion(tx, s.event.ProjectID)
	})
	if err != nil {
		return err
	}

	s.tracker.MarkSaved(s.event)
	s.validated = false
	return nil
}

// Delete removes the event inside one transaction. With roll-up enabled the
// ancestor walk runs first, treating the event as contributing 0 and
// excluding it from its parent's divisor. Links and descendant events are
// removed with it.
func (s *EventService) Delete() error {
	start := rollupStart{
		newlyCreated: s.tracker.NewlyCreated(),
		pctChanged: s.tracker.LastChanged(FieldPercentageCompletion) ||
			s.tracker.Changed(s.event, FieldPercentageCompletion),
		deleted: true,
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		enabled, err := s.rollupEnabled(tx)
		if err != nil {
			return err
		}
		if enabled {
			updates, err := planRollup(tx, s.event, start, s.clock)
			if err != nil {
				return err
			}
			if err := applyRollup(tx, updates); err != nil {
				return err
			}
		}

		if err := stampProjectVersion(tx, s.event.ProjectID); err != nil {
			return err
		}

		return deleteSubtree(tx, s.event.ID)
	})
}

// setData assigns the hierarchical number when unset, normalizes the planned
// duration, recomputes the planned end when its inputs changed and derives
// the actual dates when the completion percentage changed.
func (s *EventService) setData() error {
	pctChanged := s.tracker.IsNew() || s.tracker.Changed(s.event, FieldPercentageCompletion)

	if s.event.HierarchicalNumber == "" {
		number, err := AssignNumber(s.db, s.event)
		if err != nil {
			return err
		}
		s.event.HierarchicalNumber = number
	}

	if s.event.PlannedDuration < 1 {
		s.event.PlannedDuration = 1
	}

	if s.event.PlannedEnd.IsZero() ||
		s.tracker.Changed(s.event, FieldPlannedStart) ||
		s.tracker.Changed(s.event, FieldPlannedDuration) {
		s.event.PlannedEnd = PlannedEnd(s.event.PlannedStart, s.event.PlannedDuration)
	}

	if pctChanged {
		SetActualDates(s.event, s.clock)
	}

	return nil
}

// changedColumns maps the tracker's changed fields to database columns.
func (s *EventService) changedColumns() []string {
	fields := s.tracker.ChangedFields(s.event)
	columns := make([]string, 0, len(fields))
	for _, field := range fields {
		columns = append(columns, columnsByField[field])
	}
	return columns
}

// rollupEnabled reads the owning project's auto-rollup setting.
func (s *EventService) rollupEnabled(tx *gorm.DB) (bool, error) {
	var project models.Project
	if err := tx.First(&project, s.event.ProjectID).Error; err != nil {
		return false, fmt.Errorf("failed to load project: %w", err)
	}
	return project.UpdatePercentageCompletion, nil
}

// stampProjectVersion writes a fresh opaque version token to the owning
// project, touching only that column.
func stampProjectVersion(tx *gorm.DB, projectID uint64) error {
	err := tx.Model(&models.Project{}).
		Where("id = ?", projectID).
		Update("project_version", uuid.NewString()).Error
	if err != nil {
		return fmt.Errorf("failed to stamp project version: %w", err)
	}
	return nil
}

// deleteSubtree removes an event together with its descendants and every
// link touching them. The cascade is explicit so that behavior does not
// depend on database foreign key enforcement.
func deleteSubtree(tx *gorm.DB, eventID uint64) error {
	ids := []uint64{eventID}
	frontier := []uint64{eventID}
	for len(frontier) > 0 {
		var childIDs []uint64
		if err := tx.Model(&models.ChartEvent{}).
			Where("parent_id IN ?", frontier).
			Pluck("id", &childIDs).Error; err != nil {
			return fmt.Errorf("failed to collect descendant events: %w", err)
		}
		ids = append(ids, childIDs...)
		frontier = childIDs
	}

	if err := tx.Where("predecessor_id IN ? OR follower_id IN ?", ids, ids).
		Delete(&models.EventLink{}).Error; err != nil {
		return fmt.Errorf("failed to delete event links: %w", err)
	}

	if err := tx.Where("id IN ?", ids).Delete(&models.ChartEvent{}).Error; err != nil {
		return fmt.Errorf("failed to delete events: %w", err)
	}

	return nil
}
