package chart

import (
	"time"

	"github.com/gmakarov/gantt-chart-api/internal/models"
)

// Tracked field names. Relation fields are tracked by their foreign key
// value under the relation's name.
const (
	FieldProject              = "project"
	FieldParent               = "parent"
	FieldHierarchicalNumber   = "hierarchical_number"
	FieldName                 = "name"
	FieldPlannedStart         = "planned_start"
	FieldPlannedDuration      = "planned_duration"
	FieldPlannedEnd           = "planned_end"
	FieldActualStart          = "actual_start"
	FieldActualDuration       = "actual_duration"
	FieldActualEnd            = "actual_end"
	FieldPercentageCompletion = "percentage_completion"
	FieldIsRoot               = "is_root"
	FieldResponsible          = "responsible"
)

var trackedFields = []string{
	FieldProject,
	FieldParent,
	FieldHierarchicalNumber,
	FieldName,
	FieldPlannedStart,
	FieldPlannedDuration,
	FieldPlannedEnd,
	FieldActualStart,
	FieldActualDuration,
	FieldActualEnd,
	FieldPercentageCompletion,
	FieldIsRoot,
	FieldResponsible,
}

// Change holds the previous and current value of a single tracked field.
type Change struct {
	Old any
	New any
}

// Tracker records a snapshot of an event's field values and reports which
// fields have changed since. It is held alongside the entity rather than
// baked into it; the snapshot is taken on load and reset after each
// successful persistence.
type Tracker struct {
	initial      map[string]any
	isNew        bool
	newlyCreated bool
	lastChanged  map[string]struct{}
}

// NewTracker snapshots the event's current field values. An event without a
// primary key is considered new.
func NewTracker(event *models.ChartEvent) *Tracker {
	return &Tracker{
		initial:     fieldValues(event),
		isNew:       event.ID == 0,
		lastChanged: map[string]struct{}{},
	}
}

// Diff returns the old/new value pairs of every field that differs from the
// snapshot.
func (t *Tracker) Diff(event *models.ChartEvent) map[string]Change {
	current := fieldValues(event)
	diff := make(map[string]Change)
	for _, field := range trackedFields {
		if t.initial[field] != current[field] {
			diff[field] = Change{Old: t.initial[field], New: current[field]}
		}
	}
	return diff
}

// ChangedFields returns the names of all fields that differ from the
// snapshot.
func (t *Tracker) ChangedFields(event *models.ChartEvent) []string {
	current := fieldValues(event)
	var changed []string
	for _, field := range trackedFields {
		if t.initial[field] != current[field] {
			changed = append(changed, field)
		}
	}
	return changed
}

// Changed reports whether a single field differs from the snapshot.
func (t *Tracker) Changed(event *models.ChartEvent, field string) bool {
	current := fieldValues(event)
	return t.initial[field] != current[field]
}

// HasChanges reports whether any tracked field differs from the snapshot.
func (t *Tracker) HasChanges(event *models.ChartEvent) bool {
	return len(t.ChangedFields(event)) > 0
}

// IsNew reports whether the event had no prior persisted snapshot.
func (t *Tracker) IsNew() bool {
	return t.isNew
}

// NewlyCreated reports whether the most recent MarkSaved call inserted the
// event for the first time.
func (t *Tracker) NewlyCreated() bool {
	return t.newlyCreated
}

// LastChanged reports whether the field was part of the most recently
// persisted change set.
func (t *Tracker) LastChanged(field string) bool {
	_, ok := t.lastChanged[field]
	return ok
}

// MarkSaved resets the snapshot to the just-persisted values and records
// which fields that write touched. For an insert every tracked field counts
// as changed.
func (t *Tracker) MarkSaved(event *models.ChartEvent) {
	t.newlyCreated = t.isNew

	t.lastChanged = map[string]struct{}{}
	if t.isNew {
		for _, field := range trackedFields {
			t.lastChanged[field] = struct{}{}
		}
	} else {
		for _, field := range t.ChangedFields(event) {
			t.lastChanged[field] = struct{}{}
		}
	}

	t.initial = fieldValues(event)
	t.isNew = false
}

// fieldValues normalizes an event's tracked fields into comparable values.
func fieldValues(event *models.ChartEvent) map[string]any {
	return map[string]any{
		FieldProject:              event.ProjectID,
		FieldParent:               uintPtrValue(event.ParentID),
		FieldHierarchicalNumber:   event.HierarchicalNumber,
		FieldName:                 event.Name,
		FieldPlannedStart:         dateValue(event.PlannedStart),
		FieldPlannedDuration:      event.PlannedDuration,
		FieldPlannedEnd:           dateValue(event.PlannedEnd),
		FieldActualStart:          datePtrValue(event.ActualStart),
		FieldActualDuration:       intPtrValue(event.ActualDuration),
		FieldActualEnd:            datePtrValue(event.ActualEnd),
		FieldPercentageCompletion: event.PercentageCompletion,
		FieldIsRoot:               event.IsRoot,
		FieldResponsible:          uintPtrValue(event.ResponsibleID),
	}
}

func dateValue(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(DateLayout)
}

func datePtrValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(DateLayout)
}

func intPtrValue(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func uintPtrValue(v *uint64) any {
	if v == nil {
		return nil
	}
	return *v
}
