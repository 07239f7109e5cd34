package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/gmakarov/gantt-chart-api/internal/chart"
	"github.com/gmakarov/gantt-chart-api/internal/metrics"
	"github.com/gmakarov/gantt-chart-api/internal/models"
	"github.com/gmakarov/gantt-chart-api/internal/repository"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrEventNameRequired = errors.New("event name is required")
	ErrCannotDeleteRoot  = errors.New("the root event cannot be deleted")
)

// EventService handles chart event CRUD by driving the hierarchy engine.
// Each mutation runs through one chart.EventService instance: derived-field
// computation and validation first, then the transactional save or delete.
type EventService struct {
	db        *gorm.DB
	eventRepo repository.EventRepository
	clock     chart.Clock
}

// NewEventService creates a new EventService.
func NewEventService(db *gorm.DB, eventRepo repository.EventRepository) *EventService {
	return &EventService{
		db:        db,
		eventRepo: eventRepo,
		clock:     chart.SystemClock(),
	}
}

// WithClock overrides the clock, for deterministic tests.
func (s *EventService) WithClock(clock chart.Clock) *EventService {
	s.clock = clock
	return s
}

// Today exposes the service clock's current day for chart projections.
func (s *EventService) Today() time.Time {
	return s.clock.Today()
}

// ListEvents returns a project's events ordered by hierarchical number.
func (s *EventService) ListEvents(projectID uint64) ([]models.ChartEvent, error) {
	events, err := s.eventRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// GetEvent returns an event with related data.
func (s *EventService) GetEvent(eventID uint64) (*models.ChartEvent, error) {
	event, err := s.eventRepo.FindByID(eventID, "Responsible", "FollowerLinks")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return event, nil
}

// CreateEventInput represents input for creating an event.
type CreateEventInput struct {
	ProjectID            uint64
	ParentID             *uint64
	Name                 string
	PlannedStart         time.Time
	PlannedDuration      int
	PercentageCompletion int
	ResponsibleID        *uint64
}

// CreateEvent validates and persists a new event under its parent.
func (s *EventService) CreateEvent(input CreateEventInput) (*models.ChartEvent, error) {
	if input.Name == "" {
		return nil, ErrEventNameRequired
	}

	event := &models.ChartEvent{
		ProjectID:            input.ProjectID,
		ParentID:             input.ParentID,
		Name:                 input.Name,
		PlannedStart:         input.PlannedStart,
		PlannedDuration:      input.PlannedDuration,
		PercentageCompletion: input.PercentageCompletion,
		ResponsibleID:        input.ResponsibleID,
	}

	engine := chart.NewEventServiceWithClock(s.db, event, s.clock)
	if err := engine.Validate(); err != nil {
		metrics.ValidationFailures.Inc()
		return nil, err
	}
	if err := engine.Save(false); err != nil {
		return nil, err
	}

	metrics.EventSaves.Inc()
	return event, nil
}

// UpdateEventInput represents input for updating an event. Nil fields are
// left untouched.
type UpdateEventInput struct {
	Name                 *string
	ParentID             *uint64
	PlannedStart         *time.Time
	PlannedDuration      *int
	PercentageCompletion *int
	ResponsibleID        *uint64
	ClearResponsible     bool
}

// UpdateEvent applies field changes to an existing event and runs the full
// validate/save cycle. The owning project and the hierarchical number are
// immutable.
func (s *EventService) UpdateEvent(eventID uint64, input UpdateEventInput) (*models.ChartEvent, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	// The tracker snapshots the loaded state before any field changes.
	engine := chart.NewEventServiceWithClock(s.db, event, s.clock)

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrEventNameRequired
		}
		event.Name = *input.Name
	}
	if input.ParentID != nil {
		event.ParentID = input.ParentID
	}
	if input.PlannedStart != nil {
		event.PlannedStart = *input.PlannedStart
	}
	if input.PlannedDuration != nil {
		event.PlannedDuration = *input.PlannedDuration
	}
	if input.PercentageCompletion != nil {
		event.PercentageCompletion = *input.PercentageCompletion
	}
	if input.ClearResponsible {
		event.ResponsibleID = nil
	} else if input.ResponsibleID != nil {
		event.ResponsibleID = input.ResponsibleID
	}

	if err := engine.Validate(); err != nil {
		metrics.ValidationFailures.Inc()
		return nil, err
	}
	if err := engine.Save(false); err != nil {
		return nil, err
	}

	metrics.EventSaves.Inc()
	return event, nil
}

// DeleteEvent removes a non-root event together with its descendants and
// links.
func (s *EventService) DeleteEvent(eventID uint64) error {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to find event: %w", err)
	}

	if event.IsRoot {
		return ErrCannotDeleteRoot
	}

	engine := chart.NewEventServiceWithClock(s.db, event, s.clock)
	if err := engine.Delete(); err != nil {
		return err
	}

	metrics.EventDeletes.Inc()
	return nil
}
