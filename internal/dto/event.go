package dto

import (
	"time"

	"github.com/gmakarov/gantt-chart-api/internal/models"
)

// EventLinkDTO represents a dependency edge in API responses
type EventLinkDTO struct {
	ID            uint64 `json:"id"`
	PredecessorID uint64 `json:"predecessor_id"`
	FollowerID    uint64 `json:"follower_id"`
}

// EventDTO represents a chart event in API responses
type EventDTO struct {
	ID                   uint64         `json:"id"`
	ProjectID            uint64         `json:"project_id"`
	ParentID             *uint64        `json:"parent_id"`
	HierarchicalNumber   string         `json:"hierarchical_number"`
	Name                 string         `json:"name"`
	PlannedStart         time.Time      `json:"planned_start"`
	PlannedDuration      int            `json:"planned_duration"`
	PlannedEnd           time.Time      `json:"planned_end"`
	ActualStart          *time.Time     `json:"actual_start"`
	ActualDuration       *int           `json:"actual_duration"`
	ActualEnd            *time.Time     `json:"actual_end"`
	PercentageCompletion int            `json:"percentage_completion"`
	IsRoot               bool           `json:"is_root"`
	ResponsibleID        *uint64        `json:"responsible_id"`
	Responsible          *UserDTO       `json:"responsible,omitempty"`
	FollowerLinks        []EventLinkDTO `json:"follower_links,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// EventListResponse represents a paginated list of events
type EventListResponse struct {
	Events     []EventDTO `json:"events"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalCount int64      `json:"total_count"`
	TotalPages int        `json:"total_pages"`
}

// ToEventLinkDTO converts an EventLink model to EventLinkDTO
func ToEventLinkDTO(link models.EventLink) EventLinkDTO {
	return EventLinkDTO{
		ID:            link.ID,
		PredecessorID: link.PredecessorID,
		FollowerID:    link.FollowerID,
	}
}

// ToEventDTO converts a ChartEvent model to EventDTO
func ToEventDTO(event models.ChartEvent) EventDTO {
	dto := EventDTO{
		ID:                   event.ID,
		ProjectID:            event.ProjectID,
		ParentID:             event.ParentID,
		HierarchicalNumber:   event.HierarchicalNumber,
		Name:                 event.Name,
		PlannedStart:         event.PlannedStart,
		PlannedDuration:      event.PlannedDuration,
		PlannedEnd:           event.PlannedEnd,
		ActualStart:          event.ActualStart,
		ActualDuration:       event.ActualDuration,
		ActualEnd:            event.ActualEnd,
		PercentageCompletion: event.PercentageCompletion,
		IsRoot:               event.IsRoot,
		ResponsibleID:        event.ResponsibleID,
		CreatedAt:            event.CreatedAt,
		UpdatedAt:            event.UpdatedAt,
	}

	// Include responsible if preloaded
	if event.Responsible != nil && event.Responsible.ID != 0 {
		responsible := ToUserDTO(*event.Responsible)
		dto.Responsible = &responsible
	}

	// Include outgoing links if preloaded
	if len(event.FollowerLinks) > 0 {
		dto.FollowerLinks = make([]EventLinkDTO, len(event.FollowerLinks))
		for i, link := range event.FollowerLinks {
			dto.FollowerLinks[i] = ToEventLinkDTO(link)
		}
	}

	return dto
}

// ToEventListResponse converts a slice of events to EventListResponse
func ToEventListResponse(events []models.ChartEvent, page, pageSize int, totalCount int64) EventListResponse {
	items := make([]EventDTO, len(events))
	for i, event := range events {
		items[i] = ToEventDTO(event)
	}

	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		totalPages++
	}

	return EventListResponse{
		Events:     items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
