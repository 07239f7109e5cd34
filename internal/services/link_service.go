package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gmakarov/gantt-chart-api/internal/models"
	"github.com/gmakarov/gantt-chart-api/internal/repository"
)

var (
	ErrLinkNotFound        = errors.New("event link not found")
	ErrLinkExists          = errors.New("these events are already linked")
	ErrLinkSelfReference   = errors.New("an event cannot be linked to itself")
	ErrLinkProjectMismatch = errors.New("linked events must belong to the same project")
)

// LinkService handles the display-only dependency edges between events.
type LinkService struct {
	linkRepo  repository.LinkRepository
	eventRepo repository.EventRepository
}

// NewLinkService creates a new LinkService.
func NewLinkService(linkRepo repository.LinkRepository, eventRepo repository.EventRepository) *LinkService {
	return &LinkService{
		linkRepo:  linkRepo,
		eventRepo: eventRepo,
	}
}

// ListLinks returns the outgoing links of an event.
func (s *LinkService) ListLinks(predecessorID uint64) ([]models.EventLink, error) {
	if _, err := s.eventRepo.FindByID(predecessorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	links, err := s.linkRepo.ListByPredecessor(predecessorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	return links, nil
}

// CreateLink links a follower to a predecessor after checking the pair is
// new, distinct and within one project.
func (s *LinkService) CreateLink(predecessorID, followerID uint64) (*models.EventLink, error) {
	if predecessorID == followerID {
		return nil, ErrLinkSelfReference
	}

	predecessor, follower, err := s.loadPair(predecessorID, followerID)
	if err != nil {
		return nil, err
	}
	if predecessor.ProjectID != follower.ProjectID {
		return nil, ErrLinkProjectMismatch
	}

	if _, err := s.linkRepo.FindByPair(predecessorID, followerID); err == nil {
		return nil, ErrLinkExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing link: %w", err)
	}

	link := &models.EventLink{
		PredecessorID: predecessorID,
		FollowerID:    followerID,
	}

	if err := s.linkRepo.Create(link); err != nil {
		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	return link, nil
}

// UpdateLink repoints an existing link to a different follower.
func (s *LinkService) UpdateLink(linkID, followerID uint64) (*models.EventLink, error) {
	link, err := s.linkRepo.FindByID(linkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to find link: %w", err)
	}

	if link.FollowerID == followerID {
		return link, nil
	}
	if link.PredecessorID == followerID {
		return nil, ErrLinkSelfReference
	}

	predecessor, follower, err := s.loadPair(link.PredecessorID, followerID)
	if err != nil {
		return nil, err
	}
	if predecessor.ProjectID != follower.ProjectID {
		return nil, ErrLinkProjectMismatch
	}

	if _, err := s.linkRepo.FindByPair(link.PredecessorID, followerID); err == nil {
		return nil, ErrLinkExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing link: %w", err)
	}

	link.FollowerID = followerID
	if err := s.linkRepo.Update(link); err != nil {
		return nil, fmt.Errorf("failed to update link: %w", err)
	}

	return link, nil
}

// DeleteLink removes a link.
func (s *LinkService) DeleteLink(linkID uint64) error {
	if _, err := s.linkRepo.FindByID(linkID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLinkNotFound
		}
		return fmt.Errorf("failed to find link: %w", err)
	}

	if err := s.linkRepo.Delete(linkID); err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	return nil
}

func (s *LinkService) loadPair(predecessorID, followerID uint64) (*models.ChartEvent, *models.ChartEvent, error) {
	predecessor, err := s.eventRepo.FindByID(predecessorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrEventNotFound
		}
		return nil, nil, fmt.Errorf("failed to find predecessor: %w", err)
	}

	follower, err := s.eventRepo.FindByID(followerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrEventNotFound
		}
		return nil, nil, fmt.Errorf("failed to find follower: %w", err)
	}

	return predecessor, follower, nil
}
