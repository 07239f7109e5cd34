package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/gmakarov/gantt-chart-api/internal/models"
	"github.com/gmakarov/gantt-chart-api/internal/repository"
)

var (
	ErrCommentNotFound     = errors.New("comment not found")
	ErrCommentTextRequired = errors.New("comment text is required")
	ErrUnknownEntityKind   = errors.New("unknown entity kind")
	ErrCommentTargetGone   = errors.New("the commented entity does not exist")
	ErrNotCommentAuthor    = errors.New("only the comment author can delete it")
)

// targetChecker verifies that the entity a comment points at exists.
type targetChecker func(db *gorm.DB, objectID string) (bool, error)

// CommentService handles free-text comments attached to entities by kind
// tag. Kinds are registered explicitly; an unregistered tag is rejected
// instead of being resolved by reflection.
type CommentService struct {
	db          *gorm.DB
	commentRepo repository.CommentRepository
	kinds       map[models.EntityKind]targetChecker
}

// NewCommentService creates a CommentService with the project and event
// kinds registered.
func NewCommentService(db *gorm.DB, commentRepo repository.CommentRepository) *CommentService {
	s := &CommentService{
		db:          db,
		commentRepo: commentRepo,
		kinds:       map[models.EntityKind]targetChecker{},
	}
	s.kinds[models.EntityKindProject] = checkRowExists(&models.Project{})
	s.kinds[models.EntityKindEvent] = checkRowExists(&models.ChartEvent{})
	return s
}

// ListComments returns the comments attached to one entity, newest first.
func (s *CommentService) ListComments(kind models.EntityKind, objectID string) ([]models.UniversalComment, error) {
	if err := s.checkTarget(kind, objectID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByTarget(kind, objectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// CreateCommentInput represents input for creating a comment.
type CreateCommentInput struct {
	Kind     models.EntityKind
	ObjectID string
	Comment  string
	AuthorID uint64
}

// CreateComment attaches a comment to an existing entity.
func (s *CommentService) CreateComment(input CreateCommentInput) (*models.UniversalComment, error) {
	if strings.TrimSpace(input.Comment) == "" {
		return nil, ErrCommentTextRequired
	}
	if err := s.checkTarget(input.Kind, input.ObjectID); err != nil {
		return nil, err
	}

	comment := &models.UniversalComment{
		EntityKind: input.Kind,
		ObjectID:   input.ObjectID,
		Comment:    input.Comment,
		AuthorID:   input.AuthorID,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

// DeleteComment removes a comment if the actor authored it.
func (s *CommentService) DeleteComment(commentID, actorID uint64) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to find comment: %w", err)
	}

	if comment.AuthorID != actorID {
		return ErrNotCommentAuthor
	}

	if err := s.commentRepo.Delete(commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}

func (s *CommentService) checkTarget(kind models.EntityKind, objectID string) error {
	check, ok := s.kinds[kind]
	if !ok {
		return ErrUnknownEntityKind
	}

	exists, err := check(s.db, objectID)
	if err != nil {
		return fmt.Errorf("failed to check comment target: %w", err)
	}
	if !exists {
		return ErrCommentTargetGone
	}
	return nil
}

// checkRowExists builds a targetChecker counting rows of one model by
// primary key.
func checkRowExists(model any) targetChecker {
	return func(db *gorm.DB, objectID string) (bool, error) {
		id, err := strconv.ParseUint(objectID, 10, 64)
		if err != nil {
			return false, nil
		}

		var count int64
		if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
			return false, err
		}
		return count > 0, nil
	}
}
