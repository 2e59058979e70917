package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ideaforge/ideaforge/internal/common"
	"github.com/ideaforge/ideaforge/internal/interfaces"
	"github.com/ideaforge/ideaforge/internal/models"
)

// IdeaStorage implements interfaces.IdeaStorage using BadgerDB
type IdeaStorage struct {
	db        *BadgerDB
	documents interfaces.DocumentStorage
	logger    arbor.ILogger
}

// NewIdeaStorage creates a new idea storage instance
func NewIdeaStorage(db *BadgerDB, documents interfaces.DocumentStorage, logger arbor.ILogger) *IdeaStorage {
	return &IdeaStorage{
		db:        db,
		documents: documents,
		logger:    logger,
	}
}

// InsertIdea stores a new idea, populating its ID and timestamps
func (s *IdeaStorage) InsertIdea(idea *models.Idea) (*models.Idea, error) {
	if idea.ID == "" {
		idea.ID = common.NewIdeaID()
	}
	now := time.Now()
	idea.CreatedAt = now
	idea.UpdatedAt = now

	if err := s.db.Store().Insert(idea.ID, idea); err != nil {
		return nil, fmt.Errorf("failed to insert idea: %w", err)
	}

	s.logger.Debug().Str("idea_id", idea.ID).Str("title", idea.Title).Msg("Idea stored")

	return idea, nil
}

// GetIdea retrieves an idea by ID, returning nil if not found
func (s *IdeaStorage) GetIdea(id string) (*models.Idea, error) {
	var idea models.Idea
	if err := s.db.Store().Get(id, &idea); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get idea: %w", err)
	}
	return &idea, nil
}

// ListIdeasForUser returns a user's ideas newest first, with documents attached
func (s *IdeaStorage) ListIdeasForUser(userID string) ([]*models.Idea, error) {
	var ideas []*models.Idea
	query := badgerhold.Where("UserID").Eq(userID).SortBy("CreatedAt").Reverse()
	if err := s.db.Store().Find(&ideas, query); err != nil {
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}

	for _, idea := range ideas {
		docs, err := s.documents.GetDocuments(idea.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load documents for idea %s: %w", idea.ID, err)
		}
		idea.Documents = docs
	}

	return ideas, nil
}

// SetVisibility updates the public flag on an idea
func (s *IdeaStorage) SetVisibility(id string, public bool) error {
	var idea models.Idea
	if err := s.db.Store().Get(id, &idea); err != nil {
		if err == badgerhold.ErrNotFound {
			return fmt.Errorf("idea not found: %s", id)
		}
		return fmt.Errorf("failed to get idea: %w", err)
	}

	idea.IsPublic = public
	idea.UpdatedAt = time.Now()

	if err := s.db.Store().Update(id, &idea); err != nil {
		return fmt.Errorf("failed to update idea visibility: %w", err)
	}

	s.logger.Debug().Str("idea_id", id).Bool("public", public).Msg("Idea visibility updated")

	return nil
}
