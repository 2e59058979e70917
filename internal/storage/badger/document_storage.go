package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ideaforge/ideaforge/internal/common"
	"github.com/ideaforge/ideaforge/internal/models"
)

// DocumentStorage implements interfaces.DocumentStorage using BadgerDB.
// Documents are keyed on (IdeaID, DocumentType): regeneration overwrites the
// previous content instead of accumulating versions.
type DocumentStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewDocumentStorage creates a new document storage instance
func NewDocumentStorage(db *BadgerDB, logger arbor.ILogger) *DocumentStorage {
	return &DocumentStorage{
		db:     db,
		logger: logger,
	}
}

// GetDocuments returns all documents for an idea ordered by creation time
func (s *DocumentStorage) GetDocuments(ideaID string) ([]*models.Document, error) {
	var docs []*models.Document
	query := badgerhold.Where("IdeaID").Eq(ideaID).SortBy("CreatedAt")
	if err := s.db.Store().Find(&docs, query); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// GetDocument returns the document for (ideaID, documentType), or nil if none
// exists
func (s *DocumentStorage) GetDocument(ideaID, documentType string) (*models.Document, error) {
	var docs []*models.Document
	query := badgerhold.Where("IdeaID").Eq(ideaID).And("DocumentType").Eq(documentType)
	if err := s.db.Store().Find(&docs, query); err != nil {
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0], nil
}

// UpsertDocument inserts or overwrites the document for (ideaID, documentType).
// The original CreatedAt is preserved on overwrite so document ordering stays
// stable across regenerations.
func (s *DocumentStorage) UpsertDocument(ideaID, documentType, content string) (*models.Document, error) {
	existing, err := s.GetDocument(ideaID, documentType)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	if existing != nil {
		existing.Content = content
		existing.UpdatedAt = now
		if err := s.db.Store().Update(existing.ID, existing); err != nil {
			return nil, fmt.Errorf("failed to update document: %w", err)
		}
		s.logger.Debug().
			Str("idea_id", ideaID).
			Str("document_type", documentType).
			Msg("Document overwritten")
		return existing, nil
	}

	doc := &models.Document{
		ID:           common.NewDocumentID(),
		IdeaID:       ideaID,
		DocumentType: documentType,
		Content:      content,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.db.Store().Insert(doc.ID, doc); err != nil {
		return nil, fmt.Errorf("failed to insert document: %w", err)
	}

	s.logger.Debug().
		Str("idea_id", ideaID).
		Str("document_type", documentType).
		Msg("Document stored")

	return doc, nil
}
