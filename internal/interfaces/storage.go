package interfaces

import (
	"github.com/ideaforge/ideaforge/internal/models"
)

// IdeaStorage defines operations for idea persistence
type IdeaStorage interface {
	// InsertIdea stores a new idea and returns it with identifier and
	// timestamps populated
	InsertIdea(idea *models.Idea) (*models.Idea, error)

	// GetIdea retrieves an idea by ID, or nil if not found
	GetIdea(id string) (*models.Idea, error)

	// ListIdeasForUser returns a user's ideas ordered newest first, each
	// with its documents attached
	ListIdeasForUser(userID string) ([]*models.Idea, error)

	// SetVisibility updates the public flag on an idea
	SetVisibility(id string, public bool) error
}

// DocumentStorage defines operations for generated document persistence
type DocumentStorage interface {
	// GetDocuments returns all documents for an idea ordered by creation time
	GetDocuments(ideaID string) ([]*models.Document, error)

	// GetDocument returns the document for (ideaID, documentType), or nil if
	// none exists
	GetDocument(ideaID, documentType string) (*models.Document, error)

	// UpsertDocument inserts or overwrites the document keyed on
	// (ideaID, documentType). At most one document per pair ever exists.
	UpsertDocument(ideaID, documentType, content string) (*models.Document, error)
}

// EmbeddingStorage defines operations for the reference embedding library
// backing the similarity index
type EmbeddingStorage interface {
	// SaveEmbedding stores a reference document embedding
	SaveEmbedding(emb *models.ReferenceEmbedding) error

	// SaveEmbeddings stores a batch of reference document embeddings
	SaveEmbeddings(embs []*models.ReferenceEmbedding) error

	// SimilaritySearch returns at most limit stored entries with cosine
	// similarity >= threshold against the query embedding, ordered by
	// descending similarity
	SimilaritySearch(embedding []float32, threshold float64, limit int) ([]*models.SimilarDocument, error)

	// CountEmbeddings returns the number of stored reference embeddings
	CountEmbeddings() (int, error)
}

// StorageManager provides access to all storage implementations
type StorageManager interface {
	IdeaStorage() IdeaStorage
	DocumentStorage() DocumentStorage
	EmbeddingStorage() EmbeddingStorage
	Close() error
}
