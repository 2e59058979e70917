package badger

import (
	"github.com/ternarybob/arbor"

	"github.com/ideaforge/ideaforge/internal/common"
	"github.com/ideaforge/ideaforge/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db        *BadgerDB
	idea      interfaces.IdeaStorage
	document  interfaces.DocumentStorage
	embedding interfaces.EmbeddingStorage
	logger    arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	documentStorage := NewDocumentStorage(db, logger)

	manager := &Manager{
		db:        db,
		idea:      NewIdeaStorage(db, documentStorage, logger),
		document:  documentStorage,
		embedding: NewEmbeddingStorage(db, logger),
		logger:    logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// IdeaStorage returns the Idea storage interface
func (m *Manager) IdeaStorage() interfaces.IdeaStorage {
	return m.idea
}

// DocumentStorage returns the Document storage interface
func (m *Manager) DocumentStorage() interfaces.DocumentStorage {
	return m.document
}

// EmbeddingStorage returns the Embedding storage interface
func (m *Manager) EmbeddingStorage() interfaces.EmbeddingStorage {
	return m.embedding
}

// Close closes the storage manager and underlying database
func (m *Manager) Close() error {
	return m.db.Close()
}
