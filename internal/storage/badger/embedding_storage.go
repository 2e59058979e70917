package badger

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ideaforge/ideaforge/internal/common"
	"github.com/ideaforge/ideaforge/internal/models"
)

// EmbeddingStorage implements interfaces.EmbeddingStorage using BadgerDB.
// Similarity search scans the full library; the reference corpus is small
// (hundreds of entries), so a vector index would be overkill.
type EmbeddingStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewEmbeddingStorage creates a new embedding storage instance
func NewEmbeddingStorage(db *BadgerDB, logger arbor.ILogger) *EmbeddingStorage {
	return &EmbeddingStorage{
		db:     db,
		logger: logger,
	}
}

// SaveEmbedding stores a reference document embedding
func (s *EmbeddingStorage) SaveEmbedding(emb *models.ReferenceEmbedding) error {
	if emb.ID == "" {
		emb.ID = common.NewEmbeddingID()
	}
	if emb.CreatedAt.IsZero() {
		emb.CreatedAt = time.Now()
	}

	if err := s.db.Store().Insert(emb.ID, emb); err != nil {
		return fmt.Errorf("failed to save embedding: %w", err)
	}

	s.logger.Debug().
		Str("embedding_id", emb.ID).
		Str("title", emb.Metadata.Title).
		Msg("Reference embedding stored")

	return nil
}

// SaveEmbeddings stores a batch of reference document embeddings
func (s *EmbeddingStorage) SaveEmbeddings(embs []*models.ReferenceEmbedding) error {
	for _, emb := range embs {
		if err := s.SaveEmbedding(emb); err != nil {
			return err
		}
	}
	return nil
}

// SimilaritySearch returns at most limit entries with cosine similarity >=
// threshold, ordered by descending similarity
func (s *EmbeddingStorage) SimilaritySearch(embedding []float32, threshold float64, limit int) ([]*models.SimilarDocument, error) {
	var entries []*models.ReferenceEmbedding
	if err := s.db.Store().Find(&entries, nil); err != nil {
		return nil, fmt.Errorf("failed to load embeddings: %w", err)
	}

	results := make([]*models.SimilarDocument, 0, len(entries))
	for _, entry := range entries {
		similarity := cosineSimilarity(embedding, entry.Embedding)
		if similarity >= threshold {
			results = append(results, &models.SimilarDocument{
				Content:    entry.Content,
				Metadata:   entry.Metadata,
				Similarity: similarity,
			})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// CountEmbeddings returns the number of stored reference embeddings
func (s *EmbeddingStorage) CountEmbeddings() (int, error) {
	count, err := s.db.Store().Count(&models.ReferenceEmbedding{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count embeddings: %w", err)
	}
	return int(count), nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched dimensions or zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
