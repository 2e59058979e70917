package embeddings

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ideaforge/ideaforge/internal/interfaces"
	"github.com/ideaforge/ideaforge/internal/models"
)

// Service augments generation prompts with relevant reference material from
// the embedding library. Augmentation is strictly best-effort: any failure
// along the embed-search path degrades to the unaugmented prompt so
// generation never blocks on the reference library.
type Service struct {
	completion interfaces.CompletionService
	storage    interfaces.EmbeddingStorage
	threshold  float64
	maxResults int
	logger     arbor.ILogger
}

// NewService creates a new embedding service
func NewService(completion interfaces.CompletionService, storage interfaces.EmbeddingStorage, threshold float64, maxResults int, logger arbor.ILogger) *Service {
	if threshold <= 0 {
		threshold = 0.8
	}
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Service{
		completion: completion,
		storage:    storage,
		threshold:  threshold,
		maxResults: maxResults,
		logger:     logger,
	}
}

// GetEmbedding generates an embedding for the text, prefixed with the
// document type when given so queries land near same-type references.
func (s *Service) GetEmbedding(ctx context.Context, text, documentType string) ([]float32, error) {
	inputText := text
	if documentType != "" {
		inputText = fmt.Sprintf("%s: %s", documentType, text)
	}
	return s.completion.Embed(ctx, inputText)
}

// FindSimilar searches the reference library for entries similar to the
// embedding. Failures degrade to an empty result with a warning.
func (s *Service) FindSimilar(embedding []float32) []*models.SimilarDocument {
	results, err := s.storage.SimilaritySearch(embedding, s.threshold, s.maxResults)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Similarity search failed, continuing without reference context")
		return nil
	}
	return results
}

// BuildContextualPrompt returns basePrompt extended with reference material
// similar to the query. When the library has nothing relevant, or any step
// fails, the returned prompt is basePrompt unchanged.
func (s *Service) BuildContextualPrompt(ctx context.Context, query, basePrompt, documentType string) string {
	embedding, err := s.GetEmbedding(ctx, query, documentType)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Query embedding failed, continuing without reference context")
		return basePrompt
	}

	similarDocs := s.FindSimilar(embedding)
	if len(similarDocs) == 0 {
		return basePrompt
	}

	contents := make([]string, 0, len(similarDocs))
	sources := make([]string, 0, len(similarDocs))
	for _, doc := range similarDocs {
		contents = append(contents, doc.Content)
		title := doc.Metadata.Title
		if title == "" {
			title = "Documentation"
		}
		sources = append(sources, fmt.Sprintf("Source: %s (Similarity: %.1f%%)", title, doc.Similarity*100))
	}

	s.logger.Debug().
		Int("matches", len(similarDocs)).
		Str("document_type", documentType).
		Msg("Augmenting prompt with reference context")

	return fmt.Sprintf("%s\n\nRelevant context from documentation:\n%s\n\n%s\n\nUse this context to inform and enhance your response while maintaining the requested format and structure.",
		basePrompt,
		strings.Join(contents, "\n\n"),
		strings.Join(sources, "\n"))
}
