package embeddings

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ideaforge/ideaforge/internal/models"
)

// fakeCompletion records the text sent for embedding
type fakeCompletion struct {
	embedInput string
	embedVec   []float32
	embedErr   error
}

func (f *fakeCompletion) Embed(ctx context.Context, text string) ([]float32, error) {
	f.embedInput = text
	return f.embedVec, f.embedErr
}

func (f *fakeCompletion) StreamCompletion(ctx context.Context, system, user string, temperature float32) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {}
}

func (f *fakeCompletion) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeCompletion) Close() error                          { return nil }

// fakeEmbeddingStore returns scripted search results
type fakeEmbeddingStore struct {
	results []*models.SimilarDocument
	err     error
}

func (f *fakeEmbeddingStore) SaveEmbedding(*models.ReferenceEmbedding) error    { return nil }
func (f *fakeEmbeddingStore) SaveEmbeddings([]*models.ReferenceEmbedding) error { return nil }
func (f *fakeEmbeddingStore) CountEmbeddings() (int, error)                     { return len(f.results), nil }

func (f *fakeEmbeddingStore) SimilaritySearch(embedding []float32, threshold float64, limit int) ([]*models.SimilarDocument, error) {
	return f.results, f.err
}

func TestGetEmbeddingPrefixesDocumentType(t *testing.T) {
	completion := &fakeCompletion{embedVec: []float32{1}}
	svc := NewService(completion, &fakeEmbeddingStore{}, 0.8, 5, arbor.NewLogger())

	_, err := svc.GetEmbedding(context.Background(), "build a todo app", models.DocTypePRD)
	require.NoError(t, err)
	assert.Equal(t, "PRD: build a todo app", completion.embedInput)

	_, err = svc.GetEmbedding(context.Background(), "build a todo app", "")
	require.NoError(t, err)
	assert.Equal(t, "build a todo app", completion.embedInput)
}

func TestBuildContextualPromptAppendsReferences(t *testing.T) {
	completion := &fakeCompletion{embedVec: []float32{1}}
	store := &fakeEmbeddingStore{results: []*models.SimilarDocument{
		{
			Content:    "Reference content A",
			Metadata:   models.EmbeddingMetadata{Title: "Guide A"},
			Similarity: 0.95,
		},
		{
			Content:    "Reference content B",
			Metadata:   models.EmbeddingMetadata{},
			Similarity: 0.812,
		},
	}}
	svc := NewService(completion, store, 0.8, 5, arbor.NewLogger())

	prompt := svc.BuildContextualPrompt(context.Background(), "query", "Base prompt.", models.DocTypePRD)

	assert.Contains(t, prompt, "Base prompt.\n\nRelevant context from documentation:\n")
	assert.Contains(t, prompt, "Reference content A\n\nReference content B")
	assert.Contains(t, prompt, "Source: Guide A (Similarity: 95.0%)")
	assert.Contains(t, prompt, "Source: Documentation (Similarity: 81.2%)")
	assert.Contains(t, prompt, "Use this context to inform and enhance your response while maintaining the requested format and structure.")
}

func TestBuildContextualPromptNoMatches(t *testing.T) {
	completion := &fakeCompletion{embedVec: []float32{1}}
	svc := NewService(completion, &fakeEmbeddingStore{}, 0.8, 5, arbor.NewLogger())

	prompt := svc.BuildContextualPrompt(context.Background(), "query", "Base prompt.", "")
	assert.Equal(t, "Base prompt.", prompt)
}

func TestBuildContextualPromptDegradesOnEmbedFailure(t *testing.T) {
	completion := &fakeCompletion{embedErr: errors.New("quota exceeded")}
	svc := NewService(completion, &fakeEmbeddingStore{}, 0.8, 5, arbor.NewLogger())

	prompt := svc.BuildContextualPrompt(context.Background(), "query", "Base prompt.", "")
	assert.Equal(t, "Base prompt.", prompt)
}

func TestBuildContextualPromptDegradesOnSearchFailure(t *testing.T) {
	completion := &fakeCompletion{embedVec: []float32{1}}
	store := &fakeEmbeddingStore{err: errors.New("store closed")}
	svc := NewService(completion, store, 0.8, 5, arbor.NewLogger())

	prompt := svc.BuildContextualPrompt(context.Background(), "query", "Base prompt.", "")
	assert.Equal(t, "Base prompt.", prompt)
}
