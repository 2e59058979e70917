package vectors

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ideaforge/ideaforge/internal/models"
)

// fixedEmbedder returns a constant vector and records inputs
type fixedEmbedder struct {
	inputs []string
}

func (f *fixedEmbedder) GetEmbedding(ctx context.Context, text, documentType string) ([]float32, error) {
	f.inputs = append(f.inputs, documentType+"|"+text)
	return []float32{0.1, 0.2, 0.3}, nil
}

// memEmbeddingStore collects saved entries
type memEmbeddingStore struct {
	saved []*models.ReferenceEmbedding
}

func (m *memEmbeddingStore) SaveEmbedding(e *models.ReferenceEmbedding) error {
	m.saved = append(m.saved, e)
	return nil
}

func (m *memEmbeddingStore) SaveEmbeddings(es []*models.ReferenceEmbedding) error {
	m.saved = append(m.saved, es...)
	return nil
}

func (m *memEmbeddingStore) SimilaritySearch(embedding []float32, threshold float64, limit int) ([]*models.SimilarDocument, error) {
	return nil, nil
}

func (m *memEmbeddingStore) CountEmbeddings() (int, error) { return len(m.saved), nil }

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoaderParsesFrontMatter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "prd-guide.md", `---
title: Writing Great PRDs
document_type: PRD
category: Best Practices
author: jane
---
Start with the problem, not the solution.
`)

	store := &memEmbeddingStore{}
	upload := NewUploadService(&fixedEmbedder{}, store, arbor.NewLogger())
	loader := NewLoader(dir, upload, arbor.NewLogger())

	stats, err := loader.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Uploaded)
	assert.Equal(t, 0, stats.Failed)

	require.Len(t, store.saved, 1)
	entry := store.saved[0]
	assert.Equal(t, "Writing Great PRDs", entry.Metadata.Title)
	assert.Equal(t, models.DocTypePRD, entry.Metadata.DocumentType)
	assert.Equal(t, "Best Practices", entry.Metadata.Category)
	assert.Equal(t, "jane", entry.Metadata.Author)
	assert.Equal(t, "Start with the problem, not the solution.\n", entry.Content)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, entry.Embedding)
}

func TestLoaderDefaultsWithoutFrontMatter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "api-conventions.md", "Use plural nouns for resources.")

	store := &memEmbeddingStore{}
	upload := NewUploadService(&fixedEmbedder{}, store, arbor.NewLogger())
	loader := NewLoader(dir, upload, arbor.NewLogger())

	stats, err := loader.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Uploaded)

	require.Len(t, store.saved, 1)
	assert.Equal(t, "api-conventions", store.saved[0].Metadata.Title)
	assert.Equal(t, "Guide", store.saved[0].Metadata.DocumentType)
}

func TestLoaderConvertsHTML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "patterns.html", "<h1>Patterns</h1><p>Keep components <strong>small</strong>.</p>")

	store := &memEmbeddingStore{}
	upload := NewUploadService(&fixedEmbedder{}, store, arbor.NewLogger())
	loader := NewLoader(dir, upload, arbor.NewLogger())

	stats, err := loader.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Uploaded)

	require.Len(t, store.saved, 1)
	assert.Contains(t, store.saved[0].Content, "# Patterns")
	assert.Contains(t, store.saved[0].Content, "**small**")
}

func TestLoaderSkipsUnknownExtensionsAndBadFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, "broken.md", "---\ntitle: no terminator\n")
	writeFile(t, dir, "good.md", "valid content")

	store := &memEmbeddingStore{}
	upload := NewUploadService(&fixedEmbedder{}, store, arbor.NewLogger())
	loader := NewLoader(dir, upload, arbor.NewLogger())

	stats, err := loader.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Scanned)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Uploaded)
}

func TestUploadRejectsInvalidMetadata(t *testing.T) {
	upload := NewUploadService(&fixedEmbedder{}, &memEmbeddingStore{}, arbor.NewLogger())

	_, err := upload.Upload(context.Background(), &UploadRequest{
		Content:  "content",
		Metadata: models.EmbeddingMetadata{Title: "", DocumentType: models.DocTypePRD},
	})
	assert.Error(t, err)

	_, err = upload.Upload(context.Background(), &UploadRequest{
		Content:  "content",
		Metadata: models.EmbeddingMetadata{Title: "t", DocumentType: "Analysis"},
	})
	assert.Error(t, err, "Analysis is generated, never uploaded as reference")
}

func TestUploadBatchContinuesPastFailures(t *testing.T) {
	store := &memEmbeddingStore{}
	upload := NewUploadService(&fixedEmbedder{}, store, arbor.NewLogger())

	reqs := []*UploadRequest{
		{Content: "a", Metadata: models.EmbeddingMetadata{Title: "A", DocumentType: "Guide"}},
		{Content: "", Metadata: models.EmbeddingMetadata{Title: "B", DocumentType: "Guide"}},
		{Content: "c", Metadata: models.EmbeddingMetadata{Title: "C", DocumentType: "Guide"}},
	}

	result := upload.UploadBatch(context.Background(), reqs)
	assert.Equal(t, 2, result.Uploaded)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, store.saved, 2)
}
