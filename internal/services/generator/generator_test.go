package generator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ideaforge/ideaforge/internal/interfaces"
	"github.com/ideaforge/ideaforge/internal/models"
	"github.com/ideaforge/ideaforge/internal/services/gate"
)

// scriptedCompletion yields a fixed fragment list and records the prompts it
// was called with
type scriptedCompletion struct {
	fragments   []string
	streamErr   error
	system      string
	user        string
	temperature float32
}

func (s *scriptedCompletion) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1}, nil
}

func (s *scriptedCompletion) StreamCompletion(ctx context.Context, system, user string, temperature float32) iter.Seq2[string, error] {
	s.system = system
	s.user = user
	s.temperature = temperature
	return func(yield func(string, error) bool) {
		for _, fragment := range s.fragments {
			if !yield(fragment, nil) {
				return
			}
		}
		if s.streamErr != nil {
			yield("", s.streamErr)
		}
	}
}

func (s *scriptedCompletion) HealthCheck(ctx context.Context) error { return nil }
func (s *scriptedCompletion) Close() error                          { return nil }

// passthroughAugmenter returns the base prompt untouched, the degraded path
// of the real augmenter
type passthroughAugmenter struct{}

func (passthroughAugmenter) BuildContextualPrompt(ctx context.Context, query, basePrompt, documentType string) string {
	return basePrompt
}

// In-memory storage fakes

type memStorage struct {
	ideas      map[string]*models.Idea
	docs       []*models.Document
	failUpsert bool
}

func newMemStorage() *memStorage {
	return &memStorage{ideas: make(map[string]*models.Idea)}
}

func (m *memStorage) IdeaStorage() interfaces.IdeaStorage           { return m }
func (m *memStorage) DocumentStorage() interfaces.DocumentStorage   { return m }
func (m *memStorage) EmbeddingStorage() interfaces.EmbeddingStorage { return nil }
func (m *memStorage) Close() error                                  { return nil }

func (m *memStorage) InsertIdea(idea *models.Idea) (*models.Idea, error) {
	if idea.ID == "" {
		idea.ID = fmt.Sprintf("idea_%d", len(m.ideas)+1)
	}
	m.ideas[idea.ID] = idea
	return idea, nil
}

func (m *memStorage) GetIdea(id string) (*models.Idea, error) { return m.ideas[id], nil }

func (m *memStorage) ListIdeasForUser(userID string) ([]*models.Idea, error) {
	var out []*models.Idea
	for _, idea := range m.ideas {
		if idea.UserID == userID {
			out = append(out, idea)
		}
	}
	return out, nil
}

func (m *memStorage) SetVisibility(id string, public bool) error { return nil }

func (m *memStorage) GetDocuments(ideaID string) ([]*models.Document, error) {
	var out []*models.Document
	for _, doc := range m.docs {
		if doc.IdeaID == ideaID {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (m *memStorage) GetDocument(ideaID, documentType string) (*models.Document, error) {
	for _, doc := range m.docs {
		if doc.IdeaID == ideaID && doc.DocumentType == documentType {
			return doc, nil
		}
	}
	return nil, nil
}

func (m *memStorage) UpsertDocument(ideaID, documentType, content string) (*models.Document, error) {
	if m.failUpsert {
		return nil, errors.New("disk full")
	}
	for _, doc := range m.docs {
		if doc.IdeaID == ideaID && doc.DocumentType == documentType {
			doc.Content = content
			return doc, nil
		}
	}
	doc := &models.Document{
		ID:           fmt.Sprintf("doc_%d", len(m.docs)+1),
		IdeaID:       ideaID,
		DocumentType: documentType,
		Content:      content,
	}
	m.docs = append(m.docs, doc)
	return doc, nil
}

func newTestGenerator(completion *scriptedCompletion, storage *memStorage) *Generator {
	g := New(completion, passthroughAugmenter{}, storage, gate.New(), arbor.NewLogger())
	g.StartSession("user-1")
	return g
}

func drain(seq iter.Seq2[string, error]) ([]string, error) {
	var fragments []string
	var firstErr error
	seq(func(fragment string, err error) bool {
		if err != nil {
			firstErr = err
			return false
		}
		fragments = append(fragments, fragment)
		return true
	})
	return fragments, firstErr
}

func TestAnalyzeCreatesIdeaAndPersistsAnalysis(t *testing.T) {
	completion := &scriptedCompletion{fragments: []string{"The idea ", "is viable."}}
	storage := newMemStorage()
	g := newTestGenerator(completion, storage)

	fragments, err := drain(g.Analyze(context.Background(), "Todo app\nA simple todo app."))
	require.NoError(t, err)
	assert.Equal(t, []string{"The idea ", "is viable."}, fragments)

	idea := g.CurrentIdea()
	require.NotNil(t, idea)
	assert.Equal(t, "Todo app", idea.Title)
	assert.Equal(t, "user-1", idea.UserID)

	doc, err := storage.GetDocument(idea.ID, models.DocTypeAnalysis)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "The idea is viable.", doc.Content)

	assert.True(t, g.Gate().IsCompleted(models.DocTypeAnalysis))
	assert.Equal(t, float32(0.5), completion.temperature)
}

func TestGenerateBuildsPromptFromExistingDocuments(t *testing.T) {
	completion := &scriptedCompletion{fragments: []string{"PRD content"}}
	storage := newMemStorage()
	g := newTestGenerator(completion, storage)

	_, err := drain(g.Analyze(context.Background(), "Todo app"))
	require.NoError(t, err)

	fragments, err := drain(g.Generate(context.Background(), IdeaInput(g.CurrentIdea()), models.DocTypePRD))
	require.NoError(t, err)
	assert.Equal(t, []string{"PRD content"}, fragments)

	// Existing documents appear as type:\ncontent\n--- blocks, and the
	// latest Analysis is the authoritative idea content. The scripted
	// completion yielded "PRD content" for the Analyze call too, so that is
	// what the Analysis document holds.
	assert.Contains(t, completion.system, "Existing Documentation:\nAnalysis:\nPRD content\n---")
	assert.Contains(t, completion.system, "Original Idea:\nPRD content")
	assert.Equal(t, "Generate detailed PRD documentation that is consistent with all existing documentation and the original idea. Ensure all technical decisions and terminology align with previously generated documents.", completion.user)
	assert.Equal(t, float32(0.7), completion.temperature)

	assert.True(t, g.Gate().IsCompleted(models.DocTypePRD))
}

func TestGenerateInvalidTypeYieldsInlineError(t *testing.T) {
	completion := &scriptedCompletion{fragments: []string{"never streamed"}}
	g := newTestGenerator(completion, newMemStorage())

	fragments, err := drain(g.Generate(context.Background(), RawInput("idea"), "Whitepaper"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Error: Invalid document type. Please try again."}, fragments)
	assert.Empty(t, completion.user)
}

func TestGenerateLockedTypeRejected(t *testing.T) {
	g := newTestGenerator(&scriptedCompletion{}, newMemStorage())

	_, err := drain(g.Generate(context.Background(), RawInput("idea"), models.DocTypePrompts))
	require.Error(t, err)
	assert.ErrorIs(t, err, interfaces.ErrPrerequisitesNotMet)
	assert.Contains(t, err.Error(), models.DocTypePRD)
}

func TestGenerateCompletedTypeServesStoredContent(t *testing.T) {
	completion := &scriptedCompletion{fragments: []string{"fresh content"}}
	storage := newMemStorage()
	g := newTestGenerator(completion, storage)

	_, err := drain(g.Analyze(context.Background(), "Todo app"))
	require.NoError(t, err)

	// A completed type is a view request: stored content, no regeneration
	fragments, err := drain(g.Generate(context.Background(), IdeaInput(g.CurrentIdea()), models.DocTypeAnalysis))
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh content"}, fragments)

	doc, _ := storage.GetDocument(g.CurrentIdea().ID, models.DocTypeAnalysis)
	assert.Equal(t, "fresh content", doc.Content)
}

func TestGeneratePersistenceFailureDoesNotAdvanceGate(t *testing.T) {
	completion := &scriptedCompletion{fragments: []string{"PRD content"}}
	storage := newMemStorage()
	g := newTestGenerator(completion, storage)

	_, err := drain(g.Analyze(context.Background(), "Todo app"))
	require.NoError(t, err)

	storage.failUpsert = true
	_, err = drain(g.Generate(context.Background(), IdeaInput(g.CurrentIdea()), models.DocTypePRD))
	require.Error(t, err)
	assert.ErrorIs(t, err, interfaces.ErrPersistenceFailure)

	// Completed implies persisted: the gate must not have advanced
	assert.False(t, g.Gate().IsCompleted(models.DocTypePRD))
	assert.Equal(t, gate.StateAvailable, g.Gate().StateOf(models.DocTypePRD))
}

func TestGenerateStreamFailureResetsInFlight(t *testing.T) {
	completion := &scriptedCompletion{
		fragments: []string{"partial"},
		streamErr: fmt.Errorf("%w: boom", interfaces.ErrServiceUnavailable),
	}
	storage := newMemStorage()
	g := newTestGenerator(completion, storage)

	_, err := drain(g.Analyze(context.Background(), "Todo app"))
	require.Error(t, err)
	assert.ErrorIs(t, err, interfaces.ErrServiceUnavailable)

	// The in-flight flag is reset so a fresh attempt is permitted
	completion.streamErr = nil
	_, err = drain(g.Analyze(context.Background(), "Todo app"))
	require.NoError(t, err)
}

func TestConcurrentGenerationRejected(t *testing.T) {
	completion := &scriptedCompletion{fragments: []string{"one", "two"}}
	g := newTestGenerator(completion, newMemStorage())

	var nested error
	g.Enhance(context.Background(), "text")(func(fragment string, err error) bool {
		require.NoError(t, err)
		// A second operation while this stream is live must be rejected
		_, nested = drain(g.Enhance(context.Background(), "other"))
		return false
	})

	assert.ErrorIs(t, nested, interfaces.ErrGenerationInFlight)
}

func TestEnhanceStreamsWithoutPersisting(t *testing.T) {
	completion := &scriptedCompletion{fragments: []string{"Clearer ", "idea."}}
	storage := newMemStorage()
	g := newTestGenerator(completion, storage)

	fragments, err := drain(g.Enhance(context.Background(), "my rough idea"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Clearer ", "idea."}, fragments)
	assert.Empty(t, storage.docs)
	assert.Equal(t, "my rough idea", completion.user)
}

func TestResumeIdeaSeedsGateAndAnalysisCache(t *testing.T) {
	storage := newMemStorage()
	idea := &models.Idea{ID: "idea_7", Title: "Todo app", UserID: "user-1", Description: "desc"}
	storage.ideas[idea.ID] = idea
	storage.docs = []*models.Document{
		{IdeaID: idea.ID, DocumentType: models.DocTypeAnalysis, Content: "saved analysis"},
		{IdeaID: idea.ID, DocumentType: models.DocTypePRD, Content: "saved prd"},
	}

	completion := &scriptedCompletion{fragments: []string{"Front end doc"}}
	g := New(completion, passthroughAugmenter{}, storage, gate.New(), arbor.NewLogger())
	require.NoError(t, g.ResumeIdea("user-1", idea))

	assert.True(t, g.Gate().IsCompleted(models.DocTypeAnalysis))
	assert.True(t, g.Gate().IsCompleted(models.DocTypePRD))

	_, err := drain(g.Generate(context.Background(), IdeaInput(idea), models.DocTypeFrontEnd))
	require.NoError(t, err)
	assert.Contains(t, completion.system, "Original Idea:\nsaved analysis")
}

func TestAnalysisHistoryRecordsRevisions(t *testing.T) {
	completion := &scriptedCompletion{fragments: []string{"First analysis."}}
	storage := newMemStorage()
	g := newTestGenerator(completion, storage)

	assert.Empty(t, g.AnalysisHistory())

	_, err := drain(g.Analyze(context.Background(), "Todo app"))
	require.NoError(t, err)

	history := g.AnalysisHistory()
	require.Len(t, history, 1)
	assert.Equal(t, "First analysis.", history[0].Content)
	assert.Equal(t, "Todo app", history[0].Title)
	assert.False(t, history[0].Timestamp.IsZero())

	// Re-analyzing with identical content does not add a revision
	_, err = drain(g.Analyze(context.Background(), "Todo app"))
	require.NoError(t, err)
	assert.Len(t, g.AnalysisHistory(), 1)
}

// restartingCompletion yields some fragments, a restart notice, then the
// final fragments, mimicking a transient provider failure mid-stream
type restartingCompletion struct {
	before []string
	after  []string
}

func (r *restartingCompletion) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1}, nil
}

func (r *restartingCompletion) StreamCompletion(ctx context.Context, system, user string, temperature float32) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, fragment := range r.before {
			if !yield(fragment, nil) {
				return
			}
		}
		if !yield("", fmt.Errorf("%w: connection reset", interfaces.ErrStreamRestarted)) {
			return
		}
		for _, fragment := range r.after {
			if !yield(fragment, nil) {
				return
			}
		}
	}
}

func (r *restartingCompletion) HealthCheck(ctx context.Context) error { return nil }
func (r *restartingCompletion) Close() error                          { return nil }

func TestRestartNoticeReachesConsumerAndResetsText(t *testing.T) {
	completion := &restartingCompletion{before: []string{"stale "}, after: []string{"fresh analysis"}}
	storage := newMemStorage()
	g := New(completion, passthroughAugmenter{}, storage, gate.New(), arbor.NewLogger())
	g.StartSession("user-1")

	var visible strings.Builder
	sawRestart := false
	g.Analyze(context.Background(), "Todo app")(func(fragment string, err error) bool {
		if errors.Is(err, interfaces.ErrStreamRestarted) {
			visible.Reset()
			sawRestart = true
			return true
		}
		require.NoError(t, err)
		visible.WriteString(fragment)
		return true
	})

	// The consumer's accumulated text must match what was persisted
	assert.True(t, sawRestart)
	assert.Equal(t, "fresh analysis", visible.String())

	doc, err := storage.GetDocument(g.CurrentIdea().ID, models.DocTypeAnalysis)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "fresh analysis", doc.Content)
}
