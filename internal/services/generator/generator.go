// Package generator orchestrates the document pipeline: gate check, context
// assembly, prompt augmentation, streaming completion, persistence.
package generator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync/atomic"

	"github.com/ternarybob/arbor"

	"github.com/ideaforge/ideaforge/internal/interfaces"
	"github.com/ideaforge/ideaforge/internal/models"
	"github.com/ideaforge/ideaforge/internal/services/gate"
	"github.com/ideaforge/ideaforge/internal/services/prompts"
)

// analysisTemperature is lower than generation temperature: analysis output
// feeds every later document, so it favors consistency over creativity.
const (
	analysisTemperature   float32 = 0.5
	generationTemperature float32 = 0.7
)

// contextualPrompter augments a base prompt with reference material
type contextualPrompter interface {
	BuildContextualPrompt(ctx context.Context, query, basePrompt, documentType string) string
}

// Input identifies what a generation request runs against: a persisted idea
// or raw submitted text that has no idea yet.
type Input struct {
	idea *models.Idea
	text string
}

// RawInput wraps free text with no persisted idea behind it
func RawInput(text string) Input {
	return Input{text: text}
}

// IdeaInput wraps a persisted idea
func IdeaInput(idea *models.Idea) Input {
	return Input{idea: idea}
}

// Generator produces documents for an idea session. One generation or
// analysis operation may be in flight at a time; concurrent requests are
// rejected, not queued.
type Generator struct {
	completion interfaces.CompletionService
	augmenter  contextualPrompter
	storage    interfaces.StorageManager
	gate       *gate.Gate
	logger     arbor.ILogger

	session  session
	inFlight atomic.Bool
}

// New creates a generator bound to a fresh session
func New(completion interfaces.CompletionService, augmenter contextualPrompter, storage interfaces.StorageManager, g *gate.Gate, logger arbor.ILogger) *Generator {
	return &Generator{
		completion: completion,
		augmenter:  augmenter,
		storage:    storage,
		gate:       g,
		logger:     logger,
	}
}

// StartSession resets the generator for a new user session
func (g *Generator) StartSession(userID string) {
	g.session.start(userID)
	g.gate.SeedFromDocuments(nil)
}

// ResumeIdea binds the session to an existing idea, seeding the gate from
// its persisted documents.
func (g *Generator) ResumeIdea(userID string, idea *models.Idea) error {
	docs, err := g.storage.DocumentStorage().GetDocuments(idea.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrPersistenceFailure, err)
	}

	g.session.start(userID)
	g.session.setIdea(idea)
	g.gate.SeedFromDocuments(docs)

	for _, doc := range docs {
		if doc.DocumentType == models.DocTypeAnalysis {
			g.session.setAnalysis(doc.Content)
		}
	}
	return nil
}

// CurrentIdea returns the idea the session is bound to, or nil
func (g *Generator) CurrentIdea() *models.Idea {
	return g.session.currentIdea()
}

// Gate exposes the session's completion gate
func (g *Generator) Gate() *gate.Gate {
	return g.gate
}

// AnalysisHistory returns the session's analysis revisions, oldest first
func (g *Generator) AnalysisHistory() []AnalysisRevision {
	return g.session.history()
}

// Enhance improves the clarity and structure of free idea text. Fragments
// stream as they arrive; nothing is persisted.
func (g *Generator) Enhance(ctx context.Context, text string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if !g.inFlight.CompareAndSwap(false, true) {
			yield("", interfaces.ErrGenerationInFlight)
			return
		}
		defer g.inFlight.Store(false)

		systemPrompt := g.augmenter.BuildContextualPrompt(ctx, text, prompts.GetTemplate(prompts.KeyEnhance), "")
		g.forwardStream(ctx, yield, systemPrompt, text, generationTemperature)
	}
}

// Analyze runs the root analysis for submitted idea text. A fresh
// submission creates the Idea first, then generates and persists its
// Analysis document. A quoted-revision request ("Regarding this part: ...")
// revises only the quoted span of the current Analysis instead.
func (g *Generator) Analyze(ctx context.Context, ideaText string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if !g.inFlight.CompareAndSwap(false, true) {
			yield("", interfaces.ErrGenerationInFlight)
			return
		}
		defer g.inFlight.Store(false)

		if isQuotedRequest(ideaText) {
			g.analyzeQuoted(ctx, yield, ideaText)
			return
		}

		idea := g.session.currentIdea()
		if idea == nil {
			created, err := g.storage.IdeaStorage().InsertIdea(&models.Idea{
				Title:       ideaTitle(ideaText),
				Description: ideaText,
				UserID:      g.session.user(),
				IsPublic:    false,
			})
			if err != nil {
				yield("", fmt.Errorf("%w: %v", interfaces.ErrPersistenceFailure, err))
				return
			}
			idea = created
			g.session.setIdea(idea)
			g.logger.Info().Str("idea_id", idea.ID).Str("title", idea.Title).Msg("Idea created")
		}

		systemPrompt := g.augmenter.BuildContextualPrompt(ctx, ideaText, prompts.GetTemplate(prompts.KeyAnalyze), "")

		accumulated, ok := g.forwardStream(ctx, yield, systemPrompt, ideaText, analysisTemperature)
		if !ok {
			return
		}

		g.persistAndComplete(yield, idea.ID, models.DocTypeAnalysis, accumulated)
	}
}

// analyzeQuoted revises the quoted span of the current Analysis. The model
// output accumulates silently; exactly one fragment carrying the whole
// updated document is yielded at the end. An absent quoted span is a no-op.
func (g *Generator) analyzeQuoted(ctx context.Context, yield func(string, error) bool, ideaText string) {
	req, ok := parseQuotedRequest(ideaText)
	if !ok {
		return
	}

	currentAnalysis := g.session.analysis()
	if !strings.Contains(currentAnalysis, req.Quoted) {
		g.logger.Warn().Msg("Quoted text not found in current analysis, ignoring revision request")
		return
	}

	systemPrompt := g.augmenter.BuildContextualPrompt(ctx, req.Quoted, prompts.GetTemplate(prompts.KeyAnalyzeQuoted), "")
	userPrompt := fmt.Sprintf("Original text: %q\n\nContext: This is part of a larger document. Please revise this specific section based on the following request:\n\n%s", req.Quoted, req.Instruction)

	var revised strings.Builder
	failed := false
	for fragment, err := range g.completion.StreamCompletion(ctx, systemPrompt, userPrompt, analysisTemperature) {
		if errors.Is(err, interfaces.ErrStreamRestarted) {
			revised.Reset()
			continue
		}
		if err != nil {
			yield("", err)
			failed = true
			break
		}
		revised.WriteString(fragment)
	}
	if failed {
		return
	}

	updated, found := spliceRevision(currentAnalysis, req.Quoted, stripRevisedPrefix(revised.String()))
	if !found {
		return
	}

	g.session.setAnalysis(updated)
	if idea := g.session.currentIdea(); idea != nil {
		if _, err := g.storage.DocumentStorage().UpsertDocument(idea.ID, models.DocTypeAnalysis, updated); err != nil {
			yield("", fmt.Errorf("%w: %v", interfaces.ErrPersistenceFailure, err))
			return
		}
	}

	yield(updated, nil)
}

// Generate produces one document of the requested type. Fragments stream to
// the caller while accumulating; the accumulated text is persisted on
// completion and only then is the type marked complete.
func (g *Generator) Generate(ctx context.Context, input Input, documentType string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if !g.inFlight.CompareAndSwap(false, true) {
			yield("", interfaces.ErrGenerationInFlight)
			return
		}
		defer g.inFlight.Store(false)

		idea := input.idea
		if idea == nil {
			idea = g.session.currentIdea()
		}

		// A completed type is a view request, not a regeneration
		if g.gate.IsCompleted(documentType) {
			g.yieldExisting(yield, idea, documentType)
			return
		}

		if err := g.gate.Check(documentType); err != nil {
			yield("", err)
			return
		}

		basePrompt := prompts.GetTemplate(documentType)
		if basePrompt == "" {
			g.logger.Error().Str("document_type", documentType).Msg("Invalid document type requested")
			yield("Error: Invalid document type. Please try again.", nil)
			return
		}

		ideaContent := g.resolveIdeaContent(input, idea, documentType)
		existingContext := g.existingDocumentBlocks(idea)

		systemPrompt := g.augmenter.BuildContextualPrompt(ctx, ideaContent,
			fmt.Sprintf("%s\n\nExisting Documentation:\n%s\n\nOriginal Idea:\n%s", basePrompt, existingContext, ideaContent),
			documentType)
		userPrompt := fmt.Sprintf("Generate detailed %s documentation that is consistent with all existing documentation and the original idea. Ensure all technical decisions and terminology align with previously generated documents.", documentType)

		accumulated, ok := g.forwardStream(ctx, yield, systemPrompt, userPrompt, generationTemperature)
		if !ok {
			return
		}

		if idea == nil {
			// Nothing to persist against; completed implies persisted, so
			// the gate is not advanced either
			g.logger.Warn().Str("document_type", documentType).Msg("No idea in session, generated document not persisted")
			return
		}

		g.persistAndComplete(yield, idea.ID, documentType, accumulated)
	}
}

// resolveIdeaContent picks the authoritative idea description. Derived
// documents build on the latest persisted Analysis, never the raw first
// submission.
func (g *Generator) resolveIdeaContent(input Input, idea *models.Idea, documentType string) string {
	if documentType != models.DocTypeAnalysis {
		if analysis := g.session.analysis(); analysis != "" {
			return analysis
		}
		if idea != nil {
			doc, err := g.storage.DocumentStorage().GetDocument(idea.ID, models.DocTypeAnalysis)
			if err != nil {
				g.logger.Warn().Err(err).Msg("Failed to fetch latest analysis, falling back to idea description")
			} else if doc != nil {
				g.session.setAnalysis(doc.Content)
				return doc.Content
			}
		}
	}

	if idea != nil && idea.Description != "" {
		return idea.Description
	}
	return input.text
}

// existingDocumentBlocks concatenates the idea's documents as
// "type:\ncontent\n---" blocks for prompt context
func (g *Generator) existingDocumentBlocks(idea *models.Idea) string {
	if idea == nil {
		return ""
	}

	docs, err := g.storage.DocumentStorage().GetDocuments(idea.ID)
	if err != nil {
		g.logger.Warn().Err(err).Msg("Failed to fetch existing documents, generating without document context")
		return ""
	}

	blocks := make([]string, 0, len(docs))
	for _, doc := range docs {
		blocks = append(blocks, fmt.Sprintf("%s:\n%s\n---\n", doc.DocumentType, doc.Content))
	}
	return strings.Join(blocks, "\n")
}

// yieldExisting serves the stored content for an already-completed type
func (g *Generator) yieldExisting(yield func(string, error) bool, idea *models.Idea, documentType string) {
	if idea == nil {
		return
	}
	doc, err := g.storage.DocumentStorage().GetDocument(idea.ID, documentType)
	if err != nil {
		yield("", fmt.Errorf("%w: %v", interfaces.ErrPersistenceFailure, err))
		return
	}
	if doc == nil {
		return
	}
	yield(doc.Content, nil)
}

// forwardStream pulls the completion stream, forwarding fragments to the
// caller while accumulating the full text. Restart notices reset the
// accumulation and are forwarded so the caller can reset too; otherwise the
// caller-visible text would keep pre-restart fragments the persisted document
// does not. Returns false when the stream ended in a terminal error or the
// caller stopped.
func (g *Generator) forwardStream(ctx context.Context, yield func(string, error) bool, systemPrompt, userPrompt string, temperature float32) (string, bool) {
	var accumulated strings.Builder
	completed := true

	for fragment, err := range g.completion.StreamCompletion(ctx, systemPrompt, userPrompt, temperature) {
		if errors.Is(err, interfaces.ErrStreamRestarted) {
			accumulated.Reset()
			if !yield("", err) {
				completed = false
				break
			}
			continue
		}
		if err != nil {
			yield("", err)
			completed = false
			break
		}
		accumulated.WriteString(fragment)
		if !yield(fragment, nil) {
			completed = false
			break
		}
	}

	return accumulated.String(), completed
}

// persistAndComplete upserts the generated content and advances the gate.
// The gate only moves on successful persistence.
func (g *Generator) persistAndComplete(yield func(string, error) bool, ideaID, documentType, content string) {
	if _, err := g.storage.DocumentStorage().UpsertDocument(ideaID, documentType, content); err != nil {
		g.logger.Error().Err(err).Str("document_type", documentType).Msg("Failed to persist generated document")
		yield("", fmt.Errorf("%w: %v", interfaces.ErrPersistenceFailure, err))
		return
	}

	g.gate.MarkCompleted(documentType)
	if documentType == models.DocTypeAnalysis {
		g.session.setAnalysis(content)
	}

	g.logger.Info().
		Str("idea_id", ideaID).
		Str("document_type", documentType).
		Int("content_length", len(content)).
		Msg("Document generated and persisted")
}

// ideaTitle derives an idea title from the first line of the submission
func ideaTitle(text string) string {
	title := strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
	if title == "" {
		return "Untitled Idea"
	}
	return title
}
