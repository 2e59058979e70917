// Package gate tracks which document types are completed for an idea
// session and which are unlocked for generation.
package gate

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ideaforge/ideaforge/internal/interfaces"
	"github.com/ideaforge/ideaforge/internal/models"
)

// State of a document type within a session.
type State string

const (
	// StateLocked means one or more prerequisite types are not completed
	StateLocked State = "locked"
	// StateAvailable means all prerequisites are completed and the type can
	// be generated
	StateAvailable State = "available"
	// StateCompleted means the type has been generated and persisted.
	// Completed is terminal: no transition leaves it.
	StateCompleted State = "completed"
)

// Gate is the per-session dependency tracker. Completion state is derived
// from persisted documents and holds no authority of its own: it can be
// reseeded at any time from storage.
type Gate struct {
	mu        sync.Mutex
	completed map[string]bool
}

// New creates a gate with nothing completed
func New() *Gate {
	return &Gate{completed: make(map[string]bool)}
}

// SeedFromDocuments rebuilds the completed set from persisted documents
func (g *Gate) SeedFromDocuments(docs []*models.Document) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.completed = make(map[string]bool, len(docs))
	for _, doc := range docs {
		g.completed[doc.DocumentType] = true
	}
}

// StateOf returns the current state for a document type
func (g *Gate) StateOf(documentType string) State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stateLocked(documentType)
}

func (g *Gate) stateLocked(documentType string) State {
	if g.completed[documentType] {
		return StateCompleted
	}
	for _, required := range models.Prerequisites(documentType) {
		if !g.completed[required] {
			return StateLocked
		}
	}
	return StateAvailable
}

// Check validates a generation request for a document type. Locked types are
// rejected with an error naming the missing prerequisites.
func (g *Gate) Check(documentType string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stateLocked(documentType) != StateLocked {
		return nil
	}

	missing := g.missingLocked(documentType)
	return fmt.Errorf("%w: %s requires %s to be completed first",
		interfaces.ErrPrerequisitesNotMet, documentType, strings.Join(missing, ", "))
}

// IsCompleted reports whether a document type is completed
func (g *Gate) IsCompleted(documentType string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.completed[documentType]
}

// MarkCompleted records a document type as completed. Called only after the
// generated content is persisted, so completed always implies persisted.
func (g *Gate) MarkCompleted(documentType string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.completed[documentType] = true
}

// MissingPrerequisites returns the prerequisite types not yet completed for
// a document type, in catalog order
func (g *Gate) MissingPrerequisites(documentType string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.missingLocked(documentType)
}

func (g *Gate) missingLocked(documentType string) []string {
	var missing []string
	for _, required := range models.Prerequisites(documentType) {
		if !g.completed[required] {
			missing = append(missing, required)
		}
	}
	return missing
}

// CompletedTypes returns the completed document types in catalog order
func (g *Gate) CompletedTypes() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var types []string
	for _, cfg := range models.DocumentTypeConfigs {
		if g.completed[cfg.Title] {
			types = append(types, cfg.Title)
		}
	}
	return types
}

// AvailableTypes returns the document types currently open for generation,
// in catalog order
func (g *Gate) AvailableTypes() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var types []string
	for _, cfg := range models.DocumentTypeConfigs {
		if g.stateLocked(cfg.Title) == StateAvailable {
			types = append(types, cfg.Title)
		}
	}
	return types
}
