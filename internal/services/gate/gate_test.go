package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideaforge/ideaforge/internal/interfaces"
	"github.com/ideaforge/ideaforge/internal/models"
)

func TestInitialStates(t *testing.T) {
	g := New()

	// Types without prerequisites start available
	assert.Equal(t, StateAvailable, g.StateOf(models.DocTypeAnalysis))
	assert.Equal(t, StateAvailable, g.StateOf(models.DocTypePRD))
	assert.Equal(t, StateAvailable, g.StateOf(models.DocTypeFrontEnd))

	// Prompts requires PRD, Front End and Back End
	assert.Equal(t, StateLocked, g.StateOf(models.DocTypePrompts))
}

func TestLockedTypeRejectedWithMissingNames(t *testing.T) {
	g := New()
	g.MarkCompleted(models.DocTypePRD)

	err := g.Check(models.DocTypePrompts)
	require.Error(t, err)
	assert.ErrorIs(t, err, interfaces.ErrPrerequisitesNotMet)
	assert.Contains(t, err.Error(), models.DocTypeFrontEnd)
	assert.Contains(t, err.Error(), models.DocTypeBackEnd)
	assert.NotContains(t, err.Error(), "PRD requires")

	assert.Equal(t, []string{models.DocTypeFrontEnd, models.DocTypeBackEnd}, g.MissingPrerequisites(models.DocTypePrompts))
}

func TestUnlockRecomputedFromCompletedSet(t *testing.T) {
	g := New()

	g.MarkCompleted(models.DocTypePRD)
	g.MarkCompleted(models.DocTypeFrontEnd)
	assert.Equal(t, StateLocked, g.StateOf(models.DocTypePrompts))

	g.MarkCompleted(models.DocTypeBackEnd)
	assert.Equal(t, StateAvailable, g.StateOf(models.DocTypePrompts))
	assert.NoError(t, g.Check(models.DocTypePrompts))
}

func TestCompletedIsTerminal(t *testing.T) {
	g := New()

	// Once completed, a type is never observed locked or available again,
	// whatever else completes afterwards
	g.MarkCompleted(models.DocTypeAnalysis)
	for _, cfg := range models.DocumentTypeConfigs {
		g.MarkCompleted(cfg.Title)
		assert.Equal(t, StateCompleted, g.StateOf(models.DocTypeAnalysis))
	}
}

func TestSeedFromDocuments(t *testing.T) {
	g := New()
	g.MarkCompleted(models.DocTypeAPIGuide)

	g.SeedFromDocuments([]*models.Document{
		{DocumentType: models.DocTypeAnalysis},
		{DocumentType: models.DocTypePRD},
	})

	assert.Equal(t, []string{models.DocTypeAnalysis, models.DocTypePRD}, g.CompletedTypes())
	// Reseeding replaces, not merges
	assert.Equal(t, StateAvailable, g.StateOf(models.DocTypeAPIGuide))
}

func TestAvailableTypesFollowCatalogOrder(t *testing.T) {
	g := New()
	g.MarkCompleted(models.DocTypeAnalysis)

	assert.Equal(t, []string{
		models.DocTypePRD,
		models.DocTypeImplementationFlow,
		models.DocTypeFrontEnd,
		models.DocTypeBackEnd,
		models.DocTypeAPIGuide,
	}, g.AvailableTypes())
}
