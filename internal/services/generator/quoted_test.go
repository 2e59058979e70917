package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideaforge/ideaforge/internal/models"
)

func TestParseQuotedRequest(t *testing.T) {
	req, ok := parseQuotedRequest("Regarding this part: \"the core value\"\n\nmake it punchier")
	require.True(t, ok)
	assert.Equal(t, "the core value", req.Quoted)
	assert.Equal(t, "make it punchier", req.Instruction)
}

func TestParseQuotedRequestMalformed(t *testing.T) {
	_, ok := parseQuotedRequest("Regarding this part: no quotes here")
	assert.False(t, ok)
}

func TestStripRevisedPrefix(t *testing.T) {
	assert.Equal(t, "better text", stripRevisedPrefix("Revised text: better text"))
	assert.Equal(t, "better text", stripRevisedPrefix("revised TEXT:better text"))
	assert.Equal(t, "plain text", stripRevisedPrefix("plain text"))
	// Only a leading label is stripped
	assert.Equal(t, "see Revised text: inside", stripRevisedPrefix("see Revised text: inside"))
}

func TestSpliceRevisionFirstOccurrence(t *testing.T) {
	content := "alpha beta gamma beta delta"
	updated, ok := spliceRevision(content, "beta", "BETA")
	require.True(t, ok)
	assert.Equal(t, "alpha BETA gamma beta delta", updated)
}

func TestSpliceRevisionAbsent(t *testing.T) {
	_, ok := spliceRevision("alpha beta", "omega", "OMEGA")
	assert.False(t, ok)
}

func TestAnalyzeQuotedRevisionYieldsSingleFragment(t *testing.T) {
	completion := &scriptedCompletion{fragments: []string{"analysis with weak spot here"}}
	storage := newMemStorage()
	g := newTestGenerator(completion, storage)

	_, err := drain(g.Analyze(context.Background(), "Todo app"))
	require.NoError(t, err)

	completion.fragments = []string{"Revised text: ", "strong spot"}
	fragments, err := drain(g.Analyze(context.Background(), "Regarding this part: \"weak spot\"\n\nmake it stronger"))
	require.NoError(t, err)

	// Exactly one fragment carrying the whole spliced document
	require.Len(t, fragments, 1)
	assert.Equal(t, "analysis with strong spot here", fragments[0])
	assert.Equal(t, float32(0.5), completion.temperature)
	assert.Contains(t, completion.user, "Original text: \"weak spot\"")
	assert.Contains(t, completion.user, "make it stronger")

	// The revision is persisted over the previous Analysis
	doc, _ := storage.GetDocument(g.CurrentIdea().ID, models.DocTypeAnalysis)
	assert.Equal(t, "analysis with strong spot here", doc.Content)
}

func TestAnalyzeQuotedRevisionQuoteAbsentIsNoOp(t *testing.T) {
	completion := &scriptedCompletion{fragments: []string{"analysis content"}}
	storage := newMemStorage()
	g := newTestGenerator(completion, storage)

	_, err := drain(g.Analyze(context.Background(), "Todo app"))
	require.NoError(t, err)

	completion.fragments = []string{"should never stream"}
	completion.user = ""
	fragments, err := drain(g.Analyze(context.Background(), "Regarding this part: \"not in the document\"\n\nrewrite"))
	require.NoError(t, err)
	assert.Empty(t, fragments)
	// No completion call was made
	assert.Empty(t, completion.user)

	doc, _ := storage.GetDocument(g.CurrentIdea().ID, models.DocTypeAnalysis)
	assert.Equal(t, "analysis content", doc.Content)
}
