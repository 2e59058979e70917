package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/ideaforge/ideaforge/internal/models"
	"github.com/ideaforge/ideaforge/internal/services/gate"
)

// formatGeneratedDocument formats a freshly generated document as markdown
func formatGeneratedDocument(idea *models.Idea, documentType, content string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", models.DisplayName(documentType)))
	if idea != nil {
		sb.WriteString(fmt.Sprintf("**Idea:** %s (%s)\n\n", idea.Title, idea.ID))
	}
	sb.WriteString(content)
	sb.WriteString("\n")
	return sb.String()
}

// formatStoredDocument formats a stored document as markdown
func formatStoredDocument(doc *models.Document) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", models.DisplayName(doc.DocumentType)))
	sb.WriteString(fmt.Sprintf("**ID:** %s\n", doc.ID))
	sb.WriteString(fmt.Sprintf("**Idea:** %s\n", doc.IdeaID))
	sb.WriteString(fmt.Sprintf("**Created:** %s\n", doc.CreatedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("**Updated:** %s\n\n", doc.UpdatedAt.Format(time.RFC3339)))
	sb.WriteString("## Content\n\n")
	sb.WriteString(doc.Content)
	sb.WriteString("\n")
	return sb.String()
}

// formatIdeaList formats a user's ideas as markdown
func formatIdeaList(userID string, ideas []*models.Idea) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Ideas for %s (%d)\n\n", userID, len(ideas)))

	if len(ideas) == 0 {
		sb.WriteString("No ideas found.\n")
		return sb.String()
	}

	for i, idea := range ideas {
		sb.WriteString(fmt.Sprintf("### %d. %s\n", i+1, idea.Title))
		sb.WriteString(fmt.Sprintf("**ID:** %s\n", idea.ID))
		sb.WriteString(fmt.Sprintf("**Created:** %s\n", idea.CreatedAt.Format(time.RFC3339)))

		if len(idea.Documents) > 0 {
			types := make([]string, 0, len(idea.Documents))
			for _, doc := range idea.Documents {
				types = append(types, doc.DocumentType)
			}
			sb.WriteString(fmt.Sprintf("**Documents:** %s\n", strings.Join(types, ", ")))
		} else {
			sb.WriteString("**Documents:** none\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatStatus formats the per-type generation state as markdown
func formatStatus(idea *models.Idea, g *gate.Gate) string {
	var sb strings.Builder
	if idea != nil {
		sb.WriteString(fmt.Sprintf("## Document Status for %s (%s)\n\n", idea.Title, idea.ID))
	} else {
		sb.WriteString("## Document Status\n\nNo idea in this session yet.\n\n")
	}

	for _, cfg := range models.DocumentTypeConfigs {
		switch g.StateOf(cfg.Title) {
		case gate.StateCompleted:
			sb.WriteString(fmt.Sprintf("- %s: completed\n", cfg.Title))
		case gate.StateAvailable:
			sb.WriteString(fmt.Sprintf("- %s: available\n", cfg.Title))
		default:
			sb.WriteString(fmt.Sprintf("- %s: locked (requires %s)\n",
				cfg.Title, strings.Join(g.MissingPrerequisites(cfg.Title), ", ")))
		}
	}

	return sb.String()
}

// formatUploadResult formats an upload confirmation as markdown
func formatUploadResult(entry *models.ReferenceEmbedding, libraryCount int) string {
	var sb strings.Builder
	sb.WriteString("## Reference Uploaded\n\n")
	sb.WriteString(fmt.Sprintf("**ID:** %s\n", entry.ID))
	sb.WriteString(fmt.Sprintf("**Title:** %s\n", entry.Metadata.Title))
	sb.WriteString(fmt.Sprintf("**Type:** %s\n", entry.Metadata.DocumentType))
	sb.WriteString(fmt.Sprintf("**Embedding dimension:** %d\n", len(entry.Embedding)))
	if libraryCount >= 0 {
		sb.WriteString(fmt.Sprintf("**Library size:** %d\n", libraryCount))
	}
	return sb.String()
}
