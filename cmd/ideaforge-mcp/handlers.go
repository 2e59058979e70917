package main

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/ideaforge/ideaforge/internal/interfaces"
	"github.com/ideaforge/ideaforge/internal/models"
	"github.com/ideaforge/ideaforge/internal/services/generator"
	"github.com/ideaforge/ideaforge/internal/services/vectors"
)

// textResult wraps a string as a tool result
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

// collectStream drains a fragment stream into the full document text.
// A restart notice discards everything accumulated so far; any other
// error ends collection.
func collectStream(seq iter.Seq2[string, error]) (string, error) {
	var sb strings.Builder
	for fragment, err := range seq {
		if errors.Is(err, interfaces.ErrStreamRestarted) {
			sb.Reset()
			continue
		}
		if err != nil {
			return "", err
		}
		sb.WriteString(fragment)
	}
	return sb.String(), nil
}

// handleAnalyzeIdea implements the analyze_idea tool
func handleAnalyzeIdea(gen *generator.Generator, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ideaText, err := request.RequireString("idea_text")
		if err != nil || ideaText == "" {
			return textResult("Error: idea_text parameter is required"), nil
		}

		content, err := collectStream(gen.Analyze(ctx, ideaText))
		if err != nil {
			logger.Error().Err(err).Msg("Analyze failed")
			return textResult(fmt.Sprintf("Analysis error: %v", err)), nil
		}

		return textResult(formatGeneratedDocument(gen.CurrentIdea(), models.DocTypeAnalysis, content)), nil
	}
}

// handleGenerateDocument implements the generate_document tool
func handleGenerateDocument(gen *generator.Generator, storage interfaces.StorageManager, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		documentType, err := request.RequireString("document_type")
		if err != nil || documentType == "" {
			return textResult("Error: document_type parameter is required"), nil
		}

		idea := gen.CurrentIdea()

		// Switch to another stored idea when requested
		if ideaID := request.GetString("idea_id", ""); ideaID != "" && (idea == nil || idea.ID != ideaID) {
			stored, err := storage.IdeaStorage().GetIdea(ideaID)
			if err != nil {
				logger.Error().Err(err).Str("idea_id", ideaID).Msg("GetIdea failed")
				return textResult(fmt.Sprintf("Storage error: %v", err)), nil
			}
			if stored == nil {
				return textResult(fmt.Sprintf("Idea not found: %s", ideaID)), nil
			}
			if err := gen.ResumeIdea(stored.UserID, stored); err != nil {
				logger.Error().Err(err).Str("idea_id", ideaID).Msg("ResumeIdea failed")
				return textResult(fmt.Sprintf("Failed to resume idea: %v", err)), nil
			}
			idea = stored
		}

		if idea == nil {
			return textResult("No idea in this session. Call analyze_idea first, or pass idea_id."), nil
		}

		content, err := collectStream(gen.Generate(ctx, generator.IdeaInput(idea), documentType))
		if err != nil {
			logger.Error().Err(err).Str("document_type", documentType).Msg("Generate failed")
			return textResult(fmt.Sprintf("Generation error: %v", err)), nil
		}

		return textResult(formatGeneratedDocument(idea, documentType, content)), nil
	}
}

// handleDocumentStatus implements the document_status tool
func handleDocumentStatus(gen *generator.Generator) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return textResult(formatStatus(gen.CurrentIdea(), gen.Gate())), nil
	}
}

// handleListIdeas implements the list_ideas tool
func handleListIdeas(storage interfaces.StorageManager, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID := request.GetString("user_id", "mcp")

		ideas, err := storage.IdeaStorage().ListIdeasForUser(userID)
		if err != nil {
			logger.Error().Err(err).Str("user_id", userID).Msg("ListIdeasForUser failed")
			return textResult(fmt.Sprintf("Storage error: %v", err)), nil
		}

		return textResult(formatIdeaList(userID, ideas)), nil
	}
}

// handleGetDocument implements the get_document tool
func handleGetDocument(storage interfaces.StorageManager, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ideaID, err := request.RequireString("idea_id")
		if err != nil || ideaID == "" {
			return textResult("Error: idea_id parameter is required"), nil
		}
		documentType, err := request.RequireString("document_type")
		if err != nil || documentType == "" {
			return textResult("Error: document_type parameter is required"), nil
		}

		doc, err := storage.DocumentStorage().GetDocument(ideaID, documentType)
		if err != nil {
			logger.Error().Err(err).Str("idea_id", ideaID).Msg("GetDocument failed")
			return textResult(fmt.Sprintf("Storage error: %v", err)), nil
		}
		if doc == nil {
			return textResult(fmt.Sprintf("No %s document for idea %s", documentType, ideaID)), nil
		}

		return textResult(formatStoredDocument(doc)), nil
	}
}

// handleUploadReference implements the upload_reference tool
func handleUploadReference(upload *vectors.UploadService, storage interfaces.StorageManager, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		content, err := request.RequireString("content")
		if err != nil || content == "" {
			return textResult("Error: content parameter is required"), nil
		}
		title, err := request.RequireString("title")
		if err != nil || title == "" {
			return textResult("Error: title parameter is required"), nil
		}
		documentType, err := request.RequireString("document_type")
		if err != nil || documentType == "" {
			return textResult("Error: document_type parameter is required"), nil
		}

		entry, err := upload.Upload(ctx, &vectors.UploadRequest{
			Content: content,
			Metadata: models.EmbeddingMetadata{
				Title:        title,
				DocumentType: documentType,
				Category:     request.GetString("category", ""),
				Author:       request.GetString("author", ""),
			},
		})
		if err != nil {
			logger.Error().Err(err).Str("title", title).Msg("Reference upload failed")
			return textResult(fmt.Sprintf("Upload error: %v", err)), nil
		}

		count, err := storage.EmbeddingStorage().CountEmbeddings()
		if err != nil {
			count = -1
		}

		return textResult(formatUploadResult(entry, count)), nil
	}
}
