package main

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ideaforge/ideaforge/internal/services/vectors"
)

// createAnalyzeIdeaTool returns the analyze_idea tool definition
func createAnalyzeIdeaTool() mcp.Tool {
	return mcp.NewTool("analyze_idea",
		mcp.WithDescription("Analyze a product idea: creates the idea, generates and stores its Analysis document, and unlocks dependent document types. Also accepts quoted revision requests against the current analysis (Regarding this part: \"...\")"),
		mcp.WithString("idea_text",
			mcp.Required(),
			mcp.Description("The product idea to analyze, or a quoted revision request"),
		),
	)
}

// createGenerateDocumentTool returns the generate_document tool definition
func createGenerateDocumentTool() mcp.Tool {
	return mcp.NewTool("generate_document",
		mcp.WithDescription("Generate a document for the current idea. Types: Analysis, PRD, Implementation Flow, Front End, Back End, API Guide, Prompts. Prompts requires PRD, Front End and Back End first"),
		mcp.WithString("document_type",
			mcp.Required(),
			mcp.Description("Document type to generate"),
		),
		mcp.WithString("idea_id",
			mcp.Description("Idea to generate for (format: idea_{uuid}); defaults to the idea of the current session"),
		),
	)
}

// createDocumentStatusTool returns the document_status tool definition
func createDocumentStatusTool() mcp.Tool {
	return mcp.NewTool("document_status",
		mcp.WithDescription("Show which document types are completed, available or still locked for the current idea"),
	)
}

// createListIdeasTool returns the list_ideas tool definition
func createListIdeasTool() mcp.Tool {
	return mcp.NewTool("list_ideas",
		mcp.WithDescription("List stored ideas for a user, newest first, with their documents"),
		mcp.WithString("user_id",
			mcp.Description("User to list ideas for (default: mcp)"),
		),
	)
}

// createGetDocumentTool returns the get_document tool definition
func createGetDocumentTool() mcp.Tool {
	return mcp.NewTool("get_document",
		mcp.WithDescription("Retrieve one stored document of an idea by type"),
		mcp.WithString("idea_id",
			mcp.Required(),
			mcp.Description("Idea ID (format: idea_{uuid})"),
		),
		mcp.WithString("document_type",
			mcp.Required(),
			mcp.Description("Document type (e.g. Analysis, PRD)"),
		),
	)
}

// createUploadReferenceTool returns the upload_reference tool definition
func createUploadReferenceTool() mcp.Tool {
	return mcp.NewTool("upload_reference",
		mcp.WithDescription("Upload a reference document into the embedding library used to augment generation prompts"),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Reference document content (markdown)"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Reference document title"),
		),
		mcp.WithString("document_type",
			mcp.Required(),
			mcp.Description("Reference type: "+strings.Join(vectors.ReferenceTypes, ", ")),
		),
		mcp.WithString("category",
			mcp.Description("Optional category label"),
		),
		mcp.WithString("author",
			mcp.Description("Optional author"),
		),
	)
}
