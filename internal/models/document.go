package models

import "time"

// Built-in document types. The catalog also accepts free-form extensions;
// these constants cover the types with templates and dependency rules.
const (
	DocTypeAnalysis           = "Analysis"
	DocTypePRD                = "PRD"
	DocTypeImplementationFlow = "Implementation Flow"
	DocTypeFrontEnd           = "Front End"
	DocTypeBackEnd            = "Back End"
	DocTypeAPIGuide           = "API Guide"
	DocTypePrompts            = "Prompts"
)

// Document represents one generated artifact (Analysis, PRD, ...) tied to an
// idea and a document type. At most one document exists per
// (IdeaID, DocumentType) pair; content is markdown.
type Document struct {
	ID           string    `json:"id"` // doc_{uuid}
	IdeaID       string    `json:"idea_id"`
	DocumentType string    `json:"document_type"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DocumentTypeConfig describes a document type's display metadata and the
// types that must be completed before it becomes available.
type DocumentTypeConfig struct {
	Title         string
	DisplayName   string
	Prerequisites []string
}

// DocumentTypeConfigs is the fixed generation catalog. Order matters: it is
// the order types are offered to the user.
var DocumentTypeConfigs = []DocumentTypeConfig{
	{Title: DocTypeAnalysis, DisplayName: "Initial Analysis"},
	{Title: DocTypePRD, DisplayName: "Product Requirements"},
	{Title: DocTypeImplementationFlow, DisplayName: "Implementation Flow"},
	{Title: DocTypeFrontEnd, DisplayName: "Frontend Documentation"},
	{Title: DocTypeBackEnd, DisplayName: "Backend Documentation"},
	{Title: DocTypeAPIGuide, DisplayName: "API Documentation"},
	{Title: DocTypePrompts, DisplayName: "Development Prompts", Prerequisites: []string{DocTypePRD, DocTypeFrontEnd, DocTypeBackEnd}},
}

// Prerequisites returns the prerequisite types for a document type. Unknown
// types have none.
func Prerequisites(documentType string) []string {
	for _, cfg := range DocumentTypeConfigs {
		if cfg.Title == documentType {
			return cfg.Prerequisites
		}
	}
	return nil
}

// DisplayName returns the human-readable name for a document type, falling
// back to the type itself for free-form extensions.
func DisplayName(documentType string) string {
	for _, cfg := range DocumentTypeConfigs {
		if cfg.Title == documentType {
			return cfg.DisplayName
		}
	}
	return documentType
}
