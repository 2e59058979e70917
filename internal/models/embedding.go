package models

import "time"

// EmbeddingMetadata describes a reference document in the embedding library.
// Validated with go-playground/validator on upload.
type EmbeddingMetadata struct {
	Title        string `json:"title" validate:"required"`
	DocumentType string `json:"document_type" validate:"required"`
	Category     string `json:"category,omitempty"`
	Author       string `json:"author,omitempty"`
	Version      string `json:"version,omitempty"`
}

// ReferenceEmbedding is one entry in the similarity index: reference content
// plus its embedding vector. Written by the administrative upload path,
// read-only to the generation pipeline.
type ReferenceEmbedding struct {
	ID        string            `json:"id"` // emb_{uuid}
	Content   string            `json:"content"`
	Embedding []float32         `json:"embedding"`
	Metadata  EmbeddingMetadata `json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}

// SimilarDocument is a similarity search hit.
type SimilarDocument struct {
	Content    string            `json:"content"`
	Metadata   EmbeddingMetadata `json:"metadata"`
	Similarity float64           `json:"similarity"`
}
