package common

import (
	"github.com/google/uuid"
)

// NewIdeaID generates a unique idea ID with the "idea_" prefix
// Format: idea_<uuid>
func NewIdeaID() string {
	return "idea_" + uuid.New().String()
}

// NewDocumentID generates a unique document ID with the "doc_" prefix
// Format: doc_<uuid>
func NewDocumentID() string {
	return "doc_" + uuid.New().String()
}

// NewEmbeddingID generates a unique reference embedding ID with the "emb_"
// prefix
// Format: emb_<uuid>
func NewEmbeddingID() string {
	return "emb_" + uuid.New().String()
}
