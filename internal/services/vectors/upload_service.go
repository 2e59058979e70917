// Package vectors owns the administrative upload path feeding the reference
// embedding library. The generation pipeline only ever reads what this
// package writes.
package vectors

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ideaforge/ideaforge/internal/common"
	"github.com/ideaforge/ideaforge/internal/interfaces"
	"github.com/ideaforge/ideaforge/internal/models"
)

// ReferenceTypes are the document-type labels accepted for reference
// uploads. Broader than the generation catalog: reference material includes
// guides and prompting collections that are never generated.
var ReferenceTypes = []string{
	models.DocTypePRD,
	models.DocTypeFrontEnd,
	models.DocTypeBackEnd,
	models.DocTypeAPIGuide,
	models.DocTypeImplementationFlow,
	"Guide",
	"Prompting",
	"QA",
}

// batchSize bounds how many documents embed per batch so a large upload
// cannot monopolize the embedding rate budget.
const batchSize = 5

// UploadRequest is one reference document to embed and store
type UploadRequest struct {
	Content  string
	Metadata models.EmbeddingMetadata
}

// BatchResult summarizes a batch upload
type BatchResult struct {
	Uploaded int
	Failed   int
	Errors   []error
}

// embedder generates an embedding for reference content
type embedder interface {
	GetEmbedding(ctx context.Context, text, documentType string) ([]float32, error)
}

// UploadService validates, embeds and stores reference documents
type UploadService struct {
	embedder embedder
	storage  interfaces.EmbeddingStorage
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewUploadService creates an upload service
func NewUploadService(embedder embedder, storage interfaces.EmbeddingStorage, logger arbor.ILogger) *UploadService {
	return &UploadService{
		embedder: embedder,
		storage:  storage,
		validate: validator.New(),
		logger:   logger,
	}
}

// Upload validates one reference document, embeds its content and stores the
// entry
func (s *UploadService) Upload(ctx context.Context, req *UploadRequest) (*models.ReferenceEmbedding, error) {
	if req.Content == "" {
		return nil, fmt.Errorf("content cannot be empty")
	}
	if err := s.validate.Struct(&req.Metadata); err != nil {
		return nil, fmt.Errorf("invalid metadata: %w", err)
	}
	if !isReferenceType(req.Metadata.DocumentType) {
		return nil, fmt.Errorf("unknown reference document type: %s", req.Metadata.DocumentType)
	}

	embedding, err := s.embedder.GetEmbedding(ctx, req.Content, req.Metadata.DocumentType)
	if err != nil {
		return nil, fmt.Errorf("failed to embed reference content: %w", err)
	}

	entry := &models.ReferenceEmbedding{
		ID:        common.NewEmbeddingID(),
		Content:   req.Content,
		Embedding: embedding,
		Metadata:  req.Metadata,
	}
	if err := s.storage.SaveEmbedding(entry); err != nil {
		return nil, fmt.Errorf("failed to store reference embedding: %w", err)
	}

	s.logger.Info().
		Str("title", req.Metadata.Title).
		Str("document_type", req.Metadata.DocumentType).
		Int("content_length", len(req.Content)).
		Msg("Reference document uploaded")

	return entry, nil
}

// UploadBatch uploads documents in batches, continuing past individual
// failures
func (s *UploadService) UploadBatch(ctx context.Context, reqs []*UploadRequest) *BatchResult {
	result := &BatchResult{}

	for start := 0; start < len(reqs); start += batchSize {
		end := start + batchSize
		if end > len(reqs) {
			end = len(reqs)
		}

		for _, req := range reqs[start:end] {
			if ctx.Err() != nil {
				result.Errors = append(result.Errors, ctx.Err())
				result.Failed += len(reqs) - result.Uploaded - result.Failed
				return result
			}
			if _, err := s.Upload(ctx, req); err != nil {
				s.logger.Warn().Err(err).Str("title", req.Metadata.Title).Msg("Reference upload failed")
				result.Failed++
				result.Errors = append(result.Errors, fmt.Errorf("%s: %w", req.Metadata.Title, err))
				continue
			}
			result.Uploaded++
		}

		s.logger.Debug().
			Int("uploaded", result.Uploaded).
			Int("failed", result.Failed).
			Int("total", len(reqs)).
			Msg("Reference upload batch processed")
	}

	return result
}

func isReferenceType(documentType string) bool {
	for _, t := range ReferenceTypes {
		if t == documentType {
			return true
		}
	}
	return false
}
