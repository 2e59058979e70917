package vectors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/ternarybob/arbor"
	"gopkg.in/yaml.v3"

	"github.com/ideaforge/ideaforge/internal/models"
)

// frontMatter is the optional YAML header of a reference markdown file
type frontMatter struct {
	Title        string `yaml:"title"`
	DocumentType string `yaml:"document_type"`
	Category     string `yaml:"category"`
	Author       string `yaml:"author"`
	Version      string `yaml:"version"`
}

// LoadStats summarizes one loader run
type LoadStats struct {
	Scanned  int
	Uploaded int
	Failed   int
	Skipped  int
	Duration time.Duration
}

// Loader ingests a directory of reference documents (.md with optional YAML
// front matter, .html converted to markdown) into the embedding library.
type Loader struct {
	dir       string
	upload    *UploadService
	converter *md.Converter
	logger    arbor.ILogger
}

// NewLoader creates a loader for a reference directory
func NewLoader(dir string, upload *UploadService, logger arbor.ILogger) *Loader {
	return &Loader{
		dir:       dir,
		upload:    upload,
		converter: md.NewConverter("", true, nil),
		logger:    logger,
	}
}

// Run scans the reference directory and uploads every parseable document
func (l *Loader) Run(ctx context.Context) (*LoadStats, error) {
	start := time.Now()
	stats := &LoadStats{}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference directory %s: %w", l.dir, err)
	}

	var reqs []*UploadRequest
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(l.dir, entry.Name())
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".md" && ext != ".html" {
			stats.Skipped++
			continue
		}
		stats.Scanned++

		req, err := l.parseFile(path, ext)
		if err != nil {
			l.logger.Warn().Err(err).Str("file", entry.Name()).Msg("Failed to parse reference document")
			stats.Failed++
			continue
		}
		reqs = append(reqs, req)
	}

	result := l.upload.UploadBatch(ctx, reqs)
	stats.Uploaded = result.Uploaded
	stats.Failed += result.Failed
	stats.Duration = time.Since(start)

	l.logger.Info().
		Int("scanned", stats.Scanned).
		Int("uploaded", stats.Uploaded).
		Int("failed", stats.Failed).
		Int("skipped", stats.Skipped).
		Dur("duration", stats.Duration).
		Msg("Reference directory processed")

	return stats, nil
}

// parseFile builds an upload request from one file
func (l *Loader) parseFile(path, ext string) (*UploadRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	switch ext {
	case ".md":
		return parseMarkdown(path, string(data))
	case ".html":
		content, err := l.converter.ConvertString(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to convert HTML: %w", err)
		}
		req := defaultRequest(path)
		req.Content = content
		return req, nil
	default:
		return nil, fmt.Errorf("unsupported extension: %s", ext)
	}
}

// parseMarkdown splits optional YAML front matter from the body. Files
// without front matter fall back to filename-derived metadata.
func parseMarkdown(path, content string) (*UploadRequest, error) {
	req := defaultRequest(path)

	if !strings.HasPrefix(content, "---\n") {
		req.Content = content
		return req, nil
	}

	rest := content[len("---\n"):]
	idx := strings.Index(rest, "\n---")
	if idx == -1 {
		return nil, fmt.Errorf("unterminated front matter")
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(rest[:idx]), &fm); err != nil {
		return nil, fmt.Errorf("invalid front matter: %w", err)
	}

	body := rest[idx+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")

	req.Content = body
	if fm.Title != "" {
		req.Metadata.Title = fm.Title
	}
	if fm.DocumentType != "" {
		req.Metadata.DocumentType = fm.DocumentType
	}
	if fm.Category != "" {
		req.Metadata.Category = fm.Category
	}
	req.Metadata.Author = fm.Author
	req.Metadata.Version = fm.Version

	return req, nil
}

// defaultRequest derives metadata from the filename: "Guide" type, title
// from the base name
func defaultRequest(path string) *UploadRequest {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &UploadRequest{
		Metadata: models.EmbeddingMetadata{
			Title:        base,
			DocumentType: "Guide",
			Category:     "Documentation",
		},
	}
}
