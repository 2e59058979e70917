// Package export renders generated documents to standalone HTML files.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/ideaforge/ideaforge/internal/models"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { max-width: 48rem; margin: 2rem auto; padding: 0 1rem; font-family: system-ui, sans-serif; line-height: 1.6; color: #1f2328; }
pre { background: #f6f8fa; padding: 1rem; overflow-x: auto; border-radius: 6px; }
code { font-family: ui-monospace, monospace; font-size: 0.9em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #d1d9e0; padding: 0.4rem 0.8rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{.Body}}
</body>
</html>
`))

type pageData struct {
	Title string
	Body  template.HTML
}

// Exporter converts document markdown to standalone HTML files
type Exporter struct {
	dir      string
	markdown goldmark.Markdown
	logger   arbor.ILogger
}

// NewExporter creates an exporter writing into dir
func NewExporter(dir string, logger arbor.ILogger) *Exporter {
	return &Exporter{
		dir: dir,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
		logger: logger,
	}
}

// RenderHTML converts markdown content into a complete HTML page
func (e *Exporter) RenderHTML(title, content string) (string, error) {
	var body bytes.Buffer
	if err := e.markdown.Convert([]byte(content), &body); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}

	var page bytes.Buffer
	err := pageTemplate.Execute(&page, pageData{
		Title: title,
		Body:  template.HTML(body.String()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}

	return page.String(), nil
}

// ExportDocument writes one document as an HTML file named
// "<idea-title>-<document-type>.html". Returns the written path.
func (e *Exporter) ExportDocument(idea *models.Idea, doc *models.Document) (string, error) {
	title := fmt.Sprintf("%s - %s", idea.Title, models.DisplayName(doc.DocumentType))
	page, err := e.RenderHTML(title, doc.Content)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s.html", slugify(idea.Title), slugify(doc.DocumentType))
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(page), 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	e.logger.Info().
		Str("idea_id", idea.ID).
		Str("document_type", doc.DocumentType).
		Str("path", path).
		Msg("Document exported")

	return path, nil
}

// ExportIdea writes every document of an idea, returning the written paths
func (e *Exporter) ExportIdea(idea *models.Idea, docs []*models.Document) ([]string, error) {
	paths := make([]string, 0, len(docs))
	for _, doc := range docs {
		path, err := e.ExportDocument(idea, doc)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}
