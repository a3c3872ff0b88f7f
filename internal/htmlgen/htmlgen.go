// Package htmlgen renders research results as a newspaper-style HTML article
// and saves it to disk.
package htmlgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nmeisenzahl/ai-agent-demo/internal/eval/template"
)

// Article is the content rendered into the newspaper layout
type Article struct {
	Title           string
	ShortSummary    string
	ResearchContent string
	KeyPoints       []string
	ImagePath       string
}

// Generator renders and saves articles
type Generator struct {
	templates *template.Engine
	outputDir string
	logger    *zap.Logger
}

// NewGenerator creates a generator writing into outputDir
func NewGenerator(templates *template.Engine, outputDir string, logger *zap.Logger) (*Generator, error) {
	if templates == nil {
		return nil, fmt.Errorf("template engine is required")
	}
	if outputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}

	return &Generator{
		templates: templates,
		outputDir: outputDir,
		logger:    logger,
	}, nil
}

// Render produces the full HTML document for an article
func (g *Generator) Render(article Article) (string, error) {
	if article.Title == "" {
		return "", fmt.Errorf("article title is required")
	}

	return g.templates.Render(articleTemplate, map[string]interface{}{
		"title":            article.Title,
		"short_summary":    article.ShortSummary,
		"research_content": article.ResearchContent,
		"key_points":       article.KeyPoints,
		"image_path":       article.ImagePath,
		"date":             time.Now().Format("January 2, 2006"),
		"year":             time.Now().Year(),
	})
}

// SaveArticle renders the article and writes it to the output directory,
// deriving the filename from the topic. It returns the path of the written
// file.
func (g *Generator) SaveArticle(article Article, topic string) (string, error) {
	html, err := g.Render(article)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(g.outputDir, Filename(topic))
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("failed to write article: %w", err)
	}

	g.logger.Info("article saved",
		zap.String("path", path),
		zap.String("title", article.Title),
	)

	return path, nil
}

// Filename derives a filesystem-safe article filename from a topic
func Filename(topic string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == ' ', r == '-', r == '_':
			return '_'
		default:
			return -1
		}
	}, strings.TrimSpace(topic))

	if safe == "" {
		safe = "article"
	}

	return safe + "_article.html"
}
