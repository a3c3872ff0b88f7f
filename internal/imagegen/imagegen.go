// Package imagegen generates a hero image for an article with DALL-E 3 and
// downloads it into the output directory.
package imagegen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nmeisenzahl/ai-agent-demo/internal/agent"
	"github.com/nmeisenzahl/ai-agent-demo/internal/llm"
)

const maxPromptLen = 1000

// Agent generates an article image from a title and summary. It satisfies
// the orchestrator's Executor interface so it can participate in handoffs
// like any other agent.
type Agent struct {
	client     llm.Client
	httpClient *http.Client
	outputDir  string
	logger     *zap.Logger
}

// New creates an image agent writing into outputDir
func New(client llm.Client, outputDir string, logger *zap.Logger) (*Agent, error) {
	if client == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	if outputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}

	return &Agent{
		client:     client,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		outputDir:  outputDir,
		logger:     logger,
	}, nil
}

// Name returns the agent's name
func (a *Agent) Name() string {
	return agent.ImageAgentName
}

// Execute generates an image from the title and short_summary fields and
// returns the saved path and the prompt that produced it.
func (a *Agent) Execute(ctx context.Context, inputs agent.Result) (agent.Result, error) {
	title, ok := inputs.String("title")
	if !ok {
		return nil, fmt.Errorf("image agent: missing input field %q", "title")
	}
	summary, _ := inputs.String("short_summary")

	prompt := buildPrompt(title, summary)

	a.logger.Info("generating article image",
		zap.String("title", title),
	)

	resp, err := a.client.GenerateImage(ctx, llm.ImageRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("image agent: %w", err)
	}

	path, err := a.download(ctx, resp.URL, title)
	if err != nil {
		return nil, fmt.Errorf("image agent: %w", err)
	}

	a.logger.Info("article image saved", zap.String("path", path))

	return agent.Result{
		"image_path":   path,
		"image_prompt": resp.RevisedPrompt,
	}, nil
}

// buildPrompt composes the generation prompt from the article content,
// capped to stay within API limits
func buildPrompt(title, summary string) string {
	prompt := fmt.Sprintf(`Create a professional, engaging illustration for an article titled %q.

Content summary: %s

Style requirements:
- Professional and modern visual style
- High quality, editorial illustration
- Relevant to the article content
- Suitable for web publication
- Clean composition with good contrast
- No text or captions in the image`, title, summary)

	if len(prompt) > maxPromptLen {
		prompt = prompt[:maxPromptLen]
	}

	return prompt
}

// download fetches the generated image and saves it under a unique name
func (a *Agent) download(ctx context.Context, url, title string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image download returned status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(a.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(a.outputDir, filename(title, time.Now()))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	return path, nil
}

// filename builds a unique, filesystem-safe image filename from the title
func filename(title string, now time.Time) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ':
			return '_'
		case r == '-', r == '_':
			return r
		default:
			return -1
		}
	}, title)
	if len(safe) > 50 {
		safe = safe[:50]
	}

	digest := sha256.Sum256([]byte(title))

	return fmt.Sprintf("article_image_%s_%s_%s.png",
		safe,
		now.Format("20060102_150405"),
		hex.EncodeToString(digest[:4]),
	)
}
