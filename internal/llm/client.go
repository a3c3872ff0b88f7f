// Package llm wraps the Azure OpenAI API behind a small client interface so
// agents, routers and tests share a single seam.
package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/nmeisenzahl/ai-agent-demo/internal/config"
)

// Request is a single chat completion request
type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
	JSONOutput  bool
}

// Response is the completion returned by the model
type Response struct {
	Content string
}

// ImageRequest is a single image generation request
type ImageRequest struct {
	Prompt string
}

// ImageResponse carries the URL of the generated image
type ImageResponse struct {
	URL           string
	RevisedPrompt string
}

// Client is the capability the rest of the demo depends on
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	GenerateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error)
}

// AzureClient implements Client against Azure OpenAI deployments
type AzureClient struct {
	client     *openai.Client
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger
}

// NewAzureClient creates a client from the demo configuration
func NewAzureClient(cfg *config.Config, logger *zap.Logger) (*AzureClient, error) {
	if cfg.AzureAPIKey == "" {
		return nil, fmt.Errorf("azure api key is required")
	}
	if cfg.AzureAPIBase == "" {
		return nil, fmt.Errorf("azure api base url is required")
	}

	clientCfg := openai.DefaultAzureConfig(cfg.AzureAPIKey, cfg.AzureAPIBase)
	clientCfg.APIVersion = cfg.AzureAPIVersion

	return &AzureClient{
		client:     openai.NewClientWithConfig(clientCfg),
		maxRetries: 3,
		retryDelay: 2 * time.Second,
		logger:     logger,
	}, nil
}

// Complete performs a chat completion with bounded retries
func (c *AzureClient) Complete(ctx context.Context, req Request) (*Response, error) {
	messages := []openai.ChatCompletionMessage{}
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONOutput {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("retrying chat completion",
				zap.Int("attempt", attempt),
				zap.String("model", req.Model),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff(c.retryDelay, attempt)):
			}
		}

		resp, err := c.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			lastErr = fmt.Errorf("chat completion failed: %w", err)
			continue
		}

		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("chat completion returned no choices")
			continue
		}

		return &Response{Content: resp.Choices[0].Message.Content}, nil
	}

	return nil, lastErr
}

// GenerateImage generates a single 1024x1024 image with DALL-E 3
func (c *AzureClient) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error) {
	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          openai.CreateImageModelDallE3,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		Quality:        openai.CreateImageQualityHD,
		Style:          openai.CreateImageStyleVivid,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("image generation returned no data")
	}

	out := &ImageResponse{
		URL:           resp.Data[0].URL,
		RevisedPrompt: resp.Data[0].RevisedPrompt,
	}
	if out.RevisedPrompt == "" {
		out.RevisedPrompt = req.Prompt
	}

	return out, nil
}
