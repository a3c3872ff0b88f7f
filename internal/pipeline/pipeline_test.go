package pipeline

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nmeisenzahl/ai-agent-demo/internal/agent"
	"github.com/nmeisenzahl/ai-agent-demo/internal/config"
	"github.com/nmeisenzahl/ai-agent-demo/internal/llm"
)

// queueClient replays canned completions in order and records requests
type queueClient struct {
	replies  []string
	requests []llm.Request
}

func (q *queueClient) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	q.requests = append(q.requests, req)
	if len(q.replies) == 0 {
		return nil, errors.New("no scripted reply left")
	}
	reply := q.replies[0]
	q.replies = q.replies[1:]
	return &llm.Response{Content: reply}, nil
}

func (q *queueClient) GenerateImage(context.Context, llm.ImageRequest) (*llm.ImageResponse, error) {
	return nil, errors.New("not implemented")
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AzureAPIKey:     "key",
		AzureAPIBase:    "https://example.openai.azure.com",
		AzureAPIVersion: "2025-01-01",
		ResearchModel:   "gpt-4o-mini",
		SummaryModel:    "gpt-4.1-mini",
		Temperature:     0.7,
		MaxTokens:       4000,
		MaxIterations:   10,
		OutputDir:       t.TempDir(),
	}
}

func TestRunWalksFullChain(t *testing.T) {
	cfg := testConfig(t)
	client := &queueClient{replies: []string{
		`{"research_content":"Generics landed in Go 1.18.\n\nType parameters changed library design.","key_points":["type parameters","constraints"]}`,
		`{"title":"Generics in Go","short_summary":"A look at type parameters."}`,
		`{"html_content":"<html><body><h1>Generics in Go</h1></body></html>"}`,
		"done",
	}}

	p, err := NewWithClient(cfg, client, zap.NewNop())
	require.NoError(t, err)

	outcome, err := p.Run(context.Background(), "go generics")
	require.NoError(t, err)

	assert.Equal(t, "Generics in Go", outcome.Title)
	assert.Equal(t, []string{
		agent.ResearchAgentName,
		agent.SummaryAgentName,
		agent.HTMLAgentName,
	}, outcome.Visited)
	assert.NotEmpty(t, outcome.RunID)
	assert.Empty(t, outcome.ImagePath)

	// the html agent's own document is written verbatim
	data, err := os.ReadFile(outcome.HTMLPath)
	require.NoError(t, err)
	assert.Equal(t, "<html><body><h1>Generics in Go</h1></body></html>", string(data))

	// three agent calls plus one routing call once the chain is complete
	require.Len(t, client.requests, 4)
	assert.True(t, client.requests[0].JSONOutput)
	assert.False(t, client.requests[3].JSONOutput)
	assert.Contains(t, client.requests[3].Prompt, "newsroom pipeline")
	assert.Contains(t, client.requests[3].Prompt, "go generics")
}

func TestRunRendersFallbackArticleWhenCutShort(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxIterations = 0
	client := &queueClient{replies: []string{
		`{"research_content":"Some findings.","key_points":["one"]}`,
	}}

	p, err := NewWithClient(cfg, client, zap.NewNop())
	require.NoError(t, err)

	outcome, err := p.Run(context.Background(), "cut short")
	require.NoError(t, err)

	// only the research agent ran before the limit stopped the run
	assert.Equal(t, []string{agent.ResearchAgentName}, outcome.Visited)
	require.Len(t, client.requests, 1)

	data, err := os.ReadFile(outcome.HTMLPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "cut short")
	assert.Contains(t, string(data), "Some findings.")
}

func TestRunRejectsEmptyTopic(t *testing.T) {
	p, err := NewWithClient(testConfig(t), &queueClient{}, zap.NewNop())
	require.NoError(t, err)

	_, err = p.Run(context.Background(), "   ")
	assert.ErrorContains(t, err, "topic cannot be empty")
}

func TestNewWithClientValidation(t *testing.T) {
	_, err := NewWithClient(nil, &queueClient{}, zap.NewNop())
	assert.ErrorContains(t, err, "config is required")

	_, err = NewWithClient(testConfig(t), nil, zap.NewNop())
	assert.ErrorContains(t, err, "llm client is required")
}
