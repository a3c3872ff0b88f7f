package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmeisenzahl/ai-agent-demo/internal/config"
	"go.uber.org/zap"
)

func TestNewAzureClient(t *testing.T) {
	cfg := &config.Config{
		AzureAPIKey:     "test-key",
		AzureAPIBase:    "https://example.openai.azure.com",
		AzureAPIVersion: "2025-01-01",
	}

	client, err := NewAzureClient(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewAzureClientMissingKey(t *testing.T) {
	cfg := &config.Config{
		AzureAPIBase: "https://example.openai.azure.com",
	}

	_, err := NewAzureClient(cfg, zap.NewNop())
	assert.ErrorContains(t, err, "api key")
}

func TestNewAzureClientMissingBase(t *testing.T) {
	cfg := &config.Config{
		AzureAPIKey: "test-key",
	}

	_, err := NewAzureClient(cfg, zap.NewNop())
	assert.ErrorContains(t, err, "base url")
}
