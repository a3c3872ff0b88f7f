package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the agent demo
type Config struct {
	// Azure OpenAI configuration
	AzureAPIKey     string `env:"AZURE_OPENAI_KEY"`
	AzureAPIBase    string `env:"AZURE_OPENAI_BASE"`
	AzureAPIVersion string `env:"AZURE_API_VERSION" envDefault:"2025-01-01"`

	// Model configuration
	ResearchModel string  `env:"RESEARCH_MODEL" envDefault:"gpt-4o-mini"`
	SummaryModel  string  `env:"SUMMARY_MODEL" envDefault:"gpt-4.1-mini"`
	Temperature   float64 `env:"DEFAULT_TEMPERATURE" envDefault:"0.7"`
	MaxTokens     int     `env:"MAX_TOKENS" envDefault:"4000"`

	// Pipeline configuration
	MaxIterations int    `env:"MAX_ITERATIONS" envDefault:"10"`
	OutputDir     string `env:"OUTPUT_DIR" envDefault:"output"`
	GenerateImage bool   `env:"GENERATE_IMAGE" envDefault:"false"`

	// Worker configuration (serve mode only)
	WorkerID      string        `env:"WORKER_ID" envDefault:"article-worker-1"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASS" envDefault:""`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	StreamKey     string        `env:"STREAM_KEY" envDefault:"articles.requested"`
	ConsumerGroup string        `env:"CONSUMER_GROUP" envDefault:"article-workers"`
	ResultStream  string        `env:"RESULT_STREAM" envDefault:"articles.generated"`
	BlockTime     time.Duration `env:"BLOCK_TIME" envDefault:"1s"`
	HealthPort    int           `env:"HEALTH_PORT" envDefault:"8082"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load loads configuration from a .env file (if present) and environment variables
func Load() (*Config, error) {
	// A missing .env file is fine, environment variables take over
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration shared by all commands
func (c *Config) Validate() error {
	if c.AzureAPIKey == "" {
		return fmt.Errorf("AZURE_OPENAI_KEY is required")
	}

	if c.AzureAPIBase == "" {
		return fmt.Errorf("AZURE_OPENAI_BASE is required")
	}

	if c.AzureAPIVersion == "" {
		return fmt.Errorf("AZURE_API_VERSION is required")
	}

	if c.ResearchModel == "" {
		return fmt.Errorf("RESEARCH_MODEL is required")
	}

	if c.SummaryModel == "" {
		return fmt.Errorf("SUMMARY_MODEL is required")
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("DEFAULT_TEMPERATURE must be between 0 and 2")
	}

	if c.MaxTokens <= 0 {
		return fmt.Errorf("MAX_TOKENS must be positive")
	}

	// Zero is valid and stops the pipeline on the first handoff
	if c.MaxIterations < 0 {
		return fmt.Errorf("MAX_ITERATIONS must be non-negative")
	}

	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}

	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}

	return nil
}

// ValidateServe validates the additional settings required by serve mode
func (c *Config) ValidateServe() error {
	if c.WorkerID == "" {
		return fmt.Errorf("WORKER_ID is required")
	}

	if c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}

	if c.StreamKey == "" {
		return fmt.Errorf("STREAM_KEY is required")
	}

	if c.ConsumerGroup == "" {
		return fmt.Errorf("CONSUMER_GROUP is required")
	}

	if c.ResultStream == "" {
		return fmt.Errorf("RESULT_STREAM is required")
	}

	if c.BlockTime <= 0 {
		return fmt.Errorf("BLOCK_TIME must be positive")
	}

	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return fmt.Errorf("HEALTH_PORT must be between 1 and 65535")
	}

	return nil
}

// isValidLogLevel checks if the log level is valid
func isValidLogLevel(level string) bool {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	return validLevels[level]
}

// String returns a string representation of the config (without sensitive data)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{AzureAPIBase=%s, ResearchModel=%s, SummaryModel=%s, Temperature=%.2f, "+
			"MaxTokens=%d, MaxIterations=%d, OutputDir=%s, GenerateImage=%v, LogLevel=%s}",
		c.AzureAPIBase,
		c.ResearchModel,
		c.SummaryModel,
		c.Temperature,
		c.MaxTokens,
		c.MaxIterations,
		c.OutputDir,
		c.GenerateImage,
		c.LogLevel,
	)
}
