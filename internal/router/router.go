package router

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nmeisenzahl/ai-agent-demo/internal/agent"
	"github.com/nmeisenzahl/ai-agent-demo/internal/eval/cel"
	"github.com/nmeisenzahl/ai-agent-demo/internal/eval/template"
	"github.com/nmeisenzahl/ai-agent-demo/internal/llm"
)

// Mode represents the delegate routing strategy
type Mode string

const (
	// ModeRules uses CEL expressions for routing
	ModeRules Mode = "rules"

	// ModeLLM uses the model for semantic routing
	ModeLLM Mode = "llm"

	// ModeHybrid uses CEL rules with LLM fallback
	ModeHybrid Mode = "hybrid"
)

// Terminate is the NextAgent value that stops the pipeline
const Terminate = ""

// Decision is the result of a routing step. An empty NextAgent stops the
// pipeline.
type Decision struct {
	NextAgent string `json:"next_agent"`
	Reasoning string `json:"reasoning"`
	Mode      string `json:"mode"`
	PathTaken string `json:"path_taken"` // "fast", "slow", "fallback", "limit"
}

// Terminal reports whether the decision stops the pipeline
func (d *Decision) Terminal() bool {
	return d.NextAgent == Terminate
}

// RunState is the shared state of a single pipeline run. Routers read it,
// the orchestrator owns and mutates it.
type RunState struct {
	RunID   string
	Topic   string
	Outputs agent.Result
	Visited []string
}

// Vars prepares the run state and the latest agent result for CEL and
// template evaluation
func (s *RunState) Vars(result agent.Result) map[string]interface{} {
	return map[string]interface{}{
		"state": map[string]interface{}{
			"run_id":  s.RunID,
			"topic":   s.Topic,
			"outputs": map[string]interface{}(s.Outputs),
			"visited": s.Visited,
		},
		"result": map[string]interface{}(result),
	}
}

// Router decides which agent runs next after an agent completes.
//
// Route is invoked by the orchestrator exactly once per agent completion,
// with the name of the agent that just finished, its output fields, and the
// shared run state. Implementations return a terminal decision (empty
// NextAgent) to stop the run.
type Router interface {
	Route(ctx context.Context, from string, result agent.Result, state *RunState) (*Decision, error)
}

// Rule is a CEL-based routing rule
type Rule struct {
	Condition string `json:"condition"`
	Target    string `json:"target"`
}

// LLMConfig configures model-based routing
type LLMConfig struct {
	Model               string            `json:"model"`
	PromptTemplate      string            `json:"prompt_template"`
	Routes              map[string]string `json:"routes"`
	ConfidenceThreshold float64           `json:"confidence_threshold"`
}

// Config configures the delegate router assembled by New
type Config struct {
	Mode      Mode       `json:"mode"`
	Rules     []Rule     `json:"rules,omitempty"`
	FastRules []Rule     `json:"fast_rules,omitempty"`
	LLM       *LLMConfig `json:"llm,omitempty"`

	// Fallback is the target when nothing matches. Empty stops the pipeline.
	Fallback string `json:"fallback"`
}

// Validate validates the routing configuration
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}

	switch c.Mode {
	case ModeRules:
		if len(c.Rules) == 0 {
			return fmt.Errorf("rules mode requires rules")
		}
		if err := validateRules(c.Rules); err != nil {
			return err
		}

	case ModeLLM:
		if err := validateLLMConfig(c.LLM); err != nil {
			return err
		}

	case ModeHybrid:
		if len(c.FastRules) == 0 {
			return fmt.Errorf("hybrid mode requires fast_rules")
		}
		if err := validateRules(c.FastRules); err != nil {
			return err
		}
		if err := validateLLMConfig(c.LLM); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown routing mode: %s", c.Mode)
	}

	return nil
}

func validateRules(rules []Rule) error {
	for i, rule := range rules {
		if rule.Condition == "" {
			return fmt.Errorf("rule %d: condition is required", i)
		}
		if rule.Target == "" {
			return fmt.Errorf("rule %d: target is required", i)
		}
	}
	return nil
}

func validateLLMConfig(cfg *LLMConfig) error {
	if cfg == nil {
		return fmt.Errorf("llm config is required")
	}
	if cfg.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if cfg.PromptTemplate == "" {
		return fmt.Errorf("llm.prompt_template is required")
	}
	if len(cfg.Routes) == 0 {
		return fmt.Errorf("llm.routes is required")
	}
	if cfg.ConfidenceThreshold < 0 || cfg.ConfidenceThreshold > 1 {
		return fmt.Errorf("llm.confidence_threshold must be between 0 and 1")
	}
	return nil
}

// New assembles the delegate router described by the configuration
func New(
	cfg *Config,
	evaluator *cel.Evaluator,
	templates *template.Engine,
	client llm.Client,
	logger *zap.Logger,
) (Router, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	switch cfg.Mode {
	case ModeRules:
		return NewRulesRouter(cfg.Rules, cfg.Fallback, evaluator, logger)

	case ModeLLM:
		return NewLLMRouter(cfg.LLM, cfg.Fallback, templates, client, logger)

	case ModeHybrid:
		llmRouter, err := NewLLMRouter(cfg.LLM, cfg.Fallback, templates, client, logger)
		if err != nil {
			return nil, err
		}
		return NewHybridRouter(cfg.FastRules, llmRouter, evaluator, logger)

	default:
		return nil, fmt.Errorf("unknown routing mode: %s", cfg.Mode)
	}
}
