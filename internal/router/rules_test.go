package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nmeisenzahl/ai-agent-demo/internal/agent"
	"github.com/nmeisenzahl/ai-agent-demo/internal/eval/cel"
)

func newEvaluator(t *testing.T) *cel.Evaluator {
	t.Helper()
	eval, err := cel.NewEvaluator()
	require.NoError(t, err)
	return eval
}

func pipelineRules() []Rule {
	return []Rule{
		{Condition: `!("title" in state.outputs)`, Target: "summary_agent"},
		{Condition: `!("html_content" in state.outputs)`, Target: "html_agent"},
	}
}

func TestRulesRouterFirstMatchWins(t *testing.T) {
	r, err := NewRulesRouter(pipelineRules(), "", newEvaluator(t), zap.NewNop())
	require.NoError(t, err)

	state := &RunState{
		Topic:   "go",
		Outputs: agent.Result{"research_content": "findings"},
	}

	decision, err := r.Route(context.Background(), "research_agent", agent.Result{}, state)
	require.NoError(t, err)
	assert.Equal(t, "summary_agent", decision.NextAgent)
	assert.Equal(t, "fast", decision.PathTaken)
	assert.Contains(t, decision.Reasoning, "rule 0")
}

func TestRulesRouterAdvancesWithState(t *testing.T) {
	r, err := NewRulesRouter(pipelineRules(), "", newEvaluator(t), zap.NewNop())
	require.NoError(t, err)

	state := &RunState{
		Topic: "go",
		Outputs: agent.Result{
			"research_content": "findings",
			"title":            "Go",
			"short_summary":    "short",
		},
	}

	decision, err := r.Route(context.Background(), "summary_agent", agent.Result{}, state)
	require.NoError(t, err)
	assert.Equal(t, "html_agent", decision.NextAgent)
}

func TestRulesRouterFallbackTerminates(t *testing.T) {
	r, err := NewRulesRouter(pipelineRules(), "", newEvaluator(t), zap.NewNop())
	require.NoError(t, err)

	state := &RunState{
		Topic: "go",
		Outputs: agent.Result{
			"research_content": "findings",
			"title":            "Go",
			"html_content":     "<html></html>",
		},
	}

	decision, err := r.Route(context.Background(), "html_agent", agent.Result{}, state)
	require.NoError(t, err)
	assert.True(t, decision.Terminal())
	assert.Equal(t, "fallback", decision.PathTaken)
}

func TestRulesRouterSkipsFailingRule(t *testing.T) {
	rules := []Rule{
		// References a key that does not exist; evaluation fails and the
		// rule is skipped
		{Condition: `state.outputs.missing == "x"`, Target: "nowhere"},
		{Condition: `true`, Target: "summary_agent"},
	}

	r, err := NewRulesRouter(rules, "", newEvaluator(t), zap.NewNop())
	require.NoError(t, err)

	state := &RunState{Topic: "go", Outputs: agent.Result{}}
	decision, err := r.Route(context.Background(), "research_agent", agent.Result{}, state)
	require.NoError(t, err)
	assert.Equal(t, "summary_agent", decision.NextAgent)
}

func TestNewRulesRouterRejectsBadCondition(t *testing.T) {
	_, err := NewRulesRouter([]Rule{{Condition: `state ==`, Target: "x"}}, "", newEvaluator(t), zap.NewNop())
	assert.ErrorContains(t, err, "invalid condition")
}

func TestNewRulesRouterRequiresRules(t *testing.T) {
	_, err := NewRulesRouter(nil, "", newEvaluator(t), zap.NewNop())
	assert.ErrorContains(t, err, "at least one rule")
}

func TestConfigValidate(t *testing.T) {
	llmCfg := &LLMConfig{
		Model:          "gpt-4o-mini",
		PromptTemplate: "{{topic}}",
		Routes:         map[string]string{"summary": "summary_agent"},
	}

	tests := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{
			name:    "unknown mode",
			cfg:     &Config{Mode: "weird"},
			wantErr: "unknown routing mode",
		},
		{
			name:    "rules mode without rules",
			cfg:     &Config{Mode: ModeRules},
			wantErr: "requires rules",
		},
		{
			name:    "rule missing target",
			cfg:     &Config{Mode: ModeRules, Rules: []Rule{{Condition: "true"}}},
			wantErr: "target is required",
		},
		{
			name:    "llm mode without config",
			cfg:     &Config{Mode: ModeLLM},
			wantErr: "llm config is required",
		},
		{
			name:    "hybrid without fast rules",
			cfg:     &Config{Mode: ModeHybrid, LLM: llmCfg},
			wantErr: "requires fast_rules",
		},
		{
			name: "valid rules config",
			cfg:  &Config{Mode: ModeRules, Rules: pipelineRules()},
		},
		{
			name: "valid hybrid config",
			cfg:  &Config{Mode: ModeHybrid, FastRules: pipelineRules(), LLM: llmCfg},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
