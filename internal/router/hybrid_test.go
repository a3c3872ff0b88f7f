package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nmeisenzahl/ai-agent-demo/internal/agent"
	"github.com/nmeisenzahl/ai-agent-demo/internal/eval/template"
)

func newTestHybridRouter(t *testing.T, client *scriptedClient) *HybridRouter {
	t.Helper()
	slow, err := NewLLMRouter(testLLMConfig(), "", template.NewEngine(), client, zap.NewNop())
	require.NoError(t, err)

	r, err := NewHybridRouter(pipelineRules(), slow, newEvaluator(t), zap.NewNop())
	require.NoError(t, err)
	return r
}

func TestHybridFastRuleSkipsModel(t *testing.T) {
	client := &scriptedClient{content: "html"}
	r := newTestHybridRouter(t, client)

	state := &RunState{Topic: "go", Outputs: agent.Result{"research_content": "findings"}}
	decision, err := r.Route(context.Background(), "research_agent", agent.Result{}, state)
	require.NoError(t, err)

	assert.Equal(t, "summary_agent", decision.NextAgent)
	assert.Equal(t, "fast", decision.PathTaken)
	assert.Equal(t, string(ModeHybrid), decision.Mode)
	assert.Empty(t, client.requests, "fast rule match must not call the model")
}

func TestHybridFallsThroughToModel(t *testing.T) {
	client := &scriptedClient{content: "done"}
	r := newTestHybridRouter(t, client)

	// All fast rules are false once every output exists
	state := &RunState{Topic: "go", Outputs: agent.Result{
		"title":        "Go",
		"html_content": "<html></html>",
	}}

	decision, err := r.Route(context.Background(), "html_agent", agent.Result{}, state)
	require.NoError(t, err)

	assert.True(t, decision.Terminal())
	assert.Equal(t, "slow", decision.PathTaken)
	assert.Equal(t, string(ModeHybrid), decision.Mode)
	assert.Len(t, client.requests, 1)
}

func TestNewHybridRouterValidation(t *testing.T) {
	client := &scriptedClient{}
	slow, err := NewLLMRouter(testLLMConfig(), "", template.NewEngine(), client, zap.NewNop())
	require.NoError(t, err)

	_, err = NewHybridRouter(nil, slow, newEvaluator(t), zap.NewNop())
	assert.ErrorContains(t, err, "at least one fast rule")

	_, err = NewHybridRouter(pipelineRules(), nil, newEvaluator(t), zap.NewNop())
	assert.ErrorContains(t, err, "llm router is required")
}

func TestNewAssemblesConfiguredMode(t *testing.T) {
	engine := template.NewEngine()
	client := &scriptedClient{}
	eval := newEvaluator(t)

	rules, err := New(&Config{Mode: ModeRules, Rules: pipelineRules()}, eval, engine, client, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &RulesRouter{}, rules)

	llmRouter, err := New(&Config{Mode: ModeLLM, LLM: testLLMConfig()}, eval, engine, client, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &LLMRouter{}, llmRouter)

	hybrid, err := New(&Config{Mode: ModeHybrid, FastRules: pipelineRules(), LLM: testLLMConfig()}, eval, engine, client, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &HybridRouter{}, hybrid)

	_, err = New(&Config{Mode: "weird"}, eval, engine, client, zap.NewNop())
	assert.ErrorContains(t, err, "unknown routing mode")
}
