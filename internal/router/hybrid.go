package router

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nmeisenzahl/ai-agent-demo/internal/agent"
	"github.com/nmeisenzahl/ai-agent-demo/internal/eval/cel"
)

// HybridRouter tries fast CEL rules first and defers to an LLMRouter when
// none of them match
type HybridRouter struct {
	fastRules []Rule
	slow      *LLMRouter
	evaluator *cel.Evaluator
	logger    *zap.Logger
}

// NewHybridRouter creates a hybrid router
func NewHybridRouter(fastRules []Rule, slow *LLMRouter, evaluator *cel.Evaluator, logger *zap.Logger) (*HybridRouter, error) {
	if len(fastRules) == 0 {
		return nil, fmt.Errorf("at least one fast rule is required")
	}
	if slow == nil {
		return nil, fmt.Errorf("llm router is required")
	}
	if evaluator == nil {
		return nil, fmt.Errorf("cel evaluator is required")
	}
	for i, rule := range fastRules {
		if err := evaluator.ValidateExpression(rule.Condition); err != nil {
			return nil, fmt.Errorf("fast rule %d: invalid condition %q: %w", i, rule.Condition, err)
		}
	}

	return &HybridRouter{
		fastRules: fastRules,
		slow:      slow,
		evaluator: evaluator,
		logger:    logger,
	}, nil
}

// Route tries the fast rules, then the model
func (r *HybridRouter) Route(ctx context.Context, from string, result agent.Result, state *RunState) (*Decision, error) {
	if rule, index, ok := matchRules(ctx, r.evaluator, r.fastRules, result, state, r.logger); ok {
		return &Decision{
			NextAgent: rule.Target,
			Reasoning: fmt.Sprintf("matched fast rule %d: %s", index, rule.Condition),
			Mode:      string(ModeHybrid),
			PathTaken: "fast",
		}, nil
	}

	r.logger.Debug("fast rules did not match, deferring to model",
		zap.String("from", from),
	)

	decision, err := r.slow.Route(ctx, from, result, state)
	if err != nil {
		return nil, err
	}

	decision.Mode = string(ModeHybrid)
	return decision, nil
}
