package router

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nmeisenzahl/ai-agent-demo/internal/agent"
	"github.com/nmeisenzahl/ai-agent-demo/internal/eval/cel"
)

// RulesRouter routes by evaluating CEL rules in order; the first rule whose
// condition holds wins. When no rule matches, the fallback target is used
// (which may be empty, terminating the run).
type RulesRouter struct {
	rules     []Rule
	fallback  string
	evaluator *cel.Evaluator
	logger    *zap.Logger
}

// NewRulesRouter creates a rules router and validates its rules up front
func NewRulesRouter(rules []Rule, fallback string, evaluator *cel.Evaluator, logger *zap.Logger) (*RulesRouter, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("at least one rule is required")
	}
	if evaluator == nil {
		return nil, fmt.Errorf("cel evaluator is required")
	}
	for i, rule := range rules {
		if err := evaluator.ValidateExpression(rule.Condition); err != nil {
			return nil, fmt.Errorf("rule %d: invalid condition %q: %w", i, rule.Condition, err)
		}
	}

	return &RulesRouter{
		rules:     rules,
		fallback:  fallback,
		evaluator: evaluator,
		logger:    logger,
	}, nil
}

// Route evaluates the rules against the run state
func (r *RulesRouter) Route(ctx context.Context, from string, result agent.Result, state *RunState) (*Decision, error) {
	if rule, index, ok := matchRules(ctx, r.evaluator, r.rules, result, state, r.logger); ok {
		return &Decision{
			NextAgent: rule.Target,
			Reasoning: fmt.Sprintf("matched rule %d: %s", index, rule.Condition),
			Mode:      string(ModeRules),
			PathTaken: "fast",
		}, nil
	}

	r.logger.Info("no rules matched, using fallback",
		zap.String("from", from),
		zap.String("fallback", r.fallback),
	)

	return &Decision{
		NextAgent: r.fallback,
		Reasoning: "no rules matched",
		Mode:      string(ModeRules),
		PathTaken: "fallback",
	}, nil
}

// matchRules returns the first rule whose condition evaluates to true.
// Evaluation errors and non-boolean results skip to the next rule.
func matchRules(
	ctx context.Context,
	evaluator *cel.Evaluator,
	rules []Rule,
	result agent.Result,
	state *RunState,
	logger *zap.Logger,
) (*Rule, int, bool) {
	vars := state.Vars(result)

	for i := range rules {
		rule := &rules[i]

		matched, err := evaluator.EvaluateBool(ctx, rule.Condition, vars)
		if err != nil {
			logger.Warn("rule evaluation error",
				zap.Int("rule_index", i),
				zap.String("condition", rule.Condition),
				zap.Error(err),
			)
			continue
		}

		if matched {
			logger.Debug("rule matched",
				zap.Int("rule_index", i),
				zap.String("condition", rule.Condition),
				zap.String("target", rule.Target),
			)
			return rule, i, true
		}
	}

	return nil, 0, false
}
