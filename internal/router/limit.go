package router

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nmeisenzahl/ai-agent-demo/internal/agent"
)

// LimitRouter wraps a delegate Router and stops the pipeline once a maximum
// number of handoffs has been made, preventing infinite agent loops.
//
// Every call to Route increments the iteration counter. While the counter is
// within the ceiling the call is forwarded to the delegate untouched and its
// decision (or error) is returned verbatim. Once the counter exceeds the
// ceiling, the delegate is not consulted: the counter is reset to zero and a
// terminal decision is returned, so the same instance can serve a subsequent
// run. A delegate that terminates the run on its own does not reset the
// counter; only the ceiling branch does. Callers that reuse an instance
// across runs without ever hitting the ceiling should call Reset between
// runs.
//
// A LimitRouter is not safe for concurrent use. Use one instance per
// pipeline run.
type LimitRouter struct {
	delegate   Router
	max        int
	iterations int
	logger     *zap.Logger
}

// NewLimitRouter creates a LimitRouter around delegate. max is the number of
// handoffs allowed per run; zero is valid and terminates the pipeline on the
// first routing call, negative values are rejected.
func NewLimitRouter(delegate Router, max int, logger *zap.Logger) (*LimitRouter, error) {
	if delegate == nil {
		return nil, fmt.Errorf("delegate router is required")
	}
	if max < 0 {
		return nil, fmt.Errorf("max iterations must be non-negative, got %d", max)
	}

	return &LimitRouter{
		delegate: delegate,
		max:      max,
		logger:   logger,
	}, nil
}

// Route counts the handoff and either forwards to the delegate or, when the
// ceiling is exceeded, terminates the pipeline.
func (r *LimitRouter) Route(ctx context.Context, from string, result agent.Result, state *RunState) (*Decision, error) {
	r.iterations++

	if r.iterations > r.max {
		r.logger.Info("maximum iterations reached, stopping pipeline",
			zap.Int("max_iterations", r.max),
			zap.String("current_agent", from),
		)
		r.iterations = 0

		return &Decision{
			NextAgent: Terminate,
			Reasoning: fmt.Sprintf("maximum of %d iterations reached", r.max),
			Mode:      "limit",
			PathTaken: "limit",
		}, nil
	}

	return r.delegate.Route(ctx, from, result, state)
}

// Iterations returns the number of handoffs counted since the last reset
func (r *LimitRouter) Iterations() int {
	return r.iterations
}

// Reset clears the iteration counter so the instance can be reused for a new
// run without relying on the ceiling branch
func (r *LimitRouter) Reset() {
	r.iterations = 0
}
