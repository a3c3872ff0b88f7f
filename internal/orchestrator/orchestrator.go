// Package orchestrator runs the agent pipeline: it executes agents one at a
// time and asks the configured handoff router which agent runs next.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nmeisenzahl/ai-agent-demo/internal/agent"
	"github.com/nmeisenzahl/ai-agent-demo/internal/router"
)

// Executor is a unit of work the orchestrator can run. Both LLM-backed
// agents and tool-style agents (image generation) implement it.
type Executor interface {
	Name() string
	Execute(ctx context.Context, inputs agent.Result) (agent.Result, error)
}

// Step records a single agent execution and the routing decision that
// followed it
type Step struct {
	Agent    string
	Decision *router.Decision
	Duration time.Duration
}

// RunResult is the outcome of a pipeline run
type RunResult struct {
	State *router.RunState
	Steps []Step
}

// Orchestrator holds the registered agents and the handoff router
type Orchestrator struct {
	agents  map[string]Executor
	handoff router.Router
	logger  *zap.Logger
}

// New creates an orchestrator using the given handoff router
func New(handoff router.Router, logger *zap.Logger) (*Orchestrator, error) {
	if handoff == nil {
		return nil, fmt.Errorf("handoff router is required")
	}

	return &Orchestrator{
		agents:  make(map[string]Executor),
		handoff: handoff,
		logger:  logger,
	}, nil
}

// Register adds an agent to the orchestrator
func (o *Orchestrator) Register(executor Executor) error {
	name := executor.Name()
	if name == "" {
		return fmt.Errorf("agent name is required")
	}
	if _, exists := o.agents[name]; exists {
		return fmt.Errorf("agent %q already registered", name)
	}

	o.agents[name] = executor
	return nil
}

// Run executes the pipeline starting at the named agent. After each agent
// completes, its outputs are merged into the run state and the handoff
// router is consulted once; a terminal decision stops the run. Routing to an
// unregistered agent is an error.
func (o *Orchestrator) Run(ctx context.Context, start string, inputs agent.Result) (*RunResult, error) {
	state := &router.RunState{
		RunID:   uuid.NewString(),
		Outputs: inputs.Clone(),
	}
	if topic, ok := inputs.String("topic"); ok {
		state.Topic = topic
	}

	o.logger.Info("starting pipeline run",
		zap.String("run_id", state.RunID),
		zap.String("start_agent", start),
		zap.String("topic", state.Topic),
	)

	run := &RunResult{State: state}
	current := start

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		executor, ok := o.agents[current]
		if !ok {
			return nil, fmt.Errorf("run %s: unknown agent %q", state.RunID, current)
		}

		started := time.Now()
		output, err := executor.Execute(ctx, state.Outputs)
		if err != nil {
			return nil, fmt.Errorf("run %s: agent %s: %w", state.RunID, current, err)
		}

		state.Outputs.Merge(output)
		state.Visited = append(state.Visited, current)

		decision, err := o.handoff.Route(ctx, current, output, state)
		if err != nil {
			return nil, fmt.Errorf("run %s: routing after %s: %w", state.RunID, current, err)
		}

		duration := time.Since(started)
		run.Steps = append(run.Steps, Step{Agent: current, Decision: decision, Duration: duration})

		o.logger.Info("handoff decision",
			zap.String("run_id", state.RunID),
			zap.String("agent", current),
			zap.String("next_agent", decision.NextAgent),
			zap.String("path", decision.PathTaken),
			zap.Duration("duration", duration),
		)

		if decision.Terminal() {
			break
		}
		current = decision.NextAgent
	}

	o.logger.Info("pipeline run complete",
		zap.String("run_id", state.RunID),
		zap.Int("steps", len(run.Steps)),
	)

	return run, nil
}
