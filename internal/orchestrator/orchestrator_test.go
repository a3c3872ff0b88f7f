package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nmeisenzahl/ai-agent-demo/internal/agent"
	"github.com/nmeisenzahl/ai-agent-demo/internal/router"
)

// fakeExecutor produces a fixed output under a given name
type fakeExecutor struct {
	name   string
	output agent.Result
	err    error
	calls  int
}

func (f *fakeExecutor) Name() string { return f.name }

func (f *fakeExecutor) Execute(_ context.Context, _ agent.Result) (agent.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

// chainRouter walks a fixed agent sequence
type chainRouter struct {
	next map[string]string
}

func (c *chainRouter) Route(_ context.Context, from string, _ agent.Result, _ *router.RunState) (*router.Decision, error) {
	return &router.Decision{NextAgent: c.next[from], Mode: "test"}, nil
}

func newPipeline(t *testing.T) (*Orchestrator, *fakeExecutor, *fakeExecutor, *fakeExecutor) {
	t.Helper()

	research := &fakeExecutor{name: "research_agent", output: agent.Result{"research_content": "findings"}}
	summary := &fakeExecutor{name: "summary_agent", output: agent.Result{"title": "Go"}}
	html := &fakeExecutor{name: "html_agent", output: agent.Result{"html_content": "<html></html>"}}

	handoff := &chainRouter{next: map[string]string{
		"research_agent": "summary_agent",
		"summary_agent":  "html_agent",
		"html_agent":     "",
	}}

	o, err := New(handoff, zap.NewNop())
	require.NoError(t, err)
	for _, e := range []*fakeExecutor{research, summary, html} {
		require.NoError(t, o.Register(e))
	}

	return o, research, summary, html
}

func TestRunFollowsHandoffs(t *testing.T) {
	o, research, summary, html := newPipeline(t)

	run, err := o.Run(context.Background(), "research_agent", agent.Result{"topic": "go"})
	require.NoError(t, err)

	assert.Equal(t, 1, research.calls)
	assert.Equal(t, 1, summary.calls)
	assert.Equal(t, 1, html.calls)

	assert.Equal(t, []string{"research_agent", "summary_agent", "html_agent"}, run.State.Visited)
	assert.Equal(t, "go", run.State.Topic)
	assert.NotEmpty(t, run.State.RunID)

	// All agent outputs are merged into the shared state
	title, ok := run.State.Outputs.String("title")
	assert.True(t, ok)
	assert.Equal(t, "Go", title)
	_, ok = run.State.Outputs.String("html_content")
	assert.True(t, ok)

	require.Len(t, run.Steps, 3)
	assert.True(t, run.Steps[2].Decision.Terminal())
}

func TestRunUnknownStartAgent(t *testing.T) {
	o, _, _, _ := newPipeline(t)

	_, err := o.Run(context.Background(), "nope", agent.Result{"topic": "go"})
	assert.ErrorContains(t, err, `unknown agent "nope"`)
}

func TestRunUnknownNextAgent(t *testing.T) {
	research := &fakeExecutor{name: "research_agent", output: agent.Result{}}
	handoff := &chainRouter{next: map[string]string{"research_agent": "ghost_agent"}}

	o, err := New(handoff, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, o.Register(research))

	_, err = o.Run(context.Background(), "research_agent", agent.Result{})
	assert.ErrorContains(t, err, `unknown agent "ghost_agent"`)
}

func TestRunAgentErrorStopsRun(t *testing.T) {
	boom := errors.New("model unavailable")
	research := &fakeExecutor{name: "research_agent", err: boom}

	o, err := New(&chainRouter{next: map[string]string{}}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, o.Register(research))

	_, err = o.Run(context.Background(), "research_agent", agent.Result{})
	assert.ErrorIs(t, err, boom)
}

type errorRouter struct{ err error }

func (e *errorRouter) Route(context.Context, string, agent.Result, *router.RunState) (*router.Decision, error) {
	return nil, e.err
}

func TestRunRoutingErrorPropagates(t *testing.T) {
	boom := errors.New("routing failed")
	research := &fakeExecutor{name: "research_agent", output: agent.Result{}}

	o, err := New(&errorRouter{err: boom}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, o.Register(research))

	_, err = o.Run(context.Background(), "research_agent", agent.Result{})
	assert.ErrorIs(t, err, boom)
}

func TestRunHonorsCancellation(t *testing.T) {
	o, _, _, _ := newPipeline(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.Run(ctx, "research_agent", agent.Result{"topic": "go"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegisterDuplicate(t *testing.T) {
	o, err := New(&chainRouter{}, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, o.Register(&fakeExecutor{name: "research_agent"}))
	err = o.Register(&fakeExecutor{name: "research_agent"})
	assert.ErrorContains(t, err, "already registered")
}

func TestRunDoesNotMutateCallerInputs(t *testing.T) {
	o, _, _, _ := newPipeline(t)

	inputs := agent.Result{"topic": "go"}
	_, err := o.Run(context.Background(), "research_agent", inputs)
	require.NoError(t, err)

	assert.Equal(t, agent.Result{"topic": "go"}, inputs)
}

func TestLimitRouterBoundsLoopingPipeline(t *testing.T) {
	// A handoff policy that always routes back to the same agent would loop
	// forever without a LimitRouter
	echo := &fakeExecutor{name: "research_agent", output: agent.Result{}}
	loop := &chainRouter{next: map[string]string{"research_agent": "research_agent"}}

	limited, err := router.NewLimitRouter(loop, 4, zap.NewNop())
	require.NoError(t, err)

	o, err := New(limited, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, o.Register(echo))

	run, err := o.Run(context.Background(), "research_agent", agent.Result{"topic": "go"})
	require.NoError(t, err)

	// 4 handoffs allowed, so the agent runs 5 times and the 5th routing
	// call terminates the run
	assert.Equal(t, 5, echo.calls)
	assert.True(t, run.Steps[len(run.Steps)-1].Decision.Terminal())
}
