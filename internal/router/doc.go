// Package router implements handoff routing for the agent pipeline.
//
// After each agent completes, the orchestrator asks a Router which agent
// should run next. A decision with an empty NextAgent stops the pipeline.
// Three delegate strategies are available:
//   - Rules: fast, deterministic routing using CEL expressions over the run state
//   - LLM: semantic routing by asking the model
//   - Hybrid: CEL rules first, model fallback
//
// Any delegate can be wrapped in a LimitRouter, which bounds the number of
// handoffs in a run and forcibly terminates the pipeline once the ceiling is
// exceeded:
//
//	delegate, _ := router.New(&router.Config{
//	    Mode: router.ModeRules,
//	    Rules: []router.Rule{
//	        {Condition: `!("title" in state.outputs)`, Target: "summary_agent"},
//	        {Condition: `!("html_content" in state.outputs)`, Target: "html_agent"},
//	    },
//	    Fallback: "",
//	}, evaluator, templates, client, logger)
//
//	limited, _ := router.NewLimitRouter(delegate, 10, logger)
//
// The LimitRouter satisfies the same Router interface it wraps, so it can be
// composed anywhere a plain router is expected.
package router
