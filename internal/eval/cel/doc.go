// Package cel provides CEL expression evaluation for deterministic routing
// rules.
//
// Compiled programs are cached, so repeated evaluation of the same rule only
// pays the compile cost once. Expressions are evaluated against the pipeline
// run state:
//
//	eval, _ := cel.NewEvaluator()
//	matched, err := eval.EvaluateBool(ctx, `!("title" in state.outputs)`, vars)
package cel
