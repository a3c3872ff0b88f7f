package cel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	eval, err := NewEvaluator()
	require.NoError(t, err)
	return eval
}

func TestEvaluateBool(t *testing.T) {
	eval := newTestEvaluator(t)

	vars := map[string]interface{}{
		"state": map[string]interface{}{
			"topic": "go",
			"outputs": map[string]interface{}{
				"research_content": "findings",
			},
		},
		"result": map[string]interface{}{
			"research_content": "findings",
		},
	}

	tests := []struct {
		expression string
		want       bool
	}{
		{`state.topic == "go"`, true},
		{`"research_content" in state.outputs`, true},
		{`!("title" in state.outputs)`, true},
		{`"title" in result`, false},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			got, err := eval.EvaluateBool(context.Background(), tt.expression, vars)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateBoolNonBoolResult(t *testing.T) {
	eval := newTestEvaluator(t)

	vars := map[string]interface{}{
		"state":  map[string]interface{}{"topic": "go"},
		"result": map[string]interface{}{},
	}

	_, err := eval.EvaluateBool(context.Background(), `state.topic`, vars)
	assert.ErrorContains(t, err, "want bool")
}

func TestEvaluateInvalidExpression(t *testing.T) {
	eval := newTestEvaluator(t)

	_, err := eval.Evaluate(context.Background(), `state ==`, map[string]interface{}{
		"state":  map[string]interface{}{},
		"result": map[string]interface{}{},
	})
	assert.ErrorContains(t, err, "failed to compile")
}

func TestEvaluateCachesPrograms(t *testing.T) {
	eval := newTestEvaluator(t)
	vars := map[string]interface{}{
		"state":  map[string]interface{}{"topic": "go"},
		"result": map[string]interface{}{},
	}

	for i := 0; i < 3; i++ {
		got, err := eval.EvaluateBool(context.Background(), `state.topic == "go"`, vars)
		require.NoError(t, err)
		assert.True(t, got)
	}

	eval.mu.RLock()
	defer eval.mu.RUnlock()
	assert.Len(t, eval.cache, 1)
}

func TestValidateExpression(t *testing.T) {
	eval := newTestEvaluator(t)

	assert.NoError(t, eval.ValidateExpression(`"title" in state.outputs`))
	assert.Error(t, eval.ValidateExpression(`state ==`))
	assert.Error(t, eval.ValidateExpression(`"just a string"`))
}
