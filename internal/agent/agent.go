// Package agent defines the LLM-backed agents of the demo pipeline: their
// typed input/output signatures and their execution against the model.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/nmeisenzahl/ai-agent-demo/internal/eval/template"
	"github.com/nmeisenzahl/ai-agent-demo/internal/llm"
)

// Field declares a single named input or output of an agent
type Field struct {
	Name        string
	Type        string
	Description string
}

// Definition describes an agent: its identity, model settings and signature
type Definition struct {
	Name        string
	Description string
	Model       string
	Temperature float64
	MaxTokens   int
	Inputs      []Field
	Outputs     []Field
}

// Validate checks that the definition is complete
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("agent name is required")
	}
	if d.Model == "" {
		return fmt.Errorf("agent %s: model is required", d.Name)
	}
	if len(d.Outputs) == 0 {
		return fmt.Errorf("agent %s: at least one output field is required", d.Name)
	}
	for i, f := range d.Inputs {
		if f.Name == "" {
			return fmt.Errorf("agent %s: input %d: name is required", d.Name, i)
		}
	}
	for i, f := range d.Outputs {
		if f.Name == "" {
			return fmt.Errorf("agent %s: output %d: name is required", d.Name, i)
		}
	}
	return nil
}

const systemPromptTemplate = `{{trim description}}

You receive the following inputs:
{{numbered inputs}}

Respond with a single JSON object containing exactly these fields:
{{numbered outputs}}

Do not include any text outside the JSON object.`

// Agent executes a definition against the model
type Agent struct {
	def       Definition
	client    llm.Client
	templates *template.Engine
	logger    *zap.Logger
}

// New creates an agent from a definition
func New(def Definition, client llm.Client, templates *template.Engine, logger *zap.Logger) (*Agent, error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("invalid definition: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("agent %s: llm client is required", def.Name)
	}

	return &Agent{
		def:       def,
		client:    client,
		templates: templates,
		logger:    logger,
	}, nil
}

// Name returns the agent's name
func (a *Agent) Name() string {
	return a.def.Name
}

// Definition returns a copy of the agent's definition
func (a *Agent) Definition() Definition {
	return a.def
}

// Execute runs the agent once. It renders the prompts from the definition,
// requests a JSON response from the model and verifies that every declared
// output field is present.
func (a *Agent) Execute(ctx context.Context, inputs Result) (Result, error) {
	system, err := a.renderSystemPrompt()
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", a.def.Name, err)
	}

	prompt, err := a.renderUserPrompt(inputs)
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", a.def.Name, err)
	}

	a.logger.Debug("executing agent",
		zap.String("agent", a.def.Name),
		zap.String("model", a.def.Model),
	)

	resp, err := a.client.Complete(ctx, llm.Request{
		Model:       a.def.Model,
		System:      system,
		Prompt:      prompt,
		Temperature: a.def.Temperature,
		MaxTokens:   a.def.MaxTokens,
		JSONOutput:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", a.def.Name, err)
	}

	var result Result
	if err := json.Unmarshal([]byte(resp.Content), &result); err != nil {
		return nil, fmt.Errorf("agent %s: failed to parse model output: %w", a.def.Name, err)
	}

	for _, field := range a.def.Outputs {
		if _, ok := result[field.Name]; !ok {
			return nil, fmt.Errorf("agent %s: model output missing field %q", a.def.Name, field.Name)
		}
	}

	a.logger.Info("agent completed",
		zap.String("agent", a.def.Name),
		zap.Int("output_fields", len(result)),
	)

	return result, nil
}

// renderSystemPrompt renders the instruction prompt from the signature
func (a *Agent) renderSystemPrompt() (string, error) {
	return a.templates.Render(systemPromptTemplate, map[string]interface{}{
		"description": a.def.Description,
		"inputs":      describeFields(a.def.Inputs),
		"outputs":     describeFields(a.def.Outputs),
	})
}

// renderUserPrompt serializes the declared inputs as the user message
func (a *Agent) renderUserPrompt(inputs Result) (string, error) {
	payload := make(map[string]interface{}, len(a.def.Inputs))
	for _, field := range a.def.Inputs {
		value, ok := inputs[field.Name]
		if !ok {
			return "", fmt.Errorf("missing input field %q", field.Name)
		}
		payload[field.Name] = value
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize inputs: %w", err)
	}

	return string(data), nil
}

// describeFields renders "name (type): description" lines for the prompt
func describeFields(fields []Field) []string {
	lines := make([]string, len(fields))
	for i, f := range fields {
		lines[i] = fmt.Sprintf("%s (%s): %s", f.Name, f.Type, f.Description)
	}
	return lines
}
