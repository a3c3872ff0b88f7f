package router

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/nmeisenzahl/ai-agent-demo/internal/agent"
	"github.com/nmeisenzahl/ai-agent-demo/internal/eval/template"
	"github.com/nmeisenzahl/ai-agent-demo/internal/llm"
)

// LLMRouter asks the model which agent should run next. The prompt template
// is rendered against the run state; the reply is matched against the
// configured routes map. On model failure, unmatched replies or low
// confidence the fallback target is used instead of failing the run.
type LLMRouter struct {
	cfg       LLMConfig
	fallback  string
	templates *template.Engine
	client    llm.Client
	logger    *zap.Logger
}

// NewLLMRouter creates an LLM router
func NewLLMRouter(cfg *LLMConfig, fallback string, templates *template.Engine, client llm.Client, logger *zap.Logger) (*LLMRouter, error) {
	if err := validateLLMConfig(cfg); err != nil {
		return nil, err
	}
	if templates == nil {
		return nil, fmt.Errorf("template engine is required")
	}
	if client == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	if err := templates.ValidateTemplate(cfg.PromptTemplate); err != nil {
		return nil, fmt.Errorf("invalid prompt template: %w", err)
	}

	return &LLMRouter{
		cfg:       *cfg,
		fallback:  fallback,
		templates: templates,
		client:    client,
		logger:    logger,
	}, nil
}

// Route renders the routing prompt, queries the model and maps the reply to
// a target agent
func (r *LLMRouter) Route(ctx context.Context, from string, result agent.Result, state *RunState) (*Decision, error) {
	prompt, err := r.renderPrompt(from, result, state)
	if err != nil {
		r.logger.Error("failed to render routing prompt", zap.Error(err))
		return r.fallbackDecision(fmt.Sprintf("failed to render prompt: %v", err)), nil
	}

	r.logger.Debug("calling model for routing",
		zap.String("from", from),
		zap.String("model", r.cfg.Model),
	)

	resp, err := r.client.Complete(ctx, llm.Request{
		Model:     r.cfg.Model,
		Prompt:    prompt,
		MaxTokens: 64,
	})
	if err != nil {
		r.logger.Error("routing model call failed", zap.Error(err))
		return r.fallbackDecision(fmt.Sprintf("model call failed: %v", err)), nil
	}

	reply, confidence := parseReply(resp.Content)

	if confidence >= 0 && confidence < r.cfg.ConfidenceThreshold {
		r.logger.Info("routing confidence below threshold",
			zap.String("reply", reply),
			zap.Float64("confidence", confidence),
			zap.Float64("threshold", r.cfg.ConfidenceThreshold),
		)
		return r.fallbackDecision(fmt.Sprintf("confidence %.2f below threshold", confidence)), nil
	}

	target, matched := matchReply(reply, r.cfg.Routes, r.logger)
	if !matched {
		r.logger.Warn("model reply did not match any route",
			zap.String("reply", resp.Content),
		)
		return r.fallbackDecision(fmt.Sprintf("reply %q did not match any route", reply)), nil
	}

	return &Decision{
		NextAgent: target,
		Reasoning: fmt.Sprintf("model selected: %s", reply),
		Mode:      string(ModeLLM),
		PathTaken: "slow",
	}, nil
}

func (r *LLMRouter) fallbackDecision(reason string) *Decision {
	return &Decision{
		NextAgent: r.fallback,
		Reasoning: reason,
		Mode:      string(ModeLLM),
		PathTaken: "fallback",
	}
}

// renderPrompt renders the Handlebars routing prompt with the run state.
// Output fields of the run are flattened into the template data for easier
// access.
func (r *LLMRouter) renderPrompt(from string, result agent.Result, state *RunState) (string, error) {
	data := state.Vars(result)
	data["from"] = from
	data["routes"] = routeNames(r.cfg.Routes)
	for key, value := range state.Outputs {
		data[key] = value
	}

	return r.templates.Render(r.cfg.PromptTemplate, data)
}

// routeNames returns the route keys for listing in the prompt
func routeNames(routes map[string]string) []string {
	names := make([]string, 0, len(routes))
	for name := range routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseReply extracts the route key and an optional trailing confidence from
// a model reply. A confidence of -1 means the reply carried none.
func parseReply(content string) (string, float64) {
	reply := strings.TrimSpace(content)

	fields := strings.Fields(reply)
	if len(fields) >= 2 {
		if confidence, err := strconv.ParseFloat(fields[len(fields)-1], 64); err == nil && confidence >= 0 && confidence <= 1 {
			return strings.Join(fields[:len(fields)-1], " "), confidence
		}
	}

	return reply, -1
}

// matchReply matches the normalized reply to a route: exact match first,
// then case-insensitive, then substring
func matchReply(reply string, routes map[string]string, logger *zap.Logger) (string, bool) {
	normalized := strings.TrimSpace(strings.ToLower(reply))

	if target, ok := routes[normalized]; ok {
		return target, true
	}

	for key, target := range routes {
		if strings.EqualFold(key, normalized) {
			return target, true
		}
	}

	for key, target := range routes {
		if strings.Contains(normalized, strings.ToLower(key)) {
			logger.Debug("matched route by partial match",
				zap.String("reply", reply),
				zap.String("matched_key", key),
			)
			return target, true
		}
	}

	return "", false
}
