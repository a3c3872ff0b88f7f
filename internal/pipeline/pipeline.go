// Package pipeline wires the demo together: agents, routers, orchestrator
// and article output. One Pipeline serves many runs; each run gets its own
// orchestrator and limit router.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/nmeisenzahl/ai-agent-demo/internal/agent"
	"github.com/nmeisenzahl/ai-agent-demo/internal/config"
	"github.com/nmeisenzahl/ai-agent-demo/internal/eval/cel"
	"github.com/nmeisenzahl/ai-agent-demo/internal/eval/template"
	"github.com/nmeisenzahl/ai-agent-demo/internal/htmlgen"
	"github.com/nmeisenzahl/ai-agent-demo/internal/imagegen"
	"github.com/nmeisenzahl/ai-agent-demo/internal/llm"
	"github.com/nmeisenzahl/ai-agent-demo/internal/orchestrator"
	"github.com/nmeisenzahl/ai-agent-demo/internal/router"
)

// Outcome summarizes a completed pipeline run
type Outcome struct {
	RunID     string
	Topic     string
	Title     string
	HTMLPath  string
	ImagePath string
	Visited   []string
}

// Pipeline builds and runs the research -> summary -> html (-> image)
// workflow
type Pipeline struct {
	cfg       *config.Config
	client    llm.Client
	templates *template.Engine
	evaluator *cel.Evaluator
	generator *htmlgen.Generator
	logger    *zap.Logger
}

// New creates a pipeline backed by Azure OpenAI
func New(cfg *config.Config, logger *zap.Logger) (*Pipeline, error) {
	client, err := llm.NewAzureClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize llm client: %w", err)
	}
	return NewWithClient(cfg, client, logger)
}

// NewWithClient creates a pipeline with a caller-supplied model client
func NewWithClient(cfg *config.Config, client llm.Client, logger *zap.Logger) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if client == nil {
		return nil, fmt.Errorf("llm client is required")
	}

	evaluator, err := cel.NewEvaluator()
	if err != nil {
		return nil, err
	}

	templates := template.NewEngine()

	generator, err := htmlgen.NewGenerator(templates, cfg.OutputDir, logger)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:       cfg,
		client:    client,
		templates: templates,
		evaluator: evaluator,
		generator: generator,
		logger:    logger,
	}, nil
}

// Run executes the full workflow for a topic and saves the resulting
// article. The handoff router is built fresh per run, so the iteration limit
// always starts at zero.
func (p *Pipeline) Run(ctx context.Context, topic string) (*Outcome, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	orch, err := p.buildOrchestrator()
	if err != nil {
		return nil, err
	}

	run, err := orch.Run(ctx, agent.ResearchAgentName, agent.Result{"topic": topic})
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		RunID:   run.State.RunID,
		Topic:   topic,
		Visited: run.State.Visited,
	}
	outcome.Title, _ = run.State.Outputs.String("title")
	outcome.ImagePath, _ = run.State.Outputs.String("image_path")

	path, err := p.saveArticle(run.State, topic)
	if err != nil {
		return nil, err
	}
	outcome.HTMLPath = path

	return outcome, nil
}

// buildOrchestrator assembles the agents and the limited handoff router for
// a single run
func (p *Pipeline) buildOrchestrator() (*orchestrator.Orchestrator, error) {
	delegate, err := router.New(p.routingConfig(), p.evaluator, p.templates, p.client, p.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build router: %w", err)
	}

	limited, err := router.NewLimitRouter(delegate, p.cfg.MaxIterations, p.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build limit router: %w", err)
	}

	orch, err := orchestrator.New(limited, p.logger)
	if err != nil {
		return nil, err
	}

	definitions := []agent.Definition{
		agent.ResearchDefinition(p.cfg),
		agent.SummaryDefinition(p.cfg),
		agent.HTMLDefinition(p.cfg),
	}
	for _, def := range definitions {
		a, err := agent.New(def, p.client, p.templates, p.logger)
		if err != nil {
			return nil, err
		}
		if err := orch.Register(a); err != nil {
			return nil, err
		}
	}

	if p.cfg.GenerateImage {
		imageAgent, err := imagegen.New(p.client, p.cfg.OutputDir, p.logger)
		if err != nil {
			return nil, err
		}
		if err := orch.Register(imageAgent); err != nil {
			return nil, err
		}
	}

	return orch, nil
}

// routingPrompt asks the model for the next pipeline step when the fast
// rules cannot decide
const routingPrompt = `You coordinate a newsroom pipeline that researches a topic, summarizes it
and renders an HTML article. The agent "{{from}}" has just finished working
on the topic "{{state.topic}}".

Reply with exactly one of these route names (and nothing else):
{{numbered routes}}

Reply "done" when the article is complete.`

// routingConfig builds the hybrid handoff policy: deterministic rules walk
// the research -> summary (-> image) -> html chain, the model decides
// anything the rules cannot.
func (p *Pipeline) routingConfig() *router.Config {
	fastRules := []router.Rule{
		{Condition: `!("title" in state.outputs)`, Target: agent.SummaryAgentName},
	}
	routes := map[string]string{
		"summary": agent.SummaryAgentName,
		"html":    agent.HTMLAgentName,
		"done":    router.Terminate,
	}

	if p.cfg.GenerateImage {
		fastRules = append(fastRules, router.Rule{
			Condition: `!("image_path" in state.outputs)`,
			Target:    agent.ImageAgentName,
		})
		routes["image"] = agent.ImageAgentName
	}

	fastRules = append(fastRules, router.Rule{
		Condition: `!("html_content" in state.outputs)`,
		Target:    agent.HTMLAgentName,
	})

	return &router.Config{
		Mode:      router.ModeHybrid,
		FastRules: fastRules,
		LLM: &router.LLMConfig{
			Model:               p.cfg.ResearchModel,
			PromptTemplate:      routingPrompt,
			Routes:              routes,
			ConfidenceThreshold: 0.5,
		},
		Fallback: router.Terminate,
	}
}

// saveArticle writes the generated article to the output directory. The
// html agent's own document is preferred; when a run was cut short before
// the html agent ran, the article is rendered from the collected fields
// instead.
func (p *Pipeline) saveArticle(state *router.RunState, topic string) (string, error) {
	if html, ok := state.Outputs.String("html_content"); ok && html != "" {
		if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}

		path := filepath.Join(p.cfg.OutputDir, htmlgen.Filename(topic))
		if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
			return "", fmt.Errorf("failed to write article: %w", err)
		}

		p.logger.Info("article saved", zap.String("path", path))
		return path, nil
	}

	p.logger.Warn("run produced no html document, rendering from collected fields")

	article := htmlgen.Article{}
	article.Title, _ = state.Outputs.String("title")
	article.ShortSummary, _ = state.Outputs.String("short_summary")
	article.ResearchContent, _ = state.Outputs.String("research_content")
	article.KeyPoints, _ = state.Outputs.StringSlice("key_points")
	article.ImagePath, _ = state.Outputs.String("image_path")
	if article.Title == "" {
		article.Title = topic
	}

	return p.generator.SaveArticle(article, topic)
}
