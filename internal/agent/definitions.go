package agent

import "github.com/nmeisenzahl/ai-agent-demo/internal/config"

// Canonical agent names used by the demo pipeline
const (
	ResearchAgentName = "research_agent"
	SummaryAgentName  = "summary_agent"
	HTMLAgentName     = "html_agent"
	ImageAgentName    = "image_agent"
)

// ResearchDefinition describes the agent that researches a topic
func ResearchDefinition(cfg *config.Config) Definition {
	return Definition{
		Name: ResearchAgentName,
		Description: `You are a research agent. You conduct comprehensive research on any
given topic and provide detailed research content including key points,
findings, and relevant information about the subject.`,
		Model:       cfg.ResearchModel,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Inputs: []Field{
			{Name: "topic", Type: "string", Description: "The topic to research and analyze"},
		},
		Outputs: []Field{
			{Name: "research_content", Type: "string", Description: "Detailed research findings and analysis on the topic"},
			{Name: "key_points", Type: "list of strings", Description: "Main points and findings from the research"},
		},
	}
}

// SummaryDefinition describes the agent that distills research into a title
// and short summary
func SummaryDefinition(cfg *config.Config) Definition {
	return Definition{
		Name: SummaryAgentName,
		Description: `You are a summary agent. You create concise titles and summaries from
research content. You take detailed research content and key points as input
and produce a compelling title and a short, digestible summary.`,
		Model:       cfg.SummaryModel,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Inputs: []Field{
			{Name: "research_content", Type: "string", Description: "The detailed research content to summarize"},
			{Name: "key_points", Type: "list of strings", Description: "Main points from the research"},
		},
		Outputs: []Field{
			{Name: "title", Type: "string", Description: "A compelling and descriptive title for the research"},
			{Name: "short_summary", Type: "string", Description: "A concise summary of the main findings (2-3 sentences)"},
		},
	}
}

// HTMLDefinition describes the agent that writes the newspaper-style article
// body from the research material
func HTMLDefinition(cfg *config.Config) Definition {
	return Definition{
		Name: HTMLAgentName,
		Description: `You are an expert HTML and CSS developer specializing in beautiful,
newspaper-style web articles. You take a title, summary, research content and
key points as input and produce a complete standalone HTML document with
proper typography, clear sections, highlighted key points and meta tags.`,
		Model:       cfg.ResearchModel,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Inputs: []Field{
			{Name: "title", Type: "string", Description: "The article title"},
			{Name: "short_summary", Type: "string", Description: "The article summary"},
			{Name: "research_content", Type: "string", Description: "The full research content"},
			{Name: "key_points", Type: "list of strings", Description: "Key points to highlight"},
		},
		Outputs: []Field{
			{Name: "html_content", Type: "string", Description: "The complete HTML document for the article"},
		},
	}
}
