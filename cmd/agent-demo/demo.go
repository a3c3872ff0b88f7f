package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nmeisenzahl/ai-agent-demo/internal/eval/template"
	"github.com/nmeisenzahl/ai-agent-demo/internal/htmlgen"
)

// newDemoCommand renders a canned article without touching any model, so
// the HTML output can be inspected offline
func newDemoCommand() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Render a sample article offline (no API calls)",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := initLogger("info")
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			generator, err := htmlgen.NewGenerator(template.NewEngine(), outputDir, logger)
			if err != nil {
				return err
			}

			article := htmlgen.Article{
				Title:        "The Quiet Rise of Edge Computing",
				ShortSummary: "Compute keeps moving closer to where data is produced, trading central control for latency.",
				ResearchContent: "Edge computing pushes workloads out of central data centers and onto " +
					"hardware near users and sensors.\n\n" +
					"The driver is physics: round trips to a distant region add latency that " +
					"no amount of server-side optimization can remove. Retail, manufacturing " +
					"and telecom deployments now routinely run inference and filtering on " +
					"site, sending only aggregates upstream.\n\n" +
					"The open question is operations. Fleets of small sites are harder to " +
					"patch, observe and secure than one big cluster, and tooling is still " +
					"catching up.",
				KeyPoints: []string{
					"Latency, not cost, is the main driver for edge deployments",
					"On-site inference reduces upstream bandwidth dramatically",
					"Fleet operations remain the hardest unsolved problem",
				},
			}

			path, err := generator.SaveArticle(article, "edge computing")
			if err != nil {
				return err
			}

			fmt.Printf("Sample article saved: %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "output", "directory for the rendered article")

	return cmd
}
