package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nmeisenzahl/ai-agent-demo/internal/pipeline"
)

// newRunCommand generates a single article for a topic
func newRunCommand() *cobra.Command {
	var (
		topic string
		image bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate an article for a topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if image {
				cfg.GenerateImage = true
			}

			logger.Info("starting article run",
				zap.String("version", Version),
				zap.String("topic", topic),
				zap.Bool("generate_image", cfg.GenerateImage),
			)
			logger.Info("configuration loaded", zap.String("config", cfg.String()))

			p, err := pipeline.New(cfg, logger)
			if err != nil {
				return err
			}

			outcome, err := p.Run(cmd.Context(), topic)
			if err != nil {
				return fmt.Errorf("article run failed: %w", err)
			}

			fmt.Printf("Article saved: %s\n", outcome.HTMLPath)
			if outcome.ImagePath != "" {
				fmt.Printf("Image saved:   %s\n", outcome.ImagePath)
			}
			fmt.Printf("Agents run:    %v\n", outcome.Visited)

			return nil
		},
	}

	cmd.Flags().StringVarP(&topic, "topic", "t", "", "topic to research (required)")
	cmd.Flags().BoolVar(&image, "image", false, "also generate a cover image")
	_ = cmd.MarkFlagRequired("topic")

	return cmd
}
