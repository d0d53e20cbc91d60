package cli

import (
	"context"
	"fmt"

	"careerforge/internal/common"
	"careerforge/internal/pipeline"
	"careerforge/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-file] [offer-file]",
	Short: "Score a resume against a job offer",
	Long: `Analyze how well a resume fits a job offer. The result is a weighted
rubric: per-category scores, skill-by-skill matching, an experience
comparison and concrete recommendations. The resume can be a plain text
file or a PDF.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var analyzeConfig common.CommandConfig

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

type analyzeInput struct {
	resumeText string
	offerText  string
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	client, prompts, cleanup, err := newAIDeps(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	scorer := pipeline.NewScorer(client, prompts, logger)

	createInput := func(contents []string) (analyzeInput, error) {
		pasted, extracted, err := resumeInput(args[0], contents[0])
		if err != nil {
			return analyzeInput{}, err
		}
		resume := pasted
		if resume == "" {
			resume = extracted
		}
		return analyzeInput{resumeText: resume, offerText: contents[1]}, nil
	}

	logDetails := func(input analyzeInput, cmdCfg common.CommandConfig) {
		logger.Info("Starting fit analysis",
			"resume_chars", len(input.resumeText),
			"offer_chars", len(input.offerText),
			"output_format", cmdCfg.OutputFormat)
	}

	analyzeOperation := func(ctx context.Context, input analyzeInput) (*types.FitAnalysis, error) {
		return scorer.AnalyzeFit(ctx, input.resumeText, input.offerText)
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		analyzeConfig,
		args,
		createInput,
		analyzeOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze fit: %w", err)
	}
	logger.Info("Fit analysis completed successfully")
	return nil
}
