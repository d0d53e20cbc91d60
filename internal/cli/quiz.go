package cli

import (
	"context"
	"fmt"

	"careerforge/internal/common"
	"careerforge/internal/pipeline"
	"careerforge/internal/store"
	"careerforge/internal/types"

	"github.com/spf13/cobra"
)

var quizCmd = &cobra.Command{
	Use:   "quiz [description-file]",
	Short: "Generate a technical quiz from a job description",
	Long: `Generate a technical quiz from a job description or a skills list.
Questions mix multiple choice, open and practical exercises, each with a
point value.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if quizConfig.OutputFormat == "" {
			quizConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(quizConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runQuiz,
}

var quizConfig common.CommandConfig
var quizQuestionCount int

func init() {
	quizCmd.Flags().StringVarP(&quizConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	quizCmd.Flags().StringVar(&quizConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	quizCmd.Flags().IntVarP(&quizQuestionCount, "count", "n", 0, "Number of questions (default 10)")

	// Add completion for format flag
	_ = quizCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func runQuiz(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	client, prompts, cleanup, err := newAIDeps(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	st := store.NewMemoryStore().Store()
	quizzes := pipeline.NewQuizEngine(client, prompts, st.Quizzes, logger)

	createInput := func(contents []string) (string, error) {
		return contents[0], nil
	}

	logDetails := func(description string, cmdCfg common.CommandConfig) {
		logger.Info("Starting quiz generation",
			"description_chars", len(description),
			"question_count", quizQuestionCount,
			"output_format", cmdCfg.OutputFormat)
	}

	quizOperation := func(ctx context.Context, description string) (*types.Quiz, error) {
		return quizzes.GenerateQuiz(ctx, "local", description, "", quizQuestionCount)
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		quizConfig,
		args,
		createInput,
		quizOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to generate quiz: %w", err)
	}
	logger.Info("Quiz generation completed successfully")
	return nil
}
