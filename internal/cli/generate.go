package cli

import (
	"context"
	"fmt"

	"careerforge/internal/ai"
	"careerforge/internal/common"
	"careerforge/internal/config"
	"careerforge/internal/errors"
	"careerforge/internal/pdfext"
	"careerforge/internal/pipeline"
	"careerforge/internal/store"
	"careerforge/internal/types"
	"careerforge/internal/utils"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [resume-file] [offer-file]",
	Short: "Generate a tailored CV and cover letter from a resume",
	Long: `Generate a CV, a cover letter and improvement suggestions from a resume,
optionally tailored to a job offer. The resume can be a plain text file or a
PDF; the offer file is plain text.`,
	Args: cobra.RangeArgs(1, 2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if generateConfig.OutputFormat == "" {
			generateConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(generateConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runGenerate,
}

var generateConfig common.CommandConfig
var generateDocFormat string

func init() {
	generateCmd.Flags().StringVarP(&generateConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	generateCmd.Flags().StringVar(&generateConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	generateCmd.Flags().StringVar(&generateDocFormat, "document-format", "", "Document encoding: structured or free_text (default from config)")

	// Add completion for format flag
	_ = generateCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

// newAIDeps wires the AI client and prompt store for a one-shot command.
// The caller must invoke the returned cleanup function.
func newAIDeps(cfg *config.Config, logger *errors.Logger) (ai.Client, *config.PromptStore, func(), error) {
	client, err := ai.NewClient(cfg, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	prompts, err := config.NewPromptStore(cfg.Prompts, ai.DefaultPrompts, logger)
	if err != nil {
		_ = client.Close()
		return nil, nil, nil, fmt.Errorf("failed to load prompts: %w", err)
	}

	cleanup := func() {
		if err := prompts.Close(); err != nil {
			logger.Warn("Failed to close prompt store", "error", err)
		}
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close AI client", "error", err)
		}
	}
	return client, prompts, cleanup, nil
}

// resumeInput converts a resume file's raw content into pasted or
// PDF-extracted text depending on the file extension.
func resumeInput(filename, content string) (pasted, extracted string, err error) {
	if !utils.IsPDFFile(filename) {
		return content, "", nil
	}
	text, err := pdfext.ExtractText([]byte(content))
	if err != nil {
		return "", "", err
	}
	return "", text, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	client, prompts, cleanup, err := newAIDeps(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	docFormat := generateDocFormat
	if docFormat == "" {
		docFormat = cfg.App.DocumentFormat
	}

	st := store.NewMemoryStore().Store()
	extractor := pipeline.NewExtractor(client, prompts, logger)
	generator := pipeline.NewGenerator(client, prompts, extractor, st.Artifacts, cfg.App.PersistedTextLimit, logger)

	createInput := func(contents []string) (pipeline.GenerateInput, error) {
		pasted, extracted, err := resumeInput(args[0], contents[0])
		if err != nil {
			return pipeline.GenerateInput{}, err
		}
		input := pipeline.GenerateInput{
			ResumeText:    pasted,
			ResumePDFText: extracted,
			Format:        types.DocumentFormat(docFormat),
		}
		if len(contents) == 2 {
			input.OfferText = contents[1]
		}
		return input, nil
	}

	logDetails := func(input pipeline.GenerateInput, cmdCfg common.CommandConfig) {
		logger.Info("Starting document generation",
			"resume_chars", len(input.ResumeText)+len(input.ResumePDFText),
			"offer_chars", len(input.OfferText),
			"document_format", docFormat,
			"output_format", cmdCfg.OutputFormat)
	}

	generateOperation := func(ctx context.Context, input pipeline.GenerateInput) (*types.GenerationArtifact, error) {
		return generator.Generate(ctx, "local", input)
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		generateConfig,
		args,
		createInput,
		generateOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to generate documents: %w", err)
	}
	logger.Info("Document generation completed successfully")
	return nil
}
