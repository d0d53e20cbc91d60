package cli

import (
	"fmt"

	"careerforge/internal/ai"
	"careerforge/internal/config"
	"careerforge/internal/server"
	"careerforge/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the career toolkit as a REST API.

Available endpoints:
- /api/generations: CV and cover letter generation, refinement and edits
- /api/analyses: resume-vs-offer fit scoring
- /api/postings: recruiter postings, applications and candidate analysis
- /api/quizzes: technical quiz generation and grading
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

Persistence uses Postgres when database.enabled is set; otherwise an
in-memory store is used.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")

	// Bind flags to viper config keys
	bindFlag := func(key, flagName string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(flagName)); err != nil {
			panic(err)
		}
	}

	bindFlag("server.port", "port")
	bindFlag("server.host", "host")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		return fmt.Errorf("failed to apply vault secrets: %w", err)
	}

	client, err := ai.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create AI client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close AI client", "error", err)
		}
	}()

	var st *store.Store
	if cfg.Database.Enabled {
		st, err = store.Open(cfg.Database, cfg.App.LogLevel == "debug")
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		logger.Info("Using Postgres store",
			"host", cfg.Database.Host, "database", cfg.Database.Name)
	} else {
		st = store.NewMemoryStore().Store()
		logger.Info("Database disabled, using in-memory store")
	}

	prompts, err := config.NewPromptStore(cfg.Prompts, ai.DefaultPrompts, logger)
	if err != nil {
		return fmt.Errorf("failed to load prompts: %w", err)
	}
	defer func() {
		if err := prompts.Close(); err != nil {
			logger.Warn("Failed to close prompt store", "error", err)
		}
	}()

	return server.NewServer(cfg, Version, client, st, prompts, logger).Start()
}
