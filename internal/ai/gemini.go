package ai

import (
	"context"
	"fmt"
	"net"
	"time"

	"careerforge/internal/config"
	cfErrors "careerforge/internal/errors"

	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GeminiClient implements Client for Google Gemini, holding one configured
// model per tier. Failed calls surface immediately; there is deliberately no
// retry layer, the circuit breaker is the only resilience mechanism.
type GeminiClient struct {
	tiers  map[Tier]*geminiTier
	logger *cfErrors.Logger
}

// geminiTier bundles the client, configuration and breakers for one tier
type geminiTier struct {
	cfg          config.TierAIConfig
	client       *genai.Client
	breaker      *AICircuitBreaker
	modelBreaker *ModelCircuitBreaker
}

// Ensure GeminiClient implements Client
var _ Client = (*GeminiClient)(nil)

// NewClient creates the completion client for the configured provider
func NewClient(cfg *config.Config, logger *cfErrors.Logger) (Client, error) {
	switch cfg.AI.Provider {
	case "gemini":
		return NewGeminiClient(cfg, logger)
	default:
		return nil, cfErrors.NewConfigError(cfErrors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.AI.Provider), nil)
	}
}

// NewGeminiClient creates a Gemini client with both model tiers configured
func NewGeminiClient(cfg *config.Config, logger *cfErrors.Logger) (*GeminiClient, error) {
	gc := &GeminiClient{
		tiers:  make(map[Tier]*geminiTier, 2),
		logger: logger,
	}

	tierConfigs := map[Tier]config.TierAIConfig{
		TierFast:   cfg.GetFastConfig(),
		TierStrong: cfg.GetStrongConfig(),
	}

	for tier, tierCfg := range tierConfigs {
		if tierCfg.APIKey == "" {
			return nil, cfErrors.NewConfigError(cfErrors.ErrCodeMissingAPIKey,
				fmt.Sprintf("No API key configured for %s tier", tier), nil)
		}

		client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: tierCfg.APIKey,
		})
		if err != nil {
			return nil, cfErrors.NewUpstreamError(cfErrors.ErrCodeAIServiceFailed,
				"Failed to create Gemini client", err)
		}

		gc.tiers[tier] = &geminiTier{
			cfg:          tierCfg,
			client:       client,
			breaker:      NewAICircuitBreaker(tier, &tierCfg, logger),
			modelBreaker: NewModelCircuitBreaker(tier, &tierCfg, logger),
		}

		logger.Debug("Gemini tier initialized",
			"tier", string(tier),
			"model", tierCfg.Model,
			"timeout", tierCfg.Timeout.String(),
			"breaker_enabled", tierCfg.CircuitBreaker.Enabled)
	}

	return gc, nil
}

// Complete implements Client
func (g *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (string, *TokenUsage, error) {
	rt, ok := g.tiers[req.Tier]
	if !ok {
		return "", nil, cfErrors.NewConfigError(cfErrors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unknown model tier: %s", req.Tier), nil)
	}

	tracer := otel.Tracer("careerforge.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini.complete")
	defer span.End()

	temperature := req.Temperature
	if temperature == nil {
		temperature = rt.cfg.Temperature
	}

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", rt.cfg.Model),
		attribute.String("ai.tier", string(req.Tier)),
		attribute.Int("input.user_length", len(req.User)),
	)
	if temperature != nil {
		span.SetAttributes(attribute.Float64("ai.temperature", float64(*temperature)))
	}

	genaiConfig := &genai.GenerateContentConfig{
		Temperature: temperature,
	}
	if req.System != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	if rt.cfg.Timeout != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *rt.cfg.Timeout)
		defer cancel()
	}

	result, err := rt.breaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return rt.client.Models.GenerateContent(ctx, rt.cfg.Model, genai.Text(req.User), genaiConfig)
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return "", nil, g.classifyError(req.Tier, err)
	}

	text := result.Text()
	if text == "" {
		err := cfErrors.NewUpstreamError(cfErrors.ErrCodeAIServiceFailed,
			"Model returned an empty response", nil)
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return "", nil, err
	}

	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("output.length", len(text)),
	)
	return text, tokenUsage, nil
}

// classifyError maps transport failures to the upstream error type, recording
// the HTTP status for Google API errors and the timeout flag for network ones
func (g *GeminiClient) classifyError(tier Tier, err error) error {
	appErr := cfErrors.NewUpstreamError(cfErrors.ErrCodeAIServiceFailed,
		"AI completion failed", err).WithContext("tier", string(tier))

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		appErr = appErr.WithContext("http_status", apiErr.Code)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		appErr = appErr.WithContext("timeout", true)
	}

	g.logger.LogError(err, "AI completion failed", "tier", string(tier))
	return appErr
}

// ModelInfo represents information about an AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// ModelInfo checks the readiness and availability of a tier's model
func (g *GeminiClient) ModelInfo(ctx context.Context, tier Tier) *ModelInfo {
	rt, ok := g.tiers[tier]
	if !ok {
		return &ModelInfo{Name: string(tier), Available: false, Error: "unknown tier"}
	}

	modelInfo := &ModelInfo{
		Name:      rt.cfg.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	model, err := rt.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return rt.client.Models.Get(checkCtx, rt.cfg.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", rt.cfg.Model,
			"tier", string(tier),
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	if model.DisplayName != "" {
		modelInfo.DisplayName = model.DisplayName
	}
	if model.Version != "" {
		modelInfo.Version = model.Version
	}

	return modelInfo
}

// GetCircuitBreakerStats returns circuit breaker statistics per tier
func (g *GeminiClient) GetCircuitBreakerStats() map[string]any {
	stats := map[string]any{}
	healthy := true
	for tier, rt := range g.tiers {
		stats[string(tier)] = map[string]any{
			"ai_operations":    rt.breaker.GetStats(),
			"model_operations": rt.modelBreaker.GetModelStats(),
		}
		healthy = healthy && rt.breaker.IsHealthy() && rt.modelBreaker.IsModelHealthy()
	}
	stats["overall_healthy"] = healthy
	return stats
}

// Close implements Client
func (g *GeminiClient) Close() error {
	// Gemini client doesn't have a Close method in current single-shot usage
	return nil
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
