package server

import (
	"context"
	"time"

	"careerforge/internal/ai"
)

// breakerStatsProvider is satisfied by AI clients that expose circuit breaker
// state, such as the Gemini client.
type breakerStatsProvider interface {
	GetCircuitBreakerStats() map[string]any
}

// checkAIHealth probes model readiness for both tiers
func checkAIHealth(ctx context.Context, client ai.Client, timeout time.Duration) map[string]any {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	status := make(map[string]any)
	for _, tier := range []ai.Tier{ai.TierFast, ai.TierStrong} {
		info := client.ModelInfo(ctx, tier)
		status[string(tier)] = map[string]any{
			"name":      info.Name,
			"available": info.Available,
			"error":     info.Error,
		}
	}
	return status
}

// checkBreakerHealth reports circuit breaker state when the client exposes it
func checkBreakerHealth(client ai.Client) map[string]any {
	provider, ok := client.(breakerStatsProvider)
	if !ok {
		return map[string]any{"available": false}
	}
	return provider.GetCircuitBreakerStats()
}
