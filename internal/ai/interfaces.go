package ai

import "context"

// Tier selects which configured model serves a completion. The fast tier
// handles extraction, fit scoring and quiz work; the strong tier handles
// document generation and refinement.
type Tier string

const (
	TierFast   Tier = "fast"
	TierStrong Tier = "strong"
)

// CompletionRequest is a single stateless text completion
type CompletionRequest struct {
	System      string
	User        string
	Tier        Tier
	Temperature *float32 // nil uses the tier default
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// Client is the completion interface the pipeline depends on.
// Implementations return the raw response text; response decoding is the
// caller's concern.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, *TokenUsage, error)
	ModelInfo(ctx context.Context, tier Tier) *ModelInfo
	Close() error
}
