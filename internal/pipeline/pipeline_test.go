package pipeline

import (
	"context"
	"testing"

	"careerforge/internal/ai"
	"careerforge/internal/config"
	"careerforge/internal/errors"
)

// fakeClient replays scripted responses in order and records the requests it
// received.
type fakeClient struct {
	responses []fakeResponse
	requests  []ai.CompletionRequest
}

type fakeResponse struct {
	text string
	err  error
}

func (f *fakeClient) Complete(_ context.Context, req ai.CompletionRequest) (string, *ai.TokenUsage, error) {
	f.requests = append(f.requests, req)
	if len(f.responses) == 0 {
		return "", nil, errors.NewUpstreamError(errors.ErrCodeAIServiceFailed, "no scripted response", nil)
	}
	next := f.responses[0]
	f.responses = f.responses[1:]
	if next.err != nil {
		return "", nil, next.err
	}
	return next.text, &ai.TokenUsage{InputTokens: 10, OutputTokens: 20, TotalTokens: 30}, nil
}

func (f *fakeClient) ModelInfo(_ context.Context, tier ai.Tier) *ai.ModelInfo {
	return &ai.ModelInfo{Name: "fake-" + string(tier), Available: true}
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) lastRequest(t *testing.T) ai.CompletionRequest {
	t.Helper()
	if len(f.requests) == 0 {
		t.Fatal("no request was sent")
	}
	return f.requests[len(f.requests)-1]
}

func newTestPrompts(t *testing.T) *config.PromptStore {
	t.Helper()
	store, err := config.NewPromptStore(config.PromptsConfig{}, ai.DefaultPrompts, testLogger(t))
	if err != nil {
		t.Fatalf("prompt store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testLogger(t *testing.T) *errors.Logger {
	t.Helper()
	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return logger
}

func assertAppError(t *testing.T, err error, typ errors.ErrorType, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s/%s error, got nil", typ, code)
	}
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("expected *errors.AppError, got %T: %v", err, err)
	}
	if appErr.Type != typ {
		t.Errorf("error type = %q, want %q", appErr.Type, typ)
	}
	if appErr.Code != code {
		t.Errorf("error code = %q, want %q", appErr.Code, code)
	}
}
