package pipeline

import (
	"context"
	"strings"
	"testing"

	"careerforge/internal/ai"
	"careerforge/internal/errors"
)

func TestExtract(t *testing.T) {
	profileJSON := `{"basics":{"name":"Ada Lovelace","email":"ada@example.org"},"skills":[{"name":"Go","keywords":["concurrence"]}],"yearsOfExperience":5.5}`

	tests := []struct {
		name     string
		response fakeResponse
		wantNil  bool
	}{
		{"valid json", fakeResponse{text: profileJSON}, false},
		{"fenced json", fakeResponse{text: "```json\n" + profileJSON + "\n```"}, false},
		{"not json", fakeResponse{text: "Voici le profil du candidat..."}, true},
		{
			"upstream failure",
			fakeResponse{err: errors.NewUpstreamError(errors.ErrCodeAIServiceFailed, "boom", nil)},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{responses: []fakeResponse{tt.response}}
			extractor := NewExtractor(client, newTestPrompts(t), testLogger(t))

			profile := extractor.Extract(context.Background(), "Ada Lovelace, ingénieure logicielle senior")
			if tt.wantNil {
				if profile != nil {
					t.Fatalf("expected nil profile, got %+v", profile)
				}
				return
			}
			if profile == nil {
				t.Fatal("expected a profile, got nil")
			}
			if profile.Basics.Name != "Ada Lovelace" {
				t.Errorf("name = %q", profile.Basics.Name)
			}
			if profile.YearsOfExperience != 5.5 {
				t.Errorf("yearsOfExperience = %v, want 5.5", profile.YearsOfExperience)
			}
		})
	}
}

func TestExtractRequestShape(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{{text: `{"basics":{"name":"Ada"}}`}}}
	extractor := NewExtractor(client, newTestPrompts(t), testLogger(t))

	resume := "Ada Lovelace, dix ans d'expérience en développement backend"
	extractor.Extract(context.Background(), resume)

	req := client.lastRequest(t)
	if req.Tier != ai.TierFast {
		t.Errorf("tier = %q, want fast", req.Tier)
	}
	if req.Temperature == nil || *req.Temperature != 0.3 {
		t.Errorf("temperature = %v, want 0.3", req.Temperature)
	}
	if !strings.Contains(req.User, resume) {
		t.Error("prompt should embed the resume text")
	}
}
