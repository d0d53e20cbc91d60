package pipeline

import (
	"context"
	"strings"
	"testing"

	"careerforge/internal/ai"
	"careerforge/internal/errors"
	"careerforge/internal/store"
	"careerforge/internal/types"
)

func TestSelectTemplateKey(t *testing.T) {
	tests := []struct {
		name      string
		hasResume bool
		hasOffer  bool
		want      string
	}{
		{"fields only", false, false, ai.PromptCareerGenerate},
		{"fields and offer", false, true, ai.PromptCareerGenerateWithOffer},
		{"resume only", true, false, ai.PromptCareerGenerateFromCV},
		{"resume and offer", true, true, ai.PromptCareerGenerateFromCVOffer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := selectTemplateKey(tt.hasResume, tt.hasOffer); got != tt.want {
				t.Errorf("selectTemplateKey(%v, %v) = %q, want %q", tt.hasResume, tt.hasOffer, got, tt.want)
			}
		})
	}
}

func newTestGenerator(t *testing.T, client ai.Client) (*Generator, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	prompts := newTestPrompts(t)
	logger := testLogger(t)
	extractor := NewExtractor(client, prompts, logger)
	return NewGenerator(client, prompts, extractor, mem.Store().Artifacts, 10000, logger), mem
}

const generationResponse = "## CV\nCV d'Ada Lovelace\n## Lettre de motivation\nMadame, Monsieur,\n## Suggestions\nAjoutez des résultats chiffrés"

func TestGenerateFromFields(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{{text: generationResponse}}}
	generator, mem := newTestGenerator(t, client)

	artifact, err := generator.Generate(context.Background(), "user-1", GenerateInput{
		Fields: types.ProfileFields{
			Name:       "Ada Lovelace",
			Experience: "10 ans de développement backend",
			Skills:     "Go, PostgreSQL",
			TargetRole: "Ingénieure logicielle senior",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if artifact.ID == "" {
		t.Error("artifact should have an id after insert")
	}
	if artifact.CV != "CV d'Ada Lovelace" {
		t.Errorf("CV = %q", artifact.CV)
	}
	if artifact.CoverLetter != "Madame, Monsieur," {
		t.Errorf("CoverLetter = %q", artifact.CoverLetter)
	}
	if artifact.Format != types.FormatFreeText {
		t.Errorf("Format = %q, want free_text", artifact.Format)
	}
	if mem.MutationCount() != 1 {
		t.Errorf("mutation count = %d, want 1", mem.MutationCount())
	}

	stored, err := mem.Store().Artifacts.GetByID(context.Background(), artifact.ID, "user-1")
	if err != nil {
		t.Fatalf("stored artifact not found: %v", err)
	}
	if stored.Suggestions != "Ajoutez des résultats chiffrés" {
		t.Errorf("stored Suggestions = %q", stored.Suggestions)
	}

	req := client.lastRequest(t)
	if req.Tier != ai.TierStrong {
		t.Errorf("tier = %q, want strong", req.Tier)
	}
	if req.Temperature == nil || *req.Temperature != 0.6 {
		t.Errorf("temperature = %v, want 0.6", req.Temperature)
	}
	if !strings.Contains(req.User, "Ada Lovelace") {
		t.Error("prompt should embed the profile fields")
	}
}

func TestGenerateFromResumeExtractsProfile(t *testing.T) {
	// First completion is the extraction, second the generation
	client := &fakeClient{responses: []fakeResponse{
		{text: `{"basics":{"name":"Ada"},"yearsOfExperience":10}`},
		{text: generationResponse},
	}}
	generator, _ := newTestGenerator(t, client)

	resume := strings.Repeat("expérience backend Go ", 5)
	artifact, err := generator.Generate(context.Background(), "user-1", GenerateInput{
		ResumeText: resume,
		OfferText:  strings.Repeat("poste senior ", 5),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if artifact.SourceProfile == nil || artifact.SourceProfile.Basics.Name != "Ada" {
		t.Errorf("SourceProfile = %+v, want extracted profile", artifact.SourceProfile)
	}
	if len(client.requests) != 2 {
		t.Fatalf("got %d completions, want extraction then generation", len(client.requests))
	}
	if client.requests[0].Tier != ai.TierFast || client.requests[1].Tier != ai.TierStrong {
		t.Errorf("tiers = %q then %q, want fast then strong",
			client.requests[0].Tier, client.requests[1].Tier)
	}
}

func TestGenerateExtractionFailureStillGenerates(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{
		{text: "pas du json"},
		{text: generationResponse},
	}}
	generator, _ := newTestGenerator(t, client)

	resume := strings.TrimSpace(strings.Repeat("expérience backend ", 5))
	artifact, err := generator.Generate(context.Background(), "user-1", GenerateInput{
		ResumeText: resume,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if artifact.SourceProfile != nil {
		t.Errorf("SourceProfile should be nil after a failed extraction, got %+v", artifact.SourceProfile)
	}
	if artifact.CV == "" {
		t.Error("generation should still produce documents")
	}
	// The source text is still recorded even without a structured profile
	if artifact.SourceResumeText != resume {
		t.Errorf("SourceResumeText = %q, want the normalized resume text", artifact.SourceResumeText)
	}
}

func TestGenerateStructuredFormat(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{
		{text: "## CV_JSON\n{\"basics\":{\"name\":\"Ada\"}}\n## LETTRE_JSON\n{\"body\":\"Bonjour\"}"},
	}}
	generator, _ := newTestGenerator(t, client)

	artifact, err := generator.Generate(context.Background(), "user-1", GenerateInput{
		Fields: types.ProfileFields{Skills: "Go"},
		Format: types.FormatStructured,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if artifact.Format != types.FormatStructured {
		t.Errorf("Format = %q, want structured", artifact.Format)
	}

	req := client.lastRequest(t)
	if !strings.Contains(req.User, "CV_JSON") {
		t.Error("structured requests should append the structured format instructions")
	}
}

func TestGenerateValidation(t *testing.T) {
	tests := []struct {
		name     string
		input    GenerateInput
		wantCode string
	}{
		{"no inputs at all", GenerateInput{}, errors.ErrCodeMissingInput},
		{
			"name alone is not substantive",
			GenerateInput{Fields: types.ProfileFields{Name: "Ada"}},
			errors.ErrCodeMissingInput,
		},
		{
			"resume too short",
			GenerateInput{ResumeText: "court"},
			errors.ErrCodeInputTooShort,
		},
		{
			"offer too short",
			GenerateInput{Fields: types.ProfileFields{Skills: "Go"}, OfferText: "court"},
			errors.ErrCodeInputTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{}
			generator, mem := newTestGenerator(t, client)

			_, err := generator.Generate(context.Background(), "user-1", tt.input)
			assertAppError(t, err, errors.ErrorTypeValidation, tt.wantCode)
			if len(client.requests) != 0 {
				t.Error("validation failures must not reach the model")
			}
			if mem.MutationCount() != 0 {
				t.Errorf("mutation count = %d, want 0", mem.MutationCount())
			}
		})
	}
}

func TestGenerateParseFailurePersistsNothing(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{{text: "réponse sans aucune section"}}}
	generator, mem := newTestGenerator(t, client)

	_, err := generator.Generate(context.Background(), "user-1", GenerateInput{
		Fields: types.ProfileFields{Skills: "Go"},
	})
	assertAppError(t, err, errors.ErrorTypeDecode, errors.ErrCodeResponseDecode)
	if mem.MutationCount() != 0 {
		t.Errorf("mutation count = %d, want 0 after a decode failure", mem.MutationCount())
	}
}

func TestFormatProfileFields(t *testing.T) {
	got := FormatProfileFields(types.ProfileFields{
		Name:       "Ada",
		Experience: "10 ans",
		TargetRole: "Ingénieure",
	})

	for _, want := range []string{"Nom : Ada", "Expérience : 10 ans", "Poste visé : Ingénieure"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Formation") {
		t.Error("empty fields should be omitted")
	}
}
