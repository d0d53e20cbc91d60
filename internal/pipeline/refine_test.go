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

func newTestRefiner(t *testing.T, client ai.Client) (*Refiner, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	prompts := newTestPrompts(t)
	logger := testLogger(t)
	extractor := NewExtractor(client, prompts, logger)
	s := mem.Store()
	return NewRefiner(client, prompts, extractor, s.Artifacts, s.Postings, logger), mem
}

func seedArtifact(t *testing.T, mem *store.MemoryStore, artifact *types.GenerationArtifact) *types.GenerationArtifact {
	t.Helper()
	if err := mem.Store().Artifacts.Insert(context.Background(), artifact); err != nil {
		t.Fatalf("seed artifact: %v", err)
	}
	return artifact
}

func TestRefineArtifactMergesSections(t *testing.T) {
	// The response only carries a CV section. The letter and suggestions
	// must keep their previous values.
	client := &fakeClient{responses: []fakeResponse{{text: "## CV\nCV retravaillé"}}}
	refiner, mem := newTestRefiner(t, client)

	artifact := seedArtifact(t, mem, &types.GenerationArtifact{
		OwnerID:     "user-1",
		CV:          "CV original",
		CoverLetter: "Lettre originale",
		Suggestions: "Conseils originaux",
		Format:      types.FormatFreeText,
	})

	refined, err := refiner.RefineArtifact(context.Background(), "user-1", artifact.ID, "raccourcis le CV")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if refined.CV != "CV retravaillé" {
		t.Errorf("CV = %q", refined.CV)
	}
	if refined.CoverLetter != "Lettre originale" {
		t.Errorf("CoverLetter = %q, omitted section must be preserved", refined.CoverLetter)
	}
	if refined.Suggestions != "Conseils originaux" {
		t.Errorf("Suggestions = %q, omitted section must be preserved", refined.Suggestions)
	}

	req := client.lastRequest(t)
	if req.Tier != ai.TierStrong {
		t.Errorf("tier = %q, want strong", req.Tier)
	}
	if req.Temperature == nil || *req.Temperature != 0.4 {
		t.Errorf("temperature = %v, want 0.4", req.Temperature)
	}
	for _, embedded := range []string{"CV original", "Lettre originale", "raccourcis le CV"} {
		if !strings.Contains(req.User, embedded) {
			t.Errorf("prompt missing %q", embedded)
		}
	}
}

func TestRefineArtifactStructuredUsesStructuredTemplate(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{
		{text: "## CV_JSON\n{\"basics\":{\"name\":\"Ada\"}}"},
	}}
	refiner, mem := newTestRefiner(t, client)

	artifact := seedArtifact(t, mem, &types.GenerationArtifact{
		OwnerID:     "user-1",
		CV:          `{"basics":{}}`,
		CoverLetter: `{"body":"Bonjour"}`,
		Format:      types.FormatStructured,
	})

	refined, err := refiner.RefineArtifact(context.Background(), "user-1", artifact.ID, "ajoute le nom")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refined.CV != `{"basics":{"name":"Ada"}}` {
		t.Errorf("CV = %q", refined.CV)
	}
	if refined.CoverLetter != `{"body":"Bonjour"}` {
		t.Errorf("CoverLetter = %q, must be preserved", refined.CoverLetter)
	}

	req := client.lastRequest(t)
	if !strings.Contains(req.User, "CV_JSON") {
		t.Error("structured artifacts should be refined with the structured template")
	}
}

func TestRefineArtifactValidation(t *testing.T) {
	client := &fakeClient{}
	refiner, mem := newTestRefiner(t, client)
	artifact := seedArtifact(t, mem, &types.GenerationArtifact{OwnerID: "user-1", CV: "cv"})
	before := mem.MutationCount()

	_, err := refiner.RefineArtifact(context.Background(), "user-1", artifact.ID, "   ")
	assertAppError(t, err, errors.ErrorTypeValidation, errors.ErrCodeMissingInput)

	_, err = refiner.RefineArtifact(context.Background(), "user-1", "no-such-id", "instruction")
	assertAppError(t, err, errors.ErrorTypeNotFound, errors.ErrCodeNotFound)

	_, err = refiner.RefineArtifact(context.Background(), "someone-else", artifact.ID, "instruction")
	assertAppError(t, err, errors.ErrorTypeNotFound, errors.ErrCodeNotFound)

	if mem.MutationCount() != before {
		t.Error("failed refines must not mutate storage")
	}
}

// blockingClient holds each completion until the test releases a response
// for the instruction it carries, so two refines can be interleaved.
type blockingClient struct {
	arrived chan string
	respond map[string]chan string
}

func (c *blockingClient) Complete(_ context.Context, req ai.CompletionRequest) (string, *ai.TokenUsage, error) {
	for marker, ch := range c.respond {
		if strings.Contains(req.User, marker) {
			c.arrived <- marker
			return <-ch, nil, nil
		}
	}
	return "", nil, errors.NewUpstreamError(errors.ErrCodeAIServiceFailed, "unexpected request", nil)
}

func (c *blockingClient) ModelInfo(_ context.Context, tier ai.Tier) *ai.ModelInfo {
	return &ai.ModelInfo{Name: "fake-" + string(tier), Available: true}
}

func (c *blockingClient) Close() error { return nil }

func TestRefineArtifactConcurrentLastWriteWins(t *testing.T) {
	// Two refines against the same artifact, both reading its state before
	// either writes. There is no version token, so the later write is built
	// on the initial state and the earlier edit is lost.
	client := &blockingClient{
		arrived: make(chan string, 2),
		respond: map[string]chan string{
			"ajoute des chiffres":  make(chan string),
			"raccourcis la lettre": make(chan string),
		},
	}
	refiner, mem := newTestRefiner(t, client)
	artifact := seedArtifact(t, mem, &types.GenerationArtifact{
		OwnerID:     "u1",
		CV:          "CV initial",
		CoverLetter: "Lettre initiale",
		Format:      types.FormatFreeText,
	})

	type refineResult struct {
		artifact *types.GenerationArtifact
		err      error
	}
	run := func(instruction string) chan refineResult {
		ch := make(chan refineResult, 1)
		go func() {
			updated, err := refiner.RefineArtifact(context.Background(), "u1", artifact.ID, instruction)
			ch <- refineResult{updated, err}
		}()
		return ch
	}
	first := run("ajoute des chiffres")
	second := run("raccourcis la lettre")

	// Both refines have loaded the artifact once both completions arrive
	<-client.arrived
	<-client.arrived

	client.respond["ajoute des chiffres"] <- "## CV\nCV avec des chiffres"
	r1 := <-first
	if r1.err != nil {
		t.Fatalf("first refine: %v", r1.err)
	}
	if r1.artifact.CV != "CV avec des chiffres" {
		t.Fatalf("first refine CV = %q", r1.artifact.CV)
	}

	client.respond["raccourcis la lettre"] <- "## Lettre de motivation\nLettre courte"
	r2 := <-second
	if r2.err != nil {
		t.Fatalf("second refine: %v", r2.err)
	}

	stored, err := mem.Store().Artifacts.GetByID(context.Background(), artifact.ID, "u1")
	if err != nil {
		t.Fatalf("artifact lookup: %v", err)
	}
	if stored.CoverLetter != "Lettre courte" {
		t.Errorf("stored letter = %q, want the second refine's edit", stored.CoverLetter)
	}
	if stored.CV != "CV initial" {
		t.Errorf("stored CV = %q, want the first refine's edit overwritten", stored.CV)
	}
}

func TestRefineArtifactDecodeFailureKeepsOriginal(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{{text: "pas de section ici"}}}
	refiner, mem := newTestRefiner(t, client)

	artifact := seedArtifact(t, mem, &types.GenerationArtifact{
		OwnerID: "user-1",
		CV:      "CV original",
	})
	before := mem.MutationCount()

	_, err := refiner.RefineArtifact(context.Background(), "user-1", artifact.ID, "améliore")
	assertAppError(t, err, errors.ErrorTypeDecode, errors.ErrCodeResponseDecode)

	if mem.MutationCount() != before {
		t.Error("decode failure must not mutate storage")
	}
	stored, err := mem.Store().Artifacts.GetByID(context.Background(), artifact.ID, "user-1")
	if err != nil {
		t.Fatalf("artifact lookup: %v", err)
	}
	if stored.CV != "CV original" {
		t.Errorf("stored CV = %q, want untouched original", stored.CV)
	}
}

func TestRefineReference(t *testing.T) {
	// First completion refines the CV, second re-extracts the profile
	client := &fakeClient{responses: []fakeResponse{
		{text: "## CV\nCV de référence affiné"},
		{text: `{"basics":{"name":"Profil idéal v2"}}`},
	}}
	refiner, mem := newTestRefiner(t, client)

	posting := &types.JobPosting{
		OwnerID:          "recruiter-1",
		Title:            "Ingénieur Go",
		Description:      "Poste backend",
		ReferenceCV:      "CV de référence initial",
		ReferenceProfile: &types.StructuredProfile{Basics: types.ProfileBasics{Name: "Profil idéal"}},
		Status:           types.PostingDraft,
	}
	if err := mem.Store().Postings.Insert(context.Background(), posting); err != nil {
		t.Fatalf("seed posting: %v", err)
	}

	updated, err := refiner.RefineReference(context.Background(), "recruiter-1", posting.ID, "exiger 5 ans d'expérience")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ReferenceCV != "CV de référence affiné" {
		t.Errorf("ReferenceCV = %q", updated.ReferenceCV)
	}
	if updated.ReferenceProfile == nil || updated.ReferenceProfile.Basics.Name != "Profil idéal v2" {
		t.Errorf("ReferenceProfile = %+v, want re-extracted profile", updated.ReferenceProfile)
	}
}

func TestRefineReferenceFailedExtractionKeepsProfile(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{
		{text: "## CV\nCV affiné"},
		{text: "pas du json"},
	}}
	refiner, mem := newTestRefiner(t, client)

	posting := &types.JobPosting{
		OwnerID:          "recruiter-1",
		Title:            "Ingénieur Go",
		ReferenceCV:      "ancien",
		ReferenceProfile: &types.StructuredProfile{Basics: types.ProfileBasics{Name: "Profil idéal"}},
	}
	if err := mem.Store().Postings.Insert(context.Background(), posting); err != nil {
		t.Fatalf("seed posting: %v", err)
	}

	updated, err := refiner.RefineReference(context.Background(), "recruiter-1", posting.ID, "plus senior")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ReferenceCV != "CV affiné" {
		t.Errorf("ReferenceCV = %q", updated.ReferenceCV)
	}
	if updated.ReferenceProfile == nil || updated.ReferenceProfile.Basics.Name != "Profil idéal" {
		t.Errorf("ReferenceProfile = %+v, want previous profile kept", updated.ReferenceProfile)
	}
}
