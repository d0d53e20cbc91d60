package server

import (
	"context"
	"net/http"
	"strings"

	"careerforge/internal/observability"
	"careerforge/internal/pdfext"
	"careerforge/internal/pipeline"
	"careerforge/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// resolvePDFText extracts text from an uploaded PDF. Extraction fails closed,
// but when pasted text is also present the pasted text wins anyway, so the
// failure is only logged.
func (s *Server) resolvePDFText(pdfBytes []byte, pastedText string) (string, error) {
	if len(pdfBytes) == 0 {
		return "", nil
	}
	text, err := pdfext.ExtractText(pdfBytes)
	if err != nil {
		if strings.TrimSpace(pastedText) != "" {
			s.Logger.Warn("PDF extraction failed, using pasted text", "error", err.Error())
			return "", nil
		}
		return "", err
	}
	return text, nil
}

// createGenerationHandler runs one end-to-end document generation
func (s *Server) createGenerationHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careerforge.api")
		ctx, span := tracer.Start(ctx, "api.generate")
		defer span.End()

		owner := s.ownerID(w, r)
		if owner == "" {
			return
		}

		var req GenerateRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		pdfText, err := s.resolvePDFText(req.ResumePDF, req.ResumeText)
		if err != nil {
			span.RecordError(err)
			s.writeAppError(w, r, err)
			return
		}

		format := req.Format
		if format == "" {
			format = types.DocumentFormat(s.Config.App.DocumentFormat)
		}

		span.SetAttributes(
			attribute.String("operation", "generate"),
			attribute.Bool("request.has_resume", strings.TrimSpace(req.ResumeText) != "" || pdfText != ""),
			attribute.Bool("request.has_offer", strings.TrimSpace(req.OfferText) != ""),
			attribute.String("request.format", string(format)),
		)

		metrics := om.GetMetrics()
		var artifact *types.GenerationArtifact
		err = metrics.TrackAIOperationWithTokens(ctx, "generate", func(ctx context.Context) *observability.AIOperationResult {
			var genErr error
			artifact, genErr = s.generator.Generate(ctx, owner, pipeline.GenerateInput{
				Fields:        req.Fields,
				ResumeText:    req.ResumeText,
				ResumePDFText: pdfText,
				OfferText:     req.OfferText,
				Format:        format,
			})
			return &observability.AIOperationResult{Error: genErr}
		})
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "document_generated", false)
			s.writeAppError(w, r, err)
			return
		}

		metrics.RecordBusinessMetric(ctx, "document_generated", true,
			attribute.String("format", string(artifact.Format)))
		span.SetAttributes(attribute.Bool("success", true))

		writeJSONStatus(w, artifact, http.StatusCreated)
	}
}

func (s *Server) listGenerationsHandler(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)
	if owner == "" {
		return
	}

	artifacts, err := s.store.Artifacts.ListByOwner(r.Context(), owner)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if artifacts == nil {
		artifacts = []types.GenerationArtifact{}
	}
	writeJSON(w, artifacts)
}

func (s *Server) getGenerationHandler(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)
	if owner == "" {
		return
	}

	artifact, err := s.store.Artifacts.GetByID(r.Context(), r.PathValue("id"), owner)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, artifact)
}

// patchGenerationHandler applies a manual edit to artifact sections. Only
// fields present in the request change.
func (s *Server) patchGenerationHandler(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)
	if owner == "" {
		return
	}

	var req PatchGenerationRequest
	if err := parseJSONRequest(r, &req); err != nil {
		writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	artifact, err := s.store.Artifacts.GetByID(r.Context(), r.PathValue("id"), owner)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	if req.CV != nil {
		artifact.CV = *req.CV
	}
	if req.CoverLetter != nil {
		artifact.CoverLetter = *req.CoverLetter
	}
	if req.Suggestions != nil {
		artifact.Suggestions = *req.Suggestions
	}
	if req.CustomTitle != nil {
		artifact.SourceFields.CustomTitle = *req.CustomTitle
	}

	if err := s.store.Artifacts.Update(r.Context(), artifact); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, artifact)
}

func (s *Server) deleteGenerationHandler(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)
	if owner == "" {
		return
	}

	if err := s.store.Artifacts.Delete(r.Context(), r.PathValue("id"), owner); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// refineGenerationHandler applies a natural-language instruction to an artifact
func (s *Server) refineGenerationHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careerforge.api")
		ctx, span := tracer.Start(ctx, "api.refine")
		defer span.End()

		owner := s.ownerID(w, r)
		if owner == "" {
			return
		}

		var req RefineRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		metrics := om.GetMetrics()
		var artifact *types.GenerationArtifact
		err := metrics.TrackAIOperationWithTokens(ctx, "refine", func(ctx context.Context) *observability.AIOperationResult {
			var refineErr error
			artifact, refineErr = s.refiner.RefineArtifact(ctx, owner, r.PathValue("id"), req.Instruction)
			return &observability.AIOperationResult{Error: refineErr}
		})
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "artifact_refined", false)
			s.writeAppError(w, r, err)
			return
		}

		metrics.RecordBusinessMetric(ctx, "artifact_refined", true)
		span.SetAttributes(attribute.Bool("success", true))
		writeJSON(w, artifact)
	}
}

// analyzeFitHandler scores a resume against an offer and records the analysis
func (s *Server) analyzeFitHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careerforge.api")
		ctx, span := tracer.Start(ctx, "api.analyze_fit")
		defer span.End()

		owner := s.ownerID(w, r)
		if owner == "" {
			return
		}

		var req AnalyzeFitRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		pdfText, err := s.resolvePDFText(req.ResumePDF, req.ResumeText)
		if err != nil {
			span.RecordError(err)
			s.writeAppError(w, r, err)
			return
		}
		resumeText := req.ResumeText
		if strings.TrimSpace(resumeText) == "" {
			resumeText = pdfText
		}

		metrics := om.GetMetrics()
		var analysis *types.FitAnalysis
		err = metrics.TrackAIOperationWithTokens(ctx, "analyze_fit", func(ctx context.Context) *observability.AIOperationResult {
			var fitErr error
			analysis, fitErr = s.scorer.AnalyzeFit(ctx, resumeText, req.OfferText)
			return &observability.AIOperationResult{Error: fitErr}
		})
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "fit_analyzed", false)
			s.writeAppError(w, r, err)
			return
		}

		// Persisted only after a successful decode
		limit := s.Config.App.PersistedTextLimit
		record := &types.AnalysisRecord{
			OwnerID:      owner,
			ResumeText:   pipeline.Truncate(resumeText, limit),
			OfferText:    pipeline.Truncate(req.OfferText, limit),
			Analysis:     analysis,
			OverallScore: analysis.OverallScore,
		}
		if err := s.store.Analyses.Insert(ctx, record); err != nil {
			span.RecordError(err)
			s.writeAppError(w, r, err)
			return
		}

		metrics.RecordBusinessMetric(ctx, "fit_analyzed", true,
			attribute.Int("overall_score", analysis.OverallScore))
		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("overall_score", analysis.OverallScore),
		)

		writeJSONStatus(w, record, http.StatusCreated)
	}
}

func (s *Server) listAnalysesHandler(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)
	if owner == "" {
		return
	}

	records, err := s.store.Analyses.ListByOwner(r.Context(), owner)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if records == nil {
		records = []types.AnalysisRecord{}
	}
	writeJSON(w, records)
}

// createRateLimitMiddleware adds rate limit hit metrics on top of the limiter
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		limited := originalMiddleware(next)
		return func(w http.ResponseWriter, r *http.Request) {
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			limited(wrapper, r)

			if wrapper.statusCode == http.StatusTooManyRequests {
				om.GetMetrics().RecordBusinessMetric(r.Context(), "rate_limit_hit", true,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		}
	}
}

// responseWrapper captures the response status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
