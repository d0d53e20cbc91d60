package server

import (
	"context"
	"net/http"

	"careerforge/internal/observability"
	"careerforge/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// PostingDetail is a posting together with its received applications,
// visible only to the posting owner.
type PostingDetail struct {
	Posting      *types.JobPosting   `json:"posting"`
	Applications []types.Application `json:"applications"`
}

// createPostingHandler creates a posting and synthesizes its reference CV
func (s *Server) createPostingHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careerforge.api")
		ctx, span := tracer.Start(ctx, "api.create_posting")
		defer span.End()

		owner := s.ownerID(w, r)
		if owner == "" {
			return
		}

		var req CreatePostingRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		metrics := om.GetMetrics()
		var posting *types.JobPosting
		err := metrics.TrackAIOperationWithTokens(ctx, "create_posting", func(ctx context.Context) *observability.AIOperationResult {
			var createErr error
			posting, createErr = s.recruiter.CreatePosting(ctx, owner, req.Title, req.Description, req.Skills)
			return &observability.AIOperationResult{Error: createErr}
		})
		if err != nil {
			span.RecordError(err)
			s.writeAppError(w, r, err)
			return
		}

		span.SetAttributes(attribute.Bool("success", true))
		writeJSONStatus(w, posting, http.StatusCreated)
	}
}

// browsePostingsHandler lists published postings for applicants looking for
// somewhere to apply. Reference material is never exposed here.
func (s *Server) browsePostingsHandler(w http.ResponseWriter, r *http.Request) {
	postings, err := s.store.Postings.ListPublished(r.Context())
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	summaries := make([]PostingSummary, 0, len(postings))
	for _, posting := range postings {
		summaries = append(summaries, PostingSummary{
			ID:          posting.ID,
			Title:       posting.Title,
			Description: posting.Description,
			Skills:      posting.Skills,
			CreatedAt:   posting.CreatedAt,
		})
	}
	writeJSON(w, summaries)
}

func (s *Server) listPostingsHandler(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)
	if owner == "" {
		return
	}

	postings, err := s.store.Postings.ListByOwner(r.Context(), owner)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if postings == nil {
		postings = []types.JobPosting{}
	}
	writeJSON(w, postings)
}

func (s *Server) getPostingHandler(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)
	if owner == "" {
		return
	}

	posting, err := s.store.Postings.GetByID(r.Context(), r.PathValue("id"), owner)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	applications, err := s.store.Applications.ListByJob(r.Context(), posting.ID)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if applications == nil {
		applications = []types.Application{}
	}

	writeJSON(w, PostingDetail{Posting: posting, Applications: applications})
}

func (s *Server) deletePostingHandler(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)
	if owner == "" {
		return
	}

	if err := s.store.Postings.Delete(r.Context(), r.PathValue("id"), owner); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) publishPostingHandler(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)
	if owner == "" {
		return
	}

	posting, err := s.recruiter.PublishPosting(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, posting)
}

// refineReferenceHandler applies an instruction to a posting's reference CV
func (s *Server) refineReferenceHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careerforge.api")
		ctx, span := tracer.Start(ctx, "api.refine_reference")
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
		var posting *types.JobPosting
		err := metrics.TrackAIOperationWithTokens(ctx, "refine_reference", func(ctx context.Context) *observability.AIOperationResult {
			var refineErr error
			posting, refineErr = s.refiner.RefineReference(ctx, owner, r.PathValue("id"), req.Instruction)
			return &observability.AIOperationResult{Error: refineErr}
		})
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "artifact_refined", false)
			s.writeAppError(w, r, err)
			return
		}

		metrics.RecordBusinessMetric(ctx, "artifact_refined", true,
			attribute.String("target", "reference_cv"))
		span.SetAttributes(attribute.Bool("success", true))
		writeJSON(w, posting)
	}
}

// applyHandler submits the caller's resume to a published posting
func (s *Server) applyHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careerforge.api")
		ctx, span := tracer.Start(ctx, "api.apply")
		defer span.End()

		applicant := s.ownerID(w, r)
		if applicant == "" {
			return
		}

		var req ApplyRequest
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

		span.SetAttributes(
			attribute.String("operation", "apply"),
			attribute.Bool("request.has_pdf", len(req.ResumePDF) > 0),
		)

		metrics := om.GetMetrics()
		var application *types.Application
		err = metrics.TrackAIOperationWithTokens(ctx, "apply", func(ctx context.Context) *observability.AIOperationResult {
			var applyErr error
			application, applyErr = s.recruiter.Apply(ctx, r.PathValue("id"), applicant, req.ResumeText, pdfText)
			return &observability.AIOperationResult{Error: applyErr}
		})
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "application_created", false)
			s.writeAppError(w, r, err)
			return
		}

		metrics.RecordBusinessMetric(ctx, "application_created", true)
		span.SetAttributes(attribute.Bool("success", true))
		writeJSONStatus(w, application, http.StatusCreated)
	}
}

// analyzeCandidateHandler scores one application against the posting's
// reference profile
func (s *Server) analyzeCandidateHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careerforge.api")
		ctx, span := tracer.Start(ctx, "api.analyze_candidate")
		defer span.End()

		owner := s.ownerID(w, r)
		if owner == "" {
			return
		}

		metrics := om.GetMetrics()
		var application *types.Application
		err := metrics.TrackAIOperationWithTokens(ctx, "analyze_candidate", func(ctx context.Context) *observability.AIOperationResult {
			var analyzeErr error
			application, analyzeErr = s.recruiter.AnalyzeCandidate(ctx, owner, r.PathValue("id"), r.PathValue("applicationId"))
			return &observability.AIOperationResult{Error: analyzeErr}
		})
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "candidate_analyzed", false)
			s.writeAppError(w, r, err)
			return
		}

		attrs := []attribute.KeyValue{}
		if application.Score != nil {
			attrs = append(attrs, attribute.Int("score", *application.Score))
			span.SetAttributes(attribute.Int("score", *application.Score))
		}
		metrics.RecordBusinessMetric(ctx, "candidate_analyzed", true, attrs...)
		span.SetAttributes(attribute.Bool("success", true))
		writeJSON(w, application)
	}
}
