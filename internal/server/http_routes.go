package server

import (
	"net/http"
	"strings"

	"careerforge/internal/observability"
)

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes(om *observability.ObservabilityManager) *http.ServeMux {
	mux := http.NewServeMux()

	rateLimit := s.createRateLimitMiddleware(om)
	sizeLimit := s.requestSizeLimitMiddleware()
	protect := func(h http.HandlerFunc) http.HandlerFunc {
		return rateLimit(s.authMiddleware(sizeLimit(h)))
	}

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /stats", s.statsHandler)

	// Candidate side
	mux.HandleFunc("POST /api/generations", protect(s.createGenerationHandler(om)))
	mux.HandleFunc("GET /api/generations", protect(s.listGenerationsHandler))
	mux.HandleFunc("GET /api/generations/{id}", protect(s.getGenerationHandler))
	mux.HandleFunc("PATCH /api/generations/{id}", protect(s.patchGenerationHandler))
	mux.HandleFunc("DELETE /api/generations/{id}", protect(s.deleteGenerationHandler))
	mux.HandleFunc("POST /api/generations/{id}/refine", protect(s.refineGenerationHandler(om)))
	mux.HandleFunc("POST /api/analyses", protect(s.analyzeFitHandler(om)))
	mux.HandleFunc("GET /api/analyses", protect(s.listAnalysesHandler))

	// Recruiter side
	mux.HandleFunc("POST /api/postings", protect(s.createPostingHandler(om)))
	mux.HandleFunc("GET /api/postings", protect(s.listPostingsHandler))
	mux.HandleFunc("GET /api/postings/published", protect(s.browsePostingsHandler))
	mux.HandleFunc("GET /api/postings/{id}", protect(s.getPostingHandler))
	mux.HandleFunc("DELETE /api/postings/{id}", protect(s.deletePostingHandler))
	mux.HandleFunc("POST /api/postings/{id}/publish", protect(s.publishPostingHandler))
	mux.HandleFunc("POST /api/postings/{id}/reference/refine", protect(s.refineReferenceHandler(om)))
	mux.HandleFunc("POST /api/postings/{id}/apply", protect(s.applyHandler(om)))
	mux.HandleFunc("POST /api/postings/{id}/applications/{applicationId}/analyze", protect(s.analyzeCandidateHandler(om)))

	// Quizzes
	mux.HandleFunc("POST /api/quizzes", protect(s.generateQuizHandler(om)))
	mux.HandleFunc("GET /api/quizzes", protect(s.listQuizzesHandler))
	mux.HandleFunc("GET /api/quizzes/{id}", protect(s.getQuizHandler))
	mux.HandleFunc("POST /api/quizzes/{id}/submissions", protect(s.submitQuizHandler(om)))
	mux.HandleFunc("GET /api/quizzes/{id}/submissions", protect(s.listQuizSubmissionsHandler))

	return mux
}

// authMiddleware provides API key authentication
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Skip authentication if no API keys are configured
		if len(s.APIKeys) == 0 {
			next(w, r)
			return
		}

		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			authHeader := r.Header.Get("Authorization")
			if after, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
				apiKey = after
			}
		}

		if apiKey == "" {
			s.Logger.Info("Authentication failed: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr)
			writeErrorResponse(w, "Missing API key", "X-API-Key header or Authorization Bearer token required", http.StatusUnauthorized)
			return
		}

		if !s.APIKeys[apiKey] {
			s.Logger.Info("Authentication failed: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr,
				"api_key_prefix", maskAPIKey(apiKey))
			writeErrorResponse(w, "Invalid API key", "Unauthorized access", http.StatusUnauthorized)
			return
		}

		s.Logger.Debug("API authentication successful",
			"endpoint", r.URL.Path,
			"client_ip", r.RemoteAddr,
			"api_key_prefix", maskAPIKey(apiKey))

		next(w, r)
	}
}

// requestSizeLimitMiddleware limits the size of incoming request bodies
func (s *Server) requestSizeLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.MaxRequestSize > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
			}

			next(w, r)
		}
	}
}

// maskAPIKey masks an API key for logging (shows only first 8 characters)
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}
