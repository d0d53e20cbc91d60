package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	cfErrors "careerforge/internal/errors"
)

// healthHandler reports service health: AI model availability per tier plus
// circuit breaker state.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":  "healthy",
		"service": "careerforge",
		"version": s.Version,
	}

	timeout := s.Config.Observability.HealthCheck.Timeout
	aiStatus := checkAIHealth(r.Context(), s.client, timeout)
	response["ai_models"] = aiStatus
	response["circuit_breakers"] = checkBreakerHealth(s.client)

	overallHealthy := true
	for _, status := range aiStatus {
		if info, ok := status.(map[string]any); ok {
			if available, ok := info["available"].(bool); ok && !available {
				overallHealthy = false
				break
			}
		}
	}
	if !overallHealthy {
		response["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	writeJSON(w, response)
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "careerforge",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	writeJSON(w, response)
}

// ownerID extracts the acting user's identity. Authentication is handled
// upstream; the gateway forwards the verified identity in this header.
func (s *Server) ownerID(w http.ResponseWriter, r *http.Request) string {
	owner := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if owner == "" {
		writeErrorResponse(w, "Missing user identity", "X-User-ID header is required", http.StatusBadRequest)
	}
	return owner
}

// parseJSONRequest parses a JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func writeJSONStatus(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}

// writeAppError maps an application error to an HTTP response. Client errors
// carry their message; server-side failure details stay in the logs.
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *cfErrors.AppError
	if !errors.As(err, &appErr) {
		s.Logger.LogError(err, "Unhandled error", "endpoint", r.URL.Path)
		writeErrorResponse(w, "internal", "An unexpected error occurred", http.StatusInternalServerError)
		return
	}

	status := cfErrors.HTTPStatus(appErr)
	s.Logger.LogError(appErr, "Request failed",
		"endpoint", r.URL.Path,
		"error_type", string(appErr.Type),
		"error_code", appErr.Code,
		"status", status)

	message := appErr.Message
	if status >= http.StatusInternalServerError {
		message = "The request could not be processed"
	}
	writeErrorResponse(w, appErr.Code, message, status)
}
