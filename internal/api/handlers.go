// Package api exposes HTTP handlers for the action tracker.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"example.com/actiontracker/internal/auth"
	"example.com/actiontracker/internal/domain"
)

// Service is the subset of domain.Service the handlers need.
type Service interface {
	Ingest(ctx context.Context, input domain.IngestInput) (*domain.Ingested, error)
	Stats(ctx context.Context) string
}

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service      Service
	maxBodyBytes int64
}

// NewHandler builds a Handler. Request bodies larger than maxBodyBytes are rejected.
func NewHandler(service Service, maxBodyBytes int64) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	return &Handler{service: service, maxBodyBytes: maxBodyBytes}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/actions", h.actions)
	mux.HandleFunc("/v1/stats", h.stats)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) actions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeActionsWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope actions:write required")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to read body")
		return
	}

	ingested, err := h.service.Ingest(r.Context(), domain.IngestInput{Raw: string(body), Source: "http"})
	if err != nil {
		if errors.Is(err, domain.ErrRejected) {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, AddActionResponse{
		ActionID: ingested.ID,
		Action:   ingested.Record.Action,
		Time:     ingested.Record.Time,
	})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasAnyScope(auth.ScopeActionsRead, auth.ScopeActionsWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope actions:read required")
		return
	}

	// The report is already JSON; write it verbatim so clients see exactly GetStats output.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, h.service.Stats(r.Context()))
}

// AddActionResponse describes the response body for POST /v1/actions.
type AddActionResponse struct {
	ActionID string  `json:"action_id"`
	Action   string  `json:"action"`
	Time     float64 `json:"time"`
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
