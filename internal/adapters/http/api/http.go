// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/courtside/internal/app"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 4 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	IngestDependencies
	ViewDependencies
	ResumeDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	eventsHandler *EventsHandler
	viewsHandler  *ViewsHandler
	resumeHandler *ResumeHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		eventsHandler: NewEventsHandler(deps),
		viewsHandler:  NewViewsHandler(deps),
		resumeHandler: NewResumeHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "/healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "/stats"))
	mux.HandleFunc("POST /games/{id}/events", MetricsMiddleware(s.eventsHandler.HandlePostEvents, "/games/{id}/events"))
	mux.HandleFunc("GET /games/{id}/groups", MetricsMiddleware(s.viewsHandler.HandleGetGroups, "/games/{id}/groups"))
	mux.HandleFunc("GET /games/{id}/moments", MetricsMiddleware(s.viewsHandler.HandleGetMoments, "/games/{id}/moments"))
	mux.HandleFunc("GET /games/{id}/resume", MetricsMiddleware(s.resumeHandler.HandleGetResume, "/games/{id}/resume"))
	mux.HandleFunc("PUT /games/{id}/resume", MetricsMiddleware(s.resumeHandler.HandlePutResume, "/games/{id}/resume"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError derives the status from the error kind.
func writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// classify attaches an API kind to errors coming from the service.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, service.ErrGameNotFound), errors.Is(err, service.ErrNoPosition):
		return WrapKind(op, ErrNotFound, err)
	case errors.Is(err, service.ErrBackpressure):
		return WrapKind(op, ErrBackpressure, err)
	case errors.Is(err, service.ErrInvalidEvent):
		return WrapKind(op, ErrBadRequest, err)
	case errors.Is(err, service.ErrNotStarted):
		return WrapKind(op, ErrUnavailable, err)
	default:
		return Wrap(op, err)
	}
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// gameID returns the {id} path value.
func gameID(r *http.Request) string {
	return r.PathValue("id")
}

// Compile-time check that the service satisfies the handler contracts.
var _ Dependencies = (*service.Service)(nil)
