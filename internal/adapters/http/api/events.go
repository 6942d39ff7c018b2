package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/courtside/internal/domain/model"
)

// IngestDependencies defines the interface for feed ingestion.
type IngestDependencies interface {
	Ingest(ctx context.Context, game model.Game, events []model.TimelineEvent) (accepted, duplicates int, err error)
}

// EventsHandler handles feed ingestion requests.
type EventsHandler struct {
	deps IngestDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps IngestDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// eventsRequest mirrors the OpenAPI schema for POST /games/{id}/events.
type eventsRequest struct {
	League   string                `json:"league"`
	HomeTeam string                `json:"home_team"`
	AwayTeam string                `json:"away_team"`
	HomeAbbr string                `json:"home_abbr"`
	AwayAbbr string                `json:"away_abbr"`
	Events   []model.TimelineEvent `json:"events"`
}

func (e eventsRequest) validate() error {
	seen := make(map[int]struct{}, len(e.Events))
	for i, ev := range e.Events {
		if ev.Index < 0 {
			return fmt.Errorf("events[%d]: index must not be negative", i)
		}
		if _, dup := seen[ev.Index]; dup {
			return fmt.Errorf("events[%d]: index %d repeated in batch", i, ev.Index)
		}
		seen[ev.Index] = struct{}{}
		if ev.Period < 0 {
			return fmt.Errorf("events[%d]: period must not be negative", i)
		}
		if ev.Clock != "" && !validClock(ev.Clock) {
			return fmt.Errorf("events[%d]: clock %q must be M:SS", i, ev.Clock)
		}
	}
	return nil
}

// validClock accepts "M:SS" and "MM:SS".
func validClock(c string) bool {
	m, s, ok := strings.Cut(c, ":")
	if !ok || m == "" || len(m) > 3 || len(s) != 2 {
		return false
	}
	for _, r := range m + s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s[0] <= '5'
}

func (e eventsRequest) game(id string) model.Game {
	return model.Game{
		ID:       id,
		League:   strings.TrimSpace(e.League),
		HomeTeam: strings.TrimSpace(e.HomeTeam),
		AwayTeam: strings.TrimSpace(e.AwayTeam),
		HomeAbbr: strings.TrimSpace(e.HomeAbbr),
		AwayAbbr: strings.TrimSpace(e.AwayAbbr),
	}
}

type ackResponse struct {
	Status     string `json:"status"`
	Accepted   int    `json:"accepted"`
	Duplicates int    `json:"duplicates"`
}

// HandlePostEvents handles POST /games/{id}/events requests.
func (h *EventsHandler) HandlePostEvents(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_events"

	id := gameID(r)
	if strings.TrimSpace(id) == "" {
		writeError(w, WrapKind(op, ErrBadRequest, errors.New("missing game id")))
		return
	}
	var req eventsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	accepted, dups, err := h.deps.Ingest(r.Context(), req.game(id), req.Events)
	if err != nil {
		writeError(w, classify(op, err))
		return
	}

	status := "accepted"
	if accepted == 0 && dups > 0 {
		status = "duplicate"
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: status, Accepted: accepted, Duplicates: dups})
}
