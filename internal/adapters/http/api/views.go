package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/tiering"
)

// ViewDependencies defines the read views of a game timeline.
type ViewDependencies interface {
	Groups(ctx context.Context, gameID string) ([]model.TieredGroup, error)
	Moments(ctx context.Context, gameID string) ([]model.Moment, error)
}

// ViewsHandler serves tiered groups and moments.
type ViewsHandler struct {
	deps ViewDependencies
}

// NewViewsHandler creates a new views handler.
func NewViewsHandler(deps ViewDependencies) *ViewsHandler {
	return &ViewsHandler{deps: deps}
}

type groupsResponse struct {
	GameID string                 `json:"game_id"`
	Tiers  map[model.PlayTier]int `json:"tiers"`
	Groups []model.TieredGroup    `json:"groups"`
	Events []model.TimelineEvent  `json:"events,omitempty"`
}

type momentsResponse struct {
	GameID  string         `json:"game_id"`
	Notable int            `json:"notable"`
	Moments []model.Moment `json:"moments"`
}

// HandleGetGroups handles GET /games/{id}/groups[?expand=1] requests.
func (h *ViewsHandler) HandleGetGroups(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_groups"

	id := gameID(r)
	groups, err := h.deps.Groups(r.Context(), id)
	if err != nil {
		writeError(w, classify(op, err))
		return
	}

	resp := groupsResponse{
		GameID: id,
		Tiers:  tiering.Summarize(groups).Events,
		Groups: groups,
	}
	if expand, _ := strconv.ParseBool(r.URL.Query().Get("expand")); expand {
		resp.Events = tiering.Flatten(groups)
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGetMoments handles GET /games/{id}/moments requests.
func (h *ViewsHandler) HandleGetMoments(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_moments"

	id := gameID(r)
	moments, err := h.deps.Moments(r.Context(), id)
	if err != nil {
		writeError(w, classify(op, err))
		return
	}

	resp := momentsResponse{GameID: id, Moments: moments}
	for i := range moments {
		if moments[i].IsNotable {
			resp.Notable++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
