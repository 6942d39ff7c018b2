package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/courtside/internal/domain/model"
)

// ResumeDependencies defines reading-position storage.
type ResumeDependencies interface {
	Resume(ctx context.Context, gameID string) (model.ResumePosition, error)
	SaveResume(ctx context.Context, gameID string, pos model.ResumePosition) (model.ResumePosition, error)
}

// ResumeHandler reads and writes a reader's position in a game.
type ResumeHandler struct {
	deps ResumeDependencies
}

// NewResumeHandler creates a new resume handler.
func NewResumeHandler(deps ResumeDependencies) *ResumeHandler {
	return &ResumeHandler{deps: deps}
}

type resumeRequest struct {
	Index  *int        `json:"index"`
	Period int         `json:"period"`
	Clock  string      `json:"clock"`
	Score  model.Score `json:"score"`
}

// HandleGetResume handles GET /games/{id}/resume requests.
func (h *ResumeHandler) HandleGetResume(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_resume"

	pos, err := h.deps.Resume(r.Context(), gameID(r))
	if err != nil {
		writeError(w, classify(op, err))
		return
	}
	writeJSON(w, http.StatusOK, pos)
}

// HandlePutResume handles PUT /games/{id}/resume requests.
func (h *ResumeHandler) HandlePutResume(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_resume"

	var req resumeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.Index == nil {
		writeError(w, WrapKind(op, ErrBadRequest, errors.New("missing index")))
		return
	}
	if req.Clock != "" && !validClock(req.Clock) {
		writeError(w, WrapKind(op, ErrBadRequest, errors.New("clock must be M:SS")))
		return
	}

	pos, err := h.deps.SaveResume(r.Context(), gameID(r), model.ResumePosition{
		Index:  *req.Index,
		Period: req.Period,
		Clock:  req.Clock,
		Score:  req.Score,
	})
	if err != nil {
		writeError(w, classify(op, err))
		return
	}
	writeJSON(w, http.StatusOK, pos)
}
