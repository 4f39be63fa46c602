package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/chongus/internal/app"
	"github.com/okian/chongus/internal/domain/action"
)

const maxActionBodyBytes = 64 << 10

// actionRequest mirrors the OpenAPI schema for POST /actions.
type actionRequest struct {
	ActionID   string   `json:"action_id"`
	Type       string   `json:"type"`
	UpgradeID  string   `json:"upgrade_id"`
	TemplateID string   `json:"template_id"`
	Team       []string `json:"team"`
	ActiveID   string   `json:"active_id"`
	Amount     float64  `json:"amount"`
}

func (r actionRequest) toAction() (action.Action, error) {
	if strings.TrimSpace(r.Type) == "" {
		return nil, errors.New("missing type")
	}
	return action.Build(r.Type, action.Params{
		UpgradeID:  strings.TrimSpace(r.UpgradeID),
		TemplateID: strings.TrimSpace(r.TemplateID),
		Team:       r.Team,
		ActiveID:   strings.TrimSpace(r.ActiveID),
		Amount:     r.Amount,
	})
}

type actionResponse struct {
	Status   service.Status `json:"status"`
	Revision uint64         `json:"revision"`
	State    stateView      `json:"state"`
}

// ActionsHandler accepts player actions.
type ActionsHandler struct {
	deps ActionDependencies
}

// NewActionsHandler creates a new actions handler.
func NewActionsHandler(deps ActionDependencies) *ActionsHandler {
	return &ActionsHandler{deps: deps}
}

// HandlePostAction handles POST /actions requests. A rejected action is
// still a 200: the engine refusing an action is a game outcome, not a
// transport failure.
func (h *ActionsHandler) HandlePostAction(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_action"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req actionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxActionBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	a, err := req.toAction()
	if err != nil {
		code := "bad_request"
		if errors.Is(err, action.ErrUnknownKind) {
			code = "unknown_action"
		}
		writeError(w, http.StatusBadRequest, code, WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Submit(r.Context(), a, strings.TrimSpace(req.ActionID))
	switch {
	case err == nil:
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	case errors.Is(err, service.ErrInvalidAction):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	writeJSON(w, http.StatusOK, actionResponse{
		Status:   res.Status,
		Revision: res.Revision,
		State:    newStateView(res.State, h.deps.Now(), h.deps.CollectiblePrice()),
	})
}
