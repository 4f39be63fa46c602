package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/chongus/internal/adapters/repository"
	service "github.com/okian/chongus/internal/app"
)

const defaultContributorsLimit = 5

// ContributorsHandler serves the community contributor board.
type ContributorsHandler struct {
	deps     ContributorDependencies
	maxLimit int
}

// NewContributorsHandler creates a new contributors handler.
func NewContributorsHandler(deps ContributorDependencies, maxLimit int) *ContributorsHandler {
	return &ContributorsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetContributors handles GET /community/contributors?limit=N requests.
// Without a limit the top five are returned.
func (h *ContributorsHandler) HandleGetContributors(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_contributors"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	n := defaultContributorsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		n = v
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}

	rows, err := h.deps.TopContributors(r.Context(), n)
	if err != nil {
		h.fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleGetContributor handles GET /community/contributors/{name} requests.
func (h *ContributorsHandler) HandleGetContributor(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_contributor"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/community/contributors/")
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	row, err := h.deps.ContributorRank(r.Context(), name)
	if err != nil {
		h.fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *ContributorsHandler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, repository.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
