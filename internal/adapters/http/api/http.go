// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/okian/chongus/internal/adapters/repository"
	service "github.com/okian/chongus/internal/app"
	"github.com/okian/chongus/internal/domain/action"
	"github.com/okian/chongus/internal/domain/model"
)

const (
	defaultMaxContributorsLimit = 100
	defaultRateLimitRPS         = 50
	defaultRateLimitBurst       = 100
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ActionDependencies
	StateDependencies
	ContributorDependencies
}

// ActionDependencies submit actions for serialized application.
type ActionDependencies interface {
	Submit(ctx context.Context, a action.Action, actionID string) (service.Result, error)
	StateDependencies
}

// StateDependencies expose the published snapshot.
type StateDependencies interface {
	State() model.GameState
	Now() time.Time
	CollectiblePrice() float64
}

// ContributorDependencies expose the community contributor board.
type ContributorDependencies interface {
	TopContributors(ctx context.Context, n int) ([]repository.Entry, error)
	ContributorRank(ctx context.Context, name string) (repository.Entry, error)
}

// Option configures a Server.
type Option func(*Server)

// WithMaxContributorsLimit caps ?limit on the contributors endpoint.
func WithMaxContributorsLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxContributors = n
		}
	}
}

// WithRateLimit throttles POST /actions to rps with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 && burst > 0 {
			s.rateRPS = rps
			s.rateBurst = burst
		}
	}
}

// Server wires HTTP routes for the game API.
type Server struct {
	maxContributors int
	rateRPS         float64
	rateBurst       int

	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	stateHandler        *StateHandler
	actionsHandler      *ActionsHandler
	contributorsHandler *ContributorsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		maxContributors: defaultMaxContributorsLimit,
		rateRPS:         defaultRateLimitRPS,
		rateBurst:       defaultRateLimitBurst,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.stateHandler = NewStateHandler(deps)
	s.actionsHandler = NewActionsHandler(deps)
	s.contributorsHandler = NewContributorsHandler(deps, s.maxContributors)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	limited := RateLimitMiddleware(s.actionsHandler.HandlePostAction, s.rateRPS, s.rateBurst)

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/state", MetricsMiddleware(s.stateHandler.HandleGetState, "state"))
	mux.HandleFunc("/actions", MetricsMiddleware(limited, "actions"))
	mux.HandleFunc("/community/contributors", MetricsMiddleware(s.contributorsHandler.HandleGetContributors, "contributors"))
	mux.HandleFunc("/community/contributors/", MetricsMiddleware(s.contributorsHandler.HandleGetContributor, "contributor"))
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

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
