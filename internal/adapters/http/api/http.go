// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"strings"

	"github.com/okian/arena/internal/app"
	"github.com/okian/arena/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CreateContest(ctx context.Context, name string, startTime, endTime uint64, metric model.Metric, minSignals uint32, prizePool *big.Int) (uint64, error)
	GetContest(ctx context.Context, contestID uint64) (*model.Contest, error)
	ListContests(ctx context.Context, status *model.Status, limit int) ([]*model.Contest, error)
	ActiveContests(ctx context.Context) ([]*model.Contest, error)
	SubmitSignal(ctx context.Context, sub model.Submission) error
	FinalizeContest(ctx context.Context, contestID uint64) ([]string, error)
	Leaderboard(ctx context.Context, contestID uint64, limit int) ([]*model.ContestEntry, error)
	Winners(ctx context.Context, contestID uint64) ([]string, error)
	Prize(ctx context.Context, contestID uint64, provider string) (*big.Int, error)
	GetProviderStats(ctx context.Context, provider string) (model.ProviderStats, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	contestsHandler  *ContestsHandler
	providersHandler *ProvidersHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		contestsHandler:  NewContestsHandler(deps, maxLeaderboardLimit),
		providersHandler: NewProvidersHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/contests", MetricsMiddleware(IdentityMiddleware(s.contestsHandler.HandleContests), "contests"))
	mux.HandleFunc("/contests/", MetricsMiddleware(IdentityMiddleware(s.contestsHandler.HandleContest), "contest"))
	mux.HandleFunc("/providers/", MetricsMiddleware(s.providersHandler.HandleProvider, "providers"))
}

// createContestRequest mirrors the OpenAPI schema for POST /contests.
type createContestRequest struct {
	Name       string       `json:"name"`
	StartTime  uint64       `json:"start_time"`
	EndTime    uint64       `json:"end_time"`
	Metric     model.Metric `json:"metric"`
	MinSignals uint32       `json:"min_signals"`
	PrizePool  *big.Int     `json:"prize_pool"`
}

func (c createContestRequest) validate() error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return errors.New("missing name")
	case c.PrizePool == nil:
		return errors.New("missing prize_pool")
	}
	return nil
}

// submitSignalRequest mirrors the OpenAPI schema for POST signals.
type submitSignalRequest struct {
	Provider     string   `json:"provider"`
	SignalID     uint64   `json:"signal_id"`
	ROI          *big.Int `json:"roi"`
	Volume       *big.Int `json:"volume"`
	IsSuccessful bool     `json:"is_successful"`
}

func (r submitSignalRequest) validate() error {
	switch {
	case strings.TrimSpace(r.Provider) == "":
		return errors.New("missing provider")
	case r.ROI == nil:
		return errors.New("missing roi")
	case r.Volume == nil:
		return errors.New("missing volume")
	}
	return nil
}

type createContestResponse struct {
	ContestID uint64 `json:"contest_id"`
}

type finalizeResponse struct {
	ContestID uint64   `json:"contest_id"`
	Winners   []string `json:"winners"`
}

type winnersResponse struct {
	ContestID uint64   `json:"contest_id"`
	Winners   []string `json:"winners"`
}

type prizeResponse struct {
	ContestID uint64   `json:"contest_id"`
	Provider  string   `json:"provider"`
	Amount    *big.Int `json:"amount"`
}

type ackResponse struct {
	Status string `json:"status"`
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

// writeDomainError translates service sentinel errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, app.ErrInvalidState):
		writeError(w, http.StatusConflict, "invalid_state", err)
	case errors.Is(err, app.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
