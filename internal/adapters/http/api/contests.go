// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/arena/internal/domain/model"
)

// ContestsHandler handles contest lifecycle requests.
type ContestsHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewContestsHandler creates a new contests handler.
func NewContestsHandler(deps Dependencies, maxLimit int) *ContestsHandler {
	return &ContestsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleContests handles the /contests collection:
//
//	POST /contests            -> create a contest
//	GET  /contests            -> list contests (?status=, ?limit=)
//	GET  /contests?active=true -> contests whose window is open
func (h *ContestsHandler) HandleContests(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *ContestsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createContestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	id, err := h.deps.CreateContest(r.Context(), req.Name, req.StartTime, req.EndTime, req.Metric, req.MinSignals, req.PrizePool)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createContestResponse{ContestID: id})
}

func (h *ContestsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("active") == "true" {
		contests, err := h.deps.ActiveContests(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, contests)
		return
	}

	var status *model.Status
	if v := q.Get("status"); v != "" {
		parsed, err := model.ParseStatus(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		status = &parsed
	}

	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		limit = n
	}

	contests, err := h.deps.ListContests(r.Context(), status, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contests)
}

// HandleContest handles the /contests/{id}/... subresources:
//
//	GET  /contests/{id}
//	POST /contests/{id}/signals
//	POST /contests/{id}/finalize
//	GET  /contests/{id}/leaderboard?limit=N
//	GET  /contests/{id}/winners
//	GET  /contests/{id}/prizes/{provider}
func (h *ContestsHandler) HandleContest(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/contests/")
	parts := strings.Split(path, "/")

	contestID, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch {
	case len(parts) == 1:
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		h.handleGet(w, r, contestID)
	case len(parts) == 2 && parts[1] == "signals":
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		h.handleSubmit(w, r, contestID)
	case len(parts) == 2 && parts[1] == "finalize":
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		h.handleFinalize(w, r, contestID)
	case len(parts) == 2 && parts[1] == "leaderboard":
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		h.handleLeaderboard(w, r, contestID)
	case len(parts) == 2 && parts[1] == "winners":
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		h.handleWinners(w, r, contestID)
	case len(parts) == 3 && parts[1] == "prizes":
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		h.handlePrize(w, r, contestID, parts[2])
	default:
		http.NotFound(w, r)
	}
}

func (h *ContestsHandler) handleGet(w http.ResponseWriter, r *http.Request, contestID uint64) {
	contest, err := h.deps.GetContest(r.Context(), contestID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contest)
}

func (h *ContestsHandler) handleSubmit(w http.ResponseWriter, r *http.Request, contestID uint64) {
	var req submitSignalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	sub := model.Submission{
		ContestID:    contestID,
		Provider:     req.Provider,
		SignalID:     req.SignalID,
		ROI:          req.ROI,
		Volume:       req.Volume,
		IsSuccessful: req.IsSuccessful,
	}
	if err := h.deps.SubmitSignal(r.Context(), sub); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "accepted"})
}

func (h *ContestsHandler) handleFinalize(w http.ResponseWriter, r *http.Request, contestID uint64) {
	winners, err := h.deps.FinalizeContest(r.Context(), contestID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, finalizeResponse{ContestID: contestID, Winners: winners})
}

func (h *ContestsHandler) handleLeaderboard(w http.ResponseWriter, r *http.Request, contestID uint64) {
	limitStr := r.URL.Query().Get("limit")
	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", ErrBadRequest)
		return
	}
	entries, err := h.deps.Leaderboard(r.Context(), contestID, n)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *ContestsHandler) handleWinners(w http.ResponseWriter, r *http.Request, contestID uint64) {
	winners, err := h.deps.Winners(r.Context(), contestID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, winnersResponse{ContestID: contestID, Winners: winners})
}

func (h *ContestsHandler) handlePrize(w http.ResponseWriter, r *http.Request, contestID uint64, provider string) {
	amount, err := h.deps.Prize(r.Context(), contestID, provider)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prizeResponse{ContestID: contestID, Provider: provider, Amount: amount})
}
