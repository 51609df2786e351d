// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"
)

// ProvidersHandler handles provider statistic requests.
type ProvidersHandler struct {
	deps Dependencies
}

// NewProvidersHandler creates a new providers handler.
func NewProvidersHandler(deps Dependencies) *ProvidersHandler {
	return &ProvidersHandler{deps: deps}
}

// HandleProvider handles GET /providers/{provider}/stats requests.
func (h *ProvidersHandler) HandleProvider(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/providers/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "stats" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	stats, err := h.deps.GetProviderStats(r.Context(), parts[0])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
