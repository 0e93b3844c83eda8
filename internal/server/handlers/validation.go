package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"

	"github.com/goldenpath-systems/goldenpath/pkg/types"
)

// validateRequest is the POST /api/validate body. An empty or absent service
// list means validate everything.
type validateRequest struct {
	Services []types.ServiceType `json:"services,omitempty"`
}

// Validate runs golden-path validation and returns the full report.
func (h *Handlers) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	services := req.Services
	if len(services) == 0 {
		services = types.Services
	}
	for _, service := range services {
		if !slices.Contains(types.Services, service) {
			h.writeError(w, http.StatusBadRequest,
				fmt.Sprintf("unknown service type %q", service), nil)
			return
		}
	}

	report := h.engine.Validate(r.Context(), h.host, services)

	status := http.StatusOK
	if !report.OverallSuccess {
		status = http.StatusServiceUnavailable
	}
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		h.logger.Error("failed to encode validation report", "error", err)
	}
}

// ListRequirements returns the full requirement table.
func (h *Handlers) ListRequirements(w http.ResponseWriter, r *http.Request) {
	if err := json.NewEncoder(w).Encode(map[string]any{
		"requirements": h.registry.Requirements(),
	}); err != nil {
		h.logger.Error("failed to encode requirements", "error", err)
	}
}

// ListBreakers returns the current circuit breaker snapshots.
func (h *Handlers) ListBreakers(w http.ResponseWriter, r *http.Request) {
	if err := json.NewEncoder(w).Encode(map[string]any{
		"circuits": h.breakers.Snapshot(),
	}); err != nil {
		h.logger.Error("failed to encode breaker snapshots", "error", err)
	}
}

// Dependencies runs the startup dependency check and returns its report.
func (h *Handlers) Dependencies(w http.ResponseWriter, r *http.Request) {
	report := h.checker.ValidateServiceDependencies(r.Context())
	if err := json.NewEncoder(w).Encode(report); err != nil {
		h.logger.Error("failed to encode dependency report", "error", err)
	}
}
