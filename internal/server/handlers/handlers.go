// Package handlers implements HTTP request handlers for the Golden Path API.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/goldenpath-systems/goldenpath/internal/breaker"
	"github.com/goldenpath-systems/goldenpath/internal/probe"
	"github.com/goldenpath-systems/goldenpath/internal/registry"
	"github.com/goldenpath-systems/goldenpath/internal/startup"
	"github.com/goldenpath-systems/goldenpath/internal/validator"
	"github.com/goldenpath-systems/goldenpath/pkg/types"
)

// Handlers contains all HTTP handler dependencies.
type Handlers struct {
	engine      *validator.Engine
	registry    *registry.Registry
	host        *probe.Host
	breakers    *breaker.Store
	checker     startup.Checker
	environment types.EnvironmentType
	logger      *slog.Logger
}

// New creates a new Handlers instance.
func New(
	eng *validator.Engine,
	reg *registry.Registry,
	host *probe.Host,
	breakers *breaker.Store,
	checker startup.Checker,
	environment types.EnvironmentType,
) *Handlers {
	return &Handlers{
		engine:      eng,
		registry:    reg,
		host:        host,
		breakers:    breakers,
		checker:     checker,
		environment: environment,
		logger:      slog.Default(),
	}
}

// SetLogger overrides the default logger.
func (h *Handlers) SetLogger(l *slog.Logger) {
	if l != nil {
		h.logger = l
	}
}

// writeError logs the internal error and returns a sanitized JSON error to the client.
func (h *Handlers) writeError(w http.ResponseWriter, status int, msg string, err error) {
	if err != nil {
		h.logger.Error(msg, "error", err, "status", status)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
