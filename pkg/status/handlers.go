// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package status

import (
	"context"
	"encoding/json"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/canonical/tenant-proxy/internal/logging"
	"github.com/canonical/tenant-proxy/internal/monitoring"
	"github.com/canonical/tenant-proxy/internal/tracing"
	"github.com/canonical/tenant-proxy/internal/version"
)

type PingInterface interface {
	Ping(ctx context.Context) error
	AllDBs(ctx context.Context) ([]string, error)
}

type API struct {
	store PingInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewAPI(store PingInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	return &API{
		store:   store,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Get("/api/v0/status", a.alive)
	mux.Get("/api/v0/deep_check", a.deepCheck)
	mux.Get("/api/v0/version", a.version)
}

func (a *API) alive(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
	})
}

// deepCheck verifies the document store is reachable before reporting
// healthy. Load balancers should use /status; this one is for readiness.
func (a *API) deepCheck(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "status.API.deepCheck")
	defer span.End()

	if err := a.store.Ping(ctx); err != nil {
		a.logger.Errorf("store ping failed: %v", err)
		a.writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unavailable",
			"reason": "document store unreachable",
		})
		return
	}

	dbs, err := a.store.AllDBs(ctx)
	if err != nil {
		a.logger.Errorf("store inventory failed: %v", err)
		a.writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unavailable",
			"reason": "database inventory unreachable",
		})
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"databases": len(dbs),
	})
}

func (a *API) version(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"version": version.Version,
	})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Errorf("failed to encode response: %v", err)
	}
}
