// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	middleware "github.com/go-chi/chi/v5/middleware"

	"github.com/canonical/tenant-proxy/internal/logging"
	"github.com/canonical/tenant-proxy/internal/monitoring"
	"github.com/canonical/tenant-proxy/internal/tracing"
	"github.com/canonical/tenant-proxy/pkg/authentication"
	"github.com/canonical/tenant-proxy/pkg/metrics"
	"github.com/canonical/tenant-proxy/pkg/proxy"
	"github.com/canonical/tenant-proxy/pkg/status"
	"github.com/canonical/tenant-proxy/pkg/tenant"
)

func NewRouter(
	verifier authentication.TokenVerifierInterface,
	tenantAPI *tenant.API,
	proxyAPI *proxy.API,
	store status.PingInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) http.Handler {
	router := chi.NewMux()

	middlewares := make(chi.Middlewares, 0)
	middlewares = append(
		middlewares,
		middleware.RequestID,
		monitoring.NewMiddleware(monitor, logger).ResponseTime(),
		middlewareCORS([]string{"*"}),
	)

	router.Use(middlewares...)

	// Status and metrics stay reachable without a token so probes and
	// scrapers keep working when the IdP is down.
	metrics.NewAPI(logger).RegisterEndpoints(router)
	status.NewAPI(store, tracer, monitor, logger).RegisterEndpoints(router)

	authenticated := chi.NewMux()
	authenticated.Use(authentication.NewMiddleware(verifier, tracer, monitor, logger).Authenticate())
	tenantAPI.RegisterEndpoints(authenticated)
	proxyAPI.RegisterEndpoints(authenticated)

	router.Mount("/", authenticated)

	return tracing.NewMiddleware(monitor, logger).OpenTelemetry(router)
}
