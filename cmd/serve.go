// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/canonical/tenant-proxy/internal/config"
	"github.com/canonical/tenant-proxy/internal/couch"
	"github.com/canonical/tenant-proxy/internal/directory"
	"github.com/canonical/tenant-proxy/internal/logging"
	"github.com/canonical/tenant-proxy/internal/monitoring/prometheus"
	"github.com/canonical/tenant-proxy/internal/sessions"
	"github.com/canonical/tenant-proxy/internal/tracing"
	"github.com/canonical/tenant-proxy/pkg/authentication"
	"github.com/canonical/tenant-proxy/pkg/invitations"
	"github.com/canonical/tenant-proxy/pkg/proxy"
	"github.com/canonical/tenant-proxy/pkg/resolver"
	"github.com/canonical/tenant-proxy/pkg/rewriter"
	"github.com/canonical/tenant-proxy/pkg/tenant"
	"github.com/canonical/tenant-proxy/pkg/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve starts the web server",
	Long:  `Launch the proxy, list of environment variables is available in the readme`,
	Run: func(cmd *cobra.Command, args []string) {
		main()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	specs := new(config.EnvSpec)
	if err := envconfig.Process("", specs); err != nil {
		panic(fmt.Errorf("issues with environment sourcing: %s", err))
	}

	logger := logging.NewLogger(specs.LogLevel)
	logger.Debugf("env vars: %v", specs)
	defer logger.Sync()

	monitor := prometheus.NewMonitor("tenant-proxy", logger)
	tracer := tracing.NewTracer(tracing.NewConfig(specs.TracingEnabled, specs.OtelGRPCEndpoint, specs.OtelHTTPEndpoint, logger))

	store, err := couch.NewClient(specs.StoreURL, specs.StoreUser, specs.StorePassword, tracer, monitor, logger)
	if err != nil {
		return fmt.Errorf("failed to create store client: %v", err)
	}

	registry := directory.NewCachedDirectory(
		directory.NewDirectory(store, specs.RegistryDB, tracer, monitor, logger),
		specs.UserCacheTTL,
	)

	sessionCache := sessions.NewCache(specs.SessionCacheTTL, monitor, logger)

	verifier := authentication.NewTokenVerifier(
		specs.TrustedIssuers,
		specs.JWKSURLs,
		specs.SkipExpiryCheck,
		tracer,
		monitor,
		logger,
	)

	sessionResolver := resolver.NewResolver(
		registry,
		sessionCache,
		specs.AdminApps,
		specs.AdminSubjects,
		tracer,
		monitor,
		logger,
	)

	tenantRewriter := rewriter.NewRewriter(
		specs.TenantField,
		specs.ScopedIDTypes,
		specs.TenantEnforcement,
		tracer,
		monitor,
		logger,
	)
	if !specs.TenantEnforcement {
		logger.Security().EnforcementDisabled()
	}

	invitationService := invitations.NewService(
		store,
		specs.RegistryDB,
		registry,
		specs.InvitationLifetime,
		tracer,
		monitor,
		logger,
	)

	tenantService := tenant.NewService(
		registry,
		invitationService,
		sessionCache,
		tracer,
		monitor,
		logger,
	)
	tenantAPI := tenant.NewAPI(tenantService, tracer, monitor, logger)

	upstream, err := url.Parse(specs.StoreURL)
	if err != nil {
		return fmt.Errorf("invalid store URL: %v", err)
	}

	proxyAPI := proxy.NewAPI(
		proxy.Config{
			Upstream:       upstream,
			Username:       specs.StoreUser,
			Password:       specs.StorePassword,
			RegistryDB:     specs.RegistryDB,
			DataDBs:        specs.DataDBs,
			StoreTimeout:   specs.StoreTimeout,
			ChangesTimeout: specs.ChangesTimeout,
		},
		sessionResolver,
		tenantRewriter,
		tracer,
		monitor,
		logger,
	)

	router := web.NewRouter(verifier, tenantAPI, proxyAPI, store, tracer, monitor, logger)
	logger.Infof("Starting HTTP server on port %v", specs.Port)

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%v", specs.Port),
		WriteTimeout: time.Second * 60,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      router,
	}

	var serverError error
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	sweeper := time.NewTicker(specs.SessionCacheTTL)
	defer sweeper.Stop()
	go func() {
		for range sweeper.C {
			if swept := sessionCache.SweepExpired(); swept > 0 {
				logger.Debugf("swept %d expired sessions", swept)
			}
		}
	}()

	go func() {
		logger.Security().SystemStartup()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError = fmt.Errorf("server error: %w", err)
			c <- os.Interrupt
		}
	}()

	<-c

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Security().SystemShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		serverError = fmt.Errorf("server shutdown error: %w", err)
	}

	return serverError
}

func main() {
	if err := serve(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}
