// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package resolver maps a verified token to the tenant its request runs
// under. The chain is: session cache, the user's active tenant, the user's
// earliest tenant, and finally first-login auto-creation.
package resolver

import (
	"context"
	"errors"
	"slices"

	"github.com/canonical/tenant-proxy/internal/logging"
	"github.com/canonical/tenant-proxy/internal/monitoring"
	"github.com/canonical/tenant-proxy/internal/sessions"
	"github.com/canonical/tenant-proxy/internal/tracing"
	"github.com/canonical/tenant-proxy/internal/types"
)

// ErrResolutionExhausted means every step of the discovery chain came up
// empty. Auto-creation makes the final step infallible for healthy stores, so
// seeing this error indicates a directory defect, not a user mistake.
var ErrResolutionExhausted = errors.New("tenant resolution exhausted")

type Resolver struct {
	directory DirectoryInterface
	cache     SessionCacheInterface

	adminApps     []string
	adminSubjects []string

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewResolver(
	directory DirectoryInterface,
	cache SessionCacheInterface,
	adminApps []string,
	adminSubjects []string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Resolver {
	return &Resolver{
		directory:     directory,
		cache:         cache,
		adminApps:     adminApps,
		adminSubjects: adminSubjects,
		tracer:        tracer,
		monitor:       monitor,
		logger:        logger,
	}
}

// Resolve returns the resolution for a verified token's claims. Successful
// resolutions are cached under the token's session ID so repeat requests for
// the session's lifetime skip the directory entirely.
func (r *Resolver) Resolve(ctx context.Context, claims *types.Claims) (sessions.Resolution, error) {
	ctx, span := r.tracer.Start(ctx, "resolver.Resolver.Resolve")
	defer span.End()

	if claims.SessionID != "" {
		if resolution, ok := r.cache.Get(claims.SessionID); ok {
			return resolution, nil
		}
	}

	resolution, err := r.resolve(ctx, claims)
	if err != nil {
		return sessions.Resolution{}, err
	}

	if claims.SessionID != "" {
		r.cache.Put(claims.SessionID, resolution)
	}

	return resolution, nil
}

func (r *Resolver) resolve(ctx context.Context, claims *types.Claims) (sessions.Resolution, error) {
	if r.isAdmin(claims) {
		return r.resolveAdmin(ctx, claims)
	}

	user, err := r.directory.FindUserBySubject(ctx, claims.Subject)
	if err != nil {
		return sessions.Resolution{}, err
	}

	if user != nil {
		if user.ActiveTenant != "" {
			return sessions.Resolution{UserID: user.ID, TenantID: user.ActiveTenant}, nil
		}

		tenants, err := r.directory.ListUserTenants(ctx, user.ID)
		if err != nil {
			return sessions.Resolution{}, err
		}
		if len(tenants) > 0 {
			// ListUserTenants orders by creation time with the ID as
			// tiebreak, so the selection is stable across calls.
			return sessions.Resolution{UserID: user.ID, TenantID: tenants[0].ID}, nil
		}
	}

	user, tenant, err := r.directory.EnsureUser(ctx, claims.Subject, claims.Email, claims.Name, claims.Application)
	if err != nil {
		return sessions.Resolution{}, err
	}
	if user == nil || tenant == nil {
		return sessions.Resolution{}, ErrResolutionExhausted
	}

	r.logger.Infof("auto-created tenant %s for new user %s", tenant.ID, user.ID)
	return sessions.Resolution{UserID: user.ID, TenantID: tenant.ID}, nil
}

// resolveAdmin routes admin-app callers into the shared administrators
// tenant, enrolling them on first contact.
func (r *Resolver) resolveAdmin(ctx context.Context, claims *types.Claims) (sessions.Resolution, error) {
	user, _, err := r.directory.EnsureUser(ctx, claims.Subject, claims.Email, claims.Name, claims.Application)
	if err != nil {
		return sessions.Resolution{}, err
	}

	tenant, err := r.directory.EnsureAdminMember(ctx, user.ID)
	if err != nil {
		return sessions.Resolution{}, err
	}

	return sessions.Resolution{UserID: user.ID, TenantID: tenant.ID, Admin: true}, nil
}

func (r *Resolver) isAdmin(claims *types.Claims) bool {
	return (claims.Application != "" && slices.Contains(r.adminApps, claims.Application)) ||
		slices.Contains(r.adminSubjects, claims.Subject)
}

// Invalidate drops the cached resolution for a session, forcing the next
// request back through the chain. Called when the user switches tenants.
func (r *Resolver) Invalidate(sessionID string) {
	if sessionID != "" {
		r.cache.Invalidate(sessionID)
	}
}
