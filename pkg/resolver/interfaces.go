// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package resolver

import (
	"context"

	"github.com/canonical/tenant-proxy/internal/sessions"
	"github.com/canonical/tenant-proxy/internal/types"
)

type DirectoryInterface interface {
	FindUserBySubject(ctx context.Context, subject string) (*types.User, error)
	EnsureUser(ctx context.Context, subject, email, name, application string) (*types.User, *types.Tenant, error)
	ListUserTenants(ctx context.Context, userID string) ([]*types.Tenant, error)
	EnsureAdminMember(ctx context.Context, userID string) (*types.Tenant, error)
}

type SessionCacheInterface interface {
	Get(sessionID string) (sessions.Resolution, bool)
	Put(sessionID string, resolution sessions.Resolution)
	Invalidate(sessionID string)
}
