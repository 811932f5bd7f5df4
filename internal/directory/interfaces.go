// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package directory

import (
	"context"

	"github.com/canonical/tenant-proxy/internal/types"
)

type DirectoryInterface interface {
	// FindUserBySubject returns the user for an external subject, or nil when
	// no user record exists. Absence is not an error.
	FindUserBySubject(ctx context.Context, subject string) (*types.User, error)
	// EnsureUser returns the user for the subject, creating the user and a
	// personal tenant on first login. Idempotent; concurrent calls for the
	// same subject converge on one user and one tenant.
	EnsureUser(ctx context.Context, subject, email, name, application string) (*types.User, *types.Tenant, error)
	GetUser(ctx context.Context, id string) (*types.User, error)
	SetActiveTenant(ctx context.Context, userID, tenantID string) error

	GetTenant(ctx context.Context, id string) (*types.Tenant, error)
	CreateTenant(ctx context.Context, name, application, ownerID string) (*types.Tenant, error)
	DeleteTenant(ctx context.Context, id string) error
	ListUserTenants(ctx context.Context, userID string) ([]*types.Tenant, error)

	AddMember(ctx context.Context, tenantID, userID, role string) (*types.Tenant, error)
	RemoveMember(ctx context.Context, tenantID, userID string) (*types.Tenant, error)
	ChangeRole(ctx context.Context, tenantID, userID, role string) (*types.Tenant, error)

	// EnsureAdminMember adds the user to the shared administrators tenant,
	// creating that tenant on first use. Unconditional for admin-app callers.
	EnsureAdminMember(ctx context.Context, userID string) (*types.Tenant, error)
}
