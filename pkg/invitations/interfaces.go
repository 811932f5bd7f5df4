// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package invitations

import (
	"context"

	"github.com/canonical/tenant-proxy/internal/types"
)

type DirectoryInterface interface {
	GetTenant(ctx context.Context, id string) (*types.Tenant, error)
	AddMember(ctx context.Context, tenantID, userID, role string) (*types.Tenant, error)
}

type ServiceInterface interface {
	// Create issues an invitation and returns the plaintext token exactly
	// once; only its hash is stored.
	Create(ctx context.Context, tenantID, email, role, createdBy string) (string, *types.Invitation, error)
	// Validate checks a plaintext token and returns the invitation it names.
	// Every failure collapses to ErrInvitationInvalid.
	Validate(ctx context.Context, token string) (*types.Invitation, error)
	// Accept consumes an invitation for a user, recording the membership it
	// grants. Single use.
	Accept(ctx context.Context, token, userID string) (*types.Invitation, error)
	// Revoke withdraws a pending invitation. Idempotent; never un-accepts.
	Revoke(ctx context.Context, invitationID string) error
	// List returns the invitations issued for a tenant.
	List(ctx context.Context, tenantID string) ([]*types.Invitation, error)
}
