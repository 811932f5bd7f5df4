// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"context"

	"github.com/canonical/tenant-proxy/internal/types"
)

type DirectoryInterface interface {
	GetUser(ctx context.Context, id string) (*types.User, error)
	GetTenant(ctx context.Context, id string) (*types.Tenant, error)
	CreateTenant(ctx context.Context, name, application, ownerID string) (*types.Tenant, error)
	DeleteTenant(ctx context.Context, id string) error
	ListUserTenants(ctx context.Context, userID string) ([]*types.Tenant, error)
	SetActiveTenant(ctx context.Context, userID, tenantID string) error
	AddMember(ctx context.Context, tenantID, userID, role string) (*types.Tenant, error)
	RemoveMember(ctx context.Context, tenantID, userID string) (*types.Tenant, error)
	ChangeRole(ctx context.Context, tenantID, userID, role string) (*types.Tenant, error)
}

type InvitationsInterface interface {
	Create(ctx context.Context, tenantID, email, role, createdBy string) (string, *types.Invitation, error)
	Accept(ctx context.Context, token, userID string) (*types.Invitation, error)
	Revoke(ctx context.Context, invitationID string) error
	List(ctx context.Context, tenantID string) ([]*types.Invitation, error)
}

// SessionInvalidatorInterface drops a session's cached tenant resolution so
// the next request observes a tenant switch immediately.
type SessionInvalidatorInterface interface {
	Invalidate(sessionID string)
}

type ServiceInterface interface {
	CreateWorkspace(ctx context.Context, name, application, ownerID string) (*types.Tenant, error)
	ListMyWorkspaces(ctx context.Context, userID string) ([]*types.Tenant, error)
	GetWorkspace(ctx context.Context, tenantID, callerID string) (*types.Tenant, error)
	DeleteWorkspace(ctx context.Context, tenantID, callerID string) error
	SwitchWorkspace(ctx context.Context, userID, tenantID, sessionID string) error

	AddMember(ctx context.Context, tenantID, callerID, userID, role string) (*types.Tenant, error)
	RemoveMember(ctx context.Context, tenantID, callerID, userID string) (*types.Tenant, error)
	ChangeRole(ctx context.Context, tenantID, callerID, userID, role string) (*types.Tenant, error)

	Invite(ctx context.Context, tenantID, callerID, email, role string) (string, *types.Invitation, error)
	AcceptInvitation(ctx context.Context, token, userID string) (*types.Invitation, error)
	RevokeInvitation(ctx context.Context, tenantID, callerID, invitationID string) error
	ListInvitations(ctx context.Context, tenantID, callerID string) ([]*types.Invitation, error)
}
