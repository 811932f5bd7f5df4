// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package tenant is the management surface for workspaces: creation, member
// administration, invitations and active-workspace switching.
package tenant

import (
	"context"
	"errors"

	"github.com/canonical/tenant-proxy/internal/directory"
	"github.com/canonical/tenant-proxy/internal/logging"
	"github.com/canonical/tenant-proxy/internal/monitoring"
	"github.com/canonical/tenant-proxy/internal/tracing"
	"github.com/canonical/tenant-proxy/internal/types"
)

// ErrForbidden means the caller lacks the role the operation requires.
var ErrForbidden = errors.New("caller is not allowed to administer this workspace")

var _ ServiceInterface = (*Service)(nil)

type Service struct {
	directory   DirectoryInterface
	invitations InvitationsInterface
	sessions    SessionInvalidatorInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(
	dir DirectoryInterface,
	invitations InvitationsInterface,
	sessions SessionInvalidatorInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		directory:   dir,
		invitations: invitations,
		sessions:    sessions,
		tracer:      tracer,
		monitor:     monitor,
		logger:      logger,
	}
}

func (s *Service) CreateWorkspace(ctx context.Context, name, application, ownerID string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.CreateWorkspace")
	defer span.End()

	return s.directory.CreateTenant(ctx, name, application, ownerID)
}

func (s *Service) ListMyWorkspaces(ctx context.Context, userID string) ([]*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.ListMyWorkspaces")
	defer span.End()

	return s.directory.ListUserTenants(ctx, userID)
}

// GetWorkspace returns a workspace the caller can read. Read access accepts
// membership recorded on either document.
func (s *Service) GetWorkspace(ctx context.Context, tenantID, callerID string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.GetWorkspace")
	defer span.End()

	caller, tenant, err := s.load(ctx, tenantID, callerID)
	if err != nil {
		return nil, err
	}
	if !directory.MemberForRead(caller, tenant) {
		return nil, directory.ErrNotMember
	}

	return tenant, nil
}

func (s *Service) DeleteWorkspace(ctx context.Context, tenantID, callerID string) error {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.DeleteWorkspace")
	defer span.End()

	_, tenant, err := s.authorizeAdmin(ctx, tenantID, callerID)
	if err != nil {
		return err
	}
	if tenant.Owner != callerID {
		return ErrForbidden
	}

	return s.directory.DeleteTenant(ctx, tenantID)
}

// SwitchWorkspace updates the caller's active workspace and drops the
// session's cached resolution so the switch takes effect on the next request.
func (s *Service) SwitchWorkspace(ctx context.Context, userID, tenantID, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.SwitchWorkspace")
	defer span.End()

	if err := s.directory.SetActiveTenant(ctx, userID, tenantID); err != nil {
		return err
	}

	s.sessions.Invalidate(sessionID)
	return nil
}

func (s *Service) AddMember(ctx context.Context, tenantID, callerID, userID, role string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.AddMember")
	defer span.End()

	if _, _, err := s.authorizeAdmin(ctx, tenantID, callerID); err != nil {
		return nil, err
	}

	return s.directory.AddMember(ctx, tenantID, userID, role)
}

func (s *Service) RemoveMember(ctx context.Context, tenantID, callerID, userID string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.RemoveMember")
	defer span.End()

	// Leaving a workspace needs no admin role; removing someone else does.
	if callerID != userID {
		if _, _, err := s.authorizeAdmin(ctx, tenantID, callerID); err != nil {
			return nil, err
		}
	}

	return s.directory.RemoveMember(ctx, tenantID, userID)
}

func (s *Service) ChangeRole(ctx context.Context, tenantID, callerID, userID, role string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.ChangeRole")
	defer span.End()

	if _, _, err := s.authorizeAdmin(ctx, tenantID, callerID); err != nil {
		return nil, err
	}

	return s.directory.ChangeRole(ctx, tenantID, userID, role)
}

// Invite issues an invitation token for a workspace. The returned plaintext
// token is shown to the caller exactly once.
func (s *Service) Invite(ctx context.Context, tenantID, callerID, email, role string) (string, *types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.Invite")
	defer span.End()

	if _, _, err := s.authorizeAdmin(ctx, tenantID, callerID); err != nil {
		return "", nil, err
	}

	return s.invitations.Create(ctx, tenantID, email, role, callerID)
}

func (s *Service) AcceptInvitation(ctx context.Context, token, userID string) (*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.AcceptInvitation")
	defer span.End()

	return s.invitations.Accept(ctx, token, userID)
}

func (s *Service) RevokeInvitation(ctx context.Context, tenantID, callerID, invitationID string) error {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.RevokeInvitation")
	defer span.End()

	if _, _, err := s.authorizeAdmin(ctx, tenantID, callerID); err != nil {
		return err
	}

	return s.invitations.Revoke(ctx, invitationID)
}

func (s *Service) ListInvitations(ctx context.Context, tenantID, callerID string) ([]*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.ListInvitations")
	defer span.End()

	if _, _, err := s.authorizeAdmin(ctx, tenantID, callerID); err != nil {
		return nil, err
	}

	return s.invitations.List(ctx, tenantID)
}

// authorizeAdmin loads the caller and tenant and requires write-grade
// membership (both documents agree) with an owner or admin role.
func (s *Service) authorizeAdmin(ctx context.Context, tenantID, callerID string) (*types.User, *types.Tenant, error) {
	caller, tenant, err := s.load(ctx, tenantID, callerID)
	if err != nil {
		return nil, nil, err
	}

	if !directory.MemberForWrite(caller, tenant) {
		return nil, nil, directory.ErrNotMember
	}

	switch directory.RoleOf(caller, tenantID) {
	case types.RoleOwner, types.RoleAdmin:
		return caller, tenant, nil
	}

	s.logger.Security().AuthzFailure(callerID, "workspace_admin")
	return nil, nil, ErrForbidden
}

func (s *Service) load(ctx context.Context, tenantID, callerID string) (*types.User, *types.Tenant, error) {
	caller, err := s.directory.GetUser(ctx, callerID)
	if err != nil {
		return nil, nil, err
	}
	tenant, err := s.directory.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, nil, err
	}
	return caller, tenant, nil
}
