// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package invitations manages tenant membership invitations. Tokens are
// random, stored only as hashes, single use, and every validation failure
// looks identical to the caller.
package invitations

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/canonical/tenant-proxy/internal/couch"
	"github.com/canonical/tenant-proxy/internal/logging"
	"github.com/canonical/tenant-proxy/internal/monitoring"
	"github.com/canonical/tenant-proxy/internal/tracing"
	"github.com/canonical/tenant-proxy/internal/types"
)

// ErrInvitationInvalid is the only error callers see for a bad token. Expired,
// revoked, already accepted and unknown all collapse into it so the response
// does not leak which condition applied.
var ErrInvitationInvalid = errors.New("invitation invalid")

const (
	invitationPrefix  = "invitation_"
	docTypeInvitation = "invitation"

	tokenBytes = 32
)

var _ ServiceInterface = (*Service)(nil)

type Service struct {
	store      couch.DocStoreInterface
	registryDB string
	directory  DirectoryInterface

	lifetime time.Duration
	clock    clock.Clock

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(
	store couch.DocStoreInterface,
	registryDB string,
	directory DirectoryInterface,
	lifetime time.Duration,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return newService(store, registryDB, directory, lifetime, clock.New(), tracer, monitor, logger)
}

func newService(
	store couch.DocStoreInterface,
	registryDB string,
	directory DirectoryInterface,
	lifetime time.Duration,
	clk clock.Clock,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		store:      store,
		registryDB: registryDB,
		directory:  directory,
		lifetime:   lifetime,
		clock:      clk,
		tracer:     tracer,
		monitor:    monitor,
		logger:     logger,
	}
}

// Create issues an invitation to a tenant. The plaintext token is returned to
// the caller exactly once and never stored.
func (s *Service) Create(ctx context.Context, tenantID, email, role, createdBy string) (string, *types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "invitations.Service.Create")
	defer span.End()

	tenant, err := s.directory.GetTenant(ctx, tenantID)
	if err != nil {
		return "", nil, err
	}
	if tenant.DeletedAt != nil {
		return "", nil, fmt.Errorf("tenant %s is deleted", tenantID)
	}

	token, hash, err := newToken()
	if err != nil {
		return "", nil, err
	}

	now := s.clock.Now().UTC()
	invitation := &types.Invitation{
		ID:         invitationPrefix + hash,
		Type:       docTypeInvitation,
		TenantID:   tenantID,
		TenantName: tenant.Name,
		Email:      email,
		Role:       role,
		CreatedBy:  createdBy,
		TokenHash:  hash,
		Status:     types.InvitationPending,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.lifetime),
	}

	rev, err := s.store.PutDoc(ctx, s.registryDB, invitation.ID, invitation)
	if err != nil {
		return "", nil, err
	}
	invitation.Rev = rev

	s.logger.Infof("invitation %s created for tenant %s", invitation.ID, tenantID)
	return token, invitation, nil
}

// Validate checks a plaintext token without consuming it.
func (s *Service) Validate(ctx context.Context, token string) (*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "invitations.Service.Validate")
	defer span.End()

	return s.validate(ctx, token)
}

func (s *Service) validate(ctx context.Context, token string) (*types.Invitation, error) {
	hash := hashToken(token)

	var invitation types.Invitation
	if err := s.store.GetDoc(ctx, s.registryDB, invitationPrefix+hash, &invitation); err != nil {
		s.logger.Debugf("invitation lookup failed: %v", err)
		return nil, ErrInvitationInvalid
	}

	// The document ID already derives from the token hash; the explicit
	// constant-time comparison keeps the check independent of lookup behavior.
	if subtle.ConstantTimeCompare([]byte(hash), []byte(invitation.TokenHash)) != 1 {
		return nil, ErrInvitationInvalid
	}

	if invitation.Status != types.InvitationPending {
		return nil, ErrInvitationInvalid
	}
	if !s.clock.Now().Before(invitation.ExpiresAt) {
		return nil, ErrInvitationInvalid
	}

	return &invitation, nil
}

// Accept consumes an invitation for a user. The status flips first through
// the revision-guarded write, so of two racing accepts exactly one proceeds
// to grant membership; the loser's write conflicts and it stops before
// touching the tenant.
func (s *Service) Accept(ctx context.Context, token, userID string) (*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "invitations.Service.Accept")
	defer span.End()

	invitation, err := s.validate(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	invitation.Status = types.InvitationAccepted
	invitation.AcceptedAt = &now
	invitation.AcceptedBy = userID

	rev, err := s.store.PutDoc(ctx, s.registryDB, invitation.ID, invitation)
	if err != nil {
		// A conflict means a concurrent accept won; single use holds.
		s.logger.Debugf("invitation %s status write failed: %v", invitation.ID, err)
		return nil, ErrInvitationInvalid
	}
	invitation.Rev = rev

	if _, err := s.directory.AddMember(ctx, invitation.TenantID, userID, invitation.Role); err != nil {
		// The token is consumed either way; accepted_by records who the
		// idempotent membership write can be replayed for.
		s.logger.Errorf("invitation %s accepted but membership write failed: %v", invitation.ID, err)
		return nil, err
	}

	s.logger.Infof("invitation %s accepted by %s", invitation.ID, userID)
	return invitation, nil
}

// Revoke withdraws a pending invitation. Revoking again is a no-op and an
// accepted invitation stays accepted; neither reports an error.
func (s *Service) Revoke(ctx context.Context, invitationID string) error {
	ctx, span := s.tracer.Start(ctx, "invitations.Service.Revoke")
	defer span.End()

	var invitation types.Invitation
	if err := s.store.GetDoc(ctx, s.registryDB, invitationID, &invitation); err != nil {
		return ErrInvitationInvalid
	}
	if invitation.Status != types.InvitationPending {
		return nil
	}

	invitation.Status = types.InvitationRevoked
	if _, err := s.store.PutDoc(ctx, s.registryDB, invitation.ID, &invitation); err != nil {
		return ErrInvitationInvalid
	}

	return nil
}

// List returns all invitations issued for a tenant.
func (s *Service) List(ctx context.Context, tenantID string) ([]*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "invitations.Service.List")
	defer span.End()

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"type":      docTypeInvitation,
			"tenant_id": tenantID,
		},
	}

	docs, err := s.store.Find(ctx, s.registryDB, query)
	if err != nil {
		return nil, err
	}

	invitations := make([]*types.Invitation, 0, len(docs))
	for _, doc := range docs {
		var invitation types.Invitation
		if err := json.Unmarshal(doc, &invitation); err != nil {
			return nil, fmt.Errorf("failed to decode invitation: %w", err)
		}
		invitations = append(invitations, &invitation)
	}

	return invitations, nil
}

func newToken() (string, string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("failed to generate invitation token: %w", err)
	}

	token := base64.RawURLEncoding.EncodeToString(raw)
	return token, hashToken(token), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
