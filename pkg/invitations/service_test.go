// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package invitations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/canonical/tenant-proxy/internal/couch"
	"github.com/canonical/tenant-proxy/internal/logging"
	"github.com/canonical/tenant-proxy/internal/monitoring"
	"github.com/canonical/tenant-proxy/internal/tracing"
	"github.com/canonical/tenant-proxy/internal/types"
)

const testLifetime = 168 * time.Hour

// fakeStore is a minimal in-memory document store with revision-guarded
// writes. Invitation flows are stateful (create then accept then re-accept),
// which a plain mock expresses poorly.
type fakeStore struct {
	docs map[string]json.RawMessage
	revs map[string]int

	// beforePut runs ahead of a write, letting a test interleave a competing
	// writer inside the read-then-write window.
	beforePut func(id string)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs: make(map[string]json.RawMessage),
		revs: make(map[string]int),
	}
}

func (f *fakeStore) GetDoc(ctx context.Context, db, id string, out interface{}) error {
	doc, ok := f.docs[id]
	if !ok {
		return couch.ErrNotFound
	}
	return json.Unmarshal(doc, out)
}

func (f *fakeStore) PutDoc(ctx context.Context, db, id string, doc interface{}) (string, error) {
	if f.beforePut != nil {
		hook := f.beforePut
		f.beforePut = nil
		hook(id)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}

	var meta struct {
		Rev string `json:"_rev"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return "", err
	}

	current := f.revs[id]
	if current > 0 && meta.Rev != fakeRev(current) {
		return "", couch.ErrConflict
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", err
	}
	rev := fakeRev(current + 1)
	fields["_rev"] = rev
	raw, err = json.Marshal(fields)
	if err != nil {
		return "", err
	}

	f.docs[id] = raw
	f.revs[id] = current + 1
	return rev, nil
}

func fakeRev(n int) string {
	return fmt.Sprintf("%d-fake", n)
}

func (f *fakeStore) DeleteDoc(ctx context.Context, db, id, rev string) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeStore) Find(ctx context.Context, db string, query interface{}) ([]json.RawMessage, error) {
	var docs []json.RawMessage
	for _, doc := range f.docs {
		docs = append(docs, doc)
	}
	return docs, nil
}

func (f *fakeStore) Ping(ctx context.Context) error {
	return nil
}

type fakeDirectory struct {
	tenant     *types.Tenant
	addedRoles map[string]string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		tenant:     &types.Tenant{ID: "tenant_x", Name: "Team X", Owner: "user_owner", Members: []string{"user_owner"}},
		addedRoles: make(map[string]string),
	}
}

func (f *fakeDirectory) GetTenant(ctx context.Context, id string) (*types.Tenant, error) {
	return f.tenant, nil
}

func (f *fakeDirectory) AddMember(ctx context.Context, tenantID, userID, role string) (*types.Tenant, error) {
	f.addedRoles[userID] = role
	return f.tenant, nil
}

func newTestService() (*Service, *fakeStore, *fakeDirectory, *clock.Mock) {
	store := newFakeStore()
	directory := newFakeDirectory()
	mockClock := clock.NewMock()
	s := newService(store, "registry", directory, testLifetime, mockClock, tracing.NewNoopTracer(), monitoring.NewNoopMonitor(), logging.NewNoopLogger())
	return s, store, directory, mockClock
}

func TestCreate(t *testing.T) {
	s, store, _, _ := newTestService()

	token, invitation, err := s.Create(context.Background(), "tenant_x", "bob@example.com", types.RoleMember, "user_owner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if token == "" {
		t.Fatal("expected a plaintext token")
	}
	if !strings.HasPrefix(invitation.ID, "invitation_") {
		t.Errorf("unexpected invitation ID %q", invitation.ID)
	}
	if invitation.Status != types.InvitationPending {
		t.Errorf("expected pending status, got %q", invitation.Status)
	}
	if invitation.TenantName != "Team X" {
		t.Errorf("expected tenant name copied onto the invitation, got %q", invitation.TenantName)
	}

	stored := string(store.docs[invitation.ID])
	if strings.Contains(stored, token) {
		t.Error("plaintext token must not be stored")
	}
}

func TestValidate(t *testing.T) {
	s, _, _, _ := newTestService()

	token, _, err := s.Create(context.Background(), "tenant_x", "bob@example.com", types.RoleMember, "user_owner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	invitation, err := s.Validate(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if invitation.TenantID != "tenant_x" {
		t.Errorf("expected tenant_x, got %q", invitation.TenantID)
	}

	if _, err := s.Validate(context.Background(), "bogus-token"); !errors.Is(err, ErrInvitationInvalid) {
		t.Errorf("expected ErrInvitationInvalid for an unknown token, got %v", err)
	}
}

func TestAccept(t *testing.T) {
	s, _, directory, _ := newTestService()

	token, _, err := s.Create(context.Background(), "tenant_x", "bob@example.com", types.RoleAdmin, "user_owner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	invitation, err := s.Accept(context.Background(), token, "user_bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if invitation.Status != types.InvitationAccepted {
		t.Errorf("expected accepted status, got %q", invitation.Status)
	}
	if invitation.AcceptedBy != "user_bob" {
		t.Errorf("expected accepted_by user_bob, got %q", invitation.AcceptedBy)
	}
	if directory.addedRoles["user_bob"] != types.RoleAdmin {
		t.Errorf("expected membership with the invited role, got %q", directory.addedRoles["user_bob"])
	}
}

func TestAcceptSingleUse(t *testing.T) {
	s, _, _, _ := newTestService()

	token, _, err := s.Create(context.Background(), "tenant_x", "bob@example.com", types.RoleMember, "user_owner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.Accept(context.Background(), token, "user_bob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.Accept(context.Background(), token, "user_eve"); !errors.Is(err, ErrInvitationInvalid) {
		t.Errorf("expected second accept to fail with ErrInvitationInvalid, got %v", err)
	}
}

func TestAcceptConcurrentSingleUse(t *testing.T) {
	s, store, directory, _ := newTestService()

	token, _, err := s.Create(context.Background(), "tenant_x", "bob@example.com", types.RoleMember, "user_owner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A competing accept lands between the first caller's validation and its
	// status write, the way two racing requests hit the store.
	store.beforePut = func(id string) {
		if _, err := s.Accept(context.Background(), token, "user_bob"); err != nil {
			t.Fatalf("winning accept failed: %v", err)
		}
	}

	if _, err := s.Accept(context.Background(), token, "user_eve"); !errors.Is(err, ErrInvitationInvalid) {
		t.Errorf("expected losing accept to fail with ErrInvitationInvalid, got %v", err)
	}

	if _, granted := directory.addedRoles["user_eve"]; granted {
		t.Error("losing accept must not grant membership")
	}
	if directory.addedRoles["user_bob"] != types.RoleMember {
		t.Error("winning accept must grant membership")
	}
}

func TestExpiryBoundary(t *testing.T) {
	s, _, _, mockClock := newTestService()

	token, _, err := s.Create(context.Background(), "tenant_x", "bob@example.com", types.RoleMember, "user_owner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mockClock.Add(testLifetime - time.Second)
	if _, err := s.Validate(context.Background(), token); err != nil {
		t.Errorf("expected token valid just before expiry, got %v", err)
	}

	mockClock.Add(time.Second)
	if _, err := s.Validate(context.Background(), token); !errors.Is(err, ErrInvitationInvalid) {
		t.Errorf("expected token invalid at expiry, got %v", err)
	}
}

func TestRevoke(t *testing.T) {
	s, _, _, _ := newTestService()

	token, invitation, err := s.Create(context.Background(), "tenant_x", "bob@example.com", types.RoleMember, "user_owner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Revoke(context.Background(), invitation.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.Accept(context.Background(), token, "user_bob"); !errors.Is(err, ErrInvitationInvalid) {
		t.Errorf("expected accept after revoke to fail, got %v", err)
	}

	// Idempotent: revoking again succeeds without changing anything.
	if err := s.Revoke(context.Background(), invitation.ID); err != nil {
		t.Errorf("expected second revoke to be a no-op, got %v", err)
	}
}

func TestRevokeNeverUnAccepts(t *testing.T) {
	s, store, _, _ := newTestService()

	token, invitation, err := s.Create(context.Background(), "tenant_x", "bob@example.com", types.RoleMember, "user_owner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.Accept(context.Background(), token, "user_bob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Revoke(context.Background(), invitation.ID); err != nil {
		t.Fatalf("expected revoke of an accepted invitation to be a no-op, got %v", err)
	}

	var stored types.Invitation
	if err := store.GetDoc(context.Background(), "registry", invitation.ID, &stored); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Status != types.InvitationAccepted {
		t.Errorf("expected status to stay accepted, got %q", stored.Status)
	}
}

func TestList(t *testing.T) {
	s, _, _, _ := newTestService()

	for i := 0; i < 3; i++ {
		if _, _, err := s.Create(context.Background(), "tenant_x", "bob@example.com", types.RoleMember, "user_owner"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	invitations, err := s.List(context.Background(), "tenant_x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(invitations) != 3 {
		t.Errorf("expected 3 invitations, got %d", len(invitations))
	}
}
