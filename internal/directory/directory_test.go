// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package directory

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/canonical/tenant-proxy/internal/couch"
	"github.com/canonical/tenant-proxy/internal/logging"
	"github.com/canonical/tenant-proxy/internal/monitoring"
	"github.com/canonical/tenant-proxy/internal/tracing"
	"github.com/canonical/tenant-proxy/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package directory -destination ./mock_couch.go -source=../couch/interfaces.go

const registryDB = "registry"

func newDirectory(store couch.DocStoreInterface) *Directory {
	return NewDirectory(store, registryDB, tracing.NewNoopTracer(), monitoring.NewNoopMonitor(), logging.NewNoopLogger())
}

func notFound() error {
	return couch.ErrNotFound
}

func TestHashSubject(t *testing.T) {
	first := HashSubject("abc123")
	second := HashSubject("abc123")

	if first != second {
		t.Errorf("expected deterministic hash, got %q and %q", first, second)
	}
	if !strings.HasPrefix(first, "user_") {
		t.Errorf("expected user_ prefix, got %q", first)
	}
	if HashSubject("abc124") == first {
		t.Error("distinct subjects must not collide")
	}
}

func TestPersonalTenantID(t *testing.T) {
	id := PersonalTenantID("abc123")

	if !strings.HasPrefix(id, "tenant_") {
		t.Errorf("expected tenant_ prefix, got %q", id)
	}
	if id != PersonalTenantID("abc123") {
		t.Error("expected deterministic personal tenant ID")
	}
}

func TestEnsureUser_FirstLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockDocStoreInterface(ctrl)
	d := newDirectory(mockStore)

	subject := "abc123"
	userID := HashSubject(subject)
	tenantID := PersonalTenantID(subject)

	var writtenTenant *types.Tenant
	var writtenUser *types.User

	mockStore.EXPECT().GetDoc(gomock.Any(), registryDB, userID, gomock.Any()).Return(notFound())
	mockStore.EXPECT().PutDoc(gomock.Any(), registryDB, tenantID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _, _ string, doc any) (string, error) {
			writtenTenant = doc.(*types.Tenant)
			return "1-aaa", nil
		})
	mockStore.EXPECT().PutDoc(gomock.Any(), registryDB, userID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _, _ string, doc any) (string, error) {
			writtenUser = doc.(*types.User)
			return "1-bbb", nil
		})

	user, tenant, err := d.EnsureUser(context.Background(), subject, "a@example.com", "Alice", "notes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.ID != userID {
		t.Errorf("expected user ID %q, got %q", userID, user.ID)
	}
	if tenant.ID != tenantID {
		t.Errorf("expected tenant ID %q, got %q", tenantID, tenant.ID)
	}
	if user.ActiveTenant != tenant.ID {
		t.Errorf("expected active tenant %q, got %q", tenant.ID, user.ActiveTenant)
	}
	if writtenTenant == nil || !writtenTenant.Personal || writtenTenant.Owner != userID {
		t.Errorf("personal tenant written incorrectly: %+v", writtenTenant)
	}
	if writtenUser == nil || len(writtenUser.Memberships) != 1 || writtenUser.Memberships[0].Role != types.RoleOwner {
		t.Errorf("user memberships written incorrectly: %+v", writtenUser)
	}
}

func TestEnsureUser_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockDocStoreInterface(ctrl)
	d := newDirectory(mockStore)

	subject := "abc123"
	userID := HashSubject(subject)
	tenantID := PersonalTenantID(subject)

	existing := types.User{
		ID:             userID,
		Rev:            "4-xyz",
		Type:           "user",
		Subject:        subject,
		Email:          "a@example.com",
		Name:           "Alice",
		PersonalTenant: tenantID,
		ActiveTenant:   tenantID,
		Memberships:    []types.Membership{{TenantID: tenantID, Role: types.RoleOwner, Personal: true}},
	}
	existingTenant := types.Tenant{ID: tenantID, Rev: "1-aaa", Type: "tenant", Personal: true, Owner: userID, Members: []string{userID}}

	// Two calls, no writes beyond the initial state: the second call must be
	// a pure read.
	for i := 0; i < 2; i++ {
		mockStore.EXPECT().GetDoc(gomock.Any(), registryDB, userID, gomock.Any()).DoAndReturn(
			func(_ context.Context, _, _ string, out any) error {
				*out.(*types.User) = existing
				return nil
			})
		mockStore.EXPECT().GetDoc(gomock.Any(), registryDB, tenantID, gomock.Any()).DoAndReturn(
			func(_ context.Context, _, _ string, out any) error {
				*out.(*types.Tenant) = existingTenant
				return nil
			})
	}

	firstUser, firstTenant, err := d.EnsureUser(context.Background(), subject, "a@example.com", "Alice", "notes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	secondUser, secondTenant, err := d.EnsureUser(context.Background(), subject, "a@example.com", "Alice", "notes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if firstUser.ID != secondUser.ID || firstTenant.ID != secondTenant.ID {
		t.Errorf("expected identical results, got %q/%q and %q/%q", firstUser.ID, firstTenant.ID, secondUser.ID, secondTenant.ID)
	}
}

func TestEnsureUser_AdoptsConcurrentWinner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockDocStoreInterface(ctrl)
	d := newDirectory(mockStore)

	subject := "abc123"
	userID := HashSubject(subject)
	tenantID := PersonalTenantID(subject)

	winner := types.User{
		ID:             userID,
		Rev:            "1-other",
		Subject:        subject,
		Email:          "a@example.com",
		Name:           "Alice",
		PersonalTenant: tenantID,
		ActiveTenant:   tenantID,
	}
	winnerTenant := types.Tenant{ID: tenantID, Rev: "1-aaa", Personal: true, Owner: userID, Members: []string{userID}}

	mockStore.EXPECT().GetDoc(gomock.Any(), registryDB, userID, gomock.Any()).Return(notFound())
	// The concurrent login created the tenant first; our write conflicts and
	// we adopt the existing document.
	mockStore.EXPECT().PutDoc(gomock.Any(), registryDB, tenantID, gomock.Any()).Return("", couch.ErrConflict)
	mockStore.EXPECT().GetDoc(gomock.Any(), registryDB, tenantID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _, _ string, out any) error {
			*out.(*types.Tenant) = winnerTenant
			return nil
		})
	// Same race on the user document.
	mockStore.EXPECT().PutDoc(gomock.Any(), registryDB, userID, gomock.Any()).Return("", couch.ErrConflict)
	mockStore.EXPECT().GetDoc(gomock.Any(), registryDB, userID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _, _ string, out any) error {
			*out.(*types.User) = winner
			return nil
		})
	mockStore.EXPECT().GetDoc(gomock.Any(), registryDB, tenantID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _, _ string, out any) error {
			*out.(*types.Tenant) = winnerTenant
			return nil
		})

	user, tenant, err := d.EnsureUser(context.Background(), subject, "a@example.com", "Alice", "notes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Rev != "1-other" {
		t.Errorf("expected the winner's user document, got rev %q", user.Rev)
	}
	if tenant.ID != tenantID {
		t.Errorf("expected adopted tenant %q, got %q", tenantID, tenant.ID)
	}
}

func TestEnsureUser_RollsBackTenantOnUserWriteFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockDocStoreInterface(ctrl)
	d := newDirectory(mockStore)

	subject := "abc123"
	userID := HashSubject(subject)
	tenantID := PersonalTenantID(subject)
	writeErr := errors.New("invalid document")

	mockStore.EXPECT().GetDoc(gomock.Any(), registryDB, userID, gomock.Any()).Return(notFound())
	mockStore.EXPECT().PutDoc(gomock.Any(), registryDB, tenantID, gomock.Any()).Return("1-aaa", nil)
	mockStore.EXPECT().PutDoc(gomock.Any(), registryDB, userID, gomock.Any()).Return("", writeErr)
	mockStore.EXPECT().DeleteDoc(gomock.Any(), registryDB, tenantID, "1-aaa").Return(nil)

	_, _, err := d.EnsureUser(context.Background(), subject, "", "", "notes")
	if !errors.Is(err, writeErr) {
		t.Fatalf("expected %v, got %v", writeErr, err)
	}
}

func TestAddMember(t *testing.T) {
	userID := HashSubject("bob")
	tenantID := "tenant_0190a000-0000-7000-8000-000000000001"

	testCases := []struct {
		name        string
		role        string
		tenant      types.Tenant
		expectWrite bool
		expectedErr error
	}{
		{
			name:        "adds missing member",
			role:        types.RoleMember,
			tenant:      types.Tenant{ID: tenantID, Rev: "2-a", Owner: "user_owner", Members: []string{"user_owner"}},
			expectWrite: true,
		},
		{
			name:        "second owner rejected",
			role:        types.RoleOwner,
			tenant:      types.Tenant{ID: tenantID, Rev: "2-a", Owner: "user_owner", Members: []string{"user_owner"}},
			expectedErr: ErrOwnerExists,
		},
		{
			name:        "personal tenant rejected",
			role:        types.RoleMember,
			tenant:      types.Tenant{ID: tenantID, Rev: "2-a", Personal: true, Owner: "user_owner", Members: []string{"user_owner"}},
			expectedErr: ErrPersonalTenant,
		},
		{
			name:        "deleted tenant rejected",
			role:        types.RoleMember,
			tenant:      types.Tenant{ID: tenantID, Rev: "2-a", Owner: "user_owner", Members: []string{"user_owner"}, DeletedAt: &time.Time{}},
			expectedErr: ErrTenantDeleted,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStore := NewMockDocStoreInterface(ctrl)
			d := newDirectory(mockStore)

			mockStore.EXPECT().GetDoc(gomock.Any(), registryDB, tenantID, gomock.Any()).DoAndReturn(
				func(_ context.Context, _, _ string, out any) error {
					*out.(*types.Tenant) = tc.tenant
					return nil
				})

			if tc.expectWrite {
				var written *types.Tenant
				mockStore.EXPECT().PutDoc(gomock.Any(), registryDB, tenantID, gomock.Any()).DoAndReturn(
					func(_ context.Context, _, _ string, doc any) (string, error) {
						written = doc.(*types.Tenant)
						return "3-b", nil
					})
				mockStore.EXPECT().GetDoc(gomock.Any(), registryDB, userID, gomock.Any()).DoAndReturn(
					func(_ context.Context, _, _ string, out any) error {
						*out.(*types.User) = types.User{ID: userID, Rev: "1-u"}
						return nil
					})
				mockStore.EXPECT().PutDoc(gomock.Any(), registryDB, userID, gomock.Any()).DoAndReturn(
					func(_ context.Context, _, _ string, doc any) (string, error) {
						u := doc.(*types.User)
						if len(u.Memberships) != 1 || u.Memberships[0].TenantID != tenantID {
							t.Errorf("membership not appended: %+v", u.Memberships)
						}
						return "2-u", nil
					})

				tenant, err := d.AddMember(context.Background(), tenantID, userID, tc.role)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !tenant.HasMember(userID) {
					t.Error("member not recorded on tenant")
				}
				if written == nil || !written.HasMember(userID) {
					t.Error("member not written to store")
				}
				return
			}

			_, err := d.AddMember(context.Background(), tenantID, userID, tc.role)
			if !errors.Is(err, tc.expectedErr) {
				t.Errorf("expected %v, got %v", tc.expectedErr, err)
			}
		})
	}
}

func TestAddMember_RetriesOnConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockDocStoreInterface(ctrl)
	d := newDirectory(mockStore)

	userID := HashSubject("bob")
	tenantID := "tenant_x"
	tenant := types.Tenant{ID: tenantID, Rev: "2-a", Owner: "user_owner", Members: []string{"user_owner"}}

	gomock.InOrder(
		mockStore.EXPECT().GetDoc(gomock.Any(), registryDB, tenantID, gomock.Any()).DoAndReturn(
			func(_ context.Context, _, _ string, out any) error {
				*out.(*types.Tenant) = tenant
				return nil
			}),
		mockStore.EXPECT().PutDoc(gomock.Any(), registryDB, tenantID, gomock.Any()).Return("", couch.ErrConflict),
		mockStore.EXPECT().GetDoc(gomock.Any(), registryDB, tenantID, gomock.Any()).DoAndReturn(
			func(_ context.Context, _, _ string, out any) error {
				refreshed := tenant
				refreshed.Rev = "3-b"
				*out.(*types.Tenant) = refreshed
				return nil
			}),
		mockStore.EXPECT().PutDoc(gomock.Any(), registryDB, tenantID, gomock.Any()).Return("4-c", nil),
	)
	mockStore.EXPECT().GetDoc(gomock.Any(), registryDB, userID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _, _ string, out any) error {
			*out.(*types.User) = types.User{ID: userID, Rev: "1-u"}
			return nil
		})
	mockStore.EXPECT().PutDoc(gomock.Any(), registryDB, userID, gomock.Any()).Return("2-u", nil)

	if _, err := d.AddMember(context.Background(), tenantID, userID, types.RoleMember); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestListUserTenants_DeterministicOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockDocStoreInterface(ctrl)
	d := newDirectory(mockStore)

	userID := HashSubject("carol")
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t1.Add(2 * time.Hour)

	// Returned out of order on purpose.
	docs := rawTenants(t,
		types.Tenant{ID: "tenant_c", Type: "tenant", CreatedAt: t3, Members: []string{userID}},
		types.Tenant{ID: "tenant_a", Type: "tenant", CreatedAt: t1, Members: []string{userID}},
		types.Tenant{ID: "tenant_b", Type: "tenant", CreatedAt: t2, Members: []string{userID}},
	)
	mockStore.EXPECT().Find(gomock.Any(), registryDB, gomock.Any()).Return(docs, nil).Times(2)

	for i := 0; i < 2; i++ {
		tenants, err := d.ListUserTenants(context.Background(), userID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tenants) != 3 {
			t.Fatalf("expected 3 tenants, got %d", len(tenants))
		}
		if tenants[0].ID != "tenant_a" || tenants[1].ID != "tenant_b" || tenants[2].ID != "tenant_c" {
			t.Errorf("unexpected order: %q %q %q", tenants[0].ID, tenants[1].ID, tenants[2].ID)
		}
	}
}

func TestDeleteTenant_GuardsActiveTenant(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockDocStoreInterface(ctrl)
	d := newDirectory(mockStore)

	memberID := HashSubject("dave")
	tenantID := PersonalTenantID("dave")

	mockStore.EXPECT().GetDoc(gomock.Any(), registryDB, tenantID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _, _ string, out any) error {
			*out.(*types.Tenant) = types.Tenant{ID: tenantID, Rev: "1-a", Personal: true, Owner: memberID, Members: []string{memberID}}
			return nil
		})
	mockStore.EXPECT().GetDoc(gomock.Any(), registryDB, memberID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _, _ string, out any) error {
			*out.(*types.User) = types.User{ID: memberID, ActiveTenant: tenantID}
			return nil
		})

	err := d.DeleteTenant(context.Background(), tenantID)
	if !errors.Is(err, ErrTenantActive) {
		t.Errorf("expected ErrTenantActive, got %v", err)
	}
}

func TestFindUserBySubject_NotFoundIsNil(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockDocStoreInterface(ctrl)
	d := newDirectory(mockStore)

	mockStore.EXPECT().GetDoc(gomock.Any(), registryDB, gomock.Any(), gomock.Any()).Return(notFound())

	user, err := d.FindUserBySubject(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil user, got %+v", user)
	}
}

func rawTenants(t *testing.T, tenants ...types.Tenant) []json.RawMessage {
	t.Helper()

	var docs []json.RawMessage
	for _, tenant := range tenants {
		doc, err := json.Marshal(tenant)
		if err != nil {
			t.Fatalf("failed to marshal tenant: %v", err)
		}
		docs = append(docs, doc)
	}
	return docs
}
