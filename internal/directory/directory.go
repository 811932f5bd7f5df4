// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package directory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"

	"github.com/canonical/tenant-proxy/internal/couch"
	"github.com/canonical/tenant-proxy/internal/logging"
	"github.com/canonical/tenant-proxy/internal/monitoring"
	"github.com/canonical/tenant-proxy/internal/tracing"
	"github.com/canonical/tenant-proxy/internal/types"
)

const (
	userPrefix   = "user_"
	tenantPrefix = "tenant_"

	docTypeUser   = "user"
	docTypeTenant = "tenant"

	// AdminTenantID is the well-known shared tenant for admin-app callers.
	AdminTenantID = tenantPrefix + "administrators"
	// systemUserID owns the administrators tenant so the one-owner invariant
	// holds without tying it to any human user.
	systemUserID = userPrefix + "system"

	// conflictRetries bounds the re-read-and-retry loop on revision conflicts.
	conflictRetries = 3
	// storeRetries bounds retries of transient store failures.
	storeRetries = 3
)

var _ DirectoryInterface = (*Directory)(nil)

// HashSubject derives the internal user ID from an external subject. This is
// the only way user IDs come into existence; they are never minted otherwise.
func HashSubject(subject string) string {
	sum := sha256.Sum256([]byte(subject))
	return userPrefix + hex.EncodeToString(sum[:])
}

// PersonalTenantID derives the deterministic personal tenant ID for a subject.
// Determinism is what makes the duplicate-creation race mergeable: concurrent
// first logins collide on the same document instead of creating two tenants.
func PersonalTenantID(subject string) string {
	sum := sha256.Sum256([]byte(subject))
	return tenantPrefix + hex.EncodeToString(sum[:])
}

type Directory struct {
	store      couch.DocStoreInterface
	registryDB string

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewDirectory(store couch.DocStoreInterface, registryDB string, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Directory {
	return &Directory{
		store:      store,
		registryDB: registryDB,
		tracer:     tracer,
		monitor:    monitor,
		logger:     logger,
	}
}

// retry runs op, retrying transient store failures up to the retry budget.
// Every other error is permanent.
func retry[T any](ctx context.Context, op func() (T, error)) (T, error) {
	return backoff.Retry(ctx, func() (T, error) {
		v, err := op()
		if err != nil && !errors.Is(err, couch.ErrUnavailable) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(storeRetries))
}

func (d *Directory) FindUserBySubject(ctx context.Context, subject string) (*types.User, error) {
	ctx, span := d.tracer.Start(ctx, "directory.Directory.FindUserBySubject")
	defer span.End()

	user, err := d.getUser(ctx, HashSubject(subject))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if user.Deleted {
		return nil, nil
	}

	return user, nil
}

func (d *Directory) GetUser(ctx context.Context, id string) (*types.User, error) {
	ctx, span := d.tracer.Start(ctx, "directory.Directory.GetUser")
	defer span.End()

	return d.getUser(ctx, id)
}

func (d *Directory) getUser(ctx context.Context, id string) (*types.User, error) {
	return retry(ctx, func() (*types.User, error) {
		var user types.User
		if err := d.store.GetDoc(ctx, d.registryDB, id, &user); err != nil {
			return nil, translate(err)
		}
		return &user, nil
	})
}

func (d *Directory) GetTenant(ctx context.Context, id string) (*types.Tenant, error) {
	ctx, span := d.tracer.Start(ctx, "directory.Directory.GetTenant")
	defer span.End()

	return d.getTenant(ctx, id)
}

func (d *Directory) getTenant(ctx context.Context, id string) (*types.Tenant, error) {
	return retry(ctx, func() (*types.Tenant, error) {
		var tenant types.Tenant
		if err := d.store.GetDoc(ctx, d.registryDB, id, &tenant); err != nil {
			return nil, translate(err)
		}
		return &tenant, nil
	})
}

// EnsureUser is the first-login path. The tenant document is written before
// the user document; if the user write fails the tenant is deleted on a best
// effort basis. A conflict on either write means a concurrent login won the
// race, in which case the winner's documents are adopted.
func (d *Directory) EnsureUser(ctx context.Context, subject, email, name, application string) (*types.User, *types.Tenant, error) {
	ctx, span := d.tracer.Start(ctx, "directory.Directory.EnsureUser")
	defer span.End()

	userID := HashSubject(subject)

	user, err := d.getUser(ctx, userID)
	if err == nil {
		return d.backfillUser(ctx, user, subject, email, name)
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, nil, err
	}

	tenant, created, err := d.ensurePersonalTenant(ctx, subject, email, name, application, userID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	newUser := &types.User{
		ID:      userID,
		Type:    docTypeUser,
		Subject: subject,
		Email:   email,
		Name:    name,
		Memberships: []types.Membership{{
			TenantID: tenant.ID,
			Role:     types.RoleOwner,
			Personal: true,
			JoinedAt: now,
		}},
		PersonalTenant: tenant.ID,
		ActiveTenant:   tenant.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	rev, err := retry(ctx, func() (string, error) {
		rev, err := d.store.PutDoc(ctx, d.registryDB, userID, newUser)
		return rev, translate(err)
	})
	if errors.Is(err, ErrConflict) {
		// A concurrent EnsureUser for the same subject created the user
		// between our read and write. Adopt theirs.
		existing, getErr := d.getUser(ctx, userID)
		if getErr != nil {
			return nil, nil, getErr
		}
		return d.backfillUser(ctx, existing, subject, email, name)
	}
	if err != nil {
		if created {
			d.rollbackTenant(ctx, tenant)
		}
		return nil, nil, err
	}

	newUser.Rev = rev
	return newUser, tenant, nil
}

// ensurePersonalTenant creates the deterministic personal tenant, adopting an
// existing one when a concurrent login already created it. The second return
// value reports whether this call created the document.
func (d *Directory) ensurePersonalTenant(ctx context.Context, subject, email, name, application, userID string) (*types.Tenant, bool, error) {
	tenantID := PersonalTenantID(subject)

	now := time.Now().UTC()
	tenant := &types.Tenant{
		ID:          tenantID,
		Type:        docTypeTenant,
		Name:        personalTenantName(name, email, subject),
		Application: application,
		Personal:    true,
		Owner:       userID,
		Members:     []string{userID},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	rev, err := retry(ctx, func() (string, error) {
		rev, err := d.store.PutDoc(ctx, d.registryDB, tenantID, tenant)
		return rev, translate(err)
	})
	if errors.Is(err, ErrConflict) {
		existing, getErr := d.getTenant(ctx, tenantID)
		if getErr != nil {
			return nil, false, getErr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	tenant.Rev = rev
	return tenant, true, nil
}

func personalTenantName(name, email, subject string) string {
	switch {
	case name != "":
		return fmt.Sprintf("%s's workspace", name)
	case email != "":
		return fmt.Sprintf("%s's workspace", email)
	default:
		return fmt.Sprintf("%s's workspace", subject)
	}
}

func (d *Directory) rollbackTenant(ctx context.Context, tenant *types.Tenant) {
	if err := d.store.DeleteDoc(ctx, d.registryDB, tenant.ID, tenant.Rev); err != nil {
		// Leaving an orphaned personal tenant behind is tolerated; the next
		// successful EnsureUser for the subject adopts it by ID.
		d.logger.Warnf("failed to roll back tenant %s: %v", tenant.ID, err)
	}
}

// backfillUser fills in email, name and personal tenant linkage that earlier
// logins may have left empty. No write happens when nothing is missing.
func (d *Directory) backfillUser(ctx context.Context, user *types.User, subject, email, name string) (*types.User, *types.Tenant, error) {
	needsUpdate := (user.Email == "" && email != "") ||
		(user.Name == "" && name != "") ||
		user.PersonalTenant == ""

	if needsUpdate {
		updated, err := d.updateUser(ctx, user.ID, func(u *types.User) error {
			if u.Email == "" {
				u.Email = email
			}
			if u.Name == "" {
				u.Name = name
			}
			if u.PersonalTenant == "" {
				u.PersonalTenant = PersonalTenantID(subject)
			}
			return nil
		})
		if err != nil {
			return nil, nil, err
		}
		user = updated
	}

	tenantID := user.ActiveTenant
	if tenantID == "" {
		tenantID = user.PersonalTenant
	}

	tenant, err := d.getTenant(ctx, tenantID)
	if errors.Is(err, ErrNotFound) {
		// The user document survived but its tenant is gone; recreate the
		// personal tenant so the account remains usable.
		tenant, _, err = d.ensurePersonalTenant(ctx, subject, user.Email, user.Name, "", user.ID)
	}
	if err != nil {
		return nil, nil, err
	}

	return user, tenant, nil
}

func (d *Directory) SetActiveTenant(ctx context.Context, userID, tenantID string) error {
	ctx, span := d.tracer.Start(ctx, "directory.Directory.SetActiveTenant")
	defer span.End()

	tenant, err := d.getTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	if tenant.DeletedAt != nil {
		return ErrTenantDeleted
	}

	user, err := d.getUser(ctx, userID)
	if err != nil {
		return err
	}

	// Switching the active tenant is a write-path decision: membership must
	// be recorded on both documents.
	if !tenant.HasMember(userID) || !hasMembership(user, tenantID) {
		return ErrNotMember
	}

	_, err = d.updateUser(ctx, userID, func(u *types.User) error {
		u.ActiveTenant = tenantID
		return nil
	})
	return err
}

func (d *Directory) CreateTenant(ctx context.Context, name, application, ownerID string) (*types.Tenant, error) {
	ctx, span := d.tracer.Start(ctx, "directory.Directory.CreateTenant")
	defer span.End()

	id, err := newTenantID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tenant := &types.Tenant{
		ID:          id,
		Type:        docTypeTenant,
		Name:        name,
		Application: application,
		Owner:       ownerID,
		Members:     []string{ownerID},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	rev, err := retry(ctx, func() (string, error) {
		rev, err := d.store.PutDoc(ctx, d.registryDB, id, tenant)
		return rev, translate(err)
	})
	if err != nil {
		return nil, err
	}
	tenant.Rev = rev

	// Second phase of the two-document protocol; see AddMember.
	if _, err := d.updateUser(ctx, ownerID, appendMembership(id, types.RoleOwner, false)); err != nil {
		d.logger.Warnf("owner membership for %s not yet recorded on %s: %v", id, ownerID, err)
	}

	return tenant, nil
}

// DeleteTenant soft-deletes a tenant. A tenant that is still any member's
// active tenant cannot be deleted.
func (d *Directory) DeleteTenant(ctx context.Context, id string) error {
	ctx, span := d.tracer.Start(ctx, "directory.Directory.DeleteTenant")
	defer span.End()

	tenant, err := d.getTenant(ctx, id)
	if err != nil {
		return err
	}

	for _, memberID := range tenant.Members {
		member, err := d.getUser(ctx, memberID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if member.ActiveTenant == id {
			return fmt.Errorf("%w: %s", ErrTenantActive, memberID)
		}
	}

	_, err = d.updateTenant(ctx, id, func(t *types.Tenant) error {
		now := time.Now().UTC()
		t.DeletedAt = &now
		return nil
	})
	return err
}

func (d *Directory) ListUserTenants(ctx context.Context, userID string) ([]*types.Tenant, error) {
	ctx, span := d.tracer.Start(ctx, "directory.Directory.ListUserTenants")
	defer span.End()

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"type":    docTypeTenant,
			"members": map[string]interface{}{"$elemMatch": map[string]interface{}{"$eq": userID}},
		},
	}

	docs, err := retry(ctx, func() ([]json.RawMessage, error) {
		docs, err := d.store.Find(ctx, d.registryDB, query)
		return docs, translate(err)
	})
	if err != nil {
		return nil, err
	}

	var tenants []*types.Tenant
	for _, doc := range docs {
		var t types.Tenant
		if err := json.Unmarshal(doc, &t); err != nil {
			return nil, fmt.Errorf("failed to decode tenant: %w", err)
		}
		if t.DeletedAt != nil {
			continue
		}
		tenants = append(tenants, &t)
	}

	// Creation order, ID as tiebreak: the discovery chain depends on this
	// being stable across calls.
	sort.Slice(tenants, func(i, j int) bool {
		if !tenants[i].CreatedAt.Equal(tenants[j].CreatedAt) {
			return tenants[i].CreatedAt.Before(tenants[j].CreatedAt)
		}
		return tenants[i].ID < tenants[j].ID
	})

	return tenants, nil
}

// AddMember records membership on the tenant document, then on the user
// document. The store has no multi-document transactions, so a crash between
// the writes leaves membership recorded on one side only; both phases are
// idempotent and re-running AddMember repairs the gap.
func (d *Directory) AddMember(ctx context.Context, tenantID, userID, role string) (*types.Tenant, error) {
	ctx, span := d.tracer.Start(ctx, "directory.Directory.AddMember")
	defer span.End()

	if !validRole(role) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}

	tenant, err := d.updateTenant(ctx, tenantID, func(t *types.Tenant) error {
		if t.DeletedAt != nil {
			return ErrTenantDeleted
		}
		if t.Personal && !t.HasMember(userID) {
			return ErrPersonalTenant
		}
		if role == types.RoleOwner && t.Owner != "" && t.Owner != userID {
			return ErrOwnerExists
		}
		if !t.HasMember(userID) {
			t.Members = append(t.Members, userID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := d.updateUser(ctx, userID, appendMembership(tenantID, role, tenant.Personal)); err != nil {
		return nil, err
	}

	return tenant, nil
}

func (d *Directory) RemoveMember(ctx context.Context, tenantID, userID string) (*types.Tenant, error) {
	ctx, span := d.tracer.Start(ctx, "directory.Directory.RemoveMember")
	defer span.End()

	tenant, err := d.updateTenant(ctx, tenantID, func(t *types.Tenant) error {
		if t.Owner == userID {
			return ErrOwnerImmutable
		}
		if t.Personal {
			return ErrPersonalTenant
		}
		filtered := t.Members[:0]
		for _, m := range t.Members {
			if m != userID {
				filtered = append(filtered, m)
			}
		}
		t.Members = filtered
		return nil
	})
	if err != nil {
		return nil, err
	}

	_, err = d.updateUser(ctx, userID, func(u *types.User) error {
		filtered := u.Memberships[:0]
		for _, m := range u.Memberships {
			if m.TenantID != tenantID {
				filtered = append(filtered, m)
			}
		}
		u.Memberships = filtered
		if u.ActiveTenant == tenantID {
			u.ActiveTenant = u.PersonalTenant
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		// Tolerated partial state: tenant side already updated.
		return tenant, nil
	}
	if err != nil {
		return nil, err
	}

	return tenant, nil
}

func (d *Directory) ChangeRole(ctx context.Context, tenantID, userID, role string) (*types.Tenant, error) {
	ctx, span := d.tracer.Start(ctx, "directory.Directory.ChangeRole")
	defer span.End()

	if !validRole(role) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}

	tenant, err := d.getTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant.Owner == userID {
		return nil, ErrOwnerImmutable
	}
	if role == types.RoleOwner {
		return nil, ErrOwnerExists
	}
	if !tenant.HasMember(userID) {
		return nil, ErrNotMember
	}

	if _, err := d.updateUser(ctx, userID, func(u *types.User) error {
		for i := range u.Memberships {
			if u.Memberships[i].TenantID == tenantID {
				u.Memberships[i].Role = role
				return nil
			}
		}
		return ErrNotMember
	}); err != nil {
		return nil, err
	}

	return tenant, nil
}

func (d *Directory) EnsureAdminMember(ctx context.Context, userID string) (*types.Tenant, error) {
	ctx, span := d.tracer.Start(ctx, "directory.Directory.EnsureAdminMember")
	defer span.End()

	tenant, err := d.getTenant(ctx, AdminTenantID)
	if errors.Is(err, ErrNotFound) {
		tenant, err = d.createAdminTenant(ctx)
	}
	if err != nil {
		return nil, err
	}

	if tenant.HasMember(userID) {
		return tenant, nil
	}

	tenant, err = d.updateTenant(ctx, AdminTenantID, func(t *types.Tenant) error {
		if !t.HasMember(userID) {
			t.Members = append(t.Members, userID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := d.updateUser(ctx, userID, appendMembership(AdminTenantID, types.RoleAdmin, false)); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	return tenant, nil
}

func (d *Directory) createAdminTenant(ctx context.Context) (*types.Tenant, error) {
	now := time.Now().UTC()
	tenant := &types.Tenant{
		ID:        AdminTenantID,
		Type:      docTypeTenant,
		Name:      "Administrators",
		Owner:     systemUserID,
		Members:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	rev, err := retry(ctx, func() (string, error) {
		rev, err := d.store.PutDoc(ctx, d.registryDB, AdminTenantID, tenant)
		return rev, translate(err)
	})
	if errors.Is(err, ErrConflict) {
		return d.getTenant(ctx, AdminTenantID)
	}
	if err != nil {
		return nil, err
	}

	tenant.Rev = rev
	return tenant, nil
}

// updateTenant runs a read-modify-write with the bounded conflict retry the
// store's revision tokens call for. mutate sees a fresh read on every attempt.
func (d *Directory) updateTenant(ctx context.Context, id string, mutate func(*types.Tenant) error) (*types.Tenant, error) {
	var lastErr error
	for attempt := 0; attempt < conflictRetries; attempt++ {
		tenant, err := d.getTenant(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := mutate(tenant); err != nil {
			return nil, err
		}
		tenant.UpdatedAt = time.Now().UTC()

		rev, err := retry(ctx, func() (string, error) {
			rev, err := d.store.PutDoc(ctx, d.registryDB, id, tenant)
			return rev, translate(err)
		})
		if errors.Is(err, ErrConflict) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, err
		}

		tenant.Rev = rev
		return tenant, nil
	}

	return nil, lastErr
}

func (d *Directory) updateUser(ctx context.Context, id string, mutate func(*types.User) error) (*types.User, error) {
	var lastErr error
	for attempt := 0; attempt < conflictRetries; attempt++ {
		user, err := d.getUser(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := mutate(user); err != nil {
			return nil, err
		}
		user.UpdatedAt = time.Now().UTC()

		rev, err := retry(ctx, func() (string, error) {
			rev, err := d.store.PutDoc(ctx, d.registryDB, id, user)
			return rev, translate(err)
		})
		if errors.Is(err, ErrConflict) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, err
		}

		user.Rev = rev
		return user, nil
	}

	return nil, lastErr
}

// appendMembership is the user-document phase of AddMember; appending an
// existing membership is a no-op, which is what makes re-running safe.
func appendMembership(tenantID, role string, personal bool) func(*types.User) error {
	return func(u *types.User) error {
		for _, m := range u.Memberships {
			if m.TenantID == tenantID {
				return nil
			}
		}
		u.Memberships = append(u.Memberships, types.Membership{
			TenantID: tenantID,
			Role:     role,
			Personal: personal,
			JoinedAt: time.Now().UTC(),
		})
		return nil
	}
}

func newTenantID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate tenant ID: %w", err)
	}
	return tenantPrefix + id.String(), nil
}

// MemberForRead implements the read-path membership rule: presence on either
// document is sufficient evidence, so readers tolerate the partial states the
// two-document writes can leave behind.
func MemberForRead(u *types.User, t *types.Tenant) bool {
	return t.HasMember(u.ID) || hasMembership(u, t.ID)
}

// MemberForWrite requires both documents to agree.
func MemberForWrite(u *types.User, t *types.Tenant) bool {
	return t.HasMember(u.ID) && hasMembership(u, t.ID)
}

// RoleOf returns the user's recorded role in the tenant, empty when none.
func RoleOf(u *types.User, tenantID string) string {
	for _, m := range u.Memberships {
		if m.TenantID == tenantID {
			return m.Role
		}
	}
	return ""
}

func hasMembership(u *types.User, tenantID string) bool {
	for _, m := range u.Memberships {
		if m.TenantID == tenantID {
			return true
		}
	}
	return false
}

func validRole(role string) bool {
	switch role {
	case types.RoleOwner, types.RoleAdmin, types.RoleMember:
		return true
	}
	return false
}
