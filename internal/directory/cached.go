// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package directory

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"

	"github.com/canonical/tenant-proxy/internal/types"
)

const (
	cacheCapacity           = 10000
	cacheShards             = 16
	cacheEvictionPercentage = 10
)

var _ DirectoryInterface = (*CachedDirectory)(nil)

// CachedDirectory puts a short-TTL read cache in front of the directory for
// the hot lookups on the request path. Writes go straight through and drop
// the affected entries; the short TTL bounds staleness from other replicas.
type CachedDirectory struct {
	inner DirectoryInterface

	users   *sturdyc.Client[*types.User]
	tenants *sturdyc.Client[*types.Tenant]
}

func NewCachedDirectory(inner DirectoryInterface, ttl time.Duration) *CachedDirectory {
	return &CachedDirectory{
		inner:   inner,
		users:   sturdyc.New[*types.User](cacheCapacity, cacheShards, ttl, cacheEvictionPercentage),
		tenants: sturdyc.New[*types.Tenant](cacheCapacity, cacheShards, ttl, cacheEvictionPercentage),
	}
}

func (c *CachedDirectory) FindUserBySubject(ctx context.Context, subject string) (*types.User, error) {
	if user, ok := c.users.Get(HashSubject(subject)); ok {
		return user, nil
	}

	user, err := c.inner.FindUserBySubject(ctx, subject)
	if err != nil || user == nil {
		return user, err
	}

	c.users.Set(user.ID, user)
	return user, nil
}

func (c *CachedDirectory) GetUser(ctx context.Context, id string) (*types.User, error) {
	if user, ok := c.users.Get(id); ok {
		return user, nil
	}

	user, err := c.inner.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	c.users.Set(id, user)
	return user, nil
}

func (c *CachedDirectory) GetTenant(ctx context.Context, id string) (*types.Tenant, error) {
	if tenant, ok := c.tenants.Get(id); ok {
		return tenant, nil
	}

	tenant, err := c.inner.GetTenant(ctx, id)
	if err != nil {
		return nil, err
	}

	c.tenants.Set(id, tenant)
	return tenant, nil
}

func (c *CachedDirectory) EnsureUser(ctx context.Context, subject, email, name, application string) (*types.User, *types.Tenant, error) {
	user, tenant, err := c.inner.EnsureUser(ctx, subject, email, name, application)
	if err != nil {
		return nil, nil, err
	}

	c.users.Set(user.ID, user)
	c.tenants.Set(tenant.ID, tenant)
	return user, tenant, nil
}

func (c *CachedDirectory) SetActiveTenant(ctx context.Context, userID, tenantID string) error {
	if err := c.inner.SetActiveTenant(ctx, userID, tenantID); err != nil {
		return err
	}

	c.users.Delete(userID)
	return nil
}

func (c *CachedDirectory) CreateTenant(ctx context.Context, name, application, ownerID string) (*types.Tenant, error) {
	tenant, err := c.inner.CreateTenant(ctx, name, application, ownerID)
	if err != nil {
		return nil, err
	}

	c.users.Delete(ownerID)
	c.tenants.Set(tenant.ID, tenant)
	return tenant, nil
}

func (c *CachedDirectory) DeleteTenant(ctx context.Context, id string) error {
	if err := c.inner.DeleteTenant(ctx, id); err != nil {
		return err
	}

	c.tenants.Delete(id)
	return nil
}

// ListUserTenants is not cached: it feeds the discovery chain's deterministic
// first-tenant selection and must observe new tenants immediately.
func (c *CachedDirectory) ListUserTenants(ctx context.Context, userID string) ([]*types.Tenant, error) {
	return c.inner.ListUserTenants(ctx, userID)
}

func (c *CachedDirectory) AddMember(ctx context.Context, tenantID, userID, role string) (*types.Tenant, error) {
	tenant, err := c.inner.AddMember(ctx, tenantID, userID, role)
	if err != nil {
		return nil, err
	}

	c.users.Delete(userID)
	c.tenants.Set(tenantID, tenant)
	return tenant, nil
}

func (c *CachedDirectory) RemoveMember(ctx context.Context, tenantID, userID string) (*types.Tenant, error) {
	tenant, err := c.inner.RemoveMember(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	c.users.Delete(userID)
	c.tenants.Set(tenantID, tenant)
	return tenant, nil
}

func (c *CachedDirectory) ChangeRole(ctx context.Context, tenantID, userID, role string) (*types.Tenant, error) {
	tenant, err := c.inner.ChangeRole(ctx, tenantID, userID, role)
	if err != nil {
		return nil, err
	}

	c.users.Delete(userID)
	return tenant, nil
}

func (c *CachedDirectory) EnsureAdminMember(ctx context.Context, userID string) (*types.Tenant, error) {
	tenant, err := c.inner.EnsureAdminMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.users.Delete(userID)
	c.tenants.Set(tenant.ID, tenant)
	return tenant, nil
}
