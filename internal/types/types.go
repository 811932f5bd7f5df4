// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"time"
)

// Role names used in memberships and invitations.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Invitation statuses. Transitions are monotonic:
// pending -> accepted or pending -> revoked, nothing else.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationRevoked  = "revoked"
)

// User is one authenticated human, keyed by a hash of the external subject.
type User struct {
	ID             string       `json:"_id"`
	Rev            string       `json:"_rev,omitempty"`
	Type           string       `json:"type"`
	Subject        string       `json:"subject"`
	Email          string       `json:"email,omitempty"`
	Name           string       `json:"name,omitempty"`
	Memberships    []Membership `json:"memberships"`
	PersonalTenant string       `json:"personal_tenant,omitempty"`
	ActiveTenant   string       `json:"active_tenant,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	Deleted        bool         `json:"deleted,omitempty"`
}

// Membership is a user's view of belonging to a tenant.
type Membership struct {
	TenantID string    `json:"tenant_id"`
	Role     string    `json:"role"`
	Personal bool      `json:"personal"`
	JoinedAt time.Time `json:"joined_at"`
}

// Tenant is an isolation boundary. Personal tenants have a deterministic ID
// derived from the owner's subject so concurrent first logins collide instead
// of diverging.
type Tenant struct {
	ID          string     `json:"_id"`
	Rev         string     `json:"_rev,omitempty"`
	Type        string     `json:"type"`
	Name        string     `json:"name"`
	Application string     `json:"application,omitempty"`
	Personal    bool       `json:"personal"`
	Owner       string     `json:"owner"`
	Members     []string   `json:"members"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// HasMember reports whether the tenant's member list contains the user.
func (t *Tenant) HasMember(userID string) bool {
	for _, m := range t.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// Invitation is a pending grant of tenant membership. Only the hash of the
// invitation token is ever stored; the document ID is derived from it.
type Invitation struct {
	ID         string     `json:"_id"`
	Rev        string     `json:"_rev,omitempty"`
	Type       string     `json:"type"`
	TenantID   string     `json:"tenant_id"`
	TenantName string     `json:"tenant_name"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	CreatedBy  string     `json:"created_by"`
	TokenHash  string     `json:"token_hash"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	AcceptedBy string     `json:"accepted_by,omitempty"`
}

// Claims are the verified token claims the pipeline operates on.
type Claims struct {
	Subject   string
	Issuer    string
	Email     string
	Name      string
	SessionID string
	// Application is the client the token was issued to (azp claim, falling
	// back to the first audience entry).
	Application string
	ExpiresAt   time.Time
}
