// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package directory

import (
	"errors"
	"fmt"

	"github.com/canonical/tenant-proxy/internal/couch"
)

// Sentinel errors for directory operations.
var (
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable means the registry database could not be reached within
	// the retry budget. Surfaced to callers as 503.
	ErrUnavailable = errors.New("directory unavailable")
	// ErrConflict means a write lost the optimistic concurrency race more
	// times than the retry budget allows.
	ErrConflict = errors.New("directory write conflict")

	ErrOwnerExists    = errors.New("tenant already has an owner")
	ErrOwnerImmutable = errors.New("the owner's membership cannot be changed")
	ErrPersonalTenant = errors.New("personal tenant membership is fixed")
	ErrTenantActive   = errors.New("tenant is still some user's active tenant")
	ErrNotMember      = errors.New("user is not a member of the tenant")
	ErrTenantDeleted  = errors.New("tenant is deleted")
	ErrInvalidRole    = errors.New("invalid role")
)

// translate maps store errors onto the directory's own taxonomy.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, couch.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, couch.ErrUnavailable):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case errors.Is(err, couch.ErrConflict):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return err
	}
}
