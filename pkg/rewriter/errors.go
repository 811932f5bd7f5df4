// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package rewriter

import (
	"errors"
	"fmt"
)

var (
	// ErrTenantMismatch means a write names a tenant other than the one the
	// request resolved to. Writes must never silently cross tenants.
	ErrTenantMismatch = errors.New("document tenant does not match the resolved tenant")

	// ErrMalformedBody means a body that needs rewriting could not be parsed.
	// Rejecting is stricter than forwarding the body unscoped.
	ErrMalformedBody = errors.New("request body is not a valid JSON document")
)

// BulkIndexError reports which document of a bulk write failed validation.
// The whole batch is withheld from the store.
type BulkIndexError struct {
	Index int
	Err   error
}

func (e *BulkIndexError) Error() string {
	return fmt.Sprintf("document at index %d: %v", e.Index, e.Err)
}

func (e *BulkIndexError) Unwrap() error {
	return e.Err
}
