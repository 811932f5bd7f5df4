// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"

	"github.com/canonical/tenant-proxy/internal/types"
)

// Define a private custom type to avoid collisions
type contextKey struct{}

var claimsContextKey = contextKey{}

// WithClaims returns a new context carrying the verified token claims.
func WithClaims(ctx context.Context, claims *types.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// GetClaims retrieves the verified claims from the context.
// Returns nil and false if no claims are present.
func GetClaims(ctx context.Context) (*types.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*types.Claims)
	return claims, ok
}
