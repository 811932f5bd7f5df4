// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/canonical/tenant-proxy/internal/types"
)

type ProviderInterface interface {
	// Verifier returns the token verifier associated with the specified OIDC issuer
	Verifier(*oidc.Config) *oidc.IDTokenVerifier
}

type TokenVerifierInterface interface {
	// VerifyToken verifies a raw JWT string against the issuer's key set.
	// Returns the token's claims if the token is valid, otherwise an
	// *AuthError carrying a stable reason code.
	VerifyToken(ctx context.Context, rawToken string) (*types.Claims, error)
}
