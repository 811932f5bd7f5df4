// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"

	"github.com/canonical/tenant-proxy/internal/types"
)

// NoopVerifier accepts every token and returns fixed claims. Test use only.
type NoopVerifier struct {
	Claims types.Claims
}

func (v *NoopVerifier) VerifyToken(ctx context.Context, rawToken string) (*types.Claims, error) {
	claims := v.Claims
	return &claims, nil
}

func NewNoopVerifier() *NoopVerifier {
	return &NoopVerifier{
		Claims: types.Claims{
			Subject:   "noop-subject",
			Issuer:    "noop-issuer",
			SessionID: "noop-session",
		},
	}
}
