// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import "fmt"

// Stable machine-readable reasons returned in 401 bodies. Clients branch on
// these, so the strings are part of the API surface.
const (
	ReasonInvalidToken       = "invalid_token"
	ReasonMissingIssuer      = "missing_issuer"
	ReasonTokenExpired       = "token_expired"
	ReasonInvalidSignature   = "invalid_signature"
	ReasonJWKSUnavailable    = "jwks_unavailable"
	ReasonVerificationFailed = "verification_failed"
)

type AuthError struct {
	Reason string
	err    error
}

func (e *AuthError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.err)
	}
	return e.Reason
}

func (e *AuthError) Unwrap() error {
	return e.err
}

func newAuthError(reason string, err error) *AuthError {
	return &AuthError{Reason: reason, err: err}
}

// ReasonFor maps any verification error to its stable reason code, defaulting
// to verification_failed for errors without a more specific classification.
func ReasonFor(err error) string {
	if authErr, ok := err.(*AuthError); ok {
		return authErr.Reason
	}
	return ReasonVerificationFailed
}
