// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/canonical/tenant-proxy/internal/logging"
	"github.com/canonical/tenant-proxy/internal/monitoring"
	"github.com/canonical/tenant-proxy/internal/tracing"
	"github.com/canonical/tenant-proxy/internal/types"
)

type stubVerifier struct {
	claims *types.Claims
	err    error
}

func (s *stubVerifier) VerifyToken(ctx context.Context, rawToken string) (*types.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func newTestMiddleware(verifier TokenVerifierInterface) *Middleware {
	return NewMiddleware(verifier, tracing.NewNoopTracer(), monitoring.NewNoopMonitor(), logging.NewNoopLogger())
}

func TestAuthenticateInjectsClaims(t *testing.T) {
	want := &types.Claims{Subject: "subject-1", SessionID: "session-1"}
	m := newTestMiddleware(&stubVerifier{claims: want})

	var got *types.Claims
	handler := m.Authenticate()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetClaims(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/notes/doc-1", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got == nil || got.Subject != want.Subject {
		t.Errorf("expected claims in context, got %+v", got)
	}
}

func TestAuthenticateRejections(t *testing.T) {
	testCases := []struct {
		name           string
		authorization  string
		verifyErr      error
		expectedReason string
	}{
		{
			name:           "missing header",
			expectedReason: ReasonInvalidToken,
		},
		{
			name:           "not a bearer token",
			authorization:  "Basic dXNlcjpwYXNz",
			expectedReason: ReasonInvalidToken,
		},
		{
			name:           "expired token",
			authorization:  "Bearer some-token",
			verifyErr:      newAuthError(ReasonTokenExpired, errors.New("token expired")),
			expectedReason: ReasonTokenExpired,
		},
		{
			name:           "key set unavailable",
			authorization:  "Bearer some-token",
			verifyErr:      newAuthError(ReasonJWKSUnavailable, errors.New("connection refused")),
			expectedReason: ReasonJWKSUnavailable,
		},
		{
			name:           "unclassified failure",
			authorization:  "Bearer some-token",
			verifyErr:      errors.New("boom"),
			expectedReason: ReasonVerificationFailed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestMiddleware(&stubVerifier{err: tc.verifyErr})

			handler := m.Authenticate()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler must not be reached")
			}))

			req := httptest.NewRequest(http.MethodGet, "/notes/doc-1", nil)
			if tc.authorization != "" {
				req.Header.Set("Authorization", tc.authorization)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}

			var body struct {
				Error string `json:"error"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body.Error != tc.expectedReason {
				t.Errorf("expected reason %q, got %q", tc.expectedReason, body.Error)
			}
		})
	}
}
