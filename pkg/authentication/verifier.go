// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"

	"github.com/canonical/tenant-proxy/internal/logging"
	"github.com/canonical/tenant-proxy/internal/monitoring"
	"github.com/canonical/tenant-proxy/internal/tracing"
	"github.com/canonical/tenant-proxy/internal/types"
)

// expiryLeeway absorbs clock skew between the issuer and this service.
const expiryLeeway = 5 * time.Minute

type TokenVerifier struct {
	trustedIssuers  []string
	jwksURLs        map[string]string
	skipExpiryCheck bool

	mu        sync.RWMutex
	verifiers map[string]*oidc.IDTokenVerifier

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// VerifyToken validates a raw JWT: the issuer claim is read without
// verification to pick the key set, the signature and issuer are verified
// against it, and expiry is checked with leeway. All failures come back as
// *AuthError with a stable reason code.
func (v *TokenVerifier) VerifyToken(ctx context.Context, rawToken string) (*types.Claims, error) {
	ctx, span := v.tracer.Start(ctx, "authentication.TokenVerifier.VerifyToken")
	defer span.End()

	issuer, err := peekIssuer(rawToken)
	if err != nil {
		return nil, err
	}

	if !slices.Contains(v.trustedIssuers, issuer) {
		v.logger.Debugf("rejected token from untrusted issuer %q", issuer)
		return nil, newAuthError(ReasonVerificationFailed, fmt.Errorf("issuer %q is not trusted", issuer))
	}

	verifier, err := v.verifierFor(ctx, issuer)
	if err != nil {
		return nil, newAuthError(ReasonJWKSUnavailable, err)
	}

	idToken, err := verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, classifyVerifyError(err)
	}

	var claims struct {
		Subject   string `json:"sub"`
		Email     string `json:"email"`
		Name      string `json:"name"`
		SessionID string `json:"sid"`
		Azp       string `json:"azp"`
	}
	if err := idToken.Claims(&claims); err != nil {
		v.logger.Debugf("failed to extract claims: %v", err)
		return nil, newAuthError(ReasonInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, newAuthError(ReasonInvalidToken, fmt.Errorf("token has no subject"))
	}

	if !v.skipExpiryCheck && time.Now().After(idToken.Expiry.Add(expiryLeeway)) {
		return nil, newAuthError(ReasonTokenExpired, fmt.Errorf("token expired at %s", idToken.Expiry.UTC().Format(time.RFC3339)))
	}

	sessionID := claims.SessionID
	if sessionID == "" {
		sessionID = deriveSessionID(rawToken)
	}

	application := claims.Azp
	if application == "" && len(idToken.Audience) > 0 {
		application = idToken.Audience[0]
	}

	return &types.Claims{
		Subject:     claims.Subject,
		Issuer:      issuer,
		Email:       claims.Email,
		Name:        claims.Name,
		SessionID:   sessionID,
		Application: application,
		ExpiresAt:   idToken.Expiry,
	}, nil
}

// verifierFor returns the cached verifier for an issuer, building it on first
// use so the service starts even when an issuer is briefly unreachable.
func (v *TokenVerifier) verifierFor(ctx context.Context, issuer string) (*oidc.IDTokenVerifier, error) {
	v.mu.RLock()
	verifier, ok := v.verifiers[issuer]
	v.mu.RUnlock()
	if ok {
		return verifier, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if verifier, ok := v.verifiers[issuer]; ok {
		return verifier, nil
	}

	verifier, err := NewVerifierForIssuer(ctx, issuer, v.jwksURLs[issuer])
	if err != nil {
		return nil, err
	}

	v.verifiers[issuer] = verifier
	return verifier, nil
}

// peekIssuer reads the issuer claim without verifying the token. The issuer
// selects which key set to verify against; nothing else is trusted yet.
func peekIssuer(rawToken string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return "", newAuthError(ReasonInvalidToken, err)
	}

	issuer, err := claims.GetIssuer()
	if err != nil || issuer == "" {
		return "", newAuthError(ReasonMissingIssuer, fmt.Errorf("token has no issuer claim"))
	}

	return issuer, nil
}

// deriveSessionID is the fallback for tokens without a sid claim: the hash of
// the signature segment is stable for a token's lifetime and changes on every
// re-issue, which is exactly the cache key lifetime we want.
func deriveSessionID(rawToken string) string {
	parts := strings.Split(rawToken, ".")
	signature := parts[len(parts)-1]
	sum := sha256.Sum256([]byte(signature))
	return "sess_" + hex.EncodeToString(sum[:])
}

func classifyVerifyError(err error) *AuthError {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "fetching keys") || strings.Contains(msg, "get keys"):
		return newAuthError(ReasonJWKSUnavailable, err)
	case strings.Contains(msg, "signature"):
		return newAuthError(ReasonInvalidSignature, err)
	case strings.Contains(msg, "malformed"):
		return newAuthError(ReasonInvalidToken, err)
	default:
		return newAuthError(ReasonVerificationFailed, err)
	}
}

func NewTokenVerifier(
	trustedIssuers []string,
	jwksURLs map[string]string,
	skipExpiryCheck bool,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *TokenVerifier {
	v := &TokenVerifier{
		trustedIssuers:  trustedIssuers,
		jwksURLs:        jwksURLs,
		skipExpiryCheck: skipExpiryCheck,
		verifiers:       make(map[string]*oidc.IDTokenVerifier),
		tracer:          tracer,
		monitor:         monitor,
		logger:          logger,
	}

	if skipExpiryCheck {
		logger.Security().ExpiryCheckDisabled()
	}

	return v
}
