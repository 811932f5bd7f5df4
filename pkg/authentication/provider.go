// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	otelHTTPClient = http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
)

// NewProvider creates an OIDC provider using the issuer's well-known configuration
func NewProvider(ctx context.Context, issuer string) (*oidc.Provider, error) {
	// Use otel-instrumented HTTP client
	ctx = oidc.ClientContext(ctx, &otelHTTPClient)

	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %v", err)
	}

	return provider, nil
}

// NewVerifierForIssuer builds the signature verifier for one trusted issuer.
// When jwksURL is set the remote key set is fetched from it directly, skipping
// discovery; otherwise the issuer's well-known configuration is used.
//
// Expiry is always checked separately with leeway, so the oidc verifier is
// configured to skip its own expiry check.
func NewVerifierForIssuer(ctx context.Context, issuer, jwksURL string) (*oidc.IDTokenVerifier, error) {
	ctx = oidc.ClientContext(ctx, &otelHTTPClient)

	config := &oidc.Config{
		SkipClientIDCheck:    true,
		SkipIssuerCheck:      false,
		SkipExpiryCheck:      true,
		SupportedSigningAlgs: []string{oidc.RS256},
	}

	if jwksURL != "" {
		keySet := oidc.NewRemoteKeySet(ctx, jwksURL)
		return oidc.NewVerifier(issuer, keySet, config), nil
	}

	provider, err := NewProvider(ctx, issuer)
	if err != nil {
		return nil, err
	}

	return provider.Verifier(config), nil
}
