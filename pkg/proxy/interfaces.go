// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package proxy

import (
	"context"

	"github.com/canonical/tenant-proxy/internal/sessions"
	"github.com/canonical/tenant-proxy/internal/types"
)

type ResolverInterface interface {
	Resolve(ctx context.Context, claims *types.Claims) (sessions.Resolution, error)
}

type RewriterInterface interface {
	RewriteDocWrite(docID string, body []byte, resolution sessions.Resolution) ([]byte, error)
	RewriteBulk(body []byte, resolution sessions.Resolution) ([]byte, error)
	RewriteFind(body []byte, resolution sessions.Resolution) ([]byte, error)
	FilterDocResponse(body []byte, resolution sessions.Resolution) bool
	FilterAllDocs(body []byte, resolution sessions.Resolution, includeDocs bool) ([]byte, error)
}
