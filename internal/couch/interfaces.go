// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package couch

import (
	"context"
	"encoding/json"
)

// DocStoreInterface is the subset of the document store API the proxy's own
// bookkeeping needs. The proxied data path does not go through it.
type DocStoreInterface interface {
	// GetDoc fetches a document by ID into out, including its revision.
	GetDoc(ctx context.Context, db, id string, out interface{}) error
	// PutDoc writes a document and returns the new revision. The document's
	// current revision must be set for updates (optimistic concurrency).
	PutDoc(ctx context.Context, db, id string, doc interface{}) (string, error)
	// DeleteDoc removes a document at the given revision.
	DeleteDoc(ctx context.Context, db, id, rev string) error
	// Find runs a selector query and returns the raw matching documents.
	Find(ctx context.Context, db string, query interface{}) ([]json.RawMessage, error)
	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}

// ProvisionerInterface covers the out-of-band database and index management
// surface used before the proxy starts serving.
type ProvisionerInterface interface {
	DBExists(ctx context.Context, name string) (bool, error)
	CreateDB(ctx context.Context, name string) error
	AllDBs(ctx context.Context) ([]string, error)
	CreateIndex(ctx context.Context, db, ddoc, name string, fields []string) error
}
