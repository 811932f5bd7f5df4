// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package rewriter scopes store requests and responses to the resolved
// tenant: writes get the tenant field injected or rejected on mismatch,
// selector queries get a conjunctive tenant constraint, and list responses
// are filtered post-hoc.
package rewriter

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/canonical/tenant-proxy/internal/logging"
	"github.com/canonical/tenant-proxy/internal/monitoring"
	"github.com/canonical/tenant-proxy/internal/sessions"
	"github.com/canonical/tenant-proxy/internal/tracing"
)

type Rewriter struct {
	tenantField string
	scopedTypes []string
	enforce     bool

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewRewriter(
	tenantField string,
	scopedTypes []string,
	enforce bool,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Rewriter {
	return &Rewriter{
		tenantField: tenantField,
		scopedTypes: scopedTypes,
		enforce:     enforce,
		tracer:      tracer,
		monitor:     monitor,
		logger:      logger,
	}
}

// exempt reports whether the resolution bypasses tenant scoping entirely.
// Admin resolutions see and write everything, as does the whole service when
// enforcement is switched off.
func (r *Rewriter) exempt(resolution sessions.Resolution) bool {
	return !r.enforce || resolution.Admin
}

// RewriteDocWrite validates and scopes a single-document write body. The
// tenant field is injected when absent; a conflicting value is rejected. For
// the ID-scoped document family the tenant embedded in the ID must also match.
func (r *Rewriter) RewriteDocWrite(docID string, body []byte, resolution sessions.Resolution) ([]byte, error) {
	if r.exempt(resolution) {
		return body, nil
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	if err := r.scopeDoc(docID, doc, resolution.TenantID); err != nil {
		return nil, err
	}

	return json.Marshal(doc)
}

// scopeDoc applies the tenant rules to one parsed document in place.
func (r *Rewriter) scopeDoc(docID string, doc map[string]interface{}, tenantID string) error {
	if docID == "" {
		if id, ok := doc["_id"].(string); ok {
			docID = id
		}
	}

	if embedded, ok := r.embeddedTenant(docID); ok && embedded != tenantID {
		return fmt.Errorf("%w: document ID is scoped to %s", ErrTenantMismatch, embedded)
	}

	if value, ok := doc[r.tenantField]; ok {
		if value != tenantID {
			return fmt.Errorf("%w: body names %v", ErrTenantMismatch, value)
		}
		return nil
	}

	doc[r.tenantField] = tenantID
	return nil
}

// RewriteBulk validates every document of a _bulk_docs body. One bad document
// withholds the entire batch; the error names its index.
func (r *Rewriter) RewriteBulk(body []byte, resolution sessions.Resolution) ([]byte, error) {
	if r.exempt(resolution) {
		return body, nil
	}

	var payload struct {
		Docs     []map[string]interface{} `json:"docs"`
		NewEdits *bool                    `json:"new_edits,omitempty"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	for i, doc := range payload.Docs {
		if err := r.scopeDoc("", doc, resolution.TenantID); err != nil {
			return nil, &BulkIndexError{Index: i, Err: err}
		}
	}

	return json.Marshal(payload)
}

// RewriteFind adds a conjunctive tenant constraint to a _find selector. The
// caller's selector is preserved inside an $and, so no selector shape can
// escape the tenant scope.
func (r *Rewriter) RewriteFind(body []byte, resolution sessions.Resolution) ([]byte, error) {
	if r.exempt(resolution) {
		return body, nil
	}

	var query map[string]interface{}
	if err := json.Unmarshal(body, &query); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	tenantClause := map[string]interface{}{
		r.tenantField: map[string]interface{}{"$eq": resolution.TenantID},
	}

	if selector, ok := query["selector"]; ok && selector != nil {
		query["selector"] = map[string]interface{}{
			"$and": []interface{}{selector, tenantClause},
		}
	} else {
		query["selector"] = tenantClause
	}

	return json.Marshal(query)
}

// FilterDocResponse decides whether a fetched document is visible to the
// resolution. A false return means the document belongs to another tenant;
// the caller masks it as not found.
func (r *Rewriter) FilterDocResponse(body []byte, resolution sessions.Resolution) bool {
	if r.exempt(resolution) {
		return true
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		// Store responses are JSON unless something upstream already went
		// wrong; nothing tenant-scoped to leak here.
		r.logger.Warnf("unparseable document response passed through: %v", err)
		return true
	}

	return r.docVisible(doc, resolution.TenantID)
}

func (r *Rewriter) docVisible(doc map[string]interface{}, tenantID string) bool {
	if value, ok := doc[r.tenantField]; ok {
		return value == tenantID
	}
	if id, ok := doc["_id"].(string); ok {
		if embedded, ok := r.embeddedTenant(id); ok {
			return embedded == tenantID
		}
	}
	return false
}

// FilterAllDocs filters an _all_docs response to the resolution's tenant and
// corrects total_rows to the filtered count. The proxy always scans upstream
// with include_docs so the tenant field is visible; includeDocs says whether
// the caller asked for the documents, and rows keep them only then. Rows
// without an included document fall back to the ID-scoped family; anything
// else is dropped.
func (r *Rewriter) FilterAllDocs(body []byte, resolution sessions.Resolution, includeDocs bool) ([]byte, error) {
	if r.exempt(resolution) && includeDocs {
		return body, nil
	}

	var listing struct {
		TotalRows int                      `json:"total_rows"`
		Offset    *int                     `json:"offset,omitempty"`
		Rows      []map[string]interface{} `json:"rows"`
	}
	if err := json.Unmarshal(body, &listing); err != nil {
		r.logger.Warnf("unparseable listing response passed through: %v", err)
		return body, nil
	}

	if !r.exempt(resolution) {
		filtered := make([]map[string]interface{}, 0, len(listing.Rows))
		for _, row := range listing.Rows {
			if r.rowVisible(row, resolution.TenantID) {
				filtered = append(filtered, row)
			}
		}

		listing.Rows = filtered
		listing.TotalRows = len(filtered)
	}

	if !includeDocs {
		for _, row := range listing.Rows {
			delete(row, "doc")
		}
	}

	return json.Marshal(listing)
}

func (r *Rewriter) rowVisible(row map[string]interface{}, tenantID string) bool {
	if doc, ok := row["doc"].(map[string]interface{}); ok {
		return r.docVisible(doc, tenantID)
	}
	if id, ok := row["id"].(string); ok {
		if embedded, ok := r.embeddedTenant(id); ok {
			return embedded == tenantID
		}
	}
	return false
}

// embeddedTenant parses the "<type>:<tenant>:<suffix>" document ID family and
// returns the embedded tenant for configured types.
func (r *Rewriter) embeddedTenant(docID string) (string, bool) {
	parts := strings.SplitN(docID, ":", 3)
	if len(parts) != 3 || parts[1] == "" {
		return "", false
	}
	if !slices.Contains(r.scopedTypes, parts[0]) {
		return "", false
	}
	return parts[1], true
}
