// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package rewriter

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/canonical/tenant-proxy/internal/logging"
	"github.com/canonical/tenant-proxy/internal/monitoring"
	"github.com/canonical/tenant-proxy/internal/sessions"
	"github.com/canonical/tenant-proxy/internal/tracing"
)

const (
	tenantA = "tenant_aaa"
	tenantB = "tenant_bbb"
)

func newTestRewriter(enforce bool) *Rewriter {
	return NewRewriter("tenant_id", []string{"attachment"}, enforce, tracing.NewNoopTracer(), monitoring.NewNoopMonitor(), logging.NewNoopLogger())
}

func resolutionA() sessions.Resolution {
	return sessions.Resolution{UserID: "user_a", TenantID: tenantA}
}

func adminResolution() sessions.Resolution {
	return sessions.Resolution{UserID: "user_root", TenantID: "tenant_administrators", Admin: true}
}

func TestRewriteDocWrite(t *testing.T) {
	testCases := []struct {
		name        string
		docID       string
		body        string
		expectedErr error
	}{
		{
			name: "injects missing tenant field",
			body: `{"title":"note"}`,
		},
		{
			name: "accepts matching tenant field",
			body: `{"title":"note","tenant_id":"` + tenantA + `"}`,
		},
		{
			name:        "rejects mismatched tenant field",
			body:        `{"title":"note","tenant_id":"` + tenantB + `"}`,
			expectedErr: ErrTenantMismatch,
		},
		{
			name:  "accepts matching scoped ID",
			docID: "attachment:" + tenantA + ":img.png",
			body:  `{"data":"..."}`,
		},
		{
			name:        "rejects mismatched scoped ID",
			docID:       "attachment:" + tenantB + ":img.png",
			body:        `{"data":"..."}`,
			expectedErr: ErrTenantMismatch,
		},
		{
			name:        "rejects mismatched scoped ID from body",
			body:        `{"_id":"attachment:` + tenantB + `:img.png"}`,
			expectedErr: ErrTenantMismatch,
		},
		{
			name:        "rejects unparseable body",
			body:        `{"title":`,
			expectedErr: ErrMalformedBody,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRewriter(true)

			rewritten, err := r.RewriteDocWrite(tc.docID, []byte(tc.body), resolutionA())
			if tc.expectedErr != nil {
				if !errors.Is(err, tc.expectedErr) {
					t.Fatalf("expected %v, got %v", tc.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var doc map[string]interface{}
			if err := json.Unmarshal(rewritten, &doc); err != nil {
				t.Fatalf("rewritten body is not JSON: %v", err)
			}
			if doc["tenant_id"] != tenantA {
				t.Errorf("expected tenant field %q, got %v", tenantA, doc["tenant_id"])
			}
		})
	}
}

func TestRewriteDocWriteAdminExempt(t *testing.T) {
	r := newTestRewriter(true)

	body := []byte(`{"title":"note","tenant_id":"` + tenantB + `"}`)
	rewritten, err := r.RewriteDocWrite("", body, adminResolution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(rewritten) != string(body) {
		t.Error("expected admin writes to pass through unmodified")
	}
}

func TestRewriteBulk(t *testing.T) {
	r := newTestRewriter(true)

	body := `{"docs":[{"a":1},{"b":2},{"c":3,"tenant_id":"` + tenantB + `"},{"d":4},{"e":5}]}`

	_, err := r.RewriteBulk([]byte(body), resolutionA())
	if err == nil {
		t.Fatal("expected an error")
	}

	var bulkErr *BulkIndexError
	if !errors.As(err, &bulkErr) {
		t.Fatalf("expected *BulkIndexError, got %T: %v", err, err)
	}
	if bulkErr.Index != 2 {
		t.Errorf("expected offending index 2, got %d", bulkErr.Index)
	}
	if !errors.Is(err, ErrTenantMismatch) {
		t.Errorf("expected ErrTenantMismatch, got %v", err)
	}
}

func TestRewriteBulkInjectsAll(t *testing.T) {
	r := newTestRewriter(true)

	body := `{"docs":[{"a":1},{"b":2,"tenant_id":"` + tenantA + `"}]}`
	rewritten, err := r.RewriteBulk([]byte(body), resolutionA())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var payload struct {
		Docs []map[string]interface{} `json:"docs"`
	}
	if err := json.Unmarshal(rewritten, &payload); err != nil {
		t.Fatalf("rewritten body is not JSON: %v", err)
	}
	for i, doc := range payload.Docs {
		if doc["tenant_id"] != tenantA {
			t.Errorf("document %d missing tenant field: %v", i, doc)
		}
	}
}

func TestRewriteFind(t *testing.T) {
	r := newTestRewriter(true)

	body := `{"selector":{"year":{"$gt":2020}},"limit":10}`
	rewritten, err := r.RewriteFind([]byte(body), resolutionA())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var query struct {
		Selector map[string]interface{} `json:"selector"`
		Limit    int                    `json:"limit"`
	}
	if err := json.Unmarshal(rewritten, &query); err != nil {
		t.Fatalf("rewritten query is not JSON: %v", err)
	}

	and, ok := query.Selector["$and"].([]interface{})
	if !ok || len(and) != 2 {
		t.Fatalf("expected a two-clause $and selector, got %v", query.Selector)
	}
	tenantClause, ok := and[1].(map[string]interface{})
	if !ok {
		t.Fatalf("expected tenant clause, got %v", and[1])
	}
	eq, ok := tenantClause["tenant_id"].(map[string]interface{})
	if !ok || eq["$eq"] != tenantA {
		t.Errorf("expected tenant equality constraint, got %v", tenantClause)
	}
	if query.Limit != 10 {
		t.Errorf("expected limit to survive the rewrite, got %d", query.Limit)
	}
}

func TestRewriteFindWithoutSelector(t *testing.T) {
	r := newTestRewriter(true)

	rewritten, err := r.RewriteFind([]byte(`{}`), resolutionA())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var query map[string]interface{}
	if err := json.Unmarshal(rewritten, &query); err != nil {
		t.Fatalf("rewritten query is not JSON: %v", err)
	}
	if _, ok := query["selector"]; !ok {
		t.Error("expected a selector to be added")
	}
}

func TestFilterDocResponse(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		visible bool
	}{
		{
			name:    "own tenant",
			body:    `{"_id":"doc1","tenant_id":"` + tenantA + `"}`,
			visible: true,
		},
		{
			name:    "other tenant",
			body:    `{"_id":"doc1","tenant_id":"` + tenantB + `"}`,
			visible: false,
		},
		{
			name:    "no tenant field",
			body:    `{"_id":"doc1"}`,
			visible: false,
		},
		{
			name:    "own scoped ID without field",
			body:    `{"_id":"attachment:` + tenantA + `:img.png"}`,
			visible: true,
		},
		{
			name:    "unparseable body passes through",
			body:    `<html>`,
			visible: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRewriter(true)

			if got := r.FilterDocResponse([]byte(tc.body), resolutionA()); got != tc.visible {
				t.Errorf("expected visible=%v, got %v", tc.visible, got)
			}
		})
	}
}

func TestFilterAllDocs(t *testing.T) {
	r := newTestRewriter(true)

	body := `{
		"total_rows": 4,
		"offset": 0,
		"rows": [
			{"id":"doc1","key":"doc1","doc":{"_id":"doc1","tenant_id":"` + tenantA + `"}},
			{"id":"doc2","key":"doc2","doc":{"_id":"doc2","tenant_id":"` + tenantB + `"}},
			{"id":"attachment:` + tenantA + `:img.png","key":"k"},
			{"id":"doc4","key":"doc4"}
		]
	}`

	filtered, err := r.FilterAllDocs([]byte(body), resolutionA(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var listing struct {
		TotalRows int                      `json:"total_rows"`
		Rows      []map[string]interface{} `json:"rows"`
	}
	if err := json.Unmarshal(filtered, &listing); err != nil {
		t.Fatalf("filtered listing is not JSON: %v", err)
	}

	if len(listing.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(listing.Rows))
	}
	if listing.TotalRows != 2 {
		t.Errorf("expected total_rows corrected to 2, got %d", listing.TotalRows)
	}
	if listing.Rows[0]["id"] != "doc1" {
		t.Errorf("unexpected first row: %v", listing.Rows[0])
	}
}

func TestFilterAllDocsAdminUnfiltered(t *testing.T) {
	r := newTestRewriter(true)

	body := `{"total_rows":2,"rows":[{"id":"doc1","doc":{"_id":"doc1"}},{"id":"doc2","doc":{"_id":"doc2","tenant_id":"` + tenantB + `"}}]}`
	filtered, err := r.FilterAllDocs([]byte(body), adminResolution(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(filtered) != body {
		t.Error("expected admin listing to pass through unmodified")
	}
}

func TestFilterAllDocsStripsUnrequestedDocs(t *testing.T) {
	r := newTestRewriter(true)

	// The scan carries documents for filtering even when the caller did not
	// ask for them; they must not leak into the response.
	body := `{
		"total_rows": 2,
		"offset": 0,
		"rows": [
			{"id":"doc1","key":"doc1","doc":{"_id":"doc1","tenant_id":"` + tenantA + `"}},
			{"id":"doc2","key":"doc2","doc":{"_id":"doc2","tenant_id":"` + tenantB + `"}}
		]
	}`

	filtered, err := r.FilterAllDocs([]byte(body), resolutionA(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var listing struct {
		TotalRows int                      `json:"total_rows"`
		Rows      []map[string]interface{} `json:"rows"`
	}
	if err := json.Unmarshal(filtered, &listing); err != nil {
		t.Fatalf("filtered listing is not JSON: %v", err)
	}

	if len(listing.Rows) != 1 || listing.TotalRows != 1 {
		t.Fatalf("expected a single row for the caller's tenant, got %+v", listing)
	}
	if listing.Rows[0]["id"] != "doc1" {
		t.Errorf("unexpected row: %v", listing.Rows[0])
	}
	if _, ok := listing.Rows[0]["doc"]; ok {
		t.Error("expected the doc to be stripped when the caller did not ask for it")
	}
}

func TestEnforcementDisabled(t *testing.T) {
	r := newTestRewriter(false)

	body := []byte(`{"title":"note","tenant_id":"` + tenantB + `"}`)
	rewritten, err := r.RewriteDocWrite("", body, resolutionA())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(rewritten) != string(body) {
		t.Error("expected writes to pass through with enforcement disabled")
	}
}
