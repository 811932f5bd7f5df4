// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package proxy is the caller-facing data path: a narrow set of document
// store endpoints, each one resolved to a tenant, rewritten on the way in and
// filtered on the way out. Everything the allow-list does not name is
// rejected before it reaches the store.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"slices"
	"strconv"
	"time"

	chi "github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/canonical/tenant-proxy/internal/directory"
	"github.com/canonical/tenant-proxy/internal/logging"
	"github.com/canonical/tenant-proxy/internal/monitoring"
	"github.com/canonical/tenant-proxy/internal/sessions"
	"github.com/canonical/tenant-proxy/internal/tracing"
	"github.com/canonical/tenant-proxy/pkg/authentication"
	"github.com/canonical/tenant-proxy/pkg/rewriter"
)

// maxBodyBytes bounds rewritable request bodies.
const maxBodyBytes = 8 << 20

var upstreamClient = http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}

type Config struct {
	// Upstream is the document store base URL, without credentials.
	Upstream *url.URL
	// Username and Password are the static service credentials injected on
	// every forwarded request. Caller tokens never reach the store.
	Username string
	Password string

	// RegistryDB is never exposed through the proxy.
	RegistryDB string
	// DataDBs restricts which databases are proxied; empty allows all but the
	// registry.
	DataDBs []string

	StoreTimeout   time.Duration
	ChangesTimeout time.Duration
}

type API struct {
	config   Config
	resolver ResolverInterface
	rewriter RewriterInterface

	changesProxy *httputil.ReverseProxy

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewAPI(
	config Config,
	resolver ResolverInterface,
	rw RewriterInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	a := &API{
		config:   config,
		resolver: resolver,
		rewriter: rw,
		tracer:   tracer,
		monitor:  monitor,
		logger:   logger,
	}

	// The continuous _changes feed streams through untouched; FlushInterval
	// -1 flushes every chunk so long-polling clients see events as they
	// happen.
	a.changesProxy = &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(config.Upstream)
			r.Out.Header.Del("Authorization")
			r.Out.SetBasicAuth(config.Username, config.Password)
		},
		FlushInterval: -1,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Errorf("changes feed proxy error: %v", err)
			a.errorResponse(w, http.StatusBadGateway, "bad_gateway", "store unreachable")
		},
	}

	return a
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Get("/{db}/_all_docs", a.allDocs)
	mux.Post("/{db}/_find", a.find)
	mux.Post("/{db}/_bulk_docs", a.bulkDocs)
	mux.Get("/{db}/_changes", a.changes)
	mux.Get("/{db}/{docid}", a.getDoc)
	mux.Put("/{db}/{docid}", a.putDoc)
	mux.Delete("/{db}/{docid}", a.deleteDoc)

	// Everything else under a database is off the allow-list.
	mux.HandleFunc("/{db}", a.rejectEndpoint)
	mux.HandleFunc("/{db}/*", a.rejectEndpoint)
}

// resolveRequest authorizes the request against the database allow-list and
// resolves the caller's tenant. A false return means the response has already
// been written.
func (a *API) resolveRequest(w http.ResponseWriter, r *http.Request) (sessions.Resolution, bool) {
	db := chi.URLParam(r, "db")
	if db == a.config.RegistryDB {
		a.errorResponse(w, http.StatusForbidden, "forbidden", "database is not accessible through the proxy")
		return sessions.Resolution{}, false
	}
	if len(a.config.DataDBs) > 0 && !slices.Contains(a.config.DataDBs, db) {
		a.errorResponse(w, http.StatusForbidden, "forbidden", fmt.Sprintf("database %q is not proxied", db))
		return sessions.Resolution{}, false
	}

	claims, ok := authentication.GetClaims(r.Context())
	if !ok {
		a.errorResponse(w, http.StatusUnauthorized, "unauthorized", "no verified claims")
		return sessions.Resolution{}, false
	}

	resolution, err := a.resolver.Resolve(r.Context(), claims)
	if err != nil {
		a.logger.Errorf("tenant resolution failed for %s: %v", claims.Subject, err)
		if errors.Is(err, directory.ErrUnavailable) {
			a.errorResponse(w, http.StatusServiceUnavailable, "unavailable", "directory unavailable")
		} else {
			a.errorResponse(w, http.StatusInternalServerError, "internal", "tenant resolution failed")
		}
		return sessions.Resolution{}, false
	}

	return resolution, true
}

func (a *API) getDoc(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "proxy.API.getDoc")
	defer span.End()

	resolution, ok := a.resolveRequest(w, r)
	if !ok {
		return
	}

	status, header, body, err := a.fetch(ctx, r, nil)
	if err != nil {
		a.upstreamError(w, err)
		return
	}

	if status == http.StatusOK && !a.rewriter.FilterDocResponse(body, resolution) {
		a.logger.Security().TenantMismatch(resolution.UserID, resolution.TenantID, r.URL.Path)
		a.errorResponse(w, http.StatusNotFound, "not_found", "missing")
		return
	}

	a.writeUpstream(w, status, header, body)
}

func (a *API) putDoc(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "proxy.API.putDoc")
	defer span.End()

	resolution, ok := a.resolveRequest(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		a.errorResponse(w, http.StatusBadRequest, "bad_request", "failed to read request body")
		return
	}

	rewritten, err := a.rewriter.RewriteDocWrite(chi.URLParam(r, "docid"), body, resolution)
	if err != nil {
		a.rewriteError(w, r, resolution, err)
		return
	}

	status, header, respBody, err := a.fetch(ctx, r, rewritten)
	if err != nil {
		a.upstreamError(w, err)
		return
	}

	a.writeUpstream(w, status, header, respBody)
}

// deleteDoc checks the document's tenant before letting the delete through; a
// delete is a write and must not cross tenants either.
func (a *API) deleteDoc(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "proxy.API.deleteDoc")
	defer span.End()

	resolution, ok := a.resolveRequest(w, r)
	if !ok {
		return
	}

	db := chi.URLParam(r, "db")
	docID := chi.URLParam(r, "docid")

	status, _, body, err := a.fetchPath(ctx, http.MethodGet, fmt.Sprintf("/%s/%s", db, docID), "", nil, a.config.StoreTimeout)
	if err != nil {
		a.upstreamError(w, err)
		return
	}
	if status == http.StatusOK && !a.rewriter.FilterDocResponse(body, resolution) {
		a.logger.Security().TenantMismatch(resolution.UserID, resolution.TenantID, r.URL.Path)
		a.errorResponse(w, http.StatusNotFound, "not_found", "missing")
		return
	}

	respStatus, header, respBody, err := a.fetch(ctx, r, nil)
	if err != nil {
		a.upstreamError(w, err)
		return
	}

	a.writeUpstream(w, respStatus, header, respBody)
}

func (a *API) find(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "proxy.API.find")
	defer span.End()

	resolution, ok := a.resolveRequest(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		a.errorResponse(w, http.StatusBadRequest, "bad_request", "failed to read request body")
		return
	}

	rewritten, err := a.rewriter.RewriteFind(body, resolution)
	if err != nil {
		a.rewriteError(w, r, resolution, err)
		return
	}

	status, header, respBody, err := a.fetch(ctx, r, rewritten)
	if err != nil {
		a.upstreamError(w, err)
		return
	}

	a.writeUpstream(w, status, header, respBody)
}

func (a *API) bulkDocs(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "proxy.API.bulkDocs")
	defer span.End()

	resolution, ok := a.resolveRequest(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		a.errorResponse(w, http.StatusBadRequest, "bad_request", "failed to read request body")
		return
	}

	rewritten, err := a.rewriter.RewriteBulk(body, resolution)
	if err != nil {
		a.rewriteError(w, r, resolution, err)
		return
	}

	status, header, respBody, err := a.fetch(ctx, r, rewritten)
	if err != nil {
		a.upstreamError(w, err)
		return
	}

	a.writeUpstream(w, status, header, respBody)
}

func (a *API) allDocs(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "proxy.API.allDocs")
	defer span.End()

	resolution, ok := a.resolveRequest(w, r)
	if !ok {
		return
	}

	// Tenant affiliation is a body field, so the upstream scan always
	// includes documents; FilterAllDocs strips them again when the caller
	// did not ask for them.
	query := r.URL.Query()
	includeDocs := query.Get("include_docs") == "true"
	if !includeDocs {
		query.Set("include_docs", "true")
	}

	status, header, body, err := a.fetchPath(ctx, r.Method, r.URL.Path, query.Encode(), nil, a.config.StoreTimeout)
	if err != nil {
		a.upstreamError(w, err)
		return
	}

	if status == http.StatusOK {
		filtered, err := a.rewriter.FilterAllDocs(body, resolution, includeDocs)
		if err != nil {
			a.logger.Errorf("failed to filter listing: %v", err)
			a.errorResponse(w, http.StatusInternalServerError, "internal", "failed to filter listing")
			return
		}
		body = filtered
	}

	a.writeUpstream(w, status, header, body)
}

func (a *API) changes(w http.ResponseWriter, r *http.Request) {
	_, span := a.tracer.Start(r.Context(), "proxy.API.changes")
	defer span.End()

	if _, ok := a.resolveRequest(w, r); !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), a.config.ChangesTimeout)
	defer cancel()

	a.changesProxy.ServeHTTP(w, r.WithContext(ctx))
}

func (a *API) rejectEndpoint(w http.ResponseWriter, r *http.Request) {
	a.logger.Debugf("rejected store endpoint %s %s", r.Method, r.URL.Path)
	a.errorResponse(w, http.StatusForbidden, "forbidden", fmt.Sprintf("endpoint %s is not allowed through the proxy", r.URL.Path))
}

// fetch forwards the inbound request to the store, optionally replacing its
// body, and returns the full response.
func (a *API) fetch(ctx context.Context, r *http.Request, body []byte) (int, http.Header, []byte, error) {
	return a.fetchPath(ctx, r.Method, r.URL.Path, r.URL.RawQuery, body, a.config.StoreTimeout)
}

func (a *API) fetchPath(ctx context.Context, method, path, rawQuery string, body []byte, timeout time.Duration) (int, http.Header, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target := *a.config.Upstream
	target.Path = path
	target.RawQuery = rawQuery

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return 0, nil, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// The caller's token stops here; the store only ever sees the service
	// credentials.
	req.SetBasicAuth(a.config.Username, a.config.Password)

	resp, err := upstreamClient.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, err
	}

	return resp.StatusCode, resp.Header, respBody, nil
}

func (a *API) writeUpstream(w http.ResponseWriter, status int, header http.Header, body []byte) {
	if ct := header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	if etag := header.Get("ETag"); etag != "" {
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		a.logger.Errorf("failed to write response: %v", err)
	}
}

func (a *API) rewriteError(w http.ResponseWriter, r *http.Request, resolution sessions.Resolution, err error) {
	var bulkErr *rewriter.BulkIndexError

	switch {
	case errors.As(err, &bulkErr):
		if errors.Is(err, rewriter.ErrMalformedBody) {
			a.errorResponse(w, http.StatusBadRequest, "bad_request", bulkErr.Error())
			return
		}
		a.logger.Security().TenantMismatch(resolution.UserID, resolution.TenantID, r.URL.Path)
		a.errorResponse(w, http.StatusForbidden, "tenant_mismatch", bulkErr.Error())
	case errors.Is(err, rewriter.ErrTenantMismatch):
		a.logger.Security().TenantMismatch(resolution.UserID, resolution.TenantID, r.URL.Path)
		a.errorResponse(w, http.StatusForbidden, "tenant_mismatch", err.Error())
	case errors.Is(err, rewriter.ErrMalformedBody):
		a.errorResponse(w, http.StatusBadRequest, "bad_request", err.Error())
	default:
		a.logger.Errorf("rewrite failed: %v", err)
		a.errorResponse(w, http.StatusInternalServerError, "internal", "request rewrite failed")
	}
}

func (a *API) upstreamError(w http.ResponseWriter, err error) {
	a.logger.Errorf("store request failed: %v", err)
	a.errorResponse(w, http.StatusBadGateway, "bad_gateway", "store unreachable")
}

func (a *API) errorResponse(w http.ResponseWriter, status int, code, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  code,
		"reason": reason,
	}); err != nil {
		a.logger.Errorf("failed to encode error response: %v", err)
	}
}
