// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package sessions caches session to tenant resolutions so the request path
// skips the directory for the lifetime of a session entry.
package sessions

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/canonical/tenant-proxy/internal/logging"
	"github.com/canonical/tenant-proxy/internal/monitoring"
)

// Resolution is the cached outcome of resolving a session to a tenant.
type Resolution struct {
	UserID   string
	TenantID string
	// Admin marks resolutions into the shared administrators tenant; the
	// rewriter exempts these from tenant filtering.
	Admin bool
}

type entry struct {
	resolution Resolution
	expiresAt  time.Time
}

type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry

	ttl   time.Duration
	clock clock.Clock

	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewCache(ttl time.Duration, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Cache {
	return newCache(ttl, clock.New(), monitor, logger)
}

func newCache(ttl time.Duration, clk clock.Clock, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		clock:   clk,
		monitor: monitor,
		logger:  logger,
	}
}

// Get returns the cached resolution for a session ID. An entry past its expiry
// is removed and reported as a miss.
func (c *Cache) Get(sessionID string) (Resolution, bool) {
	c.mu.RLock()
	e, ok := c.entries[sessionID]
	c.mu.RUnlock()

	if !ok {
		return Resolution{}, false
	}
	if !c.clock.Now().Before(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Put may have refreshed
		// the entry since the read.
		if cur, ok := c.entries[sessionID]; ok && !c.clock.Now().Before(cur.expiresAt) {
			delete(c.entries, sessionID)
		}
		c.mu.Unlock()
		return Resolution{}, false
	}

	return e.resolution, true
}

func (c *Cache) Put(sessionID string, resolution Resolution) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[sessionID] = entry{
		resolution: resolution,
		expiresAt:  c.clock.Now().Add(c.ttl),
	}
}

// Invalidate drops a session's entry, forcing the next request through the
// discovery chain. Used when the user switches tenants.
func (c *Cache) Invalidate(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, sessionID)
}

// SweepExpired removes all expired entries and returns how many were dropped.
// Expired entries are also dropped lazily on Get; the sweep only bounds memory
// held by sessions that never come back.
func (c *Cache) SweepExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	removed := 0
	for id, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, id)
			removed++
		}
	}

	if removed > 0 {
		c.logger.Debugf("session cache sweep removed %d expired entries", removed)
	}

	return removed
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
