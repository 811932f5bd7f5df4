// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package couch

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) DBExists(ctx context.Context, name string) (bool, error) {
	ctx, span := c.tracer.Start(ctx, "couch.Client.DBExists")
	defer span.End()

	exists, err := c.client.DBExists(ctx, name)
	if err != nil {
		return false, wrapError(err)
	}

	return exists, nil
}

func (c *Client) CreateDB(ctx context.Context, name string) error {
	ctx, span := c.tracer.Start(ctx, "couch.Client.CreateDB")
	defer span.End()

	if err := c.client.CreateDB(ctx, name); err != nil {
		// Racing creators are fine, the database is there either way.
		if status := httpStatus(err); status == http.StatusPreconditionFailed {
			return nil
		}
		return wrapError(err)
	}

	return nil
}

func (c *Client) AllDBs(ctx context.Context) ([]string, error) {
	ctx, span := c.tracer.Start(ctx, "couch.Client.AllDBs")
	defer span.End()

	dbs, err := c.client.AllDBs(ctx)
	if err != nil {
		return nil, wrapError(err)
	}

	return dbs, nil
}

func (c *Client) CreateIndex(ctx context.Context, db, ddoc, name string, fields []string) error {
	ctx, span := c.tracer.Start(ctx, "couch.Client.CreateIndex")
	defer span.End()

	index := map[string]interface{}{
		"fields": fields,
	}

	if err := c.client.DB(db).CreateIndex(ctx, ddoc, name, index); err != nil {
		return fmt.Errorf("failed to create index %q on %q: %w", name, db, wrapError(err))
	}

	return nil
}
