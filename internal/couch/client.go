// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package couch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	kivik "github.com/go-kivik/kivik/v4"
	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/canonical/tenant-proxy/internal/logging"
	"github.com/canonical/tenant-proxy/internal/monitoring"
	"github.com/canonical/tenant-proxy/internal/tracing"
)

var _ DocStoreInterface = (*Client)(nil)
var _ ProvisionerInterface = (*Client)(nil)

type Client struct {
	client *kivik.Client

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// NewClient connects to the document store with the proxy's service
// credentials. Caller tokens never reach this client.
func NewClient(storeURL, user, password string, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (*Client, error) {
	dsn, err := url.Parse(storeURL)
	if err != nil {
		return nil, fmt.Errorf("invalid store URL: %w", err)
	}
	dsn.User = url.UserPassword(user, password)

	client, err := kivik.New("couch", dsn.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create store client: %w", err)
	}

	return &Client{
		client:  client,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}, nil
}

func (c *Client) GetDoc(ctx context.Context, db, id string, out interface{}) error {
	ctx, span := c.tracer.Start(ctx, "couch.Client.GetDoc")
	defer span.End()

	if err := c.client.DB(db).Get(ctx, id).ScanDoc(out); err != nil {
		return wrapError(err)
	}

	return nil
}

func (c *Client) PutDoc(ctx context.Context, db, id string, doc interface{}) (string, error) {
	ctx, span := c.tracer.Start(ctx, "couch.Client.PutDoc")
	defer span.End()

	rev, err := c.client.DB(db).Put(ctx, id, doc)
	if err != nil {
		return "", wrapError(err)
	}

	return rev, nil
}

func (c *Client) DeleteDoc(ctx context.Context, db, id, rev string) error {
	ctx, span := c.tracer.Start(ctx, "couch.Client.DeleteDoc")
	defer span.End()

	if _, err := c.client.DB(db).Delete(ctx, id, rev); err != nil {
		return wrapError(err)
	}

	return nil
}

func (c *Client) Find(ctx context.Context, db string, query interface{}) ([]json.RawMessage, error) {
	ctx, span := c.tracer.Start(ctx, "couch.Client.Find")
	defer span.End()

	rs := c.client.DB(db).Find(ctx, query)
	defer rs.Close()

	var docs []json.RawMessage
	for rs.Next() {
		var doc json.RawMessage
		if err := rs.ScanDoc(&doc); err != nil {
			return nil, wrapError(err)
		}
		docs = append(docs, doc)
	}

	if err := rs.Err(); err != nil {
		return nil, wrapError(err)
	}

	return docs, nil
}

func (c *Client) Ping(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "couch.Client.Ping")
	defer span.End()

	up, err := c.client.Ping(ctx)
	if err != nil {
		c.updateAvailability(0)
		return wrapError(err)
	}
	if !up {
		c.updateAvailability(0)
		return ErrUnavailable
	}

	c.updateAvailability(1)
	return nil
}

func (c *Client) updateAvailability(value float64) {
	tags := map[string]string{"component": "document_store"}
	if err := c.monitor.SetDependencyAvailability(tags, value); err != nil {
		c.logger.Debugf("failed to set availability metric: %v", err)
	}
}
