// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package couch

import (
	"errors"
	"fmt"
	"net/http"

	kivik "github.com/go-kivik/kivik/v4"
)

// Sentinel errors for document store operations.
var (
	// ErrNotFound is returned for missing documents or databases.
	ErrNotFound = errors.New("document not found")
	// ErrConflict is a revision conflict; the caller holds a stale revision
	// and must re-read before retrying.
	ErrConflict = errors.New("document revision conflict")
	// ErrUnavailable covers connectivity failures and store-side errors that
	// are worth retrying.
	ErrUnavailable = errors.New("document store unavailable")
)

// httpStatus extracts the HTTP status of a store error, 0 when there is none.
func httpStatus(err error) int {
	return kivik.HTTPStatus(err)
}

// wrapError maps store responses onto the sentinel errors. Anything without
// an HTTP status (network failures, timeouts) is treated as retryable.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	switch status := kivik.HTTPStatus(err); {
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case status == http.StatusConflict:
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case status == 0, status == http.StatusTooManyRequests, status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return err
	}
}
