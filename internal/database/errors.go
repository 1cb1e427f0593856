// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
)

// Sentinel errors returned by data access methods. Callers map these to
// HTTP error codes; wrap with fmt.Errorf("%w", ...) so errors.Is works.
var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation, e.g. placing the same
	// content twice in one section or reusing a page name.
	ErrConflict = errors.New("conflict")

	// ErrUnavailable indicates the store could not be reached or the
	// query did not complete. Unlike ErrNotFound/ErrConflict this is
	// retryable.
	ErrUnavailable = errors.New("store unavailable")
)

// classify tags transient failures with ErrUnavailable so callers can
// separate a store outage from a data error. Anything else passes
// through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}
