// Package cache persists raw service manifests between runs, keyed by the
// endpoint they were retrieved from.
package cache

import "errors"

// ErrNotFound is returned when no manifest is cached for an endpoint.
var ErrNotFound = errors.New("manifest not found")

// Store is a manifest cache driver.
type Store interface {
	// Get returns the raw manifest cached for an endpoint, or ErrNotFound.
	Get(endpoint string) (string, error)
	// Set caches the raw manifest for an endpoint.
	Set(endpoint string, raw string) error
	Close() error
}
