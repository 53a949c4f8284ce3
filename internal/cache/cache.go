package cache

import (
	"context"
	"time"
)

// Cache interface for caching operations
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// DeleteByPattern removes all values matching a pattern (e.g., "cache:report:*")
	DeleteByPattern(ctx context.Context, pattern string) error

	// Close closes the cache connection
	Close() error
}

// Key prefixes for cached aggregates
const (
	// KeyPrefixDashboardStats is the prefix for dashboard statistics
	KeyPrefixDashboardStats = "cache:dashboard:stats"

	// KeyPrefixPeriodReport is the prefix for rendered period reports
	KeyPrefixPeriodReport = "cache:report"
)

// TTL configurations for different cache types
const (
	// TTLStats is the TTL for dashboard statistics
	TTLStats = 30 * time.Second

	// TTLPeriodReport is the TTL for rendered period reports; short so a
	// manual re-send after a sync never delivers stale numbers
	TTLPeriodReport = 60 * time.Second
)
