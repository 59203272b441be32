// Package limiter implements login rate limiting with temporary lockouts.
package limiter

import (
	"context"
	"crypto/sha256"
	"time"
)

// Limiter throttles login attempts per (username, ip).
type Limiter interface {
	// Allow reports whether a login attempt is currently permitted, with an
	// optional retry-after duration when it is not.
	Allow(ctx context.Context, username string, ipHash []byte) (bool, time.Duration, error)
	// Success resets counters after a successful login.
	Success(ctx context.Context, username string, ipHash []byte) error
	// Failure records a failed attempt and reports whether a block was placed.
	Failure(ctx context.Context, username string, ipHash []byte) (bool, time.Duration, error)
}

// HashIP returns a stable digest of an IP string so raw addresses are never stored.
func HashIP(ip string) []byte {
	sum := sha256.Sum256([]byte(ip))
	return sum[:]
}
