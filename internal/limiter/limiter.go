// Package limiter defines interfaces and implementations for login rate limiting.
//
// The vault authenticates with nothing but knowledge of an integer uid, so
// unthrottled guessing would walk the whole identifier space; sign-in
// attempts are therefore limited per (presented uid, client ip).
package limiter

import (
	"context"
	"time"
)

// Limiter controls sign-in attempts and temporary lockouts.
type Limiter interface {
	// Allow reports whether a sign-in attempt is currently allowed and an
	// optional retry-after duration.
	Allow(ctx context.Context, uid int64, ipHash []byte) (bool, time.Duration, error)
	// Success resets counters after a successful sign-in.
	Success(ctx context.Context, uid int64, ipHash []byte) error
	// Failure records a failed attempt; may place a temporary block.
	Failure(ctx context.Context, uid int64, ipHash []byte) (bool, time.Duration, error)
}
