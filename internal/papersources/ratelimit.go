package papersources

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/helixir/paper-search-service/internal/domain"
)

// RateLimiter wraps a token bucket rate limiter for controlling request rates
// to external APIs. It is safe for concurrent use because the underlying
// rate.Limiter is goroutine-safe for all operations.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a new rate limiter.
// ratePerSecond is the sustained rate of requests per second.
// burst is the maximum burst size.
//
// Example configurations:
//   - PubMed without an API key: NewRateLimiter(3, 3)
//   - arXiv: NewRateLimiter(3, 1)
func NewRateLimiter(ratePerSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

// Wait blocks until a request is allowed or the context is canceled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// Allow returns true if a request is allowed without waiting.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// Tokens returns the current number of available tokens.
func (r *RateLimiter) Tokens() float64 {
	return r.limiter.Tokens()
}

// RateLimits holds one process-wide limiter per specialized source kind.
// Kinds without an entry, including KindCustom, are not limited.
type RateLimits struct {
	limiters map[domain.SourceKind]*RateLimiter
}

// RateLimit configures one entry of RateLimits. A non-positive rate disables
// limiting for the kind.
type RateLimit struct {
	Kind          domain.SourceKind
	RatePerSecond float64
	Burst         int
}

// NewRateLimits builds the limiter set. It is read-only after construction.
func NewRateLimits(limits ...RateLimit) *RateLimits {
	rl := &RateLimits{limiters: make(map[domain.SourceKind]*RateLimiter, len(limits))}
	for _, l := range limits {
		if l.RatePerSecond <= 0 {
			continue
		}
		rl.limiters[l.Kind] = NewRateLimiter(l.RatePerSecond, l.Burst)
	}
	return rl
}

// For returns the limiter for kind, or nil if the kind is not limited.
func (r *RateLimits) For(kind domain.SourceKind) *RateLimiter {
	if r == nil {
		return nil
	}
	return r.limiters[kind]
}
