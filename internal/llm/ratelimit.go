package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimited paces calls to a TextGenerator so bursts stay under the
// provider's requests-per-minute quota.
type RateLimited struct {
	next    TextGenerator
	limiter *rate.Limiter
}

// NewRateLimited wraps next with a limiter that allows requestsPerMinute calls.
// A non-positive value disables pacing.
func NewRateLimited(next TextGenerator, requestsPerMinute int) *RateLimited {
	if requestsPerMinute <= 0 {
		return NewRateLimitedWith(next, rate.NewLimiter(rate.Inf, 0))
	}
	return NewRateLimitedWith(next, rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1))
}

// NewRateLimitedWith wraps next with a caller supplied limiter.
func NewRateLimitedWith(next TextGenerator, limiter *rate.Limiter) *RateLimited {
	return &RateLimited{next: next, limiter: limiter}
}

// GenerateContent waits for a token and forwards the call.
func (r *RateLimited) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return ContentResponse{}, fmt.Errorf("rate limiter: %w", err)
	}
	return r.next.GenerateContent(ctx, prompt)
}

// ContinueContent waits for a token and forwards the call.
func (r *RateLimited) ContinueContent(ctx context.Context, req ContinuationRequest) (ContentResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return ContentResponse{}, fmt.Errorf("rate limiter: %w", err)
	}
	return r.next.ContinueContent(ctx, req)
}
