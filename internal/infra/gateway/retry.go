package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jskrn-1911/clover-backend/internal/metrics"
)

// Policy defines retry behavior for one gateway call.
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultPolicy provides sensible defaults.
var DefaultPolicy = Policy{
	MaxRetries: 3,
	BaseDelay:  1 * time.Second,
	MaxDelay:   60 * time.Second,
}

const (
	// Minimum pause before every retried attempt, applied in addition
	// to the computed backoff.
	interAttemptSpacing = 1 * time.Millisecond

	backoffMultiplier   = 2.0
	rateLimitMultiplier = 3.0
	maxJitter           = 2 * time.Second
)

// buildFunc constructs a fresh request for one attempt. requestID is
// unique per attempt; headers stable across attempts (credentials,
// idempotency key) are the builder's responsibility.
type buildFunc func(requestID string) (*http.Request, error)

// do executes one logical gateway call with retries, decoding the first
// 2xx body into T. Rate-limited and server/network failures are retried
// with backoff up to p.MaxRetries; client and protocol failures terminate
// immediately. Exactly one terminal outcome is returned.
func do[T any](ctx context.Context, c *Client, call string, p Policy, build buildFunc) (T, error) {
	var zero T

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, interAttemptSpacing); err != nil {
				return zero, err
			}
		}

		var fail *Failure
		var wait time.Duration

		req, err := build(uuid.NewString())
		if err != nil {
			return zero, fmt.Errorf("build %s request: %w", call, err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			fail = &Failure{
				Kind:    KindNetworkError,
				Message: fmt.Sprintf("%s: transport error", call),
				Err:     err,
			}
			wait = backoffWait(attempt, p)
		} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			var out T
			decodeErr := json.NewDecoder(resp.Body).Decode(&out)
			resp.Body.Close()
			if decodeErr != nil {
				f := &Failure{
					Kind:    KindProtocolError,
					Status:  resp.StatusCode,
					Message: fmt.Sprintf("%s: decode response body", call),
					Err:     decodeErr,
				}
				metrics.GatewayAttempts.WithLabelValues(call, f.Kind.String()).Inc()
				metrics.GatewayCalls.WithLabelValues(call, f.Kind.String()).Inc()
				return zero, f
			}
			c.logger.Debug("gateway call succeeded", "call", call, "attempt", attempt)
			metrics.GatewayAttempts.WithLabelValues(call, "success").Inc()
			metrics.GatewayCalls.WithLabelValues(call, "success").Inc()
			return out, nil
		} else {
			if resp.StatusCode == http.StatusTooManyRequests {
				c.logger.Warn("gateway rate limit",
					"call", call,
					"remaining", resp.Header.Get("X-RateLimit-Remaining"),
					"limit", resp.Header.Get("X-RateLimit-Limit"))
			}
			fail = classifyResponse(call, resp)
			switch fail.Kind {
			case KindRateLimited:
				wait = rateLimitWait(resp.Header, attempt, p, time.Now())
				fail.RetryAfter = wait
			case KindServerError:
				wait = backoffWait(attempt, p)
			}
		}

		metrics.GatewayAttempts.WithLabelValues(call, fail.Kind.String()).Inc()
		c.logger.Warn("gateway call failed",
			"call", call,
			"attempt", attempt,
			"kind", fail.Kind.String(),
			"status", fail.Status,
			"wait", wait)

		if !fail.Retryable() || attempt >= p.MaxRetries {
			metrics.GatewayCalls.WithLabelValues(call, fail.Kind.String()).Inc()
			return zero, fail
		}

		metrics.GatewayRetryWait.WithLabelValues(call).Observe(wait.Seconds())
		if err := sleepCtx(ctx, wait); err != nil {
			return zero, err
		}
	}
}

// sleepCtx waits for the duration or returns early on context cancellation.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
