package gateway

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// FailureKind categorizes a failed gateway call.
type FailureKind int

const (
	KindRateLimited FailureKind = iota
	KindClientError
	KindServerError
	KindNetworkError
	KindProtocolError
)

func (k FailureKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindClientError:
		return "client_error"
	case KindServerError:
		return "server_error"
	case KindNetworkError:
		return "network_error"
	default:
		return "protocol_error"
	}
}

// Failure is the classified terminal outcome of a failed gateway call.
// Status is the HTTP status code, 0 for transport errors. RetryAfter
// carries the rate-limit hint when Kind is KindRateLimited.
type Failure struct {
	Kind       FailureKind
	Status     int
	RetryAfter time.Duration
	Message    string
	Err        error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Message, f.Err)
	}
	return f.Message
}

func (f *Failure) Unwrap() error { return f.Err }

// Retryable reports whether the failure may be retried with backoff.
func (f *Failure) Retryable() bool {
	switch f.Kind {
	case KindRateLimited, KindServerError, KindNetworkError:
		return true
	}
	return false
}

// HTTPStatus returns the status to surface to callers: the original error
// status when there is one, 500 otherwise.
func (f *Failure) HTTPStatus() int {
	if f.Status >= 400 && f.Status < 600 {
		return f.Status
	}
	return http.StatusInternalServerError
}

func classifyStatus(status int) FailureKind {
	switch {
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 400 && status < 500:
		return KindClientError
	case status >= 500 && status < 600:
		return KindServerError
	default:
		return KindProtocolError
	}
}

// classifyResponse builds a Failure from a non-2xx response. It drains and
// closes the body so the connection can be reused on retry.
func classifyResponse(call string, resp *http.Response) *Failure {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()

	msg := fmt.Sprintf("%s: http %d", call, resp.StatusCode)
	if detail := strings.TrimSpace(string(body)); detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, detail)
	}

	return &Failure{
		Kind:    classifyStatus(resp.StatusCode),
		Status:  resp.StatusCode,
		Message: msg,
	}
}

// retryAfterHint extracts a wait hint from rate-limit response headers.
// Precedence: Retry-After as seconds, Retry-After as an HTTP date, then
// X-RateLimit-Reset as a Unix timestamp. Dates in the past yield 0.
func retryAfterHint(h http.Header, now time.Time) (time.Duration, bool) {
	if s := h.Get("Retry-After"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second, true
		}
		if t, err := http.ParseTime(s); err == nil {
			return max(0, t.Sub(now)), true
		}
	}
	if s := h.Get("X-RateLimit-Reset"); s != "" {
		if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
			return max(0, time.Unix(sec, 0).Sub(now)), true
		}
	}
	return 0, false
}

// rateLimitWait computes how long to wait after a 429: the header hint
// when present, otherwise tripled exponential backoff plus jitter. The
// result is clamped to the policy's MaxDelay.
func rateLimitWait(h http.Header, attempt int, p Policy, now time.Time) time.Duration {
	wait, ok := retryAfterHint(h, now)
	if !ok {
		wait = scaledDelay(p.BaseDelay, rateLimitMultiplier, attempt) + jitter(maxJitter)
	}
	return min(wait, p.MaxDelay)
}

// backoffWait computes the doubled exponential backoff used for network
// and server errors, clamped to the policy's MaxDelay.
func backoffWait(attempt int, p Policy) time.Duration {
	return min(scaledDelay(p.BaseDelay, backoffMultiplier, attempt), p.MaxDelay)
}

func scaledDelay(base time.Duration, multiplier float64, attempt int) time.Duration {
	return time.Duration(float64(base) * math.Pow(multiplier, float64(attempt)))
}

func jitter(n time.Duration) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(n)))
}
