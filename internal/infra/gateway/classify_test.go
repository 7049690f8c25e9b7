package gateway

import (
	"net/http"
	"strconv"
	"testing"
	"time"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   FailureKind
	}{
		{429, KindRateLimited},
		{400, KindClientError},
		{401, KindClientError},
		{404, KindClientError},
		{500, KindServerError},
		{502, KindServerError},
		{503, KindServerError},
		{301, KindProtocolError},
		{101, KindProtocolError},
	}

	for _, tt := range tests {
		if got := classifyStatus(tt.status); got != tt.want {
			t.Errorf("classifyStatus(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestRetryAfterHintSeconds(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "5")

	got, ok := retryAfterHint(h, time.Now())
	if !ok || got != 5*time.Second {
		t.Errorf("retryAfterHint = (%v, %v), want (5s, true)", got, ok)
	}
}

func TestRetryAfterHintHTTPDate(t *testing.T) {
	now := time.Now()
	h := http.Header{}
	h.Set("Retry-After", now.Add(10*time.Second).UTC().Format(http.TimeFormat))

	got, ok := retryAfterHint(h, now)
	if !ok {
		t.Fatal("retryAfterHint: no hint for HTTP date")
	}
	// The header format has one-second resolution.
	if got < 9*time.Second || got > 11*time.Second {
		t.Errorf("retryAfterHint = %v, want ~10s", got)
	}
}

func TestRetryAfterHintPastDateFlooredAtZero(t *testing.T) {
	now := time.Now()
	h := http.Header{}
	h.Set("Retry-After", now.Add(-time.Minute).UTC().Format(http.TimeFormat))

	got, ok := retryAfterHint(h, now)
	if !ok || got != 0 {
		t.Errorf("retryAfterHint = (%v, %v), want (0, true)", got, ok)
	}
}

func TestRetryAfterHintResetTimestamp(t *testing.T) {
	now := time.Now()
	h := http.Header{}
	h.Set("X-RateLimit-Reset", timeToUnix(now.Add(10*time.Second)))

	got, ok := retryAfterHint(h, now)
	if !ok {
		t.Fatal("retryAfterHint: no hint for reset timestamp")
	}
	if got < 9*time.Second || got > 10*time.Second {
		t.Errorf("retryAfterHint = %v, want ~10s", got)
	}
}

func TestRetryAfterHintSecondsTakesPrecedence(t *testing.T) {
	now := time.Now()
	h := http.Header{}
	h.Set("Retry-After", "3")
	h.Set("X-RateLimit-Reset", timeToUnix(now.Add(time.Hour)))

	got, ok := retryAfterHint(h, now)
	if !ok || got != 3*time.Second {
		t.Errorf("retryAfterHint = (%v, %v), want (3s, true)", got, ok)
	}
}

func TestRetryAfterHintAbsent(t *testing.T) {
	if _, ok := retryAfterHint(http.Header{}, time.Now()); ok {
		t.Error("retryAfterHint on empty headers = ok, want miss")
	}
}

func TestRateLimitWaitFallbackBackoff(t *testing.T) {
	p := Policy{MaxRetries: 3, BaseDelay: 1 * time.Second, MaxDelay: 60 * time.Second}

	// attempt=1 without headers: base*3^1 plus jitter in [0, 2s).
	got := rateLimitWait(http.Header{}, 1, p, time.Now())
	if got < 3*time.Second || got >= 5*time.Second {
		t.Errorf("rateLimitWait(attempt=1) = %v, want in [3s, 5s)", got)
	}
}

func TestRateLimitWaitClampedToMaxDelay(t *testing.T) {
	p := Policy{MaxRetries: 3, BaseDelay: 1 * time.Second, MaxDelay: 60 * time.Second}

	h := http.Header{}
	h.Set("Retry-After", "300")
	if got := rateLimitWait(h, 0, p, time.Now()); got != p.MaxDelay {
		t.Errorf("rateLimitWait = %v, want clamp to %v", got, p.MaxDelay)
	}

	// Deep attempts clamp too: 1s * 3^8 >> 60s.
	if got := rateLimitWait(http.Header{}, 8, p, time.Now()); got != p.MaxDelay {
		t.Errorf("rateLimitWait(attempt=8) = %v, want clamp to %v", got, p.MaxDelay)
	}
}

func TestBackoffWait(t *testing.T) {
	p := Policy{MaxRetries: 5, BaseDelay: 1 * time.Second, MaxDelay: 60 * time.Second}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{10, 60 * time.Second}, // clamped
	}
	for _, tt := range tests {
		if got := backoffWait(tt.attempt, p); got != tt.want {
			t.Errorf("backoffWait(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestFailureHTTPStatus(t *testing.T) {
	tests := []struct {
		fail *Failure
		want int
	}{
		{&Failure{Kind: KindRateLimited, Status: 429}, 429},
		{&Failure{Kind: KindClientError, Status: 404}, 404},
		{&Failure{Kind: KindServerError, Status: 503}, 503},
		{&Failure{Kind: KindNetworkError}, 500},
		{&Failure{Kind: KindProtocolError, Status: 301}, 500},
	}
	for _, tt := range tests {
		if got := tt.fail.HTTPStatus(); got != tt.want {
			t.Errorf("Failure{%v, %d}.HTTPStatus() = %d, want %d", tt.fail.Kind, tt.fail.Status, got, tt.want)
		}
	}
}

func TestFailureRetryable(t *testing.T) {
	tests := []struct {
		kind FailureKind
		want bool
	}{
		{KindRateLimited, true},
		{KindServerError, true},
		{KindNetworkError, true},
		{KindClientError, false},
		{KindProtocolError, false},
	}
	for _, tt := range tests {
		f := &Failure{Kind: tt.kind}
		if got := f.Retryable(); got != tt.want {
			t.Errorf("Failure{%v}.Retryable() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func timeToUnix(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}
