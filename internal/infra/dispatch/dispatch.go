// Package dispatch serializes outbound gateway calls: at most a fixed
// number of entries run concurrently, with a minimum interval enforced
// between launches.
package dispatch

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/jskrn-1911/clover-backend/internal/metrics"
)

// Dispatcher gates outbound work. Blocked entries are served in FIFO
// order, and consecutive launches are spaced at least minInterval apart.
type Dispatcher struct {
	sem     *semaphore.Weighted
	limiter *rate.Limiter
}

// New creates a Dispatcher with the given concurrency capacity and
// minimum launch interval. Capacity values below 1 are treated as 1;
// a non-positive interval disables spacing.
func New(capacity int64, minInterval time.Duration) *Dispatcher {
	if capacity < 1 {
		capacity = 1
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if minInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(minInterval), 1)
	}
	return &Dispatcher{
		sem:     semaphore.NewWeighted(capacity),
		limiter: limiter,
	}
}

// Run executes fn behind the dispatcher's gate and returns fn's own
// result unchanged. A failing entry never blocks the entries behind it.
func Run[T any](ctx context.Context, d *Dispatcher, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	metrics.DispatchWaiting.Inc()
	err := d.sem.Acquire(ctx, 1)
	metrics.DispatchWaiting.Dec()
	if err != nil {
		return zero, err
	}
	defer d.sem.Release(1)

	// Waits the remainder of the interval since the previous launch.
	if err := d.limiter.Wait(ctx); err != nil {
		return zero, err
	}

	return fn(ctx)
}
