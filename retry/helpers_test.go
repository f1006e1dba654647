package retry

import (
	"context"
	"sync"
	"time"
)

// sleepRecorder captures requested backoff waits instead of sleeping.
type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.delays = append(r.delays, d)
	r.mu.Unlock()
	return ctx.Err()
}

func (r *sleepRecorder) recorded() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.delays...)
}

// newTestExecutor returns an executor whose backoff waits are recorded rather
// than slept.
func newTestExecutor(opts ...ExecutorOption) (*Executor, *sleepRecorder) {
	e := NewExecutor(opts...)
	rec := &sleepRecorder{}
	e.sleep = rec.sleep
	return e, rec
}
