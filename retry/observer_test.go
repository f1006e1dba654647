package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bulwark-io/bulwark/backoff"
	"github.com/bulwark-io/bulwark/classify"
	"github.com/bulwark-io/bulwark/observe"
)

type captureObserver struct {
	observe.BaseObserver

	started  []string
	attempts []observe.Attempt
	success  []observe.Result
	failure  []observe.Result
}

func (c *captureObserver) OnStart(_ context.Context, policy string) {
	c.started = append(c.started, policy)
}

func (c *captureObserver) OnAttempt(_ context.Context, _ string, a observe.Attempt) {
	c.attempts = append(c.attempts, a)
}

func (c *captureObserver) OnSuccess(_ context.Context, res observe.Result) {
	c.success = append(c.success, res)
}

func (c *captureObserver) OnFailure(_ context.Context, res observe.Result) {
	c.failure = append(c.failure, res)
}

func TestExecutor_ObserverSeesAttempts(t *testing.T) {
	obs := &captureObserver{}
	exec, _ := newTestExecutor(WithObserver(obs))

	p := NewPolicy("ingest.fetch",
		MaxAttempts(3),
		WithBackoff(backoff.Constant{Base: time.Millisecond}),
		WithJitterFactor(0),
	)

	calls := 0
	err := exec.Do(context.Background(), p, func(context.Context) error {
		calls++
		if calls < 3 {
			return classify.New(classify.CategoryConnection, "refused")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("err = %v", err)
	}

	if len(obs.started) != 1 || obs.started[0] != "ingest.fetch" {
		t.Fatalf("started = %v", obs.started)
	}
	if len(obs.attempts) != 3 {
		t.Fatalf("attempts = %d, want 3", len(obs.attempts))
	}
	if obs.attempts[0].Number != 1 || obs.attempts[0].Err == nil {
		t.Fatalf("first attempt = %+v", obs.attempts[0])
	}
	if obs.attempts[0].Category != classify.CategoryConnection {
		t.Fatalf("category = %v", obs.attempts[0].Category)
	}
	if obs.attempts[0].Delay <= 0 {
		t.Fatalf("expected a scheduled delay on a retried attempt")
	}
	if obs.attempts[2].Err != nil || obs.attempts[2].Delay != 0 {
		t.Fatalf("final attempt = %+v", obs.attempts[2])
	}
	if len(obs.success) != 1 || len(obs.failure) != 0 {
		t.Fatalf("success=%d failure=%d", len(obs.success), len(obs.failure))
	}
	if len(obs.success[0].Attempts) != 3 {
		t.Fatalf("result attempts = %d", len(obs.success[0].Attempts))
	}
}

func TestExecutor_ObserverSeesFailure(t *testing.T) {
	obs := &captureObserver{}
	exec, _ := newTestExecutor(WithObserver(obs))

	errBoom := errors.New("boom")
	_ = exec.Do(context.Background(), NewPolicy("t", MaxAttempts(2)), func(context.Context) error {
		return errBoom
	})

	if len(obs.failure) != 1 {
		t.Fatalf("failure events = %d, want 1", len(obs.failure))
	}
	if obs.failure[0].Err != errBoom {
		t.Fatalf("result err = %v", obs.failure[0].Err)
	}
	if len(obs.failure[0].Attempts) != 2 {
		t.Fatalf("result attempts = %d, want 2", len(obs.failure[0].Attempts))
	}
}
