package observe

import (
	"context"
	"time"

	"github.com/bulwark-io/bulwark/classify"
)

// Attempt describes a single execution of the wrapped operation. It exists
// only for the duration of one retry loop and is handed to observers and
// policy callbacks.
type Attempt struct {
	Number int
	Start  time.Time
	End    time.Time

	Err      error
	Category classify.Category
	// Delay is the post-jitter wait scheduled after this attempt; zero on the
	// final attempt.
	Delay time.Duration
}

// Result is the record of a complete call: every attempt plus the final
// outcome.
type Result struct {
	Policy string
	Start  time.Time
	End    time.Time

	Attempts []Attempt
	Err      error
}

// Observer receives lifecycle callbacks for a single call.
type Observer interface {
	OnStart(ctx context.Context, policy string)
	OnAttempt(ctx context.Context, policy string, a Attempt)
	OnSuccess(ctx context.Context, res Result)
	OnFailure(ctx context.Context, res Result)
}
