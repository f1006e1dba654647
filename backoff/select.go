package backoff

import (
	"time"

	"github.com/bulwark-io/bulwark/classify"
)

// rateLimitFloor is the minimum base delay applied when backing off from a
// rate-limited downstream.
const rateLimitFloor = 2 * time.Second

// Profile is a strategy paired with the jitter factor to apply on top of it.
type Profile struct {
	Strategy     Strategy
	JitterFactor float64
}

// ForCategory selects the timing profile suited to a failure category.
//
// Connection, timeout and service-unavailable failures back off
// exponentially. Rate limiting backs off linearly from a higher floor, giving
// the limiter window time to roll over. Resource exhaustion keeps the
// exponential curve but doubles the jitter to spread out competing callers.
func ForCategory(cat classify.Category) Profile {
	switch cat {
	case classify.CategoryRateLimit:
		return Profile{
			Strategy:     Linear{Base: rateLimitFloor, Increment: rateLimitFloor, Max: DefaultMax},
			JitterFactor: DefaultJitterFactor,
		}
	case classify.CategoryResource:
		jf := DefaultJitterFactor * 2
		if jf > 1 {
			jf = 1
		}
		return Profile{
			Strategy:     Exponential{Base: DefaultBase, Max: DefaultMax},
			JitterFactor: jf,
		}
	default:
		return Profile{
			Strategy:     Exponential{Base: DefaultBase, Max: DefaultMax},
			JitterFactor: DefaultJitterFactor,
		}
	}
}
