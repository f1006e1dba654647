package backoff

import (
	"math/rand"
	"time"
)

// DefaultJitterFactor is the perturbation applied when a policy does not set
// its own.
const DefaultJitterFactor = 0.1

// ApplyJitter perturbs delay by up to ±delay*factor, clamped to >= 0.
//
// It is applied by the retry executor rather than inside Strategy.Delay, so
// the pre-jitter formulas stay exactly assertable.
func ApplyJitter(delay time.Duration, factor float64) time.Duration {
	if delay <= 0 || factor <= 0 {
		if delay < 0 {
			return 0
		}
		return delay
	}
	if factor > 1 {
		factor = 1
	}
	offset := (rand.Float64()*2 - 1) * factor * float64(delay)
	jittered := time.Duration(float64(delay) + offset)
	if jittered < 0 {
		return 0
	}
	return jittered
}
