package classify

// ShouldRetry decides whether err warrants another attempt.
//
// Precedence:
//  1. A match in ignore always wins: the verdict is false.
//  2. An explicit IsRetryable() on the error (or its chain) is authoritative
//     and skips the type-based retry set.
//  3. Otherwise the verdict is true iff err matches at least one retry matcher.
//  4. A non-nil cond can only narrow the verdict, never widen it.
func ShouldRetry(err error, retry, ignore []Matcher, cond func(error) bool) bool {
	if err == nil {
		return false
	}

	if matchAny(err, ignore) {
		return false
	}

	verdict, explicit := RetryableOf(err)
	if !explicit {
		verdict = matchAny(err, retry)
	}

	if cond != nil {
		verdict = verdict && cond(err)
	}
	return verdict
}
