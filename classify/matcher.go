package classify

import "errors"

// Matcher decides whether an error belongs to a retry or ignore set.
type Matcher interface {
	Matches(err error) bool
}

// MatcherFunc adapts a predicate into a Matcher.
type MatcherFunc func(err error) bool

func (f MatcherFunc) Matches(err error) bool { return f(err) }

// Is matches errors for which errors.Is(err, target) holds.
func Is(target error) Matcher {
	return MatcherFunc(func(err error) bool {
		return errors.Is(err, target)
	})
}

// As matches errors whose chain contains a value of type T.
func As[T error]() Matcher {
	return MatcherFunc(func(err error) bool {
		var t T
		return errors.As(err, &t)
	})
}

// OfCategory matches errors that expose the given category.
func OfCategory(cat Category) Matcher {
	return MatcherFunc(func(err error) bool {
		c, ok := CategoryOf(err)
		return ok && c == cat
	})
}

// Any matches every non-nil error.
func Any() Matcher {
	return MatcherFunc(func(err error) bool {
		return err != nil
	})
}

func matchAny(err error, matchers []Matcher) bool {
	for _, m := range matchers {
		if m != nil && m.Matches(err) {
			return true
		}
	}
	return false
}
