package browser

import (
	"errors"
	"time"
)

// staleBackoff gives the UI a moment to finish re-rendering before the
// next resolution attempt.
const staleBackoff = 200 * time.Millisecond

// Retry runs fn until it succeeds, it fails with something other than
// ErrStale, or attempts are exhausted. fn must re-resolve any element
// handles it uses on every call; that is the whole point of the helper.
func Retry[T any](attempts int, fn func() (T, error)) (T, error) {
	var zero T
	var err error
	for i := 0; i < attempts; i++ {
		var v T
		v, err = fn()
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrStale) {
			return zero, err
		}
		time.Sleep(staleBackoff)
	}
	return zero, err
}
