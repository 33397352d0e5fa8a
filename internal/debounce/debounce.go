// Package debounce collapses bursts of calls into a single delayed
// invocation carrying the newest argument.
package debounce

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Func returns a debounced wrapper around fn. Every call cancels the
// previously scheduled invocation and reschedules fn to run after wait of
// quiescence with the argument of the most recent call. The wrapper is
// fire-and-forget: nothing is returned to callers and a scheduled call can
// only be superseded, not cancelled.
//
// Build the wrapper once and keep it: a fresh wrapper per keystroke has no
// pending timer to cancel and degrades into a plain delayed call.
//
// A nil clk uses the wall clock; tests pass clock.NewMock().
func Func[T any](fn func(T), wait time.Duration, clk clock.Clock) func(T) {
	if clk == nil {
		clk = clock.New()
	}

	var (
		mu    sync.Mutex
		timer *clock.Timer
	)

	return func(arg T) {
		mu.Lock()
		defer mu.Unlock()

		if timer != nil {
			timer.Stop()
		}
		timer = clk.AfterFunc(wait, func() {
			fn(arg)
		})
	}
}
