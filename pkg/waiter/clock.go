package waiter

import "time"

// Clock supplies the current time and timed suspension.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// wallClock uses the runtime clock. time.Now carries a monotonic reading, so durations
// between two Now calls are not affected by wall clock adjustments.
type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

func (wallClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
