package harness

import "time"

// Clock is the time source used for all benchmark timing.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the monotonic wall clock.
func SystemClock() Clock { return systemClock{} }
