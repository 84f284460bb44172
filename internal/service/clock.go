package service

import "time"

// Clock abstracts the current time so policy checks (cancellation
// lead time, stale-key reclaim) are testable against fixed instants.
type Clock interface {
    Now() time.Time
}

// RealClock reads the wall clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }
