package application

import "time"

// Clock abstraction so services are testable against fixed times.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default, backed by time.Now().
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
