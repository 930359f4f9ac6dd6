// Package clock is the time source for code that compares against "now".
package clock

import (
	"time"

	"unibook/shared/timezone"
)

type Clock interface {
	Now() time.Time
}

type appClock struct{}

// New returns a Clock reading the wall clock in the application timezone.
func New() Clock {
	return appClock{}
}

func (appClock) Now() time.Time {
	return timezone.Now()
}

// Fixed is a Clock frozen at a single instant.
type Fixed struct {
	At time.Time
}

func (f Fixed) Now() time.Time {
	return f.At
}
