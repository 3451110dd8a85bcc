package timer

import "time"

// Clock abstracts wall-clock reads so tests can drive the countdown
// deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the real wall clock.
func SystemClock() Clock { return systemClock{} }
