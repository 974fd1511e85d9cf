package driver

import "time"

// Clock abstracts the worker's pacing delay so tests can substitute a
// deterministic implementation.
type Clock interface {
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// SystemClock returns a Clock backed by the real system timer.
func SystemClock() Clock {
	return systemClock{}
}
