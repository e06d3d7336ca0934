package schedule

import "time"

// Clock provides wall time for the realtime loop. The scheduler samples it
// to resynchronize the virtual clock against timer drift. Tests inject a
// fake clock to control pacing deterministically.
type Clock interface {
	Now() time.Time
}

// systemClock uses system time.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }
