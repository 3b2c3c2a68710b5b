package clock

import "time"

// Clock abstracts the timers behind auto-complete, typing timeouts and
// custom-offer expiry so tests can drive them deterministically.
type Clock interface {
	Now() time.Time
	// AfterFunc schedules f after d. Stop prevents a pending fire.
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	// Stop reports whether the call prevented the fire.
	Stop() bool
}

type realClock struct{}

// Real returns the wall clock.
func Real() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{t: time.AfterFunc(d, f)}
}

type realTimer struct{ t *time.Timer }

func (rt realTimer) Stop() bool { return rt.t.Stop() }
