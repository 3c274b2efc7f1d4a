// Package timer runs the edit-session countdown: a fixed-lifetime deadline
// plus a one-second display tick, both cancelled together.
package timer

import (
	"sync"
	"time"
)

// Clock schedules callbacks. Stop funcs never wait for a callback that is
// already running, so they are safe to call while holding locks the
// callback may also want.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) (stop func())
	Every(d time.Duration, f func()) (stop func())
}

// System is the wall clock.
var System Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}

func (systemClock) Every(d time.Duration, f func()) func() {
	t := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-t.C:
				f()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.Stop()
			close(done)
		})
	}
}
