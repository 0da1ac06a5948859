package app

import (
	"sync"
	"time"
)

// Scheduler runs the game's timed callbacks. Both methods return a stop function that is
// safe to call more than once; a callback that already fired or is mid-flight is not
// waited for, so games guard every callback with their own round epoch.
type Scheduler interface {
	Every(d time.Duration, fn func()) (stop func())
	After(d time.Duration, fn func()) (stop func())
}

// ClockScheduler is the wall-clock Scheduler.
type ClockScheduler struct{}

func (ClockScheduler) Every(d time.Duration, fn func()) func() {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

func (ClockScheduler) After(d time.Duration, fn func()) func() {
	timer := time.AfterFunc(d, fn)
	return func() { timer.Stop() }
}
