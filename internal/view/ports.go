package view

import "time"

// Navigator moves the browsing context. Implementations must be safe to
// call from any goroutine; resolution completes off the caller's goroutine.
type Navigator interface {
	// Replace performs a full navigation to an absolute URL, discarding client state
	Replace(url string)

	// Navigate performs a client-side route change to path
	Navigate(path string)
}

// Clipboard receives the short link when the user asks to copy it
type Clipboard interface {
	WriteText(text string) error
}

// Timer is a handle to a scheduled callback
type Timer interface {
	// Stop prevents the callback from firing; it reports whether it was still pending
	Stop() bool
}

// Scheduler runs a callback once after a delay
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemScheduler schedules on the runtime timer
type SystemScheduler struct{}

// AfterFunc wraps time.AfterFunc
func (SystemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
