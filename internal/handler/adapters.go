package handler

import (
	"errors"
	"sync"
	"time"

	"url-shortener-web/internal/view"
)

// errClipboardDenied is reported by the browser when it refuses the write
var errClipboardDenied = errors.New("browser denied clipboard access")

// pageNavigator captures the navigation a view asks for during one request.
// The handler turns it into an HTTP redirect afterwards.
type pageNavigator struct {
	mu       sync.Mutex
	replaced string
	path     string
}

func (n *pageNavigator) Replace(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.replaced = url
}

func (n *pageNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.path = path
}

func (n *pageNavigator) destination() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.replaced
}

// pageScheduler records the recovery delay instead of running a server side
// timer; the browser performs the deferred navigation through a refresh.
type pageScheduler struct {
	mu    sync.Mutex
	delay time.Duration
	set   bool
}

func (s *pageScheduler) AfterFunc(d time.Duration, f func()) view.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
	s.set = true
	return noopTimer{}
}

// scheduled returns the recorded delay, if any
func (s *pageScheduler) scheduled() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delay, s.set
}

type noopTimer struct{}

func (noopTimer) Stop() bool { return false }

// browserClipboard reflects the outcome of the copy the page script already performed
type browserClipboard struct {
	denied bool
	text   string
}

func (b *browserClipboard) WriteText(text string) error {
	if b.denied {
		return errClipboardDenied
	}
	b.text = text
	return nil
}
