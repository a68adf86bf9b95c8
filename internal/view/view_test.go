package view

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"url-shortener-web/internal/domain"
	"url-shortener-web/internal/router"
)

const origin = "https://sho.rt"

// fakeNavigator records every navigation
type fakeNavigator struct {
	mu       sync.Mutex
	replaced []string
	paths    []string
}

func (n *fakeNavigator) Replace(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.replaced = append(n.replaced, url)
}

func (n *fakeNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *fakeNavigator) snapshot() ([]string, []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.replaced...), append([]string(nil), n.paths...)
}

// fakeTimer fires only when the test says so. Its flags are guarded by the
// owning scheduler's mutex.
type fakeTimer struct {
	sched   *fakeScheduler
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	wasPending := !t.stopped && !t.fired
	t.stopped = true
	return wasPending
}

func (t *fakeTimer) isStopped() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	return t.stopped
}

// fakeScheduler hands out fakeTimers
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{sched: s, delay: d, fn: f}
	s.timers = append(s.timers, t)
	return t
}

// advance fires every timer whose delay is within elapsed and that was not stopped
func (s *fakeScheduler) advance(elapsed time.Duration) {
	s.mu.Lock()
	var due []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.delay <= elapsed {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

func (s *fakeScheduler) all() []*fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*fakeTimer(nil), s.timers...)
}

// stubResolver answers from a map; unknown codes fail
type stubResolver struct {
	mu    sync.Mutex
	urls  map[string]string
	calls []string
	gate  chan struct{} // when set, Resolve blocks until closed or ctx done
}

func (r *stubResolver) Resolve(ctx context.Context, code string) (string, error) {
	r.mu.Lock()
	r.calls = append(r.calls, code)
	gate := r.gate
	r.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", &domain.ResolutionError{Code: code, Err: ctx.Err()}
		}
	}

	if dest, ok := r.urls[code]; ok {
		return dest, nil
	}
	return "", &domain.ResolutionError{Code: code, Err: domain.ErrNotFound}
}

func (r *stubResolver) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// stubSubmitter returns canned results per input
type stubSubmitter struct {
	results map[string]string
	errs    map[string]error
	gate    chan struct{}
	started chan struct{}
}

func (s *stubSubmitter) Submit(ctx context.Context, rawURL, origin string) (string, error) {
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return "", domain.NewSubmissionError(ctx.Err(), "")
		}
	}
	if err, ok := s.errs[rawURL]; ok {
		return "", err
	}
	return domain.DisplayShortURL(origin, s.results[rawURL]), nil
}

// fakeClipboard stores the last write
type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteText(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type fixture struct {
	view      *View
	nav       *fakeNavigator
	sched     *fakeScheduler
	resolver  *stubResolver
	submitter *stubSubmitter
	clip      *fakeClipboard
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		nav:      &fakeNavigator{},
		sched:    &fakeScheduler{},
		resolver: &stubResolver{urls: map[string]string{"abc123": "https://example.com/very/long/path"}},
		submitter: &stubSubmitter{
			results: map[string]string{
				"https://example.com/very/long/path": "abc123",
				"https://example.org/other":          "xyz789",
			},
			errs: map[string]error{
				"https://example.com/too-long": domain.NewSubmissionError(errors.New("400"), "URL too long"),
				"https://example.com/opaque":   domain.NewSubmissionError(errors.New("500"), ""),
			},
		},
		clip: &fakeClipboard{},
	}
	f.view = New(origin, Deps{
		Resolver:  f.resolver,
		Submitter: f.submitter,
		Navigator: f.nav,
		Clipboard: f.clip,
		Scheduler: f.sched,
	})
	t.Cleanup(func() {
		f.view.Close()
		f.view.Wait()
	})
	return f
}

func TestNavigate_RootIsShortenMode(t *testing.T) {
	f := newFixture(t)

	f.view.Navigate("/")
	f.view.Wait()

	st := f.view.State()
	assert.Equal(t, router.ModeShorten, st.Mode.Kind)
	assert.Equal(t, domain.Idle(), st.Status)
	assert.Equal(t, 0, f.resolver.callCount())
}

func TestResolve_SuccessReplacesLocation(t *testing.T) {
	f := newFixture(t)

	f.view.Navigate("/abc123")
	f.view.Wait()

	replaced, paths := f.nav.snapshot()
	assert.Equal(t, []string{"https://example.com/very/long/path"}, replaced)
	assert.Empty(t, paths, "no other navigation happens")
	assert.Empty(t, f.sched.all(), "no recovery is scheduled")
}

func TestResolve_FailureSchedulesRecovery(t *testing.T) {
	f := newFixture(t)

	f.view.Navigate("/unknown")
	f.view.Wait()

	st := f.view.State()
	assert.Equal(t, domain.Failed("Invalid or expired URL"), st.Status)

	timers := f.sched.all()
	require.Len(t, timers, 1)
	assert.Equal(t, 2000*time.Millisecond, timers[0].delay)

	f.sched.advance(1999 * time.Millisecond)
	_, paths := f.nav.snapshot()
	assert.Empty(t, paths, "nothing happens before the delay")

	f.sched.advance(2000 * time.Millisecond)
	replaced, paths := f.nav.snapshot()
	assert.Equal(t, []string{"/"}, paths)
	assert.Empty(t, replaced)
}

func TestResolve_TeardownCancelsRecovery(t *testing.T) {
	f := newFixture(t)

	f.view.Navigate("/unknown")
	f.view.Wait()
	f.view.Close()

	timers := f.sched.all()
	require.Len(t, timers, 1)
	assert.True(t, timers[0].isStopped())

	f.sched.advance(RecoveryDelay)
	_, paths := f.nav.snapshot()
	assert.Empty(t, paths)
}

func TestResolve_TimerFiringAfterTeardownIsIgnored(t *testing.T) {
	f := newFixture(t)

	f.view.Navigate("/unknown")
	f.view.Wait()

	timers := f.sched.all()
	require.Len(t, timers, 1)

	// Simulate the runtime racing Stop: the callback runs anyway
	f.view.Close()
	timers[0].fn()

	_, paths := f.nav.snapshot()
	assert.Empty(t, paths)
}

func TestResolve_NavigatingAwayCancelsRecovery(t *testing.T) {
	f := newFixture(t)

	f.view.Navigate("/unknown")
	f.view.Wait()
	f.view.Navigate("/")

	f.sched.advance(RecoveryDelay)
	_, paths := f.nav.snapshot()
	assert.Empty(t, paths)

	// The error banner stays visible on the submission view
	assert.Equal(t, domain.Failed(domain.MsgInvalidOrExpired), f.view.State().Status)
}

func TestResolve_ReRenderDoesNotRetrigger(t *testing.T) {
	f := newFixture(t)

	f.view.Navigate("/abc123")
	f.view.Navigate("/abc123")
	f.view.Wait()

	assert.Equal(t, 1, f.resolver.callCount())
}

func TestResolve_EachDistinctNavigationResolvesAgain(t *testing.T) {
	f := newFixture(t)

	f.view.Navigate("/abc123")
	f.view.Wait()
	f.view.Navigate("/")
	f.view.Navigate("/abc123")
	f.view.Wait()

	assert.Equal(t, 2, f.resolver.callCount())
	replaced, _ := f.nav.snapshot()
	assert.Len(t, replaced, 2)
}

func TestResolve_StaleResultIsDiscarded(t *testing.T) {
	f := newFixture(t)
	f.resolver.gate = make(chan struct{})

	f.view.Navigate("/abc123")
	f.view.Navigate("/")
	close(f.resolver.gate)
	f.view.Wait()

	replaced, paths := f.nav.snapshot()
	assert.Empty(t, replaced)
	assert.Empty(t, paths)
	assert.Empty(t, f.sched.all())
}

func TestSubmit_ComposesDisplayURL(t *testing.T) {
	f := newFixture(t)
	f.view.Navigate("/")

	display, err := f.view.Submit(context.Background(), "https://example.com/very/long/path")

	require.NoError(t, err)
	assert.Equal(t, origin+"/abc123", display)

	st := f.view.State()
	assert.Equal(t, origin+"/abc123", st.ShortURL)
	assert.Equal(t, domain.Succeeded(domain.MsgShortened), st.Status)
	assert.False(t, st.Pending)
}

func TestSubmit_ErrorMessages(t *testing.T) {
	f := newFixture(t)
	f.view.Navigate("/")

	_, err := f.view.Submit(context.Background(), "https://example.com/too-long")
	require.Error(t, err)
	assert.Equal(t, domain.Failed("URL too long"), f.view.State().Status)

	_, err = f.view.Submit(context.Background(), "https://example.com/opaque")
	require.Error(t, err)
	assert.Equal(t, domain.Failed("An error occurred"), f.view.State().Status)
}

func TestSubmit_SecondOverwritesFirst(t *testing.T) {
	f := newFixture(t)
	f.view.Navigate("/")

	_, err := f.view.Submit(context.Background(), "https://example.com/too-long")
	require.Error(t, err)

	_, err = f.view.Submit(context.Background(), "https://example.org/other")
	require.NoError(t, err)

	st := f.view.State()
	assert.Equal(t, origin+"/xyz789", st.ShortURL)
	assert.Equal(t, domain.Succeeded(domain.MsgShortened), st.Status)

	_, err = f.view.Submit(context.Background(), "https://example.com/very/long/path")
	require.NoError(t, err)
	assert.Equal(t, origin+"/abc123", f.view.State().ShortURL)
}

func TestSubmit_RejectedWhilePending(t *testing.T) {
	f := newFixture(t)
	f.view.Navigate("/")
	f.submitter.gate = make(chan struct{})
	f.submitter.started = make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() {
		_, err := f.view.Submit(context.Background(), "https://example.com/very/long/path")
		done <- err
	}()
	<-f.submitter.started

	st := f.view.State()
	assert.True(t, st.Pending)
	assert.Equal(t, domain.Pending(), st.Status)

	_, err := f.view.Submit(context.Background(), "https://example.org/other")
	assert.True(t, errors.Is(err, domain.ErrSubmissionPending))

	close(f.submitter.gate)
	require.NoError(t, <-done)
	assert.Equal(t, origin+"/abc123", f.view.State().ShortURL)
}

func TestSubmit_Preconditions(t *testing.T) {
	f := newFixture(t)
	f.view.Navigate("/")

	_, err := f.view.Submit(context.Background(), "")
	assert.True(t, errors.Is(err, domain.ErrEmptyURL))
	assert.Equal(t, domain.Idle(), f.view.State().Status)

	f.view.Navigate("/abc123")
	_, err = f.view.Submit(context.Background(), "https://example.com/very/long/path")
	assert.True(t, errors.Is(err, domain.ErrWrongMode))
}

func TestSubmit_TeardownDiscardsResult(t *testing.T) {
	f := newFixture(t)
	f.view.Navigate("/")
	f.submitter.gate = make(chan struct{})
	f.submitter.started = make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() {
		_, err := f.view.Submit(context.Background(), "https://example.com/very/long/path")
		done <- err
	}()
	<-f.submitter.started

	f.view.Close()
	assert.Error(t, <-done, "the call is abandoned on teardown")
	assert.Empty(t, f.view.State().ShortURL)

	_, err := f.view.Submit(context.Background(), "https://example.org/other")
	assert.True(t, errors.Is(err, domain.ErrViewClosed))
}

func TestCopyToClipboard(t *testing.T) {
	f := newFixture(t)
	f.view.Navigate("/")

	assert.True(t, errors.Is(f.view.CopyToClipboard(), domain.ErrNothingToCopy))

	_, err := f.view.Submit(context.Background(), "https://example.com/very/long/path")
	require.NoError(t, err)

	require.NoError(t, f.view.CopyToClipboard())
	assert.Equal(t, origin+"/abc123", f.clip.text)
	assert.Equal(t, domain.Succeeded("Copied to clipboard!"), f.view.State().Status)
}

func TestCopyToClipboard_Failure(t *testing.T) {
	f := newFixture(t)
	f.view.Navigate("/")
	_, err := f.view.Submit(context.Background(), "https://example.com/very/long/path")
	require.NoError(t, err)

	f.clip.err = errors.New("clipboard unavailable")

	assert.Error(t, f.view.CopyToClipboard())
	assert.Equal(t, domain.Failed(domain.MsgGenericError), f.view.State().Status)
}

func TestDismiss(t *testing.T) {
	f := newFixture(t)
	f.view.Navigate("/")
	_, err := f.view.Submit(context.Background(), "https://example.com/too-long")
	require.Error(t, err)

	f.view.Dismiss()
	assert.Equal(t, domain.Idle(), f.view.State().Status)
}

func TestDismiss_DuringRecoveryStillReturnsToRoot(t *testing.T) {
	f := newFixture(t)

	f.view.Navigate("/unknown")
	f.view.Wait()
	require.True(t, f.view.State().Status.IsError())

	f.view.Dismiss()
	assert.Equal(t, domain.Idle(), f.view.State().Status)

	f.sched.advance(2000 * time.Millisecond)
	replaced, paths := f.nav.snapshot()
	assert.Equal(t, []string{"/"}, paths)
	assert.Empty(t, replaced)
}

func TestRestore(t *testing.T) {
	f := newFixture(t)

	f.view.Restore(domain.Status{}, origin+"/abc123")
	st := f.view.State()
	assert.Equal(t, domain.Idle(), st.Status)
	assert.Equal(t, origin+"/abc123", st.ShortURL)
}

func TestCloseLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	resolver := &stubResolver{gate: make(chan struct{})}
	v := New(origin, Deps{
		Resolver:  resolver,
		Submitter: &stubSubmitter{},
		Navigator: &fakeNavigator{},
		Clipboard: &fakeClipboard{},
	})

	v.Navigate("/pending")
	v.Close()
	v.Wait()
}

func TestRecoveryWithSystemScheduler(t *testing.T) {
	nav := &fakeNavigator{}
	v := New(origin, Deps{
		Resolver:  &stubResolver{},
		Submitter: &stubSubmitter{},
		Navigator: nav,
		Clipboard: &fakeClipboard{},
	})
	defer v.Close()

	start := time.Now()
	v.Navigate("/missing")
	v.Wait()

	assert.Eventually(t, func() bool {
		_, paths := nav.snapshot()
		return len(paths) == 1
	}, 3*time.Second, 20*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), RecoveryDelay)
}
