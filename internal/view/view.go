// Package view is the headless single page controller of the client.
//
// A View follows the navigation path it is fed, runs at most one short
// code resolution per distinct resolve-mode path, submits URLs for
// shortening, and exposes the resulting display state as immutable
// snapshots. Presentation layers (the web frontend, the terminal client)
// only render State and forward user events.
package view

import (
	"context"
	"sync"
	"time"

	"url-shortener-web/internal/domain"
	"url-shortener-web/internal/router"
	"url-shortener-web/internal/service"
	"url-shortener-web/pkg/logger"
	"url-shortener-web/pkg/validator"
)

// RecoveryDelay is how long a failed resolution waits before returning to root
const RecoveryDelay = 2 * time.Second

// RootPath is the submission view
const RootPath = "/"

// State is a snapshot of everything the presentation layer renders
type State struct {
	Path     string
	Mode     router.Mode
	Status   domain.Status
	ShortURL string // DisplayShortURL of the last successful submission
	Pending  bool   // A submission is in flight; the submit control is disabled
}

// Deps are the collaborators of a View
type Deps struct {
	Resolver  service.Resolver
	Submitter service.Submitter
	Navigator Navigator
	Clipboard Clipboard
	Scheduler Scheduler // Defaults to SystemScheduler
	Logger    *logger.Logger
}

// View owns the display state of one client page
type View struct {
	deps   Deps
	origin string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	path        string
	navigated   bool
	mode        router.Mode
	status      domain.Status
	statusOwner uint64
	ops         uint64
	shortURL    string
	submitting  bool
	scope       *resolveScope
	closed      bool
}

// resolveScope is the lifetime of one resolve-mode navigation
type resolveScope struct {
	code   string
	cancel context.CancelFunc
	timer  Timer
}

// New creates a View for a client whose own origin is origin
func New(origin string, deps Deps) *View {
	if deps.Scheduler == nil {
		deps.Scheduler = SystemScheduler{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &View{
		deps:   deps,
		origin: origin,
		ctx:    ctx,
		cancel: cancel,
		mode:   router.SelectMode(RootPath),
		status: domain.Idle(),
	}
}

// State returns the current display snapshot
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	return State{
		Path:     v.path,
		Mode:     v.mode,
		Status:   v.status,
		ShortURL: v.shortURL,
		Pending:  v.submitting,
	}
}

// Restore re-hydrates the submission view state persisted by a host
func (v *View) Restore(status domain.Status, shortURL string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.status = status.Normalize()
	v.shortURL = shortURL
}

// Navigate feeds a navigation event. The mode is re-selected synchronously;
// entering a new resolve-mode path starts exactly one resolution. Feeding the
// same path again is a re-render and does nothing.
func (v *View) Navigate(path string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	if v.navigated && path == v.path {
		return
	}

	v.navigated = true
	v.path = path
	v.mode = router.SelectMode(path)

	// Leaving a resolve path dismantles its scope, pending recovery included
	v.teardownScope()

	if !v.mode.IsResolve() {
		return
	}

	op := v.startOp(domain.Pending())
	ctx, cancel := context.WithCancel(v.ctx)
	scope := &resolveScope{code: v.mode.Code, cancel: cancel}
	v.scope = scope

	v.wg.Add(1)
	go v.resolve(ctx, scope, op)
}

// resolve runs one lookup and either replaces the location or schedules recovery
func (v *View) resolve(ctx context.Context, scope *resolveScope, op uint64) {
	defer v.wg.Done()

	dest, err := v.deps.Resolver.Resolve(ctx, scope.code)

	v.mu.Lock()
	if v.closed || v.scope != scope {
		v.mu.Unlock()
		v.deps.Logger.Debug("Discarding stale resolution", "short_code", scope.code)
		return
	}

	if err == nil {
		v.mu.Unlock()
		v.deps.Navigator.Replace(dest)
		return
	}

	v.finishOp(op, domain.Failed(domain.UserMessage(err)))
	scope.timer = v.deps.Scheduler.AfterFunc(RecoveryDelay, func() {
		v.recoverToRoot(scope)
	})
	v.mu.Unlock()
}

// recoverToRoot is the deferred return after a failed resolution
func (v *View) recoverToRoot(scope *resolveScope) {
	v.mu.Lock()
	if v.closed || v.scope != scope {
		v.mu.Unlock()
		return
	}
	v.mu.Unlock()

	v.deps.Logger.Debug("Returning to root after failed resolution", "short_code", scope.code)
	v.deps.Navigator.Navigate(RootPath)
}

// Submit shortens rawURL. It blocks until the link service answers and
// returns the new DisplayShortURL. A second call while one is in flight is
// rejected with domain.ErrSubmissionPending instead of being queued.
func (v *View) Submit(ctx context.Context, rawURL string) (string, error) {
	v.mu.Lock()
	switch {
	case v.closed:
		v.mu.Unlock()
		return "", domain.ErrViewClosed
	case v.mode.IsResolve():
		v.mu.Unlock()
		return "", domain.ErrWrongMode
	case v.submitting:
		v.mu.Unlock()
		return "", domain.ErrSubmissionPending
	}
	if err := validator.RequireURL(rawURL); err != nil {
		v.mu.Unlock()
		return "", domain.ErrEmptyURL
	}

	op := v.startOp(domain.Pending())
	v.submitting = true
	v.wg.Add(1)
	v.mu.Unlock()
	defer v.wg.Done()

	// Teardown of the view abandons the call
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(v.ctx, cancel)
	defer stop()

	display, err := v.deps.Submitter.Submit(ctx, rawURL, v.origin)

	v.mu.Lock()
	defer v.mu.Unlock()

	v.submitting = false
	if v.closed {
		return display, err
	}

	if err != nil {
		v.finishOp(op, domain.Failed(domain.UserMessage(err)))
		return "", err
	}

	v.shortURL = display
	v.finishOp(op, domain.Succeeded(domain.MsgShortened))
	return display, nil
}

// CopyToClipboard copies the displayed short link
func (v *View) CopyToClipboard() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return domain.ErrViewClosed
	}
	if v.shortURL == "" {
		v.mu.Unlock()
		return domain.ErrNothingToCopy
	}
	op := v.startOp(v.status)
	value := v.shortURL
	v.mu.Unlock()

	err := v.deps.Clipboard.WriteText(value)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return err
	}
	if err != nil {
		v.deps.Logger.Warn("Clipboard write failed", "error", err)
		v.finishOp(op, domain.Failed(domain.MsgGenericError))
		return err
	}

	v.finishOp(op, domain.Succeeded(domain.MsgCopied))
	return nil
}

// Dismiss clears the banner
func (v *View) Dismiss() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.status.IsPending() {
		return
	}
	v.status = domain.Idle()
}

// Close tears the view down: the recovery timer is cancelled, in-flight
// calls are abandoned and their results discarded. It does not wait for
// goroutines to exit; use Wait for that.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	v.closed = true
	v.teardownScope()
	v.cancel()
}

// Wait blocks until in-flight resolutions and submissions have returned
func (v *View) Wait() {
	v.wg.Wait()
}

// startOp hands status ownership to a new operation. Callers hold mu.
func (v *View) startOp(initial domain.Status) uint64 {
	v.ops++
	v.statusOwner = v.ops
	v.status = initial
	return v.ops
}

// finishOp applies a final status unless a newer operation took over. Callers hold mu.
func (v *View) finishOp(op uint64, final domain.Status) {
	if v.statusOwner != op {
		return
	}
	v.status = final
}

// teardownScope cancels the current resolve scope. Callers hold mu.
func (v *View) teardownScope() {
	if v.scope == nil {
		return
	}
	v.scope.cancel()
	if v.scope.timer != nil {
		v.scope.timer.Stop()
	}
	v.scope = nil
}
