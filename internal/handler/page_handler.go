package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"url-shortener-web/internal/config"
	"url-shortener-web/internal/domain"
	"url-shortener-web/internal/service"
	"url-shortener-web/internal/session"
	"url-shortener-web/internal/view"
	"url-shortener-web/pkg/logger"
)

// PageHandler serves the client's single route space: "/" is the
// submission view and every other path is a short code to resolve.
// Each request drives a fresh view that is torn down when the request ends.
type PageHandler struct {
	resolver  service.Resolver
	submitter service.Submitter
	sessions  session.Store
	cfg       *config.Config
	logger    *logger.Logger

	// inflight holds session ids with a submission in progress
	inflight sync.Map
}

// NewPageHandler creates a new page handler with dependencies
func NewPageHandler(
	resolver service.Resolver,
	submitter service.Submitter,
	sessions session.Store,
	cfg *config.Config,
	logger *logger.Logger,
) *PageHandler {
	return &PageHandler{
		resolver:  resolver,
		submitter: submitter,
		sessions:  sessions,
		cfg:       cfg,
		logger:    logger,
	}
}

// pageView bundles a view with the adapters that capture its side effects
type pageView struct {
	*view.View
	nav   *pageNavigator
	sched *pageScheduler
	clip  *browserClipboard
	stop  func() bool
}

// close tears the view down and releases the request hook
func (p *pageView) close() {
	p.stop()
	p.Close()
}

// newView builds a view bound to the request's lifetime
func (h *PageHandler) newView(c *gin.Context) *pageView {
	p := &pageView{
		nav:   &pageNavigator{},
		sched: &pageScheduler{},
		clip:  &browserClipboard{},
	}
	p.View = view.New(h.origin(c), view.Deps{
		Resolver:  h.resolver,
		Submitter: h.submitter,
		Navigator: p.nav,
		Clipboard: p.clip,
		Scheduler: p.sched,
		Logger:    h.requestLogger(c),
	})
	// A client that goes away tears its view down
	p.stop = context.AfterFunc(c.Request.Context(), p.View.Close)
	return p
}

// Index handles GET /
func (h *PageHandler) Index(c *gin.Context) {
	p := h.newView(c)
	defer p.close()

	state := h.loadSession(c)
	p.Restore(state.Status, state.ShortURL)
	p.Navigate(view.RootPath)

	st := p.State()

	// The banner is shown once; the short link stays until replaced
	if st.Status.Visible() {
		h.saveSession(c, session.State{Status: domain.Idle(), ShortURL: st.ShortURL})
	}

	c.HTML(http.StatusOK, "index.html", IndexPageData{
		Status:          st.Status,
		ShortURL:        st.ShortURL,
		BannerHideAfter: bannerHideAfterMs,
	})
}

// Submit handles POST /
func (h *PageHandler) Submit(c *gin.Context) {
	sid := sessionID(c)

	// The form is disabled while a submission is pending; duplicates are dropped
	if _, busy := h.inflight.LoadOrStore(sid, struct{}{}); busy {
		h.requestLogger(c).Info("Rejecting duplicate submission")
		c.Redirect(http.StatusSeeOther, view.RootPath)
		return
	}
	defer h.inflight.Delete(sid)

	p := h.newView(c)
	defer p.close()

	state := h.loadSession(c)
	p.Restore(state.Status, state.ShortURL)
	p.Navigate(view.RootPath)

	raw := c.PostForm("url")
	if _, err := p.Submit(c.Request.Context(), raw); err != nil {
		if errors.Is(err, domain.ErrEmptyURL) {
			c.HTML(http.StatusBadRequest, "index.html", IndexPageData{
				Status:          p.State().Status,
				ShortURL:        state.ShortURL,
				BannerHideAfter: bannerHideAfterMs,
			})
			return
		}
		_ = c.Error(err)
	}

	st := p.State()
	h.saveSession(c, session.State{Status: st.Status, ShortURL: st.ShortURL})
	c.Redirect(http.StatusSeeOther, view.RootPath)
}

// Copy handles POST /copy after the page script wrote the link to the clipboard
func (h *PageHandler) Copy(c *gin.Context) {
	p := h.newView(c)
	defer p.close()

	state := h.loadSession(c)
	p.Restore(state.Status, state.ShortURL)
	p.Navigate(view.RootPath)
	p.clip.denied = c.PostForm("clipboard_error") != ""

	if err := p.CopyToClipboard(); err != nil && !errors.Is(err, domain.ErrNothingToCopy) {
		_ = c.Error(err)
	}

	st := p.State()
	h.saveSession(c, session.State{Status: st.Status, ShortURL: st.ShortURL})
	c.Redirect(http.StatusSeeOther, view.RootPath)
}

// Dismiss handles POST /dismiss
func (h *PageHandler) Dismiss(c *gin.Context) {
	p := h.newView(c)
	defer p.close()

	state := h.loadSession(c)
	p.Restore(state.Status, state.ShortURL)
	p.Dismiss()

	// A session with nothing left to show is dropped
	st := p.State()
	if st.ShortURL == "" && !st.Status.Visible() {
		if err := h.sessions.Delete(c.Request.Context(), sessionID(c)); err != nil {
			h.requestLogger(c).Warn("Failed to delete session", "error", err)
		}
	} else {
		h.saveSession(c, session.State{Status: st.Status, ShortURL: st.ShortURL})
	}
	c.Redirect(http.StatusSeeOther, view.RootPath)
}

// Resolve handles GET /<code> for any path other than the root
func (h *PageHandler) Resolve(c *gin.Context) {
	p := h.newView(c)
	defer p.close()

	p.Navigate(c.Request.URL.Path)
	p.Wait()

	if dest := p.nav.destination(); dest != "" {
		// Full navigation to an arbitrary external site
		c.Redirect(http.StatusFound, dest)
		return
	}

	st := p.State()
	data := ResolvePageData{
		Status:          st.Status,
		BannerHideAfter: bannerHideAfterMs,
	}

	if delay, ok := p.sched.scheduled(); ok {
		data.Recovering = true
		data.RefreshSeconds = int(math.Ceil(delay.Seconds()))

		// The banner follows the visitor back to the submission view
		prior := h.loadSession(c)
		h.saveSession(c, session.State{Status: st.Status, ShortURL: prior.ShortURL})
	}

	if st.Status.IsError() {
		c.HTML(http.StatusNotFound, "resolve.html", data)
		return
	}

	// The visitor left before the lookup finished
	c.Status(http.StatusNoContent)
}

// NotFound serves every unmatched route; GET requests are short codes
func (h *PageHandler) NotFound(c *gin.Context) {
	if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
		h.Resolve(c)
		return
	}

	c.String(http.StatusNotFound, "404 page not found")
}

// origin is the scheme and host short links are composed with
func (h *PageHandler) origin(c *gin.Context) string {
	if h.cfg.PublicOrigin != "" {
		return h.cfg.PublicOrigin
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "https" || proto == "http" {
		scheme = proto
	}

	return scheme + "://" + c.Request.Host
}

// loadSession returns the visitor's persisted state, or an empty one
func (h *PageHandler) loadSession(c *gin.Context) session.State {
	state, err := h.sessions.Load(c.Request.Context(), sessionID(c))
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			h.requestLogger(c).Warn("Failed to load session", "error", err)
		}
		return session.State{Status: domain.Idle()}
	}
	return state
}

// saveSession persists the visitor's state; failures only cost the banner
func (h *PageHandler) saveSession(c *gin.Context, state session.State) {
	if err := h.sessions.Save(c.Request.Context(), sessionID(c), state, h.cfg.SessionTTL); err != nil {
		h.requestLogger(c).Warn("Failed to save session", "error", err)
	}
}

// requestLogger tags entries with the visitor's session
func (h *PageHandler) requestLogger(c *gin.Context) *logger.Logger {
	return h.logger.WithFields(map[string]interface{}{
		"session": sessionID(c),
	})
}
