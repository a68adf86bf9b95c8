package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"url-shortener-web/internal/config"
	"url-shortener-web/internal/session"
	"url-shortener-web/pkg/logger"
)

const (
	sessionCookie = "sid"
	sessionKey    = "session_id"
)

// LoggerMiddleware logs HTTP requests with structured logging
func LoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		// Process request
		c.Next()

		log.Info("HTTP request",
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"ip", c.ClientIP(),
			"latency", time.Since(start),
			"user_agent", c.Request.UserAgent(),
			"error", c.Errors.ByType(gin.ErrorTypePrivate).String(),
		)
	}
}

// SecurityHeadersMiddleware adds security-related headers
func SecurityHeadersMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("Referrer-Policy", "no-referrer")
		c.Writer.Header().Set("Content-Security-Policy", "default-src 'self'")
		if cfg.IsProduction() {
			c.Writer.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// limiterIdleTTL is how long a client's bucket may sit unused before it is
// evicted. A bucket refills completely within a minute, so an evicted client
// comes back to the same allowance it would have had.
const limiterIdleTTL = time.Minute

type ipEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter hands out one token bucket per client IP
type ipLimiter struct {
	mu        sync.Mutex
	entries   map[string]*ipEntry
	every     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func newIPLimiter(requestsPerMinute int) *ipLimiter {
	return &ipLimiter{
		entries: make(map[string]*ipEntry),
		every:   rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:   requestsPerMinute,
		now:     time.Now,
	}
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= limiterIdleTTL {
		l.sweep(now)
	}

	entry, exists := l.entries[ip]
	if !exists {
		entry = &ipEntry{limiter: rate.NewLimiter(l.every, l.burst)}
		l.entries[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// sweep drops idle buckets. Callers hold mu.
func (l *ipLimiter) sweep(now time.Time) {
	for ip, entry := range l.entries {
		if now.Sub(entry.lastSeen) >= limiterIdleTTL {
			delete(l.entries, ip)
		}
	}
	l.lastSweep = now
}

// RateLimitMiddleware implements IP-based rate limiting
func RateLimitMiddleware(requestsPerMinute int) gin.HandlerFunc {
	limiters := newIPLimiter(requestsPerMinute)

	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			c.String(http.StatusTooManyRequests, "Too many requests, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}

// SessionMiddleware makes sure every visitor carries a session cookie
func SessionMiddleware(cfg *config.Config) gin.HandlerFunc {
	maxAge := int(cfg.SessionTTL / time.Second)

	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || !session.ValidID(id) {
			id = session.NewID()
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, id, maxAge, "/", "", cfg.IsProduction(), true)
		c.Set(sessionKey, id)

		c.Next()
	}
}

// sessionID returns the id stored by SessionMiddleware
func sessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}
