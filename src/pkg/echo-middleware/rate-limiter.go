package echomw

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"statement-analyzer/src/pkg/statement"
)

// limiterIdleTTL is how long an idle client's limiter is kept.
const limiterIdleTTL = time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits requests per client IP address.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	rateLimit rate.Limit // requests per second
	burst     int        // how many requests are allowed instantly
	now       func() time.Time
}

func NewRateLimiter(requestsPerSecond, burst int) *RateLimiter {
	return &RateLimiter{
		clients:   map[string]*clientLimiter{},
		rateLimit: rate.Limit(requestsPerSecond),
		burst:     burst,
		now:       time.Now,
	}
}

// getLimiter returns the rate limiter for the given IP address and drops limiters idle for too long.
func (l *RateLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, client := range l.clients {
		if now.Sub(client.lastSeen) > limiterIdleTTL {
			delete(l.clients, key)
		}
	}

	client, exists := l.clients[ip]
	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(l.rateLimit, l.burst)}
		l.clients[ip] = client
	}
	client.lastSeen = now
	return client.limiter
}

// Middleware rejects requests over the limit with 429 in the envelope format.
func (l *RateLimiter) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !l.getLimiter(c.RealIP()).Allow() {
			LogRouteAccess(c, tl.Info, "Rate limited", palette.Yellow)
			return c.JSON(http.StatusTooManyRequests, statement.Failure("Too many requests"))
		}
		return next(c)
	}
}
