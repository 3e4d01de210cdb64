package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimit returns a per-client-IP limiter for the payment endpoints. A
// buyer has no business initiating more than a handful of purchases per
// second; anything faster is a stuck frontend or abuse.
func RateLimit(perSecond rate.Limit, burst int) echo.MiddlewareFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*limiterEntry)
	)

	// Drop idle entries so the map does not grow with every IP ever seen.
	go func() {
		for range time.Tick(10 * time.Minute) {
			mu.Lock()
			for ip, entry := range limiters {
				if time.Since(entry.lastSeen) > 10*time.Minute {
					delete(limiters, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			mu.Lock()
			entry, ok := limiters[ip]
			if !ok {
				entry = &limiterEntry{limiter: rate.NewLimiter(perSecond, burst)}
				limiters[ip] = entry
			}
			entry.lastSeen = time.Now()
			mu.Unlock()

			if !entry.limiter.Allow() {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"status":      "error",
					"kind":        "rate_limited",
					"description": "too many requests",
					"data":        nil,
				})
			}

			return next(c)
		}
	}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}
