package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"classifieds-api/internal/domain/apperror"
)

// bucketIdleTTL is how long an address may stay quiet before its bucket is dropped.
const bucketIdleTTL = 10 * time.Minute

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// ipLimiter keeps one token bucket per client address and sweeps idle ones
// at most once per ttl.
type ipLimiter struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
	buckets   map[string]*bucket
}

func newIPLimiter(rps rate.Limit, burst int, ttl time.Duration, now func() time.Time) *ipLimiter {
	return &ipLimiter{
		rps:       rps,
		burst:     burst,
		ttl:       ttl,
		now:       now,
		lastSweep: now(),
		buckets:   make(map[string]*bucket),
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.ttl {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) >= l.ttl {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.rps, l.burst)}
		l.buckets[ip] = b
	}
	b.lastSeen = now

	return b.lim.AllowN(now, 1)
}

func (l *ipLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func rateLimit(l *ipLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			abort(c, http.StatusTooManyRequests, apperror.TooManyRequests, "too many requests")
			return
		}
		c.Next()
	}
}

// RateLimitPerIP keeps one token bucket per client address.
func RateLimitPerIP(rps rate.Limit, burst int) gin.HandlerFunc {
	return rateLimit(newIPLimiter(rps, burst, bucketIdleTTL, time.Now))
}
