// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the in-memory token-bucket rate limiter. Every request
// draws from a named bucket: the default bucket covers reads and cheap
// writes, while routes registered with Route get their own budget. Report
// submissions award points and store photo bytes, so they run on a much
// tighter bucket than browsing the leaderboard.
//
// Buckets are per identity (user id when authenticated, otherwise client IP)
// and per bucket name, so exhausting the submit budget never blocks reads.
//
// The limiter is process-local. Horizontally scaled deployments need a shared
// limiter in front of the service.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// DefaultBucket names the bucket used by routes without an override.
const DefaultBucket = "default"

// Bucket is a named token-bucket budget.
type Bucket struct {
	Name  string
	RPS   float64 // tokens per second; 0 refills never
	Burst int     // values <= 0 are coerced to 1
}

// keyFunc selects the identity used to key a rate-limit bucket.
type keyFunc func(*gin.Context) string

// KeyByUserOrIP keys buckets by "user:<id>" when the auth middleware stored
// a user id, and by "ip:<addr>" otherwise.
func KeyByUserOrIP() keyFunc {
	return func(c *gin.Context) string {
		if uid := userIDFromCtx(c); uid != "" {
			return "user:" + uid
		}
		return "ip:" + c.ClientIP()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter enforces per-identity, per-bucket limits. It is safe for
// concurrent use; configure routes before installing Handler.
type RateLimiter struct {
	def    Bucket
	routes map[string]Bucket // "METHOD /full/path" -> bucket
	keyFn  keyFunc

	mu       sync.Mutex
	visitors map[string]*visitor

	ttl      time.Duration
	cleanupN uint64
	now      func() time.Time
}

// NewRateLimiter builds a limiter whose default bucket allows rps tokens per
// second with the given burst.
func NewRateLimiter(rps float64, burst int, keyFn keyFunc) *RateLimiter {
	return &RateLimiter{
		def:      normalizeBucket(Bucket{Name: DefaultBucket, RPS: rps, Burst: burst}),
		routes:   map[string]Bucket{},
		keyFn:    keyFn,
		visitors: make(map[string]*visitor),
		ttl:      10 * time.Minute,
		now:      time.Now,
	}
}

// Route gives the registered route method+fullPath its own bucket. fullPath
// is the gin route pattern, e.g. "/api/v1/reports".
func (rl *RateLimiter) Route(method, fullPath string, b Bucket) *RateLimiter {
	rl.routes[method+" "+fullPath] = normalizeBucket(b)
	return rl
}

func normalizeBucket(b Bucket) Bucket {
	if b.Burst <= 0 {
		b.Burst = 1
	}
	if b.Name == "" {
		b.Name = DefaultBucket
	}
	return b
}

// bucketFor returns the bucket governing c's matched route.
func (rl *RateLimiter) bucketFor(c *gin.Context) Bucket {
	if b, ok := rl.routes[c.Request.Method+" "+c.FullPath()]; ok {
		return b
	}
	return rl.def
}

// limiter returns the limiter for identity within bucket b, evicting idle
// entries every 5000 lookups. Eviction runs before the lookup so a stale
// entry is not refreshed by the request that finds it.
func (rl *RateLimiter) limiter(b Bucket, identity string) *rate.Limiter {
	now := rl.now()
	key := b.Name + "|" + identity

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.cleanupN++
	if rl.cleanupN >= 5000 {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) >= rl.ttl {
				delete(rl.visitors, k)
			}
		}
		rl.cleanupN = 0
	}

	if v, ok := rl.visitors[key]; ok {
		v.lastSeen = now
		return v.limiter
	}
	lim := rate.NewLimiter(rate.Limit(b.RPS), b.Burst)
	rl.visitors[key] = &visitor{limiter: lim, lastSeen: now}
	return lim
}

// IsRateBypass reports whether IdempotencyValidator marked this request as a
// replay of a completed request. Replays never consume tokens.
func IsRateBypass(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyRateBypass)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Handler returns the middleware. Rejected requests get 429 with a
// Retry-After header sized to the bucket's refill time and are counted in
// cleancity_http_rate_limited_total{bucket}.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}

		b := rl.bucketFor(c)
		lim := rl.limiter(b, rl.keyFn(c))
		now := rl.now()
		res := lim.ReserveN(now, 1)
		delay := res.DelayFrom(now)
		if res.OK() && delay == 0 {
			c.Next()
			return
		}
		res.CancelAt(now)

		rateLimited.WithLabelValues(b.Name).Inc()
		c.Header("Retry-After", retryAfter(delay, res.OK()))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get(requestIDHeader),
			"code":       "rate_limited",
			"message":    "rate limit exceeded for " + b.Name + " requests",
		})
	}
}

// retryAfter renders delay in whole seconds, at least 1. A bucket that never
// refills reports one minute.
func retryAfter(delay time.Duration, refills bool) string {
	if !refills || delay == rate.InfDuration {
		return "60"
	}
	secs := int(math.Ceil(delay.Seconds()))
	return strconv.Itoa(max(secs, 1))
}
