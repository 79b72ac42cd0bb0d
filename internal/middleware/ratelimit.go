// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/templates/crm-backend/internal/core"
)

// RateLimitConfig configures a limiter. Prefix namespaces keys so several
// limiters share one Redis; KeyFunc defaults to KeyByIP.
type RateLimitConfig struct {
	Prefix  string
	Limit   redis_rate.Limit
	KeyFunc func(*http.Request) string
	Skip    func(*http.Request) bool
}

// RateLimiter counts in Redis and degrades to an in-process token bucket
// per key while Redis is unreachable.
type RateLimiter struct {
	redis *redis_rate.Limiter
	local *localLimiter
	cfg   RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}

	return &RateLimiter{
		redis: redis_rate.NewLimiter(rdb),
		local: newLocalLimiter(),
		cfg:   cfg,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.cfg.Skip != nil && rl.cfg.Skip(r) {
			next.ServeHTTP(w, r)
			return
		}

		res := rl.allow(r.Context(), rl.cfg.Prefix+rl.cfg.KeyFunc(r))

		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(rl.cfg.Limit.Rate))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if res.Allowed == 0 {
			throttled(w, res.RetryAfter)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(ctx context.Context, key string) *redis_rate.Result {
	res, err := rl.redis.Allow(ctx, key, rl.cfg.Limit)
	if err == nil {
		return res
	}

	slog.DebugContext(ctx, "rate limiter using local fallback",
		"error", err,
		"key", key,
	)
	return rl.local.allow(key, rl.cfg.Limit, time.Now())
}

func throttled(w http.ResponseWriter, retryAfter time.Duration) {
	secs := int(retryAfter.Round(time.Second).Seconds())
	if secs < 1 {
		secs = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(secs))

	message := fmt.Sprintf("Request was throttled. Expected available in %d seconds.", secs)
	core.JSON(w, core.Envelope{
		Message: message,
		Error:   message,
		Status:  http.StatusTooManyRequests,
	})
}

func KeyByIP(r *http.Request) string {
	return "ip:" + ClientIP(r)
}

// KeyByUser keys authenticated callers by identity and everyone else by IP.
func KeyByUser(r *http.Request) string {
	if userID := GetUserID(r.Context()); userID != "" {
		return "user:" + userID
	}
	return KeyByIP(r)
}

// KeyByRoute gives every resource route its own budget, so hammering
// one endpoint cannot starve the rest.
func KeyByRoute(r *http.Request) string {
	return KeyByUser(r) + ":" + r.Method + " " + routeShape(r.URL.Path)
}

// SkipPaths exempts exact paths, typically the health probes.
func SkipPaths(paths ...string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return func(r *http.Request) bool {
		_, ok := set[r.URL.Path]
		return ok
	}
}

func routeShape(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if core.IsUUID(part) {
			parts[i] = "{id}"
		}
	}
	return "/" + strings.Join(parts, "/")
}

// PerMinute allows rate requests per minute.
func PerMinute(rate, burst int) redis_rate.Limit {
	return PerWindow(rate, burst, time.Minute)
}

// PerWindow allows rate requests per window. A non-positive window means
// one minute.
func PerWindow(rate, burst int, window time.Duration) redis_rate.Limit {
	if window <= 0 {
		window = time.Minute
	}
	return redis_rate.Limit{Rate: rate, Burst: burst, Period: window}
}

const localEntryTTL = 10 * time.Minute

type localEntry struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// localLimiter keeps one token bucket per key. Idle buckets are swept
// on access instead of by a background goroutine.
type localLimiter struct {
	mu        sync.Mutex
	entries   map[string]*localEntry
	lastSweep time.Time
}

func newLocalLimiter() *localLimiter {
	return &localLimiter{entries: make(map[string]*localEntry)}
}

func (l *localLimiter) allow(key string, limit redis_rate.Limit, now time.Time) *redis_rate.Result {
	perSec := float64(limit.Rate) / limit.Period.Seconds()
	interval := time.Duration(float64(time.Second) / perSec)

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > localEntryTTL {
		for k, e := range l.entries {
			if now.Sub(e.lastSeen) > localEntryTTL {
				delete(l.entries, k)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.entries[key]
	if !ok {
		e = &localEntry{bucket: rate.NewLimiter(rate.Limit(perSec), limit.Burst)}
		l.entries[key] = e
	}
	e.lastSeen = now

	res := &redis_rate.Result{Limit: limit, RetryAfter: -1, ResetAfter: interval}
	if e.bucket.AllowN(now, 1) {
		res.Allowed = 1
	} else {
		res.RetryAfter = interval
	}
	res.Remaining = max(int(e.bucket.TokensAt(now)), 0)

	return res
}
