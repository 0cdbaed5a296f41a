package httpx

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/tasktrack/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig is a token bucket: RequestsPerWindow refill over Window,
// with room for Burst requests at once.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

func (c RateLimitConfig) limit() rate.Limit {
	if c.RequestsPerWindow <= 0 || c.Window <= 0 {
		return rate.Inf
	}
	return rate.Every(c.Window / time.Duration(c.RequestsPerWindow))
}

// Built-in profiles, overridable with RATELIMIT_<NAME>_REQUESTS,
// RATELIMIT_<NAME>_WINDOW_SEC and RATELIMIT_<NAME>_BURST.
var (
	StrictLimit   = ParseRateLimitFromEnv("STRICT", RateLimitConfig{10, time.Minute, 10})
	ModerateLimit = ParseRateLimitFromEnv("MODERATE", RateLimitConfig{60, time.Minute, 30})
	LenientLimit  = ParseRateLimitFromEnv("LENIENT", RateLimitConfig{300, time.Minute, 100})
	PublicLimit   = ParseRateLimitFromEnv("PUBLIC", RateLimitConfig{1000, time.Minute, 1000})
)

// ParseRateLimitFromEnv returns def with any positive RATELIMIT_<name>_*
// values applied.
func ParseRateLimitFromEnv(name string, def RateLimitConfig) RateLimitConfig {
	positive := func(suffix string) (int, bool) {
		n, err := strconv.Atoi(os.Getenv("RATELIMIT_" + name + "_" + suffix))
		return n, err == nil && n > 0
	}

	cfg := def
	if n, ok := positive("REQUESTS"); ok {
		cfg.RequestsPerWindow = n
	}
	if n, ok := positive("WINDOW_SEC"); ok {
		cfg.Window = time.Duration(n) * time.Second
	}
	if n, ok := positive("BURST"); ok {
		cfg.Burst = n
	}
	return cfg
}

// KeyExtractor names the bucket a request draws from. An empty key skips
// limiting.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor prefers the first X-Forwarded-For hop, then X-Real-IP, then
// the connection's remote address.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// UserIDKeyExtractor reads the subject stored by the authn middleware.
func UserIDKeyExtractor(r *http.Request) string {
	id, _ := r.Context().Value(CtxKeyUserID).(string)
	return id
}

// CompositeKeyExtractor joins the non-empty keys of each extractor with sep.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(extractors))
		for _, ex := range extractors {
			if k := ex(r); k != "" {
				parts = append(parts, k)
			}
		}
		return strings.Join(parts, sep)
	}
}

const limiterIdleTTL = 10 * time.Minute

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// buckets holds one limiter per key and drops keys idle for longer than
// limiterIdleTTL, checked at most once per TTL.
type buckets struct {
	cfg RateLimitConfig

	mu        sync.Mutex
	byKey     map[string]*bucket
	nextSweep time.Time
}

func newBuckets(cfg RateLimitConfig) *buckets {
	return &buckets{
		cfg:       cfg,
		byKey:     make(map[string]*bucket),
		nextSweep: time.Now().Add(limiterIdleTTL),
	}
}

func (b *buckets) get(key string, now time.Time) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()

	if now.After(b.nextSweep) {
		for k, v := range b.byKey {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(b.byKey, k)
			}
		}
		b.nextSweep = now.Add(limiterIdleTTL)
	}

	e, ok := b.byKey[key]
	if !ok {
		e = &bucket{lim: rate.NewLimiter(b.cfg.limit(), b.cfg.Burst)}
		b.byKey[key] = e
	}
	e.lastSeen = now
	return e.lim
}

// retryAfter is the whole number of seconds, at least one, until lim has a
// token again.
func retryAfter(lim *rate.Limiter, now time.Time) int {
	r := lim.ReserveN(now, 1)
	defer r.CancelAt(now)
	return max(int(r.DelayFrom(now).Seconds()), 1)
}

// RateLimitMiddleware answers 429 once the bucket chosen by key is empty.
func RateLimitMiddleware(cfg RateLimitConfig, key KeyExtractor) Middleware {
	store := newBuckets(cfg)
	limitHeader := strconv.Itoa(cfg.RequestsPerWindow)
	windowHeader := cfg.Window.String()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				slogx.FromContext(r.Context()).Warn("rate limit key missing, request not limited", "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			now := time.Now()
			lim := store.get(k, now)
			if lim.AllowN(now, 1) {
				next.ServeHTTP(w, r)
				return
			}

			wait := retryAfter(lim, now)
			h := w.Header()
			h.Set("Retry-After", strconv.Itoa(wait))
			h.Set("X-RateLimit-Limit", limitHeader)
			h.Set("X-RateLimit-Window", windowHeader)

			slogx.FromContext(r.Context()).Warn("rate limited", "key", k, "path", r.URL.Path, "retry_after", wait)
			WriteJSON(w, http.StatusTooManyRequests, map[string]string{
				"error": "Too many requests. Please try again later.",
			})
		})
	}
}

// RateLimitByIP buckets requests by client address.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	return RateLimitMiddleware(cfg, IPKeyExtractor)
}

// RateLimitByUser buckets by user and address, falling back to the address
// alone for anonymous requests.
func RateLimitByUser(cfg RateLimitConfig) Middleware {
	return RateLimitMiddleware(cfg, CompositeKeyExtractor(":", UserIDKeyExtractor, IPKeyExtractor))
}
