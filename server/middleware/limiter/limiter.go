// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"math"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"codeberg.org/mustache-l10n/mustache-l10n/config"
	"codeberg.org/mustache-l10n/mustache-l10n/server/request_context"
	"codeberg.org/mustache-l10n/mustache-l10n/server/routes"
)

const (
	LimiterExpiryDuration = time.Hour       // How long to keep limiters in memory before cleanup.
	CleanupInterval       = 5 * time.Minute // Interval between limiter cleanup runs.
)

// Rate limiting header names.
//
// ref: https://www.ietf.org/archive/id/draft-polli-ratelimit-headers-02.html
const (
	HeaderRateLimitLimit     string = "RateLimit-Limit"
	HeaderRateLimitRemaining string = "RateLimit-Remaining"
)

// excludedPaths won't have traffic filtered by the limiter middleware.
var excludedPaths = []string{
	"/healthz",
}

// Limiter holds one token bucket per client network.
type Limiter struct {
	rate       rate.Limit
	burst      int
	ipv4Prefix int
	ipv6Prefix int

	limiters    sync.Map // netip.Prefix → *limiterWrapper
	lastCleanup atomic.Int64

	now func() time.Time
}

// limiterWrapper holds a rate limiter and additional metadata.
type limiterWrapper struct {
	limiter    *rate.Limiter
	mu         sync.Mutex
	lastAccess time.Time
}

// New returns a limiter allowing ratePerSecond requests per second with
// bursts of burst requests for each network.
func New(ratePerSecond float64, burst, ipv4Prefix, ipv6Prefix int) *Limiter {
	return &Limiter{
		rate:       rate.Limit(ratePerSecond),
		burst:      burst,
		ipv4Prefix: ipv4Prefix,
		ipv6Prefix: ipv6Prefix,
		now:        time.Now,
	}
}

// FromConfig returns a limiter with the settings of cfg.
func FromConfig(cfg *config.Config) *Limiter {
	return New(cfg.Limiter.Rate, cfg.Limiter.Burst, cfg.Limiter.IPv4Prefix, cfg.Limiter.IPv6Prefix)
}

// Evaluate is the entrypoint to the limiter middleware.
//
// Requests over the limit get the error page with status 429.
func (l *Limiter) Evaluate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if isExcludedPath(r.URL.Path) {
		next.ServeHTTP(w, r)

		return
	}

	defer l.doCleanup()

	addr, ok := clientAddr(r)
	if !ok {
		reject(w, r, http.StatusBadRequest)

		return
	}

	prefix := network(addr, l.ipv4Prefix, l.ipv6Prefix)

	allowed, remaining := l.getOrCreateLimiter(prefix).take(l.now())

	w.Header().Set(HeaderRateLimitLimit, strconv.Itoa(l.burst))
	w.Header().Set(HeaderRateLimitRemaining, strconv.Itoa(remaining))

	if !allowed {
		log.Warn().
			Str("ip", addr.String()).
			Str("network", prefix.String()).
			Msg("Rate limit exceeded")

		w.Header().Set("Retry-After", strconv.Itoa(l.retryAfter()))
		reject(w, r, http.StatusTooManyRequests)

		return
	}

	next.ServeHTTP(w, r)
}

func isExcludedPath(path string) bool {
	for _, p := range excludedPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}

func reject(w http.ResponseWriter, r *http.Request, status int) {
	request_context.FromRequest(r).StatusCode = status

	routes.ErrorPage(w, r)
}

// retryAfter is the number of whole seconds until one token is available.
func (l *Limiter) retryAfter() int {
	if l.rate <= 0 {
		return int(LimiterExpiryDuration.Seconds())
	}

	return int(math.Ceil(1 / float64(l.rate)))
}

// getOrCreateLimiter returns the limiterWrapper for prefix, creating it on
// first use.
func (l *Limiter) getOrCreateLimiter(prefix netip.Prefix) *limiterWrapper {
	if value, ok := l.limiters.Load(prefix); ok {
		return value.(*limiterWrapper)
	}

	value, _ := l.limiters.LoadOrStore(prefix, &limiterWrapper{
		limiter:    rate.NewLimiter(l.rate, l.burst),
		lastAccess: l.now(),
	})

	return value.(*limiterWrapper)
}

// take attempts to consume 1 token at now and reports the tokens left.
func (lw *limiterWrapper) take(now time.Time) (bool, int) {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	lw.lastAccess = now

	allowed := lw.limiter.AllowN(now, 1)

	return allowed, max(0, int(lw.limiter.TokensAt(now)))
}
