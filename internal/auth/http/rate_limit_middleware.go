package http

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/riotkit-org/backup-repository/internal/crud"
)

const (
	// limiterIdleTTL is how long an unused caller limiter is kept.
	limiterIdleTTL = time.Hour
	// limiterSweepInterval is the minimal delay between two sweeps of idle limiters.
	limiterSweepInterval = 5 * time.Minute
)

type callerLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// callerLimiters keeps one token bucket per caller. Idle buckets are swept lazily
// on access, so the store owns no goroutine.
type callerLimiters struct {
	mu        sync.Mutex
	limiters  map[string]*callerLimiter
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func newCallerLimiters(rps float64, burst int) *callerLimiters {
	return &callerLimiters{
		limiters: make(map[string]*callerLimiter),
		limit:    rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

// get returns the limiter of key, creating it on first use.
func (s *callerLimiters) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= limiterSweepInterval {
		for k, entry := range s.limiters {
			if now.Sub(entry.lastSeen) > limiterIdleTTL {
				delete(s.limiters, k)
			}
		}
		s.lastSweep = now
	}

	entry, ok := s.limiters[key]
	if !ok {
		entry = &callerLimiter{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

func (s *callerLimiters) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

// RateLimitMiddleware enforces a token bucket per caller.
//
// Authenticated requests are keyed by token id, anonymous ones by client IP, so it must
// run after (optional) authentication. A rejected request gets 429 with a Retry-After
// header in whole seconds.
func RateLimitMiddleware(rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	return rateLimit(newCallerLimiters(rps, burst), logger)
}

func rateLimit(store *callerLimiters, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if token, ok := GetToken(c.Request.Context()); ok {
			key = "token:" + token.ID.String()
		}

		limiter := store.get(key)
		if limiter.Allow() {
			c.Next()
			return
		}

		reservation := limiter.Reserve()
		retryAfter := int(math.Ceil(reservation.Delay().Seconds()))
		reservation.Cancel()
		if retryAfter < 1 {
			retryAfter = 1
		}

		logger.Debug("rate limit exceeded",
			slog.String("caller", key),
			slog.Int("retry_after", retryAfter))

		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, &crud.Response{
			Status:   false,
			HTTPCode: http.StatusTooManyRequests,
			Message:  "Too many requests, retry later",
			Error: &crud.DomainError{
				Message: "Too many requests, retry later",
				Code:    "rate_limit_exceeded",
			},
		})
	}
}
