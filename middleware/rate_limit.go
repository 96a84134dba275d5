package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/ormlab/blogapi/config"
	"github.com/ormlab/blogapi/utils"
)

const limiterTTL = 5 * time.Minute

type clientLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

type limiterStore struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
}

func (s *limiterStore) get(key string, limit rate.Limit, burst int) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for k, c := range s.clients {
		if now.After(c.expires) {
			delete(s.clients, k)
		}
	}

	if c, ok := s.clients[key]; ok {
		c.expires = now.Add(limiterTTL)
		return c.limiter
	}
	c := &clientLimiter{limiter: rate.NewLimiter(limit, burst), expires: now.Add(limiterTTL)}
	s.clients[key] = c
	return c.limiter
}

var store = &limiterStore{clients: map[string]*clientLimiter{}}

// RateLimit applies a per-client-IP token bucket across the write endpoints.
func RateLimit() gin.HandlerFunc {
	cfg := config.Get()
	perMinute := cfg.RateLimitPerMinute
	if perMinute < 1 {
		perMinute = 1
	}
	limit := rate.Every(time.Minute / time.Duration(perMinute))
	burst := perMinute / 2
	if burst < 1 {
		burst = 1
	}

	return func(ctx *gin.Context) {
		if !store.get(ctx.ClientIP(), limit, burst).Allow() {
			utils.Fail(ctx, http.StatusTooManyRequests, "rate limit exceeded")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
