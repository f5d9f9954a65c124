package middleware

import (
	"math"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// NewHTTPRateLimitPerIP gives every client host a token bucket of limit
// requests per second with the given burst. Buckets live in a bounded LRU and
// are dropped after idle without traffic. onLimit writes the rejection.
func NewHTTPRateLimitPerIP(
	limit, burst, cacheSize int,
	idle time.Duration,
	onLimit gin.HandlerFunc,
) gin.HandlerFunc {

	buckets := expirable.NewLRU[string, *rate.Limiter](cacheSize, nil, idle)
	var mu sync.Mutex

	bucket := func(host string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		lim, ok := buckets.Get(host)
		if !ok {
			lim = rate.NewLimiter(rate.Limit(limit), burst)
		}
		// re-adding pushes the expiry forward
		buckets.Add(host, lim)
		return lim
	}

	retryAfter := strconv.Itoa(int(math.Ceil(1 / float64(limit))))

	return func(c *gin.Context) {
		host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
		if err != nil {
			host = c.Request.RemoteAddr
		}

		if !bucket(host).Allow() {
			c.Header("Retry-After", retryAfter)
			onLimit(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
