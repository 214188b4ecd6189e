package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/devconnector/pkg/response"
)

// KeyFunc builds the counter key for a request.
type KeyFunc func(c *gin.Context) string

// AllowFunc returns true for requests that bypass the limit.
type AllowFunc func(c *gin.Context) bool

func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString(CtxRealIPKey); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndPath counts per route template, so /posts/:id shares one window.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		return "rl:path:" + route + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserID counts per authenticated caller and falls back to IP before Auth ran.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := UserID(c); uid != "" {
			return "rl:user:" + uid
		}
		return "rl:user:anon:ip:" + ipFromCtx(c)
	}
}

// INCR and set the window expiry on the first hit, atomically.
var fixedWindow = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

type windowState struct {
	count int64
	reset time.Duration
}

func hit(c *gin.Context, rdb *redis.Client, key string, window time.Duration) (windowState, error) {
	vals, err := fixedWindow.Run(c.Request.Context(), rdb, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return windowState{}, err
	}
	if len(vals) != 2 {
		return windowState{}, redis.Nil
	}
	return windowState{count: vals[0], reset: time.Duration(vals[1]) * time.Millisecond}, nil
}

// RateLimit is a fixed-window limiter backed by Redis. It is a no-op without
// a client and fails open when Redis errors.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || limit <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		st, err := hit(c, rdb, keyFn(c), window)
		if err != nil {
			c.Next()
			return
		}

		resetSec := int(st.reset.Round(time.Second).Seconds())
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(limit-int(st.count), 0)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if st.count > int64(limit) {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			response.Abort(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}
		c.Next()
	}
}
