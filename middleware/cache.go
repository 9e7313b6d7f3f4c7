package middleware

import (
	"bytes"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "cache:"

// Cache is a best-effort response cache over Redis. A Cache built from a nil
// client is valid and turns every method into a pass-through, so the API
// behaves identically with or without Redis.
type Cache struct {
	rdb *redis.Client
}

func NewCache(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

type bodyCapture struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// Response serves GET responses from the cache when present and stores
// successful JSON responses with the given TTL. Keys are the request path
// plus query so every distinct listing/filter combination caches separately.
func (c *Cache) Response(ttl time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if c.rdb == nil || ctx.Request.Method != http.MethodGet {
			ctx.Next()
			return
		}

		key := cacheKeyPrefix + ctx.Request.URL.RequestURI()

		if body, err := c.rdb.Get(ctx.Request.Context(), key).Bytes(); err == nil {
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
			ctx.Abort()
			return
		}

		capture := &bodyCapture{ResponseWriter: ctx.Writer}
		ctx.Writer = capture

		ctx.Next()

		if ctx.Writer.Status() == http.StatusOK && capture.buf.Len() > 0 {
			if err := c.rdb.Set(ctx.Request.Context(), key, capture.buf.Bytes(), ttl).Err(); err != nil {
				log.Printf("cache set failed for %s: %v", key, err)
			}
		}
	}
}

// Invalidate deletes every cached response under the given path prefixes
// after a successful mutating request. Correctness never depends on the
// cache; a missed invalidation only means stale reads until the TTL runs out.
func (c *Cache) Invalidate(prefixes ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		if c.rdb == nil || ctx.Writer.Status() >= http.StatusBadRequest {
			return
		}

		for _, prefix := range prefixes {
			pattern := cacheKeyPrefix + prefix + "*"
			iter := c.rdb.Scan(ctx.Request.Context(), 0, pattern, 100).Iterator()
			for iter.Next(ctx.Request.Context()) {
				if err := c.rdb.Del(ctx.Request.Context(), iter.Val()).Err(); err != nil {
					log.Printf("cache invalidate failed for %s: %v", iter.Val(), err)
				}
			}
			if err := iter.Err(); err != nil {
				log.Printf("cache scan failed for %s: %v", pattern, err)
			}
		}
	}
}
