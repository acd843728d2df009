package inkwell

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CacheKeyGenerator derives a cache key from the request.
type CacheKeyGenerator func(c *gin.Context) string

// TagGenerator derives invalidation tags for the cached entry.
type TagGenerator func(c *gin.Context) []string

type cacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *cacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *cacheWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// DefaultKeyGenerator hashes the full request URL, query string included.
func DefaultKeyGenerator(c *gin.Context) string {
	url := c.Request.URL.String()
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])
}

// CacheMiddleware caches successful GET responses for duration. Writes are
// never cached; invalidation is the caller's job via CacheService.Invalidate
// with the same tags the TagGenerator produces.
func CacheMiddleware(service CacheService, duration time.Duration, tagGen TagGenerator, keyGen CacheKeyGenerator) gin.HandlerFunc {
	if keyGen == nil {
		keyGen = DefaultKeyGenerator
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := keyGen(c)

		cachedData, err := service.Get(c.Request.Context(), key)
		if err == nil && cachedData != nil {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", cachedData)
			c.Abort()
			return
		}

		c.Header("X-Cache", "MISS")
		writer := &cacheWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			tags := []string{}
			if tagGen != nil {
				tags = tagGen(c)
			}

			// A failed cache write must not fail the request.
			_ = service.Set(context.Background(), key, writer.body.Bytes(), tags, duration)
		}
	}
}
