package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	resp "store-rating/internal/transport/http/response"
)

// ConcurrencyLimit caps in-flight requests so the DB pool is not swamped.
// A request waits at most maxWait for a slot, less if its context ends first.
func ConcurrencyLimit(max int64, maxWait time.Duration) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), maxWait)
		err := sem.Acquire(ctx, 1)
		cancel()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, resp.Error(resp.CodeBusy, ""))
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
