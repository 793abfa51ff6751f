package middleware

import (
	"context"
	"time"

	"github.com/wb-go/wbf/ginext"
)

// Timeout bounds the request context so repository calls give up once the
// deadline passes. A non-positive timeout disables the middleware.
func Timeout(timeout time.Duration) ginext.HandlerFunc {
	return func(c *ginext.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
