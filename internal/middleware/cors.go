package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/wb-go/wbf/ginext"
)

const (
	corsAllowMethods = "GET, POST, OPTIONS"
	corsAllowHeaders = "Content-Type, " + RequestIDHeader
)

// CORS allows the listed origins; "*" allows any origin. Preflight requests
// are answered without reaching the handlers.
func CORS(origins []string) ginext.HandlerFunc {
	allowAll := slices.Contains(origins, "*")

	return func(c *ginext.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowAll || slices.ContainsFunc(origins, func(o string) bool {
			return strings.EqualFold(o, origin)
		})) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", corsAllowMethods)
			c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
			c.Header("Access-Control-Expose-Headers", RequestIDHeader)
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
