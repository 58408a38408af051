package middlewares

import (
	"net"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/personnel-api/utils"
)

const ContextScheme = "request_scheme"

// ForwardedScheme records the scheme the client used to reach the API.
// X-Forwarded-Proto is honoured only when the direct peer is a trusted proxy.
func ForwardedScheme(trusted []*net.IPNet) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		} else if utils.ContainsIP(trusted, c.RemoteIP()) {
			switch proto := c.GetHeader("X-Forwarded-Proto"); proto {
			case "http", "https":
				scheme = proto
			}
		}

		c.Set(ContextScheme, scheme)
		c.Next()
	}
}
