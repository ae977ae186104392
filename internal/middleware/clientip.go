package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// forwardedHeaders are consulted in order; the first populated one wins.
// Proxies may append a chain, in which case the first hop is the client.
var forwardedHeaders = []string{
	"X-Forwarded-For",
	"X-Forwarded-Host",
	"X-Forwarded-Server",
}

// ClientIP resolves the originating client address behind proxies.
func ClientIP(c *fiber.Ctx) string {
	for _, header := range forwardedHeaders {
		if value := c.Get(header); value != "" {
			if idx := strings.IndexByte(value, ','); idx >= 0 {
				value = value[:idx]
			}
			return strings.TrimSpace(value)
		}
	}
	return c.IP()
}
