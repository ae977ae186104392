package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/kolo-pay/kolo_pay/internal/apperr"
)

const rootSecretHeader = "Secret"

// RequireRootSecret gates privileged routes (wallet creation, administrative
// credit) on the configured shared secret carried in the Secret header.
func RequireRootSecret(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		supplied := c.Get(rootSecretHeader)
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(secret)) != 1 {
			return apperr.InvalidCredentials("Invalid secret specified in the request headers")
		}
		return c.Next()
	}
}
