// Package respond renders the uniform response envelopes used by every
// route: {errorCode, message} on failure, {message, body} on success, plus a
// pagination block for listings.
package respond

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/kolo-pay/kolo_pay/internal/apperr"
	"github.com/kolo-pay/kolo_pay/internal/pagination"
)

// Success writes the success envelope.
func Success(c *fiber.Ctx, message string, body any) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": message,
		"body":    body,
	})
}

// Paginated writes the success envelope with pagination metadata.
func Paginated(c *fiber.Ctx, message string, body any, meta pagination.Meta) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message":    message,
		"body":       body,
		"pagination": meta,
	})
}

// Failure writes the failure envelope for an application error.
func Failure(c *fiber.Ctx, err *apperr.Error) error {
	return c.Status(err.Status).JSON(fiber.Map{
		"errorCode": err.Code,
		"message":   err.Message,
	})
}

// Generic writes the failure envelope for faults outside the taxonomy.
func Generic(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"errorCode": apperr.CodeGeneric,
		"message":   message,
	})
}
