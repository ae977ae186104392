package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kolo-pay/kolo_pay/internal/transfer"
)

// RegisterTransferRoutes wires bank payout and bank lookup endpoints.
func RegisterTransferRoutes(r fiber.Router, h *transfer.Handler) {
	g := r.Group("/wallet/transfer")
	g.Post("/bank", h.ToBank)
	g.Post("/bank/details", h.Details)
	g.Get("/bank/all", h.Banks)
	g.Post("/bank/enquire", h.Enquiry)
}
