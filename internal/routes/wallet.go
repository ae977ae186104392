package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kolo-pay/kolo_pay/internal/wallet"
)

// RegisterWalletRoutes wires the sub-wallet endpoints. rootOnly guards the
// operations reserved for the backend operator; createLimit caps creation
// attempts per client IP.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler, rootOnly, createLimit fiber.Handler) {
	g := r.Group("/wallet")
	g.Post("/create", rootOnly, createLimit, h.Create)
	g.Post("/set-pin", h.SetPin)
	g.Post("/set-password", h.SetPassword)
	g.Post("/balance", h.Balance)
	g.Post("/debit", h.Debit)
	g.Post("/credit", rootOnly, h.Credit)
	g.Post("/info", h.Info)
	g.Post("/account-number", h.AccountNumber)
	g.Post("/transactions", h.Transactions)
	g.Post("/transactions/aggregate", h.Spending)
}

// RegisterAdminRoutes wires operator-only endpoints.
func RegisterAdminRoutes(r fiber.Router, h *wallet.Handler, rootOnly fiber.Handler) {
	g := r.Group("/admin")
	g.Post("/self-balance", rootOnly, h.SelfBalance)
}
