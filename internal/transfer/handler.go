package transfer

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kolo-pay/kolo_pay/internal/apperr"
	"github.com/kolo-pay/kolo_pay/internal/respond"
	"github.com/kolo-pay/kolo_pay/internal/validation"
)

// Handler exposes the transfer HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a transfer HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func parseBody(c *fiber.Ctx) (map[string]any, error) {
	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return nil, apperr.Validation("request body must be a JSON object")
	}
	return body, nil
}

func requireKeys(body map[string]any, keys ...string) error {
	if missing := validation.MissingKeys(body, keys...); len(missing) > 0 {
		return apperr.MissingFields(missing)
	}
	return nil
}

// ToBank debits the caller's sub-wallet and pays out to a bank account.
func (h *Handler) ToBank(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return err
	}
	if err := requireKeys(body, "wallet_key", "email", "amount", "bank_code", "account_number", "account_name"); err != nil {
		return err
	}
	amount, ok := validation.Number(body, "amount")
	if !ok {
		return apperr.Validation("amount must be a number")
	}

	result, err := h.service.ToBank(c.UserContext(), ToBankInput{
		WalletKey:     validation.String(body, "wallet_key"),
		Email:         validation.String(body, "email"),
		BankCode:      validation.String(body, "bank_code"),
		AccountNumber: validation.String(body, "account_number"),
		AccountName:   validation.String(body, "account_name"),
		Narration:     validation.String(body, "narration"),
		Amount:        amount,
	})
	if err != nil {
		return err
	}
	return respond.Success(c, "Transfer to bank account sent", result)
}

// Details returns the provider's record of a past transfer.
func (h *Handler) Details(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return err
	}
	if err := requireKeys(body, "wallet_key", "email", "transaction_reference"); err != nil {
		return err
	}

	data, err := h.service.Details(c.UserContext(),
		validation.String(body, "wallet_key"),
		validation.String(body, "email"),
		validation.String(body, "transaction_reference"))
	if err != nil {
		return err
	}
	return respond.Success(c, "Transfer details retrieved", data)
}

// Banks lists the institutions reachable by bank transfer. Public.
func (h *Handler) Banks(c *fiber.Ctx) error {
	banks, err := h.service.Banks(c.UserContext())
	if err != nil {
		return err
	}
	return respond.Success(c, "Banks retrieved", banks)
}

// Enquiry resolves a bank account holder. Public.
func (h *Handler) Enquiry(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return err
	}
	if err := requireKeys(body, "bank_code", "account_number"); err != nil {
		return err
	}

	data, err := h.service.Enquiry(c.UserContext(),
		validation.String(body, "bank_code"),
		validation.String(body, "account_number"))
	if err != nil {
		return err
	}
	return respond.Success(c, "Bank account resolved", data)
}
