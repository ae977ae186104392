package wallet

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kolo-pay/kolo_pay/internal/apperr"
	"github.com/kolo-pay/kolo_pay/internal/middleware"
	"github.com/kolo-pay/kolo_pay/internal/pagination"
	"github.com/kolo-pay/kolo_pay/internal/respond"
	"github.com/kolo-pay/kolo_pay/internal/validation"
)

// Geolocator resolves a coarse origin for a client IP. Optional.
type Geolocator interface {
	Locate(ctx context.Context, ip string) (string, error)
}

// Handler exposes the wallet HTTP endpoints.
type Handler struct {
	service *Service
	geo     Geolocator
	logger  *slog.Logger
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service, geo Geolocator, logger *slog.Logger) *Handler {
	return &Handler{service: service, geo: geo, logger: logger}
}

// parseBody decodes the request body into a map so missing keys can be
// reported by name.
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

// Create provisions a sub-wallet. The root-secret gate runs as route
// middleware before this handler.
func (h *Handler) Create(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return err
	}
	if err := requireKeys(body, "first_name", "last_name", "email", "birthday", "phone_number"); err != nil {
		return err
	}

	walletKey, err := h.service.Create(c.UserContext(), CreateInput{
		FirstName:   validation.String(body, "first_name"),
		LastName:    validation.String(body, "last_name"),
		Email:       validation.String(body, "email"),
		Birthday:    validation.String(body, "birthday"),
		PhoneNumber: validation.String(body, "phone_number"),
		BVN:         validation.String(body, "bvn"),
	})
	if err != nil {
		return err
	}

	h.logCreationOrigin(c)

	return respond.Success(c, "Wallet created", fiber.Map{"wallet_key": walletKey})
}

// logCreationOrigin attaches a coarse location to the creation audit trail.
// Best-effort; a geoip fault must not affect the response.
func (h *Handler) logCreationOrigin(c *fiber.Ctx) {
	if h.geo == nil {
		return
	}
	ip := middleware.ClientIP(c)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	origin, err := h.geo.Locate(ctx, ip)
	if err != nil {
		h.logger.Debug("creation origin lookup failed", "ip", ip, "error", err)
		return
	}
	h.logger.Info("wallet creation origin", "ip", ip, "origin", origin)
}

// SetPin sets the transaction pin on the caller's sub-wallet.
func (h *Handler) SetPin(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return err
	}
	if err := requireKeys(body, "wallet_key", "email", "pin"); err != nil {
		return err
	}

	if err := h.service.SetPin(c.UserContext(),
		validation.String(body, "wallet_key"),
		validation.String(body, "email"),
		validation.String(body, "pin")); err != nil {
		return err
	}
	return respond.Success(c, "Wallet pin set", nil)
}

// SetPassword sets the password on the caller's sub-wallet.
func (h *Handler) SetPassword(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return err
	}
	if err := requireKeys(body, "wallet_key", "email", "password"); err != nil {
		return err
	}

	if err := h.service.SetPassword(c.UserContext(),
		validation.String(body, "wallet_key"),
		validation.String(body, "email"),
		validation.String(body, "password")); err != nil {
		return err
	}
	return respond.Success(c, "Wallet password set", nil)
}

// Balance returns the live provider balance.
func (h *Handler) Balance(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return err
	}
	if err := requireKeys(body, "wallet_key", "email"); err != nil {
		return err
	}

	balance, err := h.service.Balance(c.UserContext(),
		validation.String(body, "wallet_key"),
		validation.String(body, "email"))
	if err != nil {
		return err
	}
	return respond.Success(c, "Wallet balance retrieved", fiber.Map{
		"balance":  balance.Amount(),
		"currency": balance.Currency,
	})
}

// Debit debits the caller's sub-wallet after a live funds check.
func (h *Handler) Debit(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return err
	}
	if err := requireKeys(body, "wallet_key", "email", "amount"); err != nil {
		return err
	}
	amount, ok := validation.Number(body, "amount")
	if !ok {
		return apperr.Validation("amount must be a number")
	}

	data, err := h.service.Debit(c.UserContext(),
		validation.String(body, "wallet_key"),
		validation.String(body, "email"),
		amount)
	if err != nil {
		return err
	}
	return respond.Success(c, "Wallet debited", data)
}

// Credit credits a sub-wallet. Administrative; gated by the root secret.
func (h *Handler) Credit(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return err
	}
	if err := requireKeys(body, "wallet_key", "amount"); err != nil {
		return err
	}
	amount, ok := validation.Number(body, "amount")
	if !ok {
		return apperr.Validation("amount must be a number")
	}

	data, err := h.service.Credit(c.UserContext(), validation.String(body, "wallet_key"), amount)
	if err != nil {
		return err
	}
	return respond.Success(c, "Wallet credited", data)
}

// Info returns the provider's canonical wallet record.
func (h *Handler) Info(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return err
	}
	if err := requireKeys(body, "wallet_key", "email"); err != nil {
		return err
	}

	data, err := h.service.Info(c.UserContext(),
		validation.String(body, "wallet_key"),
		validation.String(body, "email"))
	if err != nil {
		return err
	}
	return respond.Success(c, "Wallet info retrieved", data)
}

// AccountNumber returns the virtual account number for the sub-wallet.
func (h *Handler) AccountNumber(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return err
	}
	if err := requireKeys(body, "wallet_key", "email"); err != nil {
		return err
	}

	data, err := h.service.AccountNumber(c.UserContext(),
		validation.String(body, "wallet_key"),
		validation.String(body, "email"))
	if err != nil {
		return err
	}
	return respond.Success(c, "Wallet account number retrieved", data)
}

func (h *Handler) transactionsInput(c *fiber.Ctx) (TransactionsInput, error) {
	body, err := parseBody(c)
	if err != nil {
		return TransactionsInput{}, err
	}
	if err := requireKeys(body, "wallet_key", "email"); err != nil {
		return TransactionsInput{}, err
	}

	txType, err := strconv.Atoi(c.Query("transaction_type", "0"))
	if err != nil {
		return TransactionsInput{}, apperr.Validation("transaction_type must be an integer")
	}
	return TransactionsInput{
		WalletKey: validation.String(body, "wallet_key"),
		Email:     validation.String(body, "email"),
		Pin:       validation.String(body, "transaction_pin"),
		Day:       c.Query("day"),
		Type:      txType,
	}, nil
}

// Transactions lists the sub-wallet history, filtered server-side by the
// provider and paginated locally.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	in, err := h.transactionsInput(c)
	if err != nil {
		return err
	}

	transactions, err := h.service.Transactions(c.UserContext(), in)
	if err != nil {
		return err
	}

	page, meta := pagination.Paginate(transactions, pagination.FromQuery(c))
	return respond.Paginated(c, "Wallet transactions retrieved", page, meta)
}

// Spending aggregates the filtered history into credit/debit totals.
func (h *Handler) Spending(c *fiber.Ctx) error {
	in, err := h.transactionsInput(c)
	if err != nil {
		return err
	}

	totals, err := h.service.Spending(c.UserContext(), in)
	if err != nil {
		return err
	}
	return respond.Success(c, "Wallet spending retrieved", totals)
}

// SelfBalance returns the developer wallet balance. Administrative.
func (h *Handler) SelfBalance(c *fiber.Ctx) error {
	balance, err := h.service.SelfBalance(c.UserContext())
	if err != nil {
		return err
	}
	return respond.Success(c, "Developer wallet balance retrieved", fiber.Map{
		"balance":  balance.Amount(),
		"currency": balance.Currency,
	})
}
