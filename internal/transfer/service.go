package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kolo-pay/kolo_pay/internal/apperr"
	"github.com/kolo-pay/kolo_pay/internal/directory"
	"github.com/kolo-pay/kolo_pay/internal/notification"
	"github.com/kolo-pay/kolo_pay/internal/provider"
)

// Provider is the slice of the provider client the transfer flows depend on.
type Provider interface {
	WalletBalance(ctx context.Context, phoneNumber, currency string) (provider.Balance, error)
	DebitWallet(ctx context.Context, amount float64, phoneNumber, reference string) (json.RawMessage, error)
	BankTransfer(ctx context.Context, in provider.BankTransferInput) (json.RawMessage, error)
	TransferDetails(ctx context.Context, reference string) (json.RawMessage, error)
	AllBanks(ctx context.Context) ([]provider.Bank, error)
	AccountEnquiry(ctx context.Context, bankCode, accountNumber string) (json.RawMessage, error)
}

const (
	bankListCacheKey = "banks:all"
	bankListCacheTTL = 24 * time.Hour
)

// Service orchestrates wallet-to-bank payouts and the public bank lookups.
type Service struct {
	directory *directory.Service
	provider  Provider
	cache     *redis.Client
	notifier  notification.Notifier
	logger    *slog.Logger
	currency  string
}

// NewService builds the transfer service. cache may be nil (dev mode), in
// which case the bank list is fetched fresh on every call.
func NewService(dir *directory.Service, prov Provider, cache *redis.Client, notifier notification.Notifier, logger *slog.Logger, currency string) *Service {
	return &Service{
		directory: dir,
		provider:  prov,
		cache:     cache,
		notifier:  notifier,
		logger:    logger,
		currency:  currency,
	}
}

// ToBankInput carries a wallet-to-bank payout request.
type ToBankInput struct {
	WalletKey     string
	Email         string
	BankCode      string
	AccountNumber string
	AccountName   string
	Narration     string
	Amount        float64
}

// ToBankResult reports the payout outcome.
type ToBankResult struct {
	Reference string          `json:"reference"`
	Transfer  json.RawMessage `json:"transfer"`
	Details   json.RawMessage `json:"details,omitempty"`
}

// ToBank debits the sub-wallet then issues the bank transfer, strictly in
// that order. The transfer is never attempted when the debit fails. A debit
// that lands before a failed transfer is not reversed; that residual risk is
// inherited from the upstream design.
func (s *Service) ToBank(ctx context.Context, in ToBankInput) (ToBankResult, error) {
	if in.Amount <= 0 {
		return ToBankResult{}, apperr.Validation("amount must be greater than zero")
	}

	record, err := s.directory.Authorize(ctx, in.WalletKey, in.Email)
	if err != nil {
		if errors.Is(err, directory.ErrEmailMismatch) {
			return ToBankResult{}, apperr.Unauthorized("email does not match the wallet on record")
		}
		return ToBankResult{}, apperr.NotFound("no wallet found for the supplied key")
	}

	balance, err := s.provider.WalletBalance(ctx, record.PhoneNumber, s.currency)
	if err != nil {
		return ToBankResult{}, apperr.FromProvider(err)
	}
	if balance.Amount() < in.Amount {
		return ToBankResult{}, apperr.InsufficientFunds("wallet balance is insufficient for the requested amount")
	}

	reference := provider.NewReference()
	if _, err := s.provider.DebitWallet(ctx, in.Amount, record.PhoneNumber, reference); err != nil {
		return ToBankResult{}, apperr.FromProvider(err)
	}

	transferData, err := s.provider.BankTransfer(ctx, provider.BankTransferInput{
		BankCode:      in.BankCode,
		AccountNumber: in.AccountNumber,
		AccountName:   in.AccountName,
		Reference:     reference,
		Amount:        in.Amount,
		Narration:     in.Narration,
	})
	if err != nil {
		s.logger.Error("bank transfer failed after debit", "reference", reference, "error", err)
		return ToBankResult{}, apperr.FromProvider(err)
	}

	result := ToBankResult{Reference: reference, Transfer: transferData}

	if details, err := s.provider.TransferDetails(ctx, reference); err == nil {
		result.Details = details
	} else {
		s.logger.Warn("transfer details lookup failed", "reference", reference, "error", err)
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindBankTransfer,
			Destination: record.Email,
			Body:        fmt.Sprintf("Transfer of %.2f %s to account %s sent (ref %s)", in.Amount, s.currency, in.AccountNumber, reference),
		})
	}
	return result, nil
}

// Details fetches the provider's record of a past transfer from this wallet.
func (s *Service) Details(ctx context.Context, walletKey, email, reference string) (json.RawMessage, error) {
	if _, err := s.directory.Authorize(ctx, walletKey, email); err != nil {
		if errors.Is(err, directory.ErrEmailMismatch) {
			return nil, apperr.Unauthorized("email does not match the wallet on record")
		}
		return nil, apperr.NotFound("no wallet found for the supplied key")
	}
	data, err := s.provider.TransferDetails(ctx, reference)
	if err != nil {
		return nil, apperr.FromProvider(err)
	}
	return data, nil
}

// Banks lists the reachable institutions, served from cache when possible.
// Cache faults fall through to the provider.
func (s *Service) Banks(ctx context.Context) ([]provider.Bank, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, bankListCacheKey).Result(); err == nil {
			var banks []provider.Bank
			if err := json.Unmarshal([]byte(cached), &banks); err == nil {
				return banks, nil
			}
			s.logger.Warn("bank list cache entry unreadable, refetching")
		}
	}

	banks, err := s.provider.AllBanks(ctx)
	if err != nil {
		return nil, apperr.FromProvider(err)
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(banks); err == nil {
			if err := s.cache.Set(ctx, bankListCacheKey, encoded, bankListCacheTTL).Err(); err != nil {
				s.logger.Warn("bank list cache write failed", "error", err)
			}
		}
	}
	return banks, nil
}

// Enquiry resolves a bank account holder. Public passthrough.
func (s *Service) Enquiry(ctx context.Context, bankCode, accountNumber string) (json.RawMessage, error) {
	data, err := s.provider.AccountEnquiry(ctx, bankCode, accountNumber)
	if err != nil {
		return nil, apperr.FromProvider(err)
	}
	return data, nil
}
