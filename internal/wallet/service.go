package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kolo-pay/kolo_pay/internal/apperr"
	"github.com/kolo-pay/kolo_pay/internal/directory"
	"github.com/kolo-pay/kolo_pay/internal/notification"
	"github.com/kolo-pay/kolo_pay/internal/provider"
)

// Provider is the slice of the provider client this service depends on.
type Provider interface {
	GenerateWallet(ctx context.Context, in provider.GenerateInput) (provider.GeneratedWallet, error)
	DebitWallet(ctx context.Context, amount float64, phoneNumber, reference string) (json.RawMessage, error)
	CreditWallet(ctx context.Context, amount float64, phoneNumber, reference string) (json.RawMessage, error)
	SetPin(ctx context.Context, pin, phoneNumber string) error
	SetPassword(ctx context.Context, password, phoneNumber string) error
	WalletBalance(ctx context.Context, phoneNumber, currency string) (provider.Balance, error)
	SelfBalance(ctx context.Context, currency string) (provider.Balance, error)
	Transactions(ctx context.Context, q provider.TransactionsQuery) ([]provider.Transaction, error)
	UserByPhone(ctx context.Context, phoneNumber string) (json.RawMessage, error)
	UserByEmail(ctx context.Context, email string) (json.RawMessage, error)
	AccountNumber(ctx context.Context, phoneNumber string) (json.RawMessage, error)
}

// providerTake fetches the full filtered set in one call; paging happens
// locally.
const providerTake = 1_000_000

// Service orchestrates directory lookups and provider calls for every wallet
// capability. It holds no per-request state.
type Service struct {
	directory  *directory.Service
	provider   Provider
	notifier   notification.Notifier
	logger     *slog.Logger
	currency   string
	totalsMode TotalsMode
}

// NewService builds the wallet orchestration service.
func NewService(dir *directory.Service, prov Provider, notifier notification.Notifier, logger *slog.Logger, currency string, totalsMode TotalsMode) *Service {
	return &Service{
		directory:  dir,
		provider:   prov,
		notifier:   notifier,
		logger:     logger,
		currency:   currency,
		totalsMode: totalsMode,
	}
}

// authorize binds a wallet key and email to a directory record, translating
// directory failures into the client-facing taxonomy.
func (s *Service) authorize(ctx context.Context, walletKey, email string) (directory.Record, error) {
	record, err := s.directory.Authorize(ctx, walletKey, email)
	if err != nil {
		if errors.Is(err, directory.ErrEmailMismatch) {
			return directory.Record{}, apperr.Unauthorized("email does not match the wallet on record")
		}
		return directory.Record{}, apperr.NotFound("no wallet found for the supplied key")
	}
	return record, nil
}

// CreateInput carries the profile fields for a new sub-wallet.
type CreateInput struct {
	FirstName   string
	LastName    string
	Email       string
	Birthday    string
	PhoneNumber string
	BVN         string
}

// Create provisions a provider sub-wallet and persists the directory record.
// Both identity probes must come back empty before generation; an existing
// provider wallet on either is a conflict, not a validation failure. The
// response carries only the freshly issued wallet key.
func (s *Service) Create(ctx context.Context, in CreateInput) (string, error) {
	if _, err := s.provider.UserByPhone(ctx, in.PhoneNumber); err == nil {
		return "", apperr.Conflict("a wallet already exists for the phone number specified")
	} else if !isProviderDeclared(err) {
		return "", apperr.FromProvider(err)
	}

	if _, err := s.provider.UserByEmail(ctx, in.Email); err == nil {
		return "", apperr.Conflict("a wallet already exists for the email specified")
	} else if !isProviderDeclared(err) {
		return "", apperr.FromProvider(err)
	}

	generated, err := s.provider.GenerateWallet(ctx, provider.GenerateInput{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		DateOfBirth: in.Birthday,
		PhoneNumber: in.PhoneNumber,
		Currency:    s.currency,
	})
	if err != nil {
		return "", apperr.FromProvider(err)
	}

	record, err := s.directory.Register(ctx, directory.RegisterInput{
		FirstName:     generated.FirstName,
		LastName:      generated.LastName,
		Email:         generated.Email,
		PhoneNumber:   generated.PhoneNumber,
		BVN:           firstNonEmpty(generated.BVN, in.BVN),
		Birthday:      firstNonEmpty(generated.DateOfBirth, in.Birthday),
		AccountNumber: generated.AccountNo,
		BankName:      generated.Bank,
		AccountName:   generated.AccountName,
		Password:      generated.Password,
		SignedUp:      parseSignup(generated.DateSignedup),
	})
	if err != nil {
		return "", apperr.Internal("wallet was created upstream but could not be recorded", err)
	}

	s.logger.Info("sub-wallet created", "wallet_key", record.WalletKey)
	return record.WalletKey, nil
}

// isProviderDeclared reports whether the provider answered with a structured
// failure. During existence probes such a failure means "no wallet", while a
// transport or protocol fault must abort the flow.
func isProviderDeclared(err error) bool {
	var pe *provider.Error
	return errors.As(err, &pe)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseSignup(raw string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", dateLayout} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}

// SetPin sets the transaction pin on the caller's sub-wallet.
func (s *Service) SetPin(ctx context.Context, walletKey, email, pin string) error {
	record, err := s.authorize(ctx, walletKey, email)
	if err != nil {
		return err
	}
	if err := s.provider.SetPin(ctx, pin, record.PhoneNumber); err != nil {
		return apperr.FromProvider(err)
	}
	return nil
}

// SetPassword sets the password on the caller's sub-wallet.
func (s *Service) SetPassword(ctx context.Context, walletKey, email, password string) error {
	record, err := s.authorize(ctx, walletKey, email)
	if err != nil {
		return err
	}
	if err := s.provider.SetPassword(ctx, password, record.PhoneNumber); err != nil {
		return apperr.FromProvider(err)
	}
	return nil
}

// Balance fetches the live provider balance for the caller's sub-wallet.
func (s *Service) Balance(ctx context.Context, walletKey, email string) (provider.Balance, error) {
	record, err := s.authorize(ctx, walletKey, email)
	if err != nil {
		return provider.Balance{}, err
	}
	balance, err := s.provider.WalletBalance(ctx, record.PhoneNumber, s.currency)
	if err != nil {
		return provider.Balance{}, apperr.FromProvider(err)
	}
	return balance, nil
}

// Debit verifies live funds cover the amount, then debits the sub-wallet
// with a fresh reference. Insufficient funds never reaches the provider.
func (s *Service) Debit(ctx context.Context, walletKey, email string, amount float64) (json.RawMessage, error) {
	if amount <= 0 {
		return nil, apperr.Validation("amount must be greater than zero")
	}

	record, err := s.authorize(ctx, walletKey, email)
	if err != nil {
		return nil, err
	}

	balance, err := s.provider.WalletBalance(ctx, record.PhoneNumber, s.currency)
	if err != nil {
		return nil, apperr.FromProvider(err)
	}
	if balance.Amount() < amount {
		return nil, apperr.InsufficientFunds("wallet balance is insufficient for the requested amount")
	}

	reference := provider.NewReference()
	data, err := s.provider.DebitWallet(ctx, amount, record.PhoneNumber, reference)
	if err != nil {
		return nil, apperr.FromProvider(err)
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindWalletDebit,
			Destination: record.Email,
			Body:        fmt.Sprintf("Your wallet was debited %.2f %s (ref %s)", amount, s.currency, reference),
		})
	}
	return data, nil
}

// Credit is administrative: resolved by wallet key alone, no email binding
// and no balance check. The root-secret gate sits in the route middleware.
func (s *Service) Credit(ctx context.Context, walletKey string, amount float64) (json.RawMessage, error) {
	if amount <= 0 {
		return nil, apperr.Validation("amount must be greater than zero")
	}

	record, err := s.directory.Resolve(ctx, walletKey)
	if err != nil {
		return nil, apperr.NotFound("no wallet found for the supplied key")
	}

	data, err := s.provider.CreditWallet(ctx, amount, record.PhoneNumber, provider.NewReference())
	if err != nil {
		return nil, apperr.FromProvider(err)
	}
	return data, nil
}

// Info returns the provider's canonical record for the caller's sub-wallet.
func (s *Service) Info(ctx context.Context, walletKey, email string) (json.RawMessage, error) {
	record, err := s.authorize(ctx, walletKey, email)
	if err != nil {
		return nil, err
	}
	data, err := s.provider.UserByPhone(ctx, record.PhoneNumber)
	if err != nil {
		return nil, apperr.FromProvider(err)
	}
	return data, nil
}

// AccountNumber returns the virtual account number tied to the sub-wallet.
func (s *Service) AccountNumber(ctx context.Context, walletKey, email string) (json.RawMessage, error) {
	record, err := s.authorize(ctx, walletKey, email)
	if err != nil {
		return nil, err
	}
	data, err := s.provider.AccountNumber(ctx, record.PhoneNumber)
	if err != nil {
		return nil, apperr.FromProvider(err)
	}
	return data, nil
}

// TransactionsInput bounds a history fetch.
type TransactionsInput struct {
	WalletKey string
	Email     string
	Pin       string
	Day       string
	Type      int
}

// Transactions fetches the full filtered history from the provider; the
// handler pages the result locally.
func (s *Service) Transactions(ctx context.Context, in TransactionsInput) ([]provider.Transaction, error) {
	if in.Type < 0 || in.Type > 3 {
		return nil, apperr.Validation("transaction_type must be one of 0, 1, 2 or 3")
	}

	record, err := s.authorize(ctx, in.WalletKey, in.Email)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	dateFrom, dateTo, err := resolveDateRange(in.Day, record.CreatedAt, now)
	if err != nil {
		return nil, err
	}

	// 3 is a legacy alias for "all"; the provider only understands 0.
	txType := in.Type
	if txType == 3 {
		txType = 0
	}

	transactions, err := s.provider.Transactions(ctx, provider.TransactionsQuery{
		PhoneNumber: record.PhoneNumber,
		Pin:         in.Pin,
		DateFrom:    dateFrom,
		DateTo:      dateTo,
		Type:        txType,
		Skip:        0,
		Take:        providerTake,
		Currency:    s.currency,
	})
	if err != nil {
		return nil, apperr.FromProvider(err)
	}
	return transactions, nil
}

// Spending aggregates the filtered history into credit/debit totals.
func (s *Service) Spending(ctx context.Context, in TransactionsInput) (Spending, error) {
	transactions, err := s.Transactions(ctx, in)
	if err != nil {
		return Spending{}, err
	}
	return SpendingTotals(transactions, s.totalsMode), nil
}

// SelfBalance reports the developer wallet balance. Administrative.
func (s *Service) SelfBalance(ctx context.Context) (provider.Balance, error) {
	balance, err := s.provider.SelfBalance(ctx, s.currency)
	if err != nil {
		return provider.Balance{}, apperr.FromProvider(err)
	}
	return balance, nil
}
