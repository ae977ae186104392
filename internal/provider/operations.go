package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Field names in the payload structs below are part of the provider's wire
// contract and must not be renamed. The wallet group uses camelCase; the
// transfer group uses PascalCase. The inconsistency is upstream's.

// GeneratedWallet mirrors the provider's record for a freshly created
// sub-wallet.
type GeneratedWallet struct {
	FirstName        string  `json:"FirstName"`
	LastName         string  `json:"LastName"`
	Email            string  `json:"Email"`
	PhoneNumber      string  `json:"PhoneNumber"`
	BVN              string  `json:"BVN"`
	DateOfBirth      string  `json:"DateOfBirth"`
	DateSignedup     string  `json:"DateSignedup"`
	Password         string  `json:"Password"`
	AccountNo        string  `json:"AccountNo"`
	Bank             string  `json:"Bank"`
	AccountName      string  `json:"AccountName"`
	AvailableBalance float64 `json:"AvailableBalance"`
}

// Balance is the provider's balance payload. Endpoints disagree on the field
// name, hence the pointer pair.
type Balance struct {
	AvailableBalance *float64 `json:"AvailableBalance"`
	Balance          *float64 `json:"Balance"`
	Currency         string   `json:"Currency"`
}

// Amount returns whichever balance field the provider populated.
func (b Balance) Amount() float64 {
	if b.AvailableBalance != nil {
		return *b.AvailableBalance
	}
	if b.Balance != nil {
		return *b.Balance
	}
	return 0
}

// Transaction is one ledger entry as reported by the provider.
type Transaction struct {
	TransactionReference string  `json:"TransactionReference"`
	TransactionType      string  `json:"TransactionType"`
	Amount               float64 `json:"Amount"`
	TransactionDate      string  `json:"TransactionDate"`
	Narration            string  `json:"Narration,omitempty"`
}

// Bank identifies one institution in the provider's transfer network.
type Bank struct {
	BankCode string `json:"BankCode"`
	BankName string `json:"BankName"`
}

// NewReference produces a fresh transaction reference. Mutating provider
// calls have no documented idempotency guarantee, so every attempt must carry
// a reference that cannot collide with a prior one.
func NewReference() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

type generatePayload struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	DateOfBirth string `json:"dateOfBirth"`
	PhoneNumber string `json:"phoneNumber"`
	Currency    string `json:"currency"`
	SecretKey   string `json:"secretKey"`
}

// GenerateInput carries the profile fields for a new sub-wallet.
type GenerateInput struct {
	FirstName   string
	LastName    string
	Email       string
	DateOfBirth string
	PhoneNumber string
	Currency    string
}

// GenerateWallet provisions a sub-wallet for the given profile.
func (c *Client) GenerateWallet(ctx context.Context, in GenerateInput) (GeneratedWallet, error) {
	payload := generatePayload{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		DateOfBirth: in.DateOfBirth,
		PhoneNumber: in.PhoneNumber,
		Currency:    in.Currency,
		SecretKey:   c.cfg.SecretKey,
	}
	var wallet GeneratedWallet
	if err := c.do(ctx, "wallet/generate", http.MethodPost, payload, &wallet); err != nil {
		return GeneratedWallet{}, err
	}
	return wallet, nil
}

type movementPayload struct {
	TransactionReference string  `json:"transactionReference"`
	Amount               float64 `json:"amount"`
	PhoneNumber          string  `json:"phoneNumber"`
	SecretKey            string  `json:"secretKey"`
}

// DebitWallet debits a sub-wallet and credits the developer wallet.
func (c *Client) DebitWallet(ctx context.Context, amount float64, phoneNumber, reference string) (json.RawMessage, error) {
	payload := movementPayload{
		TransactionReference: reference,
		Amount:               amount,
		PhoneNumber:          phoneNumber,
		SecretKey:            c.cfg.SecretKey,
	}
	var data json.RawMessage
	if err := c.do(ctx, "wallet/debit", http.MethodPost, payload, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// CreditWallet credits a sub-wallet from the developer wallet.
func (c *Client) CreditWallet(ctx context.Context, amount float64, phoneNumber, reference string) (json.RawMessage, error) {
	payload := movementPayload{
		TransactionReference: reference,
		Amount:               amount,
		PhoneNumber:          phoneNumber,
		SecretKey:            c.cfg.SecretKey,
	}
	var data json.RawMessage
	if err := c.do(ctx, "wallet/credit", http.MethodPost, payload, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// SetPin sets the transaction pin on a sub-wallet.
func (c *Client) SetPin(ctx context.Context, pin, phoneNumber string) error {
	payload := struct {
		TransactionPin string `json:"transactionPin"`
		PhoneNumber    string `json:"phoneNumber"`
		SecretKey      string `json:"secretKey"`
	}{pin, phoneNumber, c.cfg.SecretKey}
	return c.do(ctx, "wallet/pin", http.MethodPost, payload, nil)
}

// SetPassword sets the password on a sub-wallet.
func (c *Client) SetPassword(ctx context.Context, password, phoneNumber string) error {
	payload := struct {
		Password    string `json:"password"`
		PhoneNumber string `json:"phoneNumber"`
		SecretKey   string `json:"secretKey"`
	}{password, phoneNumber, c.cfg.SecretKey}
	return c.do(ctx, "wallet/password", http.MethodPost, payload, nil)
}

// SelfBalance reports the developer wallet balance in the given currency.
func (c *Client) SelfBalance(ctx context.Context, currency string) (Balance, error) {
	payload := struct {
		Currency  string `json:"currency"`
		SecretKey string `json:"secretKey"`
	}{currency, c.cfg.SecretKey}
	var balance Balance
	if err := c.do(ctx, "self/balance", http.MethodPost, payload, &balance); err != nil {
		return Balance{}, err
	}
	return balance, nil
}

// WalletBalance reports a sub-wallet balance.
func (c *Client) WalletBalance(ctx context.Context, phoneNumber, currency string) (Balance, error) {
	payload := struct {
		PhoneNumber string `json:"phoneNumber"`
		Currency    string `json:"currency"`
		SecretKey   string `json:"secretKey"`
	}{phoneNumber, currency, c.cfg.SecretKey}
	var balance Balance
	if err := c.do(ctx, "wallet/balance", http.MethodPost, payload, &balance); err != nil {
		return Balance{}, err
	}
	return balance, nil
}

// TransactionsQuery bounds a transaction history fetch. The provider applies
// the date range and type filter server-side.
type TransactionsQuery struct {
	PhoneNumber string
	Pin         string
	DateFrom    string
	DateTo      string
	Type        int
	Skip        int
	Take        int
	Currency    string
}

// Transactions fetches the sub-wallet history matching the query. The
// provider wraps the list inconsistently, so both shapes are accepted.
func (c *Client) Transactions(ctx context.Context, q TransactionsQuery) ([]Transaction, error) {
	payload := struct {
		Skip            int    `json:"skip"`
		Take            int    `json:"take"`
		DateFrom        string `json:"dateFrom"`
		DateTo          string `json:"dateTo"`
		TransactionType int    `json:"transactionType"`
		PhoneNumber     string `json:"phoneNumber"`
		TransactionPin  string `json:"transactionPin"`
		Currency        string `json:"currency"`
		SecretKey       string `json:"secretKey"`
	}{q.Skip, q.Take, q.DateFrom, q.DateTo, q.Type, q.PhoneNumber, q.Pin, q.Currency, c.cfg.SecretKey}

	var data json.RawMessage
	if err := c.do(ctx, "wallet/transactions", http.MethodPost, payload, &data); err != nil {
		return nil, err
	}
	return decodeTransactions(data)
}

func decodeTransactions(data json.RawMessage) ([]Transaction, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var txs []Transaction
		if err := json.Unmarshal(trimmed, &txs); err != nil {
			return nil, &ProtocolError{Endpoint: "wallet/transactions", Body: trimmed}
		}
		return txs, nil
	}
	var wrapped struct {
		Transactions []Transaction `json:"Transactions"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, &ProtocolError{Endpoint: "wallet/transactions", Body: trimmed}
	}
	return wrapped.Transactions, nil
}

// UserByPhone looks up a sub-wallet by phone number.
func (c *Client) UserByPhone(ctx context.Context, phoneNumber string) (json.RawMessage, error) {
	payload := struct {
		PhoneNumber string `json:"phoneNumber"`
		SecretKey   string `json:"secretKey"`
	}{phoneNumber, c.cfg.SecretKey}
	var data json.RawMessage
	if err := c.do(ctx, "wallet/getuser", http.MethodPost, payload, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// UserByEmail looks up a sub-wallet by email address.
func (c *Client) UserByEmail(ctx context.Context, email string) (json.RawMessage, error) {
	payload := struct {
		Email     string `json:"email"`
		SecretKey string `json:"secretKey"`
	}{email, c.cfg.SecretKey}
	var data json.RawMessage
	if err := c.do(ctx, "wallet/getuser", http.MethodPost, payload, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// AccountNumber retrieves the virtual account number tied to a sub-wallet.
func (c *Client) AccountNumber(ctx context.Context, phoneNumber string) (json.RawMessage, error) {
	payload := struct {
		PhoneNumber string `json:"phoneNumber"`
		SecretKey   string `json:"secretKey"`
	}{phoneNumber, c.cfg.SecretKey}
	var data json.RawMessage
	if err := c.do(ctx, "wallet/nuban", http.MethodPost, payload, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// AllBanks lists the institutions reachable by bank transfer. This endpoint
// returns an unwrapped array.
func (c *Client) AllBanks(ctx context.Context) ([]Bank, error) {
	var banks []Bank
	if err := c.do(ctx, "transfer/banks/all", http.MethodPost, nil, &banks); err != nil {
		return nil, err
	}
	return banks, nil
}

// TransferDetails fetches the provider's record of a wallet-to-bank transfer.
func (c *Client) TransferDetails(ctx context.Context, reference string) (json.RawMessage, error) {
	payload := struct {
		TransactionReference string `json:"transactionReference"`
		SecretKey            string `json:"secretKey"`
	}{reference, c.cfg.SecretKey}
	var data json.RawMessage
	if err := c.do(ctx, "transfer/bank/details", http.MethodPost, payload, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// AccountEnquiry resolves the holder of a bank account.
func (c *Client) AccountEnquiry(ctx context.Context, bankCode, accountNumber string) (json.RawMessage, error) {
	payload := struct {
		SecretKey     string `json:"SecretKey"`
		BankCode      string `json:"BankCode"`
		AccountNumber string `json:"AccountNumber"`
	}{c.cfg.SecretKey, bankCode, accountNumber}
	var data json.RawMessage
	if err := c.do(ctx, "transfer/bank/account/enquire", http.MethodPost, payload, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// BankTransferInput carries the fields for a wallet-to-bank payout.
type BankTransferInput struct {
	BankCode      string
	AccountNumber string
	AccountName   string
	Reference     string
	Amount        float64
	Narration     string
}

// BankTransfer moves funds from the developer wallet to a bank account.
func (c *Client) BankTransfer(ctx context.Context, in BankTransferInput) (json.RawMessage, error) {
	payload := struct {
		SecretKey            string  `json:"SecretKey"`
		BankCode             string  `json:"BankCode"`
		AccountNumber        string  `json:"AccountNumber"`
		AccountName          string  `json:"AccountName"`
		TransactionReference string  `json:"TransactionReference"`
		Amount               float64 `json:"Amount"`
		Narration            string  `json:"Narration"`
	}{c.cfg.SecretKey, in.BankCode, in.AccountNumber, in.AccountName, in.Reference, in.Amount, in.Narration}
	var data json.RawMessage
	if err := c.do(ctx, "transfer/bank/account", http.MethodPost, payload, &data); err != nil {
		return nil, err
	}
	return data, nil
}
