package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/kolo-pay/kolo_pay/internal/apperr"
	"github.com/kolo-pay/kolo_pay/internal/directory"
	"github.com/kolo-pay/kolo_pay/internal/logging"
	"github.com/kolo-pay/kolo_pay/internal/provider"
)

// fakeProvider records every call and replies from canned values.
type fakeProvider struct {
	calls []string

	balance     provider.Balance
	balanceErr  error
	generated   provider.GeneratedWallet
	generateErr error
	userErr     error
	txs         []provider.Transaction
	txQuery     provider.TransactionsQuery

	debitRefs []string
}

func notFoundErr() error {
	return &provider.Error{Code: 404, Payload: json.RawMessage(`{"Message":"no user found"}`)}
}

func (f *fakeProvider) GenerateWallet(_ context.Context, in provider.GenerateInput) (provider.GeneratedWallet, error) {
	f.calls = append(f.calls, "generate")
	if f.generateErr != nil {
		return provider.GeneratedWallet{}, f.generateErr
	}
	out := f.generated
	if out.Email == "" {
		out.Email = in.Email
	}
	if out.PhoneNumber == "" {
		out.PhoneNumber = in.PhoneNumber
	}
	if out.FirstName == "" {
		out.FirstName = in.FirstName
	}
	return out, nil
}

func (f *fakeProvider) DebitWallet(_ context.Context, _ float64, _, reference string) (json.RawMessage, error) {
	f.calls = append(f.calls, "debit")
	f.debitRefs = append(f.debitRefs, reference)
	return json.RawMessage(`{"ok":true}`), nil
}

func (f *fakeProvider) CreditWallet(_ context.Context, _ float64, _, reference string) (json.RawMessage, error) {
	f.calls = append(f.calls, "credit")
	f.debitRefs = append(f.debitRefs, reference)
	return json.RawMessage(`{"ok":true}`), nil
}

func (f *fakeProvider) SetPin(_ context.Context, _, _ string) error {
	f.calls = append(f.calls, "pin")
	return nil
}

func (f *fakeProvider) SetPassword(_ context.Context, _, _ string) error {
	f.calls = append(f.calls, "password")
	return nil
}

func (f *fakeProvider) WalletBalance(_ context.Context, _, _ string) (provider.Balance, error) {
	f.calls = append(f.calls, "balance")
	return f.balance, f.balanceErr
}

func (f *fakeProvider) SelfBalance(_ context.Context, _ string) (provider.Balance, error) {
	f.calls = append(f.calls, "self-balance")
	return f.balance, f.balanceErr
}

func (f *fakeProvider) Transactions(_ context.Context, q provider.TransactionsQuery) ([]provider.Transaction, error) {
	f.calls = append(f.calls, "transactions")
	f.txQuery = q
	return f.txs, nil
}

func (f *fakeProvider) UserByPhone(_ context.Context, _ string) (json.RawMessage, error) {
	f.calls = append(f.calls, "user-by-phone")
	if f.userErr != nil {
		return nil, f.userErr
	}
	return json.RawMessage(`{}`), nil
}

func (f *fakeProvider) UserByEmail(_ context.Context, _ string) (json.RawMessage, error) {
	f.calls = append(f.calls, "user-by-email")
	if f.userErr != nil {
		return nil, f.userErr
	}
	return json.RawMessage(`{}`), nil
}

func (f *fakeProvider) AccountNumber(_ context.Context, _ string) (json.RawMessage, error) {
	f.calls = append(f.calls, "nuban")
	return json.RawMessage(`{"AccountNo":"0123456789"}`), nil
}

func amount(v float64) *float64 { return &v }

func newTestService(t *testing.T, prov *fakeProvider) (*Service, directory.Record) {
	t.Helper()
	dir := directory.NewService(directory.NewMemoryRepository(), logging.Discard())
	record, err := dir.Register(context.Background(), directory.RegisterInput{
		FirstName:   "Ada",
		LastName:    "Obi",
		Email:       "ada@example.com",
		PhoneNumber: "2348000000000",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	svc := NewService(dir, prov, nil, logging.Discard(), "NGN", TotalsCompat)
	return svc, record
}

func TestBalanceUnknownKeyIs404(t *testing.T) {
	prov := &fakeProvider{}
	svc, _ := newTestService(t, prov)

	_, err := svc.Balance(context.Background(), "missing-key", "ada@example.com")
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
	if len(prov.calls) != 0 {
		t.Fatalf("provider must not be called: %v", prov.calls)
	}
}

func TestBalanceEmailMismatchIs403(t *testing.T) {
	prov := &fakeProvider{}
	svc, record := newTestService(t, prov)

	_, err := svc.Balance(context.Background(), record.WalletKey, "intruder@example.com")
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Status != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
	if len(prov.calls) != 0 {
		t.Fatalf("provider must not be called: %v", prov.calls)
	}
}

func TestDebitInsufficientFundsNeverReachesProvider(t *testing.T) {
	prov := &fakeProvider{balance: provider.Balance{AvailableBalance: amount(100)}}
	svc, record := newTestService(t, prov)

	_, err := svc.Debit(context.Background(), record.WalletKey, record.Email, 250)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Code != apperr.CodeInsufficientFunds {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	for _, call := range prov.calls {
		if call == "debit" {
			t.Fatal("debit must not reach the provider when funds are short")
		}
	}
}

func TestDebitIssuesFreshReferences(t *testing.T) {
	prov := &fakeProvider{balance: provider.Balance{AvailableBalance: amount(1000)}}
	svc, record := newTestService(t, prov)

	for i := 0; i < 2; i++ {
		if _, err := svc.Debit(context.Background(), record.WalletKey, record.Email, 50); err != nil {
			t.Fatalf("debit %d: %v", i, err)
		}
	}
	if len(prov.debitRefs) != 2 {
		t.Fatalf("expected 2 debit calls, got %d", len(prov.debitRefs))
	}
	if prov.debitRefs[0] == "" || prov.debitRefs[0] == prov.debitRefs[1] {
		t.Fatalf("references must be fresh per call: %v", prov.debitRefs)
	}
}

func TestCreditResolvesByKeyAlone(t *testing.T) {
	prov := &fakeProvider{}
	svc, record := newTestService(t, prov)

	if _, err := svc.Credit(context.Background(), record.WalletKey, 500); err != nil {
		t.Fatalf("credit: %v", err)
	}
	// No balance check on the credit path.
	for _, call := range prov.calls {
		if call == "balance" {
			t.Fatal("credit must not check the balance")
		}
	}

	_, err := svc.Credit(context.Background(), "missing-key", 500)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestCreateConflictsOnExistingIdentity(t *testing.T) {
	prov := &fakeProvider{} // probes succeed: wallet already exists
	svc, _ := newTestService(t, prov)

	_, err := svc.Create(context.Background(), CreateInput{
		FirstName:   "Ngozi",
		LastName:    "Eze",
		Email:       "ngozi@example.com",
		Birthday:    "1992-01-15",
		PhoneNumber: "2348111111111",
	})
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Code != apperr.CodeWalletExists {
		t.Fatalf("expected conflict, got %v", err)
	}
	for _, call := range prov.calls {
		if call == "generate" {
			t.Fatal("generation must not run when a wallet already exists")
		}
	}
}

func TestCreateReturnsOnlyWalletKey(t *testing.T) {
	prov := &fakeProvider{
		userErr: notFoundErr(),
		generated: provider.GeneratedWallet{
			Password:  "provider-issued",
			AccountNo: "0123456789",
			Bank:      "Providus",
		},
	}
	svc, _ := newTestService(t, prov)

	key, err := svc.Create(context.Background(), CreateInput{
		FirstName:   "Ngozi",
		LastName:    "Eze",
		Email:       "ngozi@example.com",
		Birthday:    "1992-01-15",
		PhoneNumber: "2348111111111",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(key) != 14 {
		t.Fatalf("wallet key length = %d, want 14", len(key))
	}
}

func TestCreateAbortsOnProbeTransportFault(t *testing.T) {
	prov := &fakeProvider{
		userErr: &provider.TransportError{Endpoint: "wallet/getuser", Err: errors.New("timeout")},
	}
	svc, _ := newTestService(t, prov)

	_, err := svc.Create(context.Background(), CreateInput{
		FirstName:   "Ngozi",
		LastName:    "Eze",
		Email:       "ngozi@example.com",
		Birthday:    "1992-01-15",
		PhoneNumber: "2348111111111",
	})
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Code != apperr.CodeProviderUnreachable {
		t.Fatalf("expected provider-unreachable, got %v", err)
	}
	for _, call := range prov.calls {
		if call == "generate" {
			t.Fatal("generation must not run when a probe cannot be trusted")
		}
	}
}

func TestTransactionsRejectsUnknownType(t *testing.T) {
	prov := &fakeProvider{}
	svc, record := newTestService(t, prov)

	_, err := svc.Transactions(context.Background(), TransactionsInput{
		WalletKey: record.WalletKey,
		Email:     record.Email,
		Type:      7,
	})
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTransactionsAliasesTypeThreeToAll(t *testing.T) {
	prov := &fakeProvider{}
	svc, record := newTestService(t, prov)

	_, err := svc.Transactions(context.Background(), TransactionsInput{
		WalletKey: record.WalletKey,
		Email:     record.Email,
		Type:      3,
	})
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if prov.txQuery.Type != 0 {
		t.Fatalf("type 3 must reach the provider as 0, got %d", prov.txQuery.Type)
	}
	if prov.txQuery.Take != providerTake {
		t.Fatalf("take = %d, want %d", prov.txQuery.Take, providerTake)
	}
	if prov.txQuery.Skip != 0 {
		t.Fatalf("skip = %d, want 0", prov.txQuery.Skip)
	}
}

func TestSpendingUsesConfiguredMode(t *testing.T) {
	prov := &fakeProvider{txs: []provider.Transaction{
		{TransactionType: "Credit", Amount: 100},
		{TransactionType: "Debit", Amount: 40},
	}}
	svc, record := newTestService(t, prov)

	totals, err := svc.Spending(context.Background(), TransactionsInput{
		WalletKey: record.WalletKey,
		Email:     record.Email,
	})
	if err != nil {
		t.Fatalf("spending: %v", err)
	}
	// Compat mode reports the historical swapped totals.
	if totals.TotalCreditAmount != 40 || totals.TotalDebitAmount != 100 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
	if totals.TransactionCount != 2 {
		t.Fatalf("count = %d, want 2", totals.TransactionCount)
	}
}
