package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/kolo-pay/kolo_pay/internal/apperr"
	"github.com/kolo-pay/kolo_pay/internal/directory"
	"github.com/kolo-pay/kolo_pay/internal/logging"
	"github.com/kolo-pay/kolo_pay/internal/provider"
)

type fakeProvider struct {
	calls []string

	balance  provider.Balance
	debitErr error
	banks    []provider.Bank
}

func (f *fakeProvider) WalletBalance(_ context.Context, _, _ string) (provider.Balance, error) {
	f.calls = append(f.calls, "balance")
	return f.balance, nil
}

func (f *fakeProvider) DebitWallet(_ context.Context, _ float64, _, _ string) (json.RawMessage, error) {
	f.calls = append(f.calls, "debit")
	if f.debitErr != nil {
		return nil, f.debitErr
	}
	return json.RawMessage(`{"ok":true}`), nil
}

func (f *fakeProvider) BankTransfer(_ context.Context, _ provider.BankTransferInput) (json.RawMessage, error) {
	f.calls = append(f.calls, "transfer")
	return json.RawMessage(`{"Status":"Processing"}`), nil
}

func (f *fakeProvider) TransferDetails(_ context.Context, _ string) (json.RawMessage, error) {
	f.calls = append(f.calls, "details")
	return json.RawMessage(`{"Status":"Successful"}`), nil
}

func (f *fakeProvider) AllBanks(_ context.Context) ([]provider.Bank, error) {
	f.calls = append(f.calls, "banks")
	return f.banks, nil
}

func (f *fakeProvider) AccountEnquiry(_ context.Context, _, _ string) (json.RawMessage, error) {
	f.calls = append(f.calls, "enquire")
	return json.RawMessage(`{"AccountName":"Ada Obi"}`), nil
}

func amount(v float64) *float64 { return &v }

func newTestService(t *testing.T, prov *fakeProvider, cache *redis.Client) (*Service, directory.Record) {
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
	svc := NewService(dir, prov, cache, nil, logging.Discard(), "NGN")
	return svc, record
}

func toBankInput(record directory.Record, amount float64) ToBankInput {
	return ToBankInput{
		WalletKey:     record.WalletKey,
		Email:         record.Email,
		BankCode:      "058",
		AccountNumber: "0123456789",
		AccountName:   "Ada Obi",
		Amount:        amount,
	}
}

func TestToBankInsufficientFundsStopsBeforeDebit(t *testing.T) {
	prov := &fakeProvider{balance: provider.Balance{AvailableBalance: amount(100)}}
	svc, record := newTestService(t, prov, nil)

	_, err := svc.ToBank(context.Background(), toBankInput(record, 500))
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Code != apperr.CodeInsufficientFunds {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	for _, call := range prov.calls {
		if call == "debit" || call == "transfer" {
			t.Fatalf("no movement may happen on short funds: %v", prov.calls)
		}
	}
}

func TestToBankDebitFailureStopsBeforeTransfer(t *testing.T) {
	prov := &fakeProvider{
		balance:  provider.Balance{AvailableBalance: amount(1000)},
		debitErr: &provider.Error{Code: 400, Payload: json.RawMessage(`{"Message":"debit declined"}`)},
	}
	svc, record := newTestService(t, prov, nil)

	_, err := svc.ToBank(context.Background(), toBankInput(record, 500))
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindProvider {
		t.Fatalf("expected provider error, got %v", err)
	}
	for _, call := range prov.calls {
		if call == "transfer" {
			t.Fatal("transfer must not run after a failed debit")
		}
	}
}

func TestToBankDebitsThenTransfers(t *testing.T) {
	prov := &fakeProvider{balance: provider.Balance{AvailableBalance: amount(1000)}}
	svc, record := newTestService(t, prov, nil)

	result, err := svc.ToBank(context.Background(), toBankInput(record, 500))
	if err != nil {
		t.Fatalf("to bank: %v", err)
	}
	if result.Reference == "" {
		t.Fatal("result must carry the movement reference")
	}

	var debitIdx, transferIdx int
	for i, call := range prov.calls {
		switch call {
		case "debit":
			debitIdx = i
		case "transfer":
			transferIdx = i
		}
	}
	if debitIdx >= transferIdx {
		t.Fatalf("debit must precede transfer: %v", prov.calls)
	}
}

func TestToBankEmailMismatchIs403(t *testing.T) {
	prov := &fakeProvider{}
	svc, record := newTestService(t, prov, nil)

	in := toBankInput(record, 500)
	in.Email = "intruder@example.com"
	_, err := svc.ToBank(context.Background(), in)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Status != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
	if len(prov.calls) != 0 {
		t.Fatalf("provider must not be called: %v", prov.calls)
	}
}

func TestBanksServedFromCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	prov := &fakeProvider{banks: []provider.Bank{{BankCode: "058", BankName: "GTBank"}}}
	svc, _ := newTestService(t, prov, cache)

	for i := 0; i < 2; i++ {
		banks, err := svc.Banks(context.Background())
		if err != nil {
			t.Fatalf("banks %d: %v", i, err)
		}
		if len(banks) != 1 || banks[0].BankCode != "058" {
			t.Fatalf("unexpected banks: %v", banks)
		}
	}

	fetches := 0
	for _, call := range prov.calls {
		if call == "banks" {
			fetches++
		}
	}
	if fetches != 1 {
		t.Fatalf("provider fetched %d times, want 1", fetches)
	}
}

func TestBanksWithoutCacheFetchesFresh(t *testing.T) {
	prov := &fakeProvider{banks: []provider.Bank{{BankCode: "044", BankName: "Access"}}}
	svc, _ := newTestService(t, prov, nil)

	for i := 0; i < 2; i++ {
		if _, err := svc.Banks(context.Background()); err != nil {
			t.Fatalf("banks %d: %v", i, err)
		}
	}
	if len(prov.calls) != 2 {
		t.Fatalf("expected a fresh fetch per call, got %v", prov.calls)
	}
}
