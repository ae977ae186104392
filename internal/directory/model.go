package directory

import "time"

// Record maps a locally issued wallet key to the provider-side identity. The
// phone number is the real foreign key into the provider; everything else is
// a profile mirror captured at creation and never updated afterwards.
type Record struct {
	WalletKey     string
	FirstName     string
	LastName      string
	Email         string
	PhoneNumber   string
	BVN           string
	Birthday      string
	AccountNumber string
	BankName      string
	AccountName   string
	PasswordHash  []byte
	CreatedAt     time.Time
}
