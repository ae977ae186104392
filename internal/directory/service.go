package directory

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// walletKeyLength keeps issued keys at a stable length. Keys are derived from
// a UUID, independent of any provider identifier.
const walletKeyLength = 14

const maxKeyAttempts = 3

// ErrEmailMismatch indicates a valid wallet key presented with the wrong
// email. Callers must keep this distinguishable from ErrNotFound.
var ErrEmailMismatch = errors.New("email does not match wallet record")

// Service is the sole translation from a client-facing wallet key to the
// provider's phone-number identity.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService builds a directory service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// NewWalletKey issues an opaque wallet key from a random source.
func NewWalletKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:walletKeyLength]
}

// RegisterInput carries the profile mirror captured from a successful
// provider wallet generation.
type RegisterInput struct {
	FirstName     string
	LastName      string
	Email         string
	PhoneNumber   string
	BVN           string
	Birthday      string
	AccountNumber string
	BankName      string
	AccountName   string
	Password      string
	SignedUp      time.Time
}

// Register persists the wallet record exactly once per successful provider
// generation and returns it with a freshly issued key. Key collisions
// regenerate and retry.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Record, error) {
	var passwordHash []byte
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return Record{}, err
		}
		passwordHash = hash
	}

	createdAt := in.SignedUp
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var lastErr error
	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		record := Record{
			WalletKey:     NewWalletKey(),
			FirstName:     in.FirstName,
			LastName:      in.LastName,
			Email:         in.Email,
			PhoneNumber:   in.PhoneNumber,
			BVN:           in.BVN,
			Birthday:      in.Birthday,
			AccountNumber: in.AccountNumber,
			BankName:      in.BankName,
			AccountName:   in.AccountName,
			PasswordHash:  passwordHash,
			CreatedAt:     createdAt,
		}

		err := s.repo.Insert(ctx, record)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, ErrDuplicateKey) {
			return Record{}, err
		}
		s.logger.Warn("wallet key collision, regenerating", "attempt", attempt+1)
		lastErr = err
	}
	return Record{}, lastErr
}

// Resolve looks up a record by wallet key alone. Used by administrative
// flows, which are gated by the root secret instead of the email check.
func (s *Service) Resolve(ctx context.Context, walletKey string) (Record, error) {
	record, err := s.repo.FindByKey(ctx, walletKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("wallet record lookup failed", "error", err)
		}
		return Record{}, ErrNotFound
	}
	return record, nil
}

// Authorize resolves the wallet key and binds the caller-supplied email to
// the record. A key that resolves but carries the wrong email is an
// authorization failure, never a not-found.
func (s *Service) Authorize(ctx context.Context, walletKey, email string) (Record, error) {
	record, err := s.Resolve(ctx, walletKey)
	if err != nil {
		return Record{}, err
	}
	if !strings.EqualFold(record.Email, email) {
		return Record{}, ErrEmailMismatch
	}
	return record, nil
}
