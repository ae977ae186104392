package directory

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no record exists for the wallet key.
var ErrNotFound = errors.New("wallet record not found")

// ErrDuplicateKey indicates a wallet key collision on insert. The service
// regenerates and retries; the store must never be corrupted by a collision.
var ErrDuplicateKey = errors.New("wallet key already exists")

// Repository persists wallet records.
type Repository interface {
	Insert(ctx context.Context, record Record) error
	FindByKey(ctx context.Context, walletKey string) (Record, error)
}

// PostgresRepository stores wallet records in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert adds a wallet record, reporting key collisions distinctly.
func (r *PostgresRepository) Insert(ctx context.Context, record Record) error {
	_, err := r.db.Exec(ctx, `INSERT INTO wallet_records
        (wallet_key, first_name, last_name, email, phone_number, bvn, birthday,
         account_number, bank_name, account_name, password_hash, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		record.WalletKey, record.FirstName, record.LastName, record.Email,
		record.PhoneNumber, record.BVN, record.Birthday, record.AccountNumber,
		record.BankName, record.AccountName, record.PasswordHash, record.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

// FindByKey fetches a wallet record by its key.
func (r *PostgresRepository) FindByKey(ctx context.Context, walletKey string) (Record, error) {
	row := r.db.QueryRow(ctx, `SELECT wallet_key, first_name, last_name, email,
        phone_number, bvn, birthday, account_number, bank_name, account_name,
        password_hash, created_at
        FROM wallet_records WHERE wallet_key = $1`, walletKey)

	var rec Record
	var createdAt time.Time
	err := row.Scan(&rec.WalletKey, &rec.FirstName, &rec.LastName, &rec.Email,
		&rec.PhoneNumber, &rec.BVN, &rec.Birthday, &rec.AccountNumber,
		&rec.BankName, &rec.AccountName, &rec.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	rec.CreatedAt = createdAt.UTC()
	return rec, nil
}
