// Package errcatalog persists the catalog of error codes the facade has
// emitted. Recording is best-effort; a catalog fault must never change the
// response a client receives.
package errcatalog

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Catalog records emitted error codes with their first-seen description.
type Catalog interface {
	Record(ctx context.Context, code int, description string) error
}

// PostgresCatalog stores error codes in PostgreSQL.
type PostgresCatalog struct {
	db *pgxpool.Pool
}

// NewPostgresCatalog builds a Postgres-backed catalog.
func NewPostgresCatalog(db *pgxpool.Pool) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

// Record upserts the code, keeping the first description seen.
func (c *PostgresCatalog) Record(ctx context.Context, code int, description string) error {
	_, err := c.db.Exec(ctx, `INSERT INTO error_catalog (code, description)
        VALUES ($1, $2) ON CONFLICT (code) DO NOTHING`, code, description)
	return err
}

type memoryCatalog struct {
	mu      sync.Mutex
	entries map[int]string
}

// NewMemoryCatalog constructs an in-memory catalog for dev mode and tests.
func NewMemoryCatalog() Catalog {
	return &memoryCatalog{entries: make(map[int]string)}
}

func (c *memoryCatalog) Record(_ context.Context, code int, description string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[code]; !ok {
		c.entries[code] = description
	}
	return nil
}
