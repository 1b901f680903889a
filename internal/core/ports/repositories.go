package ports

import (
	"context"

	"atm-server/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Store is the account and reserve system of record.
// Lookups return (nil, nil) when the record does not exist.
type Store interface {
	// Atomically runs fn inside one store transaction. Writes made through
	// the StoreTx become visible only if fn returns nil.
	Atomically(ctx context.Context, fn func(ctx context.Context, tx StoreTx) error) error
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	GetReserve(ctx context.Context) (*domain.Reserve, error)
	// EnsureSchema creates missing tables and seeds the reserve once.
	EnsureSchema(ctx context.Context, initialReserve decimal.Decimal) error
}

// StoreTx exposes the locked read-modify-write operations of one
// transaction. Locks are taken account first, reserve second.
type StoreTx interface {
	GetAccountForUpdate(ctx context.Context, id string) (*domain.Account, error)
	// CreateAccountIfAbsent inserts acc unless the id exists and reports
	// whether the insert happened.
	CreateAccountIfAbsent(ctx context.Context, acc *domain.Account) (bool, error)
	SaveAccount(ctx context.Context, acc *domain.Account) error
	GetReserveForUpdate(ctx context.Context) (*domain.Reserve, error)
	SaveReserve(ctx context.Context, reserve *domain.Reserve) error
}

// AuditSink is any destination the audit service fans events out to.
type AuditSink interface {
	Write(ctx context.Context, event *domain.AuditEvent) error
}
