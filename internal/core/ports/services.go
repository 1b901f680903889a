package ports

import (
	"context"

	"atm-server/internal/core/domain"

	"github.com/shopspring/decimal"
)

// BankingEngine is the transaction engine driven by sessions.
// Business rejections are returned as *apperror.AppError.
type BankingEngine interface {
	RegisterOrGet(ctx context.Context, id string) (*domain.Registration, error)
	Authenticate(ctx context.Context, id, pin string) (*domain.AuthResult, error)
	Withdraw(ctx context.Context, id string, amount decimal.Decimal) (*domain.Receipt, error)
	Deposit(ctx context.Context, id string, amount decimal.Decimal) (*domain.Receipt, error)
	Balance(ctx context.Context, id string) (decimal.Decimal, error)
	Reserve(ctx context.Context) (decimal.Decimal, error)
}

// HashService handles PIN hashing (Argon2id).
type HashService interface {
	Hash(pin string) (string, error)
	Verify(pin string, hash string) (bool, error)
}

// AuditService records session events asynchronously.
type AuditService interface {
	// Record is fire-and-forget; failures are logged, never returned.
	Record(ctx context.Context, event *domain.AuditEvent)
	// Close blocks until pending writes finish.
	Close()
}

// ConnectionObserver is notified of connection lifecycle events.
type ConnectionObserver interface {
	OnConnectionOpen()
	OnConnectionClose()
}

// ConnectionLimiter decides whether a new connection from key is admitted.
type ConnectionLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MetricsSource provides the latest server metrics snapshot.
type MetricsSource interface {
	Snapshot(ctx context.Context) domain.ServerMetrics
}
