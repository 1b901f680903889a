package postgres

import (
	"context"
	"fmt"

	"atm-server/internal/core/domain"
)

// AuditRepo persists audit events to audit_events. It implements ports.AuditSink.
type AuditRepo struct {
	pool Pool
}

// NewAuditRepo creates a PostgreSQL-backed audit repository.
func NewAuditRepo(pool Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

func (r *AuditRepo) Create(ctx context.Context, ev *domain.AuditEvent) error {
	var sessionStart any
	if !ev.SessionStart.IsZero() {
		sessionStart = ev.SessionStart
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_events (id, account_id, action, amount, balance, reserve, session_start, elapsed_ms, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		ev.ID, ev.AccountID, string(ev.Action), ev.Amount, ev.Balance, ev.Reserve,
		sessionStart, ev.Elapsed.Milliseconds(), ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// Write lets the repository act as an audit sink.
func (r *AuditRepo) Write(ctx context.Context, ev *domain.AuditEvent) error {
	return r.Create(ctx, ev)
}
