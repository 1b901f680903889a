package postgres

import (
	"context"
	"errors"
	"fmt"

	"atm-server/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const accountColumns = `id, pin_hash, balance, failed_attempts, blacklisted, created_at, updated_at`

// AccountRepo reads and writes the accounts table.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// GetByID fetches an account without locking. Returns nil, nil if absent.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	acc, err := scanAccount(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get account by id: %w", err)
	}
	return acc, nil
}

// GetByIDForUpdate fetches an account and locks its row until tx ends.
// This MUST be called within a transaction.
func (r *AccountRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	acc, err := scanAccount(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get account for update: %w", err)
	}
	return acc, nil
}

// CreateIfAbsent inserts acc unless its id exists. A concurrent insert of
// the same id blocks until the other transaction ends.
func (r *AccountRepo) CreateIfAbsent(ctx context.Context, tx pgx.Tx, acc *domain.Account) (bool, error) {
	query := `INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`

	tag, err := tx.Exec(ctx, query,
		acc.ID, acc.PINHash, acc.Balance, acc.FailedAttempts,
		acc.Blacklisted, acc.CreatedAt, acc.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert account: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Update writes the mutable fields of acc.
func (r *AccountRepo) Update(ctx context.Context, tx pgx.Tx, acc *domain.Account) error {
	query := `UPDATE accounts
		SET balance = $1, failed_attempts = $2, blacklisted = $3, updated_at = $4
		WHERE id = $5`

	tag, err := tx.Exec(ctx, query, acc.Balance, acc.FailedAttempts, acc.Blacklisted, acc.UpdatedAt, acc.ID)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update account: no rows affected for id %s", acc.ID)
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	acc := &domain.Account{}
	err := row.Scan(
		&acc.ID, &acc.PINHash, &acc.Balance, &acc.FailedAttempts,
		&acc.Blacklisted, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return acc, nil
}
