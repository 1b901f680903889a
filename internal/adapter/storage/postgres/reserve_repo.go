package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"atm-server/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// reserveID is the key of the single bank_reserve row.
const reserveID = 1

// ReserveRepo reads and writes the bank_reserve row.
type ReserveRepo struct {
	pool Pool
}

// NewReserveRepo creates a new ReserveRepo.
func NewReserveRepo(pool Pool) *ReserveRepo {
	return &ReserveRepo{pool: pool}
}

// Get fetches the reserve without locking. Returns nil, nil if unseeded.
func (r *ReserveRepo) Get(ctx context.Context) (*domain.Reserve, error) {
	query := `SELECT funds, updated_at FROM bank_reserve WHERE id = $1`

	res, err := scanReserve(r.pool.QueryRow(ctx, query, reserveID))
	if err != nil {
		return nil, fmt.Errorf("get reserve: %w", err)
	}
	return res, nil
}

// GetForUpdate fetches the reserve and locks its row until tx ends.
func (r *ReserveRepo) GetForUpdate(ctx context.Context, tx pgx.Tx) (*domain.Reserve, error) {
	query := `SELECT funds, updated_at FROM bank_reserve WHERE id = $1 FOR UPDATE`

	res, err := scanReserve(tx.QueryRow(ctx, query, reserveID))
	if err != nil {
		return nil, fmt.Errorf("get reserve for update: %w", err)
	}
	return res, nil
}

// Update writes the reserve funds.
func (r *ReserveRepo) Update(ctx context.Context, tx pgx.Tx, res *domain.Reserve) error {
	query := `UPDATE bank_reserve SET funds = $1, updated_at = $2 WHERE id = $3`

	tag, err := tx.Exec(ctx, query, res.Funds, res.UpdatedAt, reserveID)
	if err != nil {
		return fmt.Errorf("update reserve: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.New("update reserve: reserve row missing")
	}
	return nil
}

// Seed inserts the reserve row with initial funds if it does not exist.
func (r *ReserveRepo) Seed(ctx context.Context, initial decimal.Decimal) (bool, error) {
	query := `INSERT INTO bank_reserve (id, funds, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query, reserveID, initial, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("seed reserve: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanReserve(row pgx.Row) (*domain.Reserve, error) {
	res := &domain.Reserve{}
	if err := row.Scan(&res.Funds, &res.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return res, nil
}
