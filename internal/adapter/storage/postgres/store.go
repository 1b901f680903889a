package postgres

import (
	"context"
	"fmt"

	"atm-server/internal/core/domain"
	"atm-server/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Store implements ports.Store on PostgreSQL. Row locks taken with
// SELECT ... FOR UPDATE serialize concurrent mutations.
type Store struct {
	pool       Pool
	transactor *Transactor
	accounts   *AccountRepo
	reserve    *ReserveRepo
	log        zerolog.Logger
}

// NewStore creates a Store over the pool.
func NewStore(pool Pool, log zerolog.Logger) *Store {
	return &Store{
		pool:       pool,
		transactor: NewTransactor(pool),
		accounts:   NewAccountRepo(pool),
		reserve:    NewReserveRepo(pool),
		log:        log,
	}
}

// Atomically runs fn in one database transaction, committing only if fn
// returns nil.
func (s *Store) Atomically(ctx context.Context, fn func(ctx context.Context, tx ports.StoreTx) error) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := fn(ctx, &storeTx{tx: dbTx, accounts: s.accounts, reserve: s.reserve}); err != nil {
		return err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

func (s *Store) GetReserve(ctx context.Context) (*domain.Reserve, error) {
	return s.reserve.Get(ctx)
}

// EnsureSchema creates missing tables and seeds the reserve on first run.
func (s *Store) EnsureSchema(ctx context.Context, initialReserve decimal.Decimal) error {
	if err := createSchema(ctx, s.pool); err != nil {
		return err
	}
	seeded, err := s.reserve.Seed(ctx, initialReserve)
	if err != nil {
		return err
	}
	if seeded {
		s.log.Info().Str("funds", initialReserve.StringFixed(domain.MoneyScale)).Msg("bank reserve seeded")
	}
	return nil
}

// storeTx binds the repositories to one pgx transaction.
type storeTx struct {
	tx       pgx.Tx
	accounts *AccountRepo
	reserve  *ReserveRepo
}

func (t *storeTx) GetAccountForUpdate(ctx context.Context, id string) (*domain.Account, error) {
	return t.accounts.GetByIDForUpdate(ctx, t.tx, id)
}

func (t *storeTx) CreateAccountIfAbsent(ctx context.Context, acc *domain.Account) (bool, error) {
	return t.accounts.CreateIfAbsent(ctx, t.tx, acc)
}

func (t *storeTx) SaveAccount(ctx context.Context, acc *domain.Account) error {
	return t.accounts.Update(ctx, t.tx, acc)
}

func (t *storeTx) GetReserveForUpdate(ctx context.Context) (*domain.Reserve, error) {
	return t.reserve.GetForUpdate(ctx, t.tx)
}

func (t *storeTx) SaveReserve(ctx context.Context, res *domain.Reserve) error {
	return t.reserve.Update(ctx, t.tx, res)
}
