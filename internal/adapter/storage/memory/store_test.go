package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"atm-server/internal/core/domain"
	"atm-server/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seededStore(t *testing.T, reserve string, accounts ...string) *Store {
	t.Helper()
	s := NewStore()
	require.NoError(t, s.EnsureSchema(context.Background(), dec(reserve)))
	for _, id := range accounts {
		err := s.Atomically(context.Background(), func(ctx context.Context, tx ports.StoreTx) error {
			_, err := tx.CreateAccountIfAbsent(ctx, &domain.Account{ID: id, Balance: dec("1000.00")})
			return err
		})
		require.NoError(t, err)
	}
	return s
}

func TestStore_EnsureSchema_SeedsOnce(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	res, err := s.GetReserve(ctx)
	require.NoError(t, err)
	assert.Nil(t, res, "unseeded")

	require.NoError(t, s.EnsureSchema(ctx, dec("10000.00")))
	require.NoError(t, s.EnsureSchema(ctx, dec("1.00")))

	res, err = s.GetReserve(ctx)
	require.NoError(t, err)
	assert.True(t, res.Funds.Equal(dec("10000")))
}

func TestStore_Atomically_CommitsOnSuccess(t *testing.T) {
	s := seededStore(t, "10000.00", "9000000001")
	ctx := context.Background()

	err := s.Atomically(ctx, func(ctx context.Context, tx ports.StoreTx) error {
		acc, err := tx.GetAccountForUpdate(ctx, "9000000001")
		require.NoError(t, err)
		res, err := tx.GetReserveForUpdate(ctx)
		require.NoError(t, err)

		acc.Balance = acc.Balance.Sub(dec("600"))
		res.Funds = res.Funds.Sub(dec("600"))
		require.NoError(t, tx.SaveAccount(ctx, acc))
		return tx.SaveReserve(ctx, res)
	})
	require.NoError(t, err)

	acc, err := s.GetAccount(ctx, "9000000001")
	require.NoError(t, err)
	assert.Equal(t, "400.00", acc.Balance.StringFixed(2))

	res, err := s.GetReserve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "9400.00", res.Funds.StringFixed(2))
}

func TestStore_Atomically_DiscardsOnError(t *testing.T) {
	s := seededStore(t, "10000.00", "9000000001")
	ctx := context.Background()
	sentinel := errors.New("insufficient reserve")

	err := s.Atomically(ctx, func(ctx context.Context, tx ports.StoreTx) error {
		acc, err := tx.GetAccountForUpdate(ctx, "9000000001")
		require.NoError(t, err)
		acc.Balance = decimal.Zero
		require.NoError(t, tx.SaveAccount(ctx, acc))
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	acc, err := s.GetAccount(ctx, "9000000001")
	require.NoError(t, err)
	assert.Equal(t, "1000.00", acc.Balance.StringFixed(2), "staged write must not leak")
}

func TestStore_StagedWritesInvisibleUntilCommit(t *testing.T) {
	s := seededStore(t, "10000.00", "9000000001")
	ctx := context.Background()

	err := s.Atomically(ctx, func(ctx context.Context, tx ports.StoreTx) error {
		acc, err := tx.GetAccountForUpdate(ctx, "9000000001")
		require.NoError(t, err)
		acc.Balance = dec("1.00")
		require.NoError(t, tx.SaveAccount(ctx, acc))

		outside, err := s.GetAccount(ctx, "9000000001")
		require.NoError(t, err)
		assert.Equal(t, "1000.00", outside.Balance.StringFixed(2))

		inside, err := tx.GetAccountForUpdate(ctx, "9000000001")
		require.NoError(t, err)
		assert.Equal(t, "1.00", inside.Balance.StringFixed(2), "tx reads its own writes")
		return nil
	})
	require.NoError(t, err)
}

func TestStore_ReturnedRecordsAreCopies(t *testing.T) {
	s := seededStore(t, "10000.00", "9000000001")
	ctx := context.Background()

	acc, err := s.GetAccount(ctx, "9000000001")
	require.NoError(t, err)
	acc.Balance = decimal.Zero

	again, err := s.GetAccount(ctx, "9000000001")
	require.NoError(t, err)
	assert.Equal(t, "1000.00", again.Balance.StringFixed(2))
}

func TestStore_CreateAccountIfAbsent_ConcurrentFirstContact(t *testing.T) {
	s := seededStore(t, "10000.00")
	ctx := context.Background()

	const callers = 50
	var created atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Atomically(ctx, func(ctx context.Context, tx ports.StoreTx) error {
				ok, err := tx.CreateAccountIfAbsent(ctx, &domain.Account{ID: "9000000001", Balance: dec("1000.00")})
				if ok {
					created.Add(1)
				}
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
}

func TestStore_LockWaitHonoursContext(t *testing.T) {
	s := seededStore(t, "10000.00", "9000000001")

	locked := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = s.Atomically(context.Background(), func(ctx context.Context, tx ports.StoreTx) error {
			_, err := tx.GetAccountForUpdate(ctx, "9000000001")
			close(locked)
			<-done
			return err
		})
	}()
	<-locked
	defer close(done)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.Atomically(ctx, func(ctx context.Context, tx ports.StoreTx) error {
		_, err := tx.GetAccountForUpdate(ctx, "9000000001")
		return err
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// Withdrawals and deposits move the same amount on both sides, so
// reserve minus the sum of balances never changes.
func TestStore_FundsConservedUnderConcurrency(t *testing.T) {
	ids := make([]string, 8)
	for i := range ids {
		ids[i] = fmt.Sprintf("90000000%02d", i)
	}
	s := seededStore(t, "10000.00", ids...)
	ctx := context.Background()

	invariant := func() decimal.Decimal {
		res, err := s.GetReserve(ctx)
		require.NoError(t, err)
		total := res.Funds
		for _, id := range ids {
			acc, err := s.GetAccount(ctx, id)
			require.NoError(t, err)
			total = total.Sub(acc.Balance)
		}
		return total
	}
	before := invariant()

	amount := dec("150.00")
	var wg sync.WaitGroup
	for i := 0; i < 400; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := ids[i%len(ids)]
			withdraw := i%3 != 0
			err := s.Atomically(ctx, func(ctx context.Context, tx ports.StoreTx) error {
				acc, err := tx.GetAccountForUpdate(ctx, id)
				if err != nil {
					return err
				}
				res, err := tx.GetReserveForUpdate(ctx)
				if err != nil {
					return err
				}
				if withdraw {
					if acc.Balance.LessThan(amount) || res.Funds.LessThan(amount) {
						return nil
					}
					acc.Balance = acc.Balance.Sub(amount)
					res.Funds = res.Funds.Sub(amount)
				} else {
					acc.Balance = acc.Balance.Add(amount)
					res.Funds = res.Funds.Add(amount)
				}
				if err := tx.SaveAccount(ctx, acc); err != nil {
					return err
				}
				return tx.SaveReserve(ctx, res)
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.True(t, before.Equal(invariant()), "reserve minus balances must be conserved")

	res, err := s.GetReserve(ctx)
	require.NoError(t, err)
	assert.False(t, res.Funds.IsNegative())
	for _, id := range ids {
		acc, err := s.GetAccount(ctx, id)
		require.NoError(t, err)
		assert.False(t, acc.Balance.IsNegative(), "balance of %s", id)
	}
}
