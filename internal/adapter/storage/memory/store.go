package memory

import (
	"context"
	"sync"

	"atm-server/internal/core/domain"
	"atm-server/internal/core/ports"

	"github.com/shopspring/decimal"
)

const reserveKey = "reserve"

// Store keeps accounts and the reserve in maps. Each record has its own
// lock, held from the first locked read until the transaction ends, so
// transactions touching different accounts run in parallel.
type Store struct {
	mu       sync.Mutex // guards the maps below, never held while waiting on a record lock
	accounts map[string]domain.Account
	reserve  *domain.Reserve
	locks    map[string]chan struct{}
}

// NewStore creates an empty store. Call EnsureSchema to seed the reserve.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]domain.Account),
		locks:    make(map[string]chan struct{}),
	}
}

// Atomically runs fn with staged writes that are applied only if fn
// returns nil. Record locks are released after commit or discard.
func (s *Store) Atomically(ctx context.Context, fn func(ctx context.Context, tx ports.StoreTx) error) error {
	tx := &storeTx{
		store:    s,
		held:     make(map[string]chan struct{}),
		accounts: make(map[string]domain.Account),
	}
	defer tx.release()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (s *Store) GetAccount(_ context.Context, id string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	return &acc, nil
}

func (s *Store) GetReserve(_ context.Context) (*domain.Reserve, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reserve == nil {
		return nil, nil
	}
	res := *s.reserve
	return &res, nil
}

// EnsureSchema seeds the reserve once.
func (s *Store) EnsureSchema(_ context.Context, initialReserve decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reserve == nil {
		s.reserve = &domain.Reserve{Funds: initialReserve}
	}
	return nil
}

// lockFor returns the lock channel for a record key, creating it on demand.
func (s *Store) lockFor(key string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[key]
	if !ok {
		l = make(chan struct{}, 1)
		s.locks[key] = l
	}
	return l
}

type storeTx struct {
	store    *Store
	held     map[string]chan struct{}
	order    []string
	accounts map[string]domain.Account // staged
	reserve  *domain.Reserve           // staged
}

// acquire takes the record lock for key unless this tx already holds it.
func (t *storeTx) acquire(ctx context.Context, key string) error {
	if _, ok := t.held[key]; ok {
		return nil
	}
	l := t.store.lockFor(key)
	select {
	case l <- struct{}{}:
		t.held[key] = l
		t.order = append(t.order, key)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *storeTx) release() {
	for i := len(t.order) - 1; i >= 0; i-- {
		<-t.held[t.order[i]]
	}
	t.held = nil
	t.order = nil
}

func (t *storeTx) commit() {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, acc := range t.accounts {
		s.accounts[id] = acc
	}
	if t.reserve != nil {
		res := *t.reserve
		s.reserve = &res
	}
}

func accountKey(id string) string {
	return "account:" + id
}

func (t *storeTx) GetAccountForUpdate(ctx context.Context, id string) (*domain.Account, error) {
	if err := t.acquire(ctx, accountKey(id)); err != nil {
		return nil, err
	}
	if acc, ok := t.accounts[id]; ok {
		return &acc, nil
	}
	return t.store.GetAccount(ctx, id)
}

func (t *storeTx) CreateAccountIfAbsent(ctx context.Context, acc *domain.Account) (bool, error) {
	if err := t.acquire(ctx, accountKey(acc.ID)); err != nil {
		return false, err
	}
	if _, ok := t.accounts[acc.ID]; ok {
		return false, nil
	}
	existing, err := t.store.GetAccount(ctx, acc.ID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	t.accounts[acc.ID] = *acc
	return true, nil
}

func (t *storeTx) SaveAccount(ctx context.Context, acc *domain.Account) error {
	if err := t.acquire(ctx, accountKey(acc.ID)); err != nil {
		return err
	}
	t.accounts[acc.ID] = *acc
	return nil
}

func (t *storeTx) GetReserveForUpdate(ctx context.Context) (*domain.Reserve, error) {
	if err := t.acquire(ctx, reserveKey); err != nil {
		return nil, err
	}
	if t.reserve != nil {
		res := *t.reserve
		return &res, nil
	}
	return t.store.GetReserve(ctx)
}

func (t *storeTx) SaveReserve(ctx context.Context, res *domain.Reserve) error {
	if err := t.acquire(ctx, reserveKey); err != nil {
		return err
	}
	staged := *res
	t.reserve = &staged
	return nil
}
