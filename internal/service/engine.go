package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"atm-server/internal/core/domain"
	"atm-server/internal/core/ports"
	"atm-server/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Engine implements ports.BankingEngine. Every mutation is one
// Store.Atomically round trip; the store serializes concurrent callers.
type Engine struct {
	store  ports.Store
	hasher ports.HashService
	policy Policy
	log    zerolog.Logger
}

// NewEngine creates a new Engine.
func NewEngine(store ports.Store, hasher ports.HashService, policy Policy, log zerolog.Logger) *Engine {
	return &Engine{
		store:  store,
		hasher: hasher,
		policy: policy,
		log:    log,
	}
}

// RegisterOrGet creates the account on first contact. Concurrent first
// contacts for one id create it exactly once.
func (e *Engine) RegisterOrGet(ctx context.Context, id string) (*domain.Registration, error) {
	if id == "" {
		return nil, apperror.ErrInvalidIdentifier()
	}

	existing, err := e.store.GetAccount(ctx, id)
	if err != nil {
		return nil, storeError("get account", err)
	}
	if existing != nil {
		return &domain.Registration{Status: domain.RegistrationExisting, Balance: existing.Balance}, nil
	}

	pin := domain.DerivePIN(id, e.policy.PINLength)
	pinHash, err := e.hasher.Hash(pin)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash pin: %w", err))
	}

	now := time.Now().UTC()
	acc := &domain.Account{
		ID:        id,
		PINHash:   pinHash,
		Balance:   e.policy.StartingBalance,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var reg *domain.Registration
	err = e.store.Atomically(ctx, func(ctx context.Context, tx ports.StoreTx) error {
		created, err := tx.CreateAccountIfAbsent(ctx, acc)
		if err != nil {
			return fmt.Errorf("create account: %w", err)
		}
		if created {
			reg = &domain.Registration{Status: domain.RegistrationNew, PIN: pin, Balance: acc.Balance}
			return nil
		}

		// Lost the race to another first contact.
		current, err := tx.GetAccountForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("get account: %w", err)
		}
		if current == nil {
			return fmt.Errorf("account %s vanished after insert conflict", id)
		}
		reg = &domain.Registration{Status: domain.RegistrationExisting, Balance: current.Balance}
		return nil
	})
	if err != nil {
		return nil, storeError("register", err)
	}

	if reg.IsNew() {
		e.log.Info().Str("account_id", id).Msg("account registered")
	}
	return reg, nil
}

// Authenticate checks pin against the stored hash under the account row lock.
// Failures accumulate on the account across sessions; reaching the policy
// limit latches the blacklist flag.
func (e *Engine) Authenticate(ctx context.Context, id, pin string) (*domain.AuthResult, error) {
	var result *domain.AuthResult

	err := e.store.Atomically(ctx, func(ctx context.Context, tx ports.StoreTx) error {
		acc, err := tx.GetAccountForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("get account: %w", err)
		}
		if acc == nil {
			result = &domain.AuthResult{Status: domain.AuthNotRegistered}
			return nil
		}
		if acc.Blacklisted {
			result = &domain.AuthResult{Status: domain.AuthBlacklisted}
			return nil
		}

		ok, err := e.hasher.Verify(pin, acc.PINHash)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("verify pin: %w", err))
		}

		acc.UpdatedAt = time.Now().UTC()
		if ok {
			acc.FailedAttempts = 0
			if err := tx.SaveAccount(ctx, acc); err != nil {
				return fmt.Errorf("reset failed attempts: %w", err)
			}
			result = &domain.AuthResult{Status: domain.AuthSuccess, Balance: acc.Balance}
			return nil
		}

		latched := acc.RecordFailedPIN(e.policy.MaxPINAttempts)
		if err := tx.SaveAccount(ctx, acc); err != nil {
			return fmt.Errorf("record failed attempt: %w", err)
		}
		if latched {
			result = &domain.AuthResult{Status: domain.AuthBlacklistedNow}
			return nil
		}
		result = &domain.AuthResult{
			Status:    domain.AuthWrongPIN,
			Remaining: e.policy.MaxPINAttempts - acc.FailedAttempts,
		}
		return nil
	})
	if err != nil {
		return nil, storeError("authenticate", err)
	}

	switch result.Status {
	case domain.AuthBlacklistedNow:
		e.log.Warn().Str("account_id", id).Msg("account blacklisted after repeated PIN failures")
	case domain.AuthWrongPIN:
		e.log.Debug().Str("account_id", id).Int("remaining", result.Remaining).Msg("wrong pin")
	}
	return result, nil
}

// Withdraw checks, in order: amount shape, minimum, maximum, account,
// personal balance, bank reserve. Nothing changes unless every check passes.
func (e *Engine) Withdraw(ctx context.Context, id string, amount decimal.Decimal) (*domain.Receipt, error) {
	if err := validateAmount(amount, "Withdrawal"); err != nil {
		return nil, err
	}
	if amount.LessThan(e.policy.MinWithdrawal) {
		return nil, apperror.ErrBelowMinimum(e.policy.CurrencySymbol, e.policy.MinWithdrawal.String())
	}
	if amount.GreaterThan(e.policy.MaxWithdrawal) {
		return nil, apperror.ErrAboveMaximum(e.policy.CurrencySymbol, e.policy.MaxWithdrawal.String())
	}

	receipt, err := e.move(ctx, id, domain.TransactionWithdraw, amount)
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("account_id", id).
		Str("amount", amount.StringFixed(domain.MoneyScale)).
		Str("reserve", receipt.Reserve.StringFixed(domain.MoneyScale)).
		Msg("withdrawal committed")
	return receipt, nil
}

// Deposit credits the account and the reserve. No limits apply.
func (e *Engine) Deposit(ctx context.Context, id string, amount decimal.Decimal) (*domain.Receipt, error) {
	if err := validateAmount(amount, "Deposit"); err != nil {
		return nil, err
	}

	receipt, err := e.move(ctx, id, domain.TransactionDeposit, amount)
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("account_id", id).
		Str("amount", amount.StringFixed(domain.MoneyScale)).
		Str("reserve", receipt.Reserve.StringFixed(domain.MoneyScale)).
		Msg("deposit committed")
	return receipt, nil
}

// move applies a balance mutation to account and reserve in one transaction,
// locking account first and reserve second.
func (e *Engine) move(ctx context.Context, id string, kind domain.TransactionKind, amount decimal.Decimal) (*domain.Receipt, error) {
	var receipt *domain.Receipt

	err := e.store.Atomically(ctx, func(ctx context.Context, tx ports.StoreTx) error {
		acc, err := tx.GetAccountForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("lock account: %w", err)
		}
		if acc == nil {
			return apperror.ErrAccountNotFound()
		}
		if kind == domain.TransactionWithdraw && !acc.CanWithdraw(amount) {
			return apperror.ErrInsufficientBalance()
		}

		reserve, err := tx.GetReserveForUpdate(ctx)
		if err != nil {
			return fmt.Errorf("lock reserve: %w", err)
		}
		if reserve == nil {
			return apperror.ErrReserveMissing()
		}

		now := time.Now().UTC()
		if kind == domain.TransactionWithdraw {
			if reserve.Funds.LessThan(amount) {
				return apperror.ErrInsufficientReserve()
			}
			acc.Balance = acc.Balance.Sub(amount)
			reserve.Funds = reserve.Funds.Sub(amount)
		} else {
			acc.Balance = acc.Balance.Add(amount)
			reserve.Funds = reserve.Funds.Add(amount)
		}
		acc.UpdatedAt = now
		reserve.UpdatedAt = now

		if err := tx.SaveAccount(ctx, acc); err != nil {
			return fmt.Errorf("update account: %w", err)
		}
		if err := tx.SaveReserve(ctx, reserve); err != nil {
			return fmt.Errorf("update reserve: %w", err)
		}

		receipt = &domain.Receipt{
			Kind:    kind,
			Amount:  amount,
			Balance: acc.Balance,
			Reserve: reserve.Funds,
		}
		return nil
	})
	if err != nil {
		return nil, storeError(string(kind), err)
	}
	return receipt, nil
}

// Balance returns the account's current balance.
func (e *Engine) Balance(ctx context.Context, id string) (decimal.Decimal, error) {
	acc, err := e.store.GetAccount(ctx, id)
	if err != nil {
		return decimal.Zero, storeError("get account", err)
	}
	if acc == nil {
		return decimal.Zero, apperror.ErrAccountNotFound()
	}
	return acc.Balance, nil
}

// Reserve returns the bank reserve.
func (e *Engine) Reserve(ctx context.Context) (decimal.Decimal, error) {
	reserve, err := e.store.GetReserve(ctx)
	if err != nil {
		return decimal.Zero, storeError("get reserve", err)
	}
	if reserve == nil {
		return decimal.Zero, apperror.ErrReserveMissing()
	}
	return reserve.Funds, nil
}

func validateAmount(amount decimal.Decimal, operation string) error {
	err := domain.ValidateAmount(amount)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrAmountNotPositive):
		return apperror.ErrAmountNotPositive(operation)
	default:
		return apperror.ErrInvalidAmountFormat()
	}
}

// storeError passes business rejections through and wraps anything else
// as a store failure.
func storeError(op string, err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	return apperror.ErrStore(fmt.Errorf("%s: %w", op, err))
}
