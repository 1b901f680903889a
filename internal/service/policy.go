package service

import (
	"fmt"

	"atm-server/config"

	"github.com/shopspring/decimal"
)

// Policy holds the banking rules the engine enforces.
type Policy struct {
	StartingBalance decimal.Decimal
	MinWithdrawal   decimal.Decimal
	MaxWithdrawal   decimal.Decimal
	PINLength       int
	MaxPINAttempts  int
	CurrencySymbol  string
}

// DefaultPolicy returns the stock ATM rules.
func DefaultPolicy() Policy {
	return Policy{
		StartingBalance: decimal.RequireFromString("1000.00"),
		MinWithdrawal:   decimal.NewFromInt(100),
		MaxWithdrawal:   decimal.NewFromInt(5000),
		PINLength:       5,
		MaxPINAttempts:  5,
		CurrencySymbol:  "₹",
	}
}

// NewPolicy builds a Policy from the bank config section.
func NewPolicy(cfg config.BankConfig) (Policy, error) {
	p := Policy{
		PINLength:      cfg.PINLength,
		MaxPINAttempts: cfg.MaxPINAttempts,
		CurrencySymbol: cfg.CurrencySymbol,
	}

	var err error
	if p.StartingBalance, err = decimal.NewFromString(cfg.StartingBalance); err != nil {
		return Policy{}, fmt.Errorf("bank.starting_balance: %w", err)
	}
	if p.MinWithdrawal, err = decimal.NewFromString(cfg.MinWithdrawal); err != nil {
		return Policy{}, fmt.Errorf("bank.min_withdrawal: %w", err)
	}
	if p.MaxWithdrawal, err = decimal.NewFromString(cfg.MaxWithdrawal); err != nil {
		return Policy{}, fmt.Errorf("bank.max_withdrawal: %w", err)
	}

	if p.StartingBalance.IsNegative() {
		return Policy{}, fmt.Errorf("bank.starting_balance must not be negative")
	}
	if p.MinWithdrawal.GreaterThan(p.MaxWithdrawal) {
		return Policy{}, fmt.Errorf("bank.min_withdrawal exceeds bank.max_withdrawal")
	}
	if p.PINLength <= 0 || p.MaxPINAttempts <= 0 {
		return Policy{}, fmt.Errorf("bank.pin_length and bank.max_pin_attempts must be positive")
	}

	return p, nil
}
