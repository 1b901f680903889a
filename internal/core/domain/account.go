package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a registered caller, keyed by mobile number.
type Account struct {
	ID             string          `json:"id"`
	PINHash        string          `json:"-"` // Argon2id encoded hash
	Balance        decimal.Decimal `json:"balance"`
	FailedAttempts int             `json:"failed_attempts"`
	Blacklisted    bool            `json:"blacklisted"` // one-way latch
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CanWithdraw reports whether the balance covers amount.
func (a *Account) CanWithdraw(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// RecordFailedPIN increments the failure counter and latches the blacklist
// flag once limit failures have accumulated. It returns true when this call
// set the flag.
func (a *Account) RecordFailedPIN(limit int) bool {
	a.FailedAttempts++
	if !a.Blacklisted && a.FailedAttempts >= limit {
		a.Blacklisted = true
		return true
	}
	return false
}

// Reserve is the bank-wide pool of cash all withdrawals draw from.
type Reserve struct {
	Funds     decimal.Decimal `json:"funds"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// DerivePIN returns the initial PIN for an identifier: its first length
// characters, or the whole identifier when shorter.
func DerivePIN(id string, length int) string {
	if len(id) <= length {
		return id
	}
	return id[:length]
}

// ValidIdentifier reports whether id has the shape of a mobile number:
// digits only and at least minLen of them.
func ValidIdentifier(id string, minLen int) bool {
	if len(id) < minLen || id == "" {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
