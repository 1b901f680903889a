package domain

import "github.com/shopspring/decimal"

// RegistrationStatus tells whether RegisterOrGet created the account.
type RegistrationStatus string

const (
	RegistrationNew      RegistrationStatus = "REGISTERED"
	RegistrationExisting RegistrationStatus = "ALREADY_REGISTERED"
)

// Registration is the result of identifying a caller.
type Registration struct {
	Status  RegistrationStatus
	PIN     string // only set for RegistrationNew
	Balance decimal.Decimal
}

// IsNew reports whether the account was created by this call.
func (r *Registration) IsNew() bool {
	return r.Status == RegistrationNew
}

// AuthStatus is the tagged outcome of a PIN check.
type AuthStatus string

const (
	AuthSuccess        AuthStatus = "SUCCESS"
	AuthWrongPIN       AuthStatus = "WRONG_PIN"
	AuthBlacklistedNow AuthStatus = "BLACKLISTED_NOW" // this failure tripped the latch
	AuthBlacklisted    AuthStatus = "BLACKLISTED"
	AuthNotRegistered  AuthStatus = "NOT_REGISTERED"
)

// AuthResult is the result of Authenticate.
type AuthResult struct {
	Status    AuthStatus
	Remaining int             // attempts left, only for AuthWrongPIN
	Balance   decimal.Decimal // only for AuthSuccess
}

// Terminal reports whether the session must end after this outcome.
func (r *AuthResult) Terminal() bool {
	return r.Status == AuthBlacklisted || r.Status == AuthBlacklistedNow
}

// TransactionKind distinguishes the two balance mutations.
type TransactionKind string

const (
	TransactionWithdraw TransactionKind = "WITHDRAW"
	TransactionDeposit  TransactionKind = "DEPOSIT"
)

// Receipt is the result of a successful withdraw or deposit.
type Receipt struct {
	Kind    TransactionKind
	Amount  decimal.Decimal
	Balance decimal.Decimal // account balance after the mutation
	Reserve decimal.Decimal // bank reserve after the mutation
}
