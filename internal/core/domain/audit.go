package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuditAction represents the type of audited session event.
type AuditAction string

const (
	AuditActionLogin       AuditAction = "LOGIN"
	AuditActionWithdraw    AuditAction = "WITHDRAW"
	AuditActionDeposit     AuditAction = "DEPOSIT"
	AuditActionExit        AuditAction = "EXIT"
	AuditActionLogout      AuditAction = "LOGOUT"
	AuditActionBlacklisted AuditAction = "BLACKLISTED"
	AuditActionAuthFailed  AuditAction = "AUTH_FAILED"
	AuditActionDisconnect  AuditAction = "DISCONNECT"
	AuditActionServerError AuditAction = "SERVER_ERROR"
)

// AuditEvent records one session event. Optional values are nil when they
// do not apply to the action.
type AuditEvent struct {
	ID           uuid.UUID        `json:"id"`
	AccountID    string           `json:"account_id"`
	Action       AuditAction      `json:"action"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	Balance      *decimal.Decimal `json:"balance,omitempty"`
	Reserve      *decimal.Decimal `json:"reserve,omitempty"`
	SessionStart time.Time        `json:"session_start"`
	Elapsed      time.Duration    `json:"elapsed"`
	CreatedAt    time.Time        `json:"created_at"`
}

// IsBankMovement reports whether the event moved cash in or out of the
// reserve and should appear in the bank journal.
func (e *AuditEvent) IsBankMovement() bool {
	if e.Reserve == nil {
		return false
	}
	return e.Action == AuditActionWithdraw || e.Action == AuditActionDeposit
}

// NewMovementEvent builds the audit event for a completed receipt.
func NewMovementEvent(accountID string, r *Receipt, sessionStart time.Time) *AuditEvent {
	action := AuditActionDeposit
	if r.Kind == TransactionWithdraw {
		action = AuditActionWithdraw
	}
	amount, balance, reserve := r.Amount, r.Balance, r.Reserve
	return &AuditEvent{
		AccountID:    accountID,
		Action:       action,
		Amount:       &amount,
		Balance:      &balance,
		Reserve:      &reserve,
		SessionStart: sessionStart,
		Elapsed:      time.Since(sessionStart),
	}
}
