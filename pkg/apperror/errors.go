package apperror

import (
	"errors"
	"fmt"
)

// Category groups error codes by how a session reacts to them.
type Category string

const (
	CategoryValidation Category = "validation" // malformed input, re-prompt or reject locally
	CategoryAuth       Category = "auth"
	CategoryFunds      Category = "funds"
	CategoryStore      Category = "store"
	CategoryProtocol   Category = "protocol"
	CategoryLimit      Category = "limit"
)

// AppError is a structured error whose Message is safe to show to the peer.
type AppError struct {
	Code     string   `json:"error_code"`
	Message  string   `json:"message"`
	Category Category `json:"-"`
	Err      error    `json:"-"` // Wrapped internal error (not exposed to the peer)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, category Category) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Category: category,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, category Category, err error) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Category: category,
		Err:      err,
	}
}

// As extracts an *AppError from err, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCategory reports whether err is an AppError of the given category.
func IsCategory(err error, category Category) bool {
	appErr, ok := As(err)
	return ok && appErr.Category == category
}

// ---- Validation (VAL) ----

func ErrInvalidAmountFormat() *AppError {
	return New("VAL_001", "Invalid amount format.", CategoryValidation)
}

func ErrAmountNotPositive(operation string) *AppError {
	return New("VAL_002", fmt.Sprintf("%s amount must be positive.", operation), CategoryValidation)
}

func ErrBelowMinimum(symbol, minimum string) *AppError {
	return New("VAL_003", fmt.Sprintf("Minimum withdrawal amount is %s%s.", symbol, minimum), CategoryValidation)
}

func ErrAboveMaximum(symbol, maximum string) *AppError {
	return New("VAL_004", fmt.Sprintf("Maximum withdrawal limit is %s%s per transaction.", symbol, maximum), CategoryValidation)
}

func ErrInvalidIdentifier() *AppError {
	return New("VAL_005", "Invalid mobile number.", CategoryValidation)
}

// ---- Accounts (ACC) ----

func ErrAccountNotFound() *AppError {
	return New("ACC_001", "User not found.", CategoryAuth)
}

// ---- Funds (FUND) ----

func ErrInsufficientBalance() *AppError {
	return New("FUND_001", "Insufficient balance.", CategoryFunds)
}

func ErrInsufficientReserve() *AppError {
	return New("FUND_002", "ATM out of cash. Please try a smaller amount.", CategoryFunds)
}

// ---- System & Infrastructure (SYS) ----

func ErrStore(err error) *AppError {
	return Wrap("SYS_001", "Transaction failed. Please try again later.", CategoryStore, err)
}

func ErrReserveMissing() *AppError {
	return New("SYS_002", "Bank data not found.", CategoryStore)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", CategoryStore, err)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Too many requests. Please try again later.", CategoryLimit)
}

// ---- Protocol (PROTO) ----

func ErrPeerGone(err error) *AppError {
	return Wrap("PROTO_001", "Peer disconnected", CategoryProtocol, err)
}
