package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("FUND_001", "Insufficient balance.", CategoryFunds),
			expected: "[FUND_001] Insufficient balance.",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", CategoryStore, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", CategoryStore, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("FUND_001", "test", CategoryFunds)
	assert.Nil(t, appErr.Unwrap())
}

func TestAs_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("withdraw: %w", ErrInsufficientReserve())

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "FUND_002", appErr.Code)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestIsCategory(t *testing.T) {
	assert.True(t, IsCategory(ErrStore(errors.New("boom")), CategoryStore))
	assert.False(t, IsCategory(ErrInsufficientBalance(), CategoryStore))
	assert.False(t, IsCategory(nil, CategoryStore))
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     *AppError
		code    string
		message string
	}{
		{"InvalidAmountFormat", ErrInvalidAmountFormat(), "VAL_001", "Invalid amount format."},
		{"NotPositive", ErrAmountNotPositive("Withdrawal"), "VAL_002", "Withdrawal amount must be positive."},
		{"BelowMinimum", ErrBelowMinimum("₹", "100"), "VAL_003", "Minimum withdrawal amount is ₹100."},
		{"AboveMaximum", ErrAboveMaximum("₹", "5000"), "VAL_004", "Maximum withdrawal limit is ₹5000 per transaction."},
		{"InvalidIdentifier", ErrInvalidIdentifier(), "VAL_005", "Invalid mobile number."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.message, tt.err.Message)
			assert.Equal(t, CategoryValidation, tt.err.Category)
		})
	}
}

func TestFundsAndAccountErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		code     string
		category Category
	}{
		{"AccountNotFound", ErrAccountNotFound(), "ACC_001", CategoryAuth},
		{"InsufficientBalance", ErrInsufficientBalance(), "FUND_001", CategoryFunds},
		{"InsufficientReserve", ErrInsufficientReserve(), "FUND_002", CategoryFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.category, tt.err.Category)
		})
	}
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	storeErr := ErrStore(inner)
	assert.Equal(t, "SYS_001", storeErr.Code)
	assert.Equal(t, CategoryStore, storeErr.Category)
	assert.True(t, errors.Is(storeErr, inner))

	assert.Equal(t, "SYS_002", ErrReserveMissing().Code)

	rateErr := ErrRateLimitExceeded()
	assert.Equal(t, "RATE_001", rateErr.Code)
	assert.Equal(t, CategoryLimit, rateErr.Category)

	peerErr := ErrPeerGone(inner)
	assert.Equal(t, "PROTO_001", peerErr.Code)
	assert.Equal(t, CategoryProtocol, peerErr.Category)
}
