package testutil

import (
	"errors"
	"testing"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/money"

	"gorm.io/gorm"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertBalance reloads the account and checks its stored balance.
func AssertBalance(t *testing.T, db *gorm.DB, accountID string, expected money.Amount) {
	t.Helper()

	var account models.Account
	if err := db.Where("id = ?", accountID).First(&account).Error; err != nil {
		t.Fatalf("failed to reload account %s: %v", accountID, err)
	}
	if account.Balance != expected {
		t.Errorf("expected balance %s, got %s", expected, account.Balance)
	}
}
