package services

import (
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/money"
)

// balanceEffect is a signed change to one account's balance.
type balanceEffect struct {
	AccountID string
	Delta     money.Amount
}

// effectsOf returns the balance changes a transaction causes:
//
//	income   -> source += amount
//	expense  -> source -= amount
//	transfer -> source -= amount, destination += amount
func effectsOf(t *models.Transaction) ([]balanceEffect, error) {
	switch t.Type {
	case models.TransactionTypeIncome:
		return []balanceEffect{{AccountID: t.AccountID, Delta: t.Amount}}, nil
	case models.TransactionTypeExpense:
		return []balanceEffect{{AccountID: t.AccountID, Delta: -t.Amount}}, nil
	case models.TransactionTypeTransfer:
		if t.ToAccountID == nil || *t.ToAccountID == "" {
			return nil, apperrors.ErrTransferDestinationRequired
		}
		return []balanceEffect{
			{AccountID: t.AccountID, Delta: -t.Amount},
			{AccountID: *t.ToAccountID, Delta: t.Amount},
		}, nil
	}
	return nil, apperrors.ErrInvalidTransactionType
}

// ledger applies and reverses transaction effects on accounts and budgets.
// Every call takes the caller's database transaction.
type ledger struct {
	accounts AccountServicer
	budgets  BudgetServicer
}

// apply books the effect of t. sign is +1 to apply and -1 to reverse.
func (l *ledger) apply(tx *gorm.DB, t *models.Transaction, sign money.Amount) error {
	effects, err := effectsOf(t)
	if err != nil {
		return err
	}
	for _, e := range effects {
		if _, err := l.accounts.AdjustBalance(tx, t.UserID, e.AccountID, e.Delta*sign); err != nil {
			return err
		}
	}
	if t.Type == models.TransactionTypeExpense {
		if err := l.budgets.ApplySpending(tx, t.UserID, t.CategoryID, t.Date, t.Amount*sign); err != nil {
			return err
		}
	}
	return nil
}

// Apply books the effect of t.
func (l *ledger) Apply(tx *gorm.DB, t *models.Transaction) error {
	return l.apply(tx, t, 1)
}

// Reverse undoes the effect of t.
func (l *ledger) Reverse(tx *gorm.DB, t *models.Transaction) error {
	return l.apply(tx, t, -1)
}
