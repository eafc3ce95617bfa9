package models

import (
	"time"

	"fintrack/internal/money"
	"fintrack/internal/uuid"

	"gorm.io/gorm"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer:
		return true
	}
	return false
}

// Transaction is a single ledger entry. Rows are hard-deleted; the effect of a
// row on account balances and budgets is reversed before it is removed.
type Transaction struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountID   string          `gorm:"type:uuid;not null;index" json:"account_id"`
	CategoryID  string          `gorm:"type:uuid;not null;index" json:"category_id"`
	ToAccountID *string         `gorm:"type:uuid;index" json:"to_account_id,omitempty"`
	Type        TransactionType `gorm:"size:20;not null" json:"type"`
	Amount      money.Amount    `gorm:"type:bigint;not null" json:"amount"`
	Date        time.Time       `gorm:"type:date;not null;index" json:"date"`
	IsCleared   bool            `gorm:"not null;default:false" json:"is_cleared"`
	Description string          `gorm:"size:255" json:"description"`
	Notes       string          `json:"notes,omitempty"`
	Reference   string          `gorm:"size:100" json:"reference,omitempty"`
	Location    string          `gorm:"size:255" json:"location,omitempty"`
	ReceiptURL  string          `gorm:"size:500" json:"receipt_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relationships
	Account   *Account  `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	ToAccount *Account  `gorm:"foreignKey:ToAccountID" json:"to_account,omitempty"`
	Category  *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New()
	}
	return nil
}
