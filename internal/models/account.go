package models

import "fintrack/internal/money"

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeCreditCard AccountType = "credit_card"
	AccountTypeLoan       AccountType = "loan"
	AccountTypeCash       AccountType = "cash"
	AccountTypeOther      AccountType = "other"
)

// AccountTypes lists every account type in display order.
var AccountTypes = []AccountType{
	AccountTypeChecking,
	AccountTypeSavings,
	AccountTypeInvestment,
	AccountTypeCreditCard,
	AccountTypeLoan,
	AccountTypeCash,
	AccountTypeOther,
}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	for _, v := range AccountTypes {
		if v == t {
			return true
		}
	}
	return false
}

// IsDebt reports whether balances of this type count as liabilities.
func (t AccountType) IsDebt() bool {
	return t == AccountTypeCreditCard || t == AccountTypeLoan
}

// Account represents a financial account in the system.
//
// Balance is a cache of InitialBalance plus the effects of every transaction
// that references the account. It is only changed through atomic increments.
type Account struct {
	Base
	UserID            string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name              string       `gorm:"size:100;not null" json:"name"`
	Type              AccountType  `gorm:"size:20;not null" json:"type"`
	Balance           money.Amount `gorm:"type:bigint;not null;default:0" json:"balance"`
	InitialBalance    money.Amount `gorm:"type:bigint;not null;default:0" json:"initial_balance"`
	Currency          string       `gorm:"size:3;not null;default:'USD'" json:"currency"`
	AccountNumber     string       `gorm:"size:50" json:"account_number,omitempty"`
	BankName          string       `gorm:"size:100" json:"bank_name,omitempty"`
	Description       string       `json:"description"`
	Color             string       `gorm:"size:7" json:"color,omitempty"`
	IsActive          bool         `gorm:"not null;default:true" json:"is_active"`
	IncludeInNetWorth bool         `gorm:"not null" json:"include_in_net_worth"`
}
