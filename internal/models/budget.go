package models

import (
	"time"

	"fintrack/internal/money"
)

// BudgetPeriod represents the period type for a budget
type BudgetPeriod string

const (
	BudgetPeriodWeekly    BudgetPeriod = "weekly"
	BudgetPeriodMonthly   BudgetPeriod = "monthly"
	BudgetPeriodQuarterly BudgetPeriod = "quarterly"
	BudgetPeriodYearly    BudgetPeriod = "yearly"
)

// Valid reports whether p is a known budget period.
func (p BudgetPeriod) Valid() bool {
	switch p {
	case BudgetPeriodWeekly, BudgetPeriodMonthly, BudgetPeriodQuarterly, BudgetPeriodYearly:
		return true
	}
	return false
}

// Budget caps expense spending in one category over a date window.
// Remaining is always Amount - Spent.
type Budget struct {
	Base
	UserID         string       `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID     string       `gorm:"type:uuid;not null;index" json:"category_id"`
	Name           string       `gorm:"size:100;not null" json:"name"`
	Amount         money.Amount `gorm:"type:bigint;not null" json:"amount"`
	Spent          money.Amount `gorm:"type:bigint;not null;default:0" json:"spent"`
	Remaining      money.Amount `gorm:"type:bigint;not null;default:0" json:"remaining"`
	Period         BudgetPeriod `gorm:"size:20;not null" json:"period"`
	StartDate      time.Time    `gorm:"type:date;not null" json:"start_date"`
	EndDate        time.Time    `gorm:"type:date;not null" json:"end_date"`
	IsActive       bool         `gorm:"not null;default:true" json:"is_active"`
	IsRecurring    bool         `gorm:"not null;default:false" json:"is_recurring"`
	AlertThreshold int          `gorm:"not null" json:"alert_threshold"`
	AlertEnabled   bool         `gorm:"not null" json:"alert_enabled"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// Contains reports whether date falls inside the budget window, inclusive.
func (b *Budget) Contains(date time.Time) bool {
	d := TruncateDate(date)
	return !d.Before(TruncateDate(b.StartDate)) && !d.After(TruncateDate(b.EndDate))
}
