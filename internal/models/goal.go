package models

import (
	"time"

	"fintrack/internal/money"
)

// GoalType represents what a goal is saving towards.
type GoalType string

const (
	GoalTypeSavings       GoalType = "savings"
	GoalTypeDebtPayoff    GoalType = "debt_payoff"
	GoalTypeInvestment    GoalType = "investment"
	GoalTypeEmergencyFund GoalType = "emergency_fund"
	GoalTypeVacation      GoalType = "vacation"
	GoalTypeHomePurchase  GoalType = "home_purchase"
	GoalTypeCarPurchase   GoalType = "car_purchase"
	GoalTypeEducation     GoalType = "education"
	GoalTypeRetirement    GoalType = "retirement"
	GoalTypeOther         GoalType = "other"
)

// GoalStatus represents the lifecycle state of a goal.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusPaused    GoalStatus = "paused"
	GoalStatusCancelled GoalStatus = "cancelled"
)

var goalTypes = map[GoalType]bool{
	GoalTypeSavings:       true,
	GoalTypeDebtPayoff:    true,
	GoalTypeInvestment:    true,
	GoalTypeEmergencyFund: true,
	GoalTypeVacation:      true,
	GoalTypeHomePurchase:  true,
	GoalTypeCarPurchase:   true,
	GoalTypeEducation:     true,
	GoalTypeRetirement:    true,
	GoalTypeOther:         true,
}

// Valid reports whether t is a known goal type.
func (t GoalType) Valid() bool {
	return goalTypes[t]
}

// Valid reports whether s is a known goal status.
func (s GoalStatus) Valid() bool {
	switch s {
	case GoalStatusActive, GoalStatusCompleted, GoalStatusPaused, GoalStatusCancelled:
		return true
	}
	return false
}

// Goal is a savings target with tracked progress.
type Goal struct {
	Base
	UserID              string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name                string       `gorm:"size:100;not null" json:"name"`
	Description         string       `json:"description"`
	Type                GoalType     `gorm:"size:30;not null" json:"type"`
	TargetAmount        money.Amount `gorm:"type:bigint;not null" json:"target_amount"`
	CurrentAmount       money.Amount `gorm:"type:bigint;not null;default:0" json:"current_amount"`
	ProgressPercentage  float64      `gorm:"not null;default:0" json:"progress_percentage"`
	Status              GoalStatus   `gorm:"size:20;not null;default:'active'" json:"status"`
	StartDate           time.Time    `gorm:"type:date;not null" json:"start_date"`
	TargetDate          time.Time    `gorm:"type:date;not null" json:"target_date"`
	MonthlyContribution money.Amount `gorm:"type:bigint;not null;default:0" json:"monthly_contribution"`
	Color               string       `gorm:"size:7" json:"color,omitempty"`
	Icon                string       `gorm:"size:50" json:"icon,omitempty"`
	Notes               string       `json:"notes,omitempty"`
	IsActive            bool         `gorm:"not null;default:true" json:"is_active"`
	AutoContribute      bool         `gorm:"not null;default:false" json:"auto_contribute"`
	LinkedAccountID     *string      `gorm:"type:uuid" json:"linked_account_id,omitempty"`

	// Relationships
	LinkedAccount *Account `gorm:"foreignKey:LinkedAccountID" json:"linked_account,omitempty"`
}

// RecomputeProgress sets ProgressPercentage from the current and target amounts
// and marks the goal completed once the target is reached.
func (g *Goal) RecomputeProgress() {
	g.ProgressPercentage = money.Percent(g.CurrentAmount, g.TargetAmount)
	if g.ProgressPercentage >= 100 {
		g.Status = GoalStatusCompleted
	}
}
