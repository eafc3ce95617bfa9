package services

import (
	"math"

	"github.com/shopspring/decimal"
)

// ScoreInputs are the ratios the financial health score is computed from.
// Percentages are on a 0-100 scale; EmergencyFundRatio is in months.
type ScoreInputs struct {
	SavingsRate        float64
	DebtToIncomeRatio  float64
	EmergencyFundRatio float64
	BudgetUtilization  float64
	GoalProgress       float64
}

// budgetUtilizationTarget is the utilization that earns the full budget score.
const budgetUtilizationTarget = 85

// FinancialHealthScore grades inputs on a 0-100 scale:
// savings rate 25, debt to income 25, emergency fund 25, budget utilization 15
// and goal progress 10 points.
func FinancialHealthScore(in ScoreInputs) int {
	score := savingsPoints(in.SavingsRate) +
		debtPoints(in.DebtToIncomeRatio) +
		emergencyPoints(in.EmergencyFundRatio) +
		budgetPoints(in.BudgetUtilization) +
		goalPoints(in.GoalProgress)

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func savingsPoints(rate float64) int {
	switch {
	case rate >= 20:
		return 25
	case rate >= 15:
		return 20
	case rate >= 10:
		return 15
	case rate >= 5:
		return 10
	case rate > 0:
		return 5
	}
	return 0
}

func debtPoints(ratio float64) int {
	switch {
	case ratio <= 10:
		return 25
	case ratio <= 20:
		return 20
	case ratio <= 30:
		return 15
	case ratio <= 40:
		return 10
	case ratio <= 50:
		return 5
	}
	return 0
}

func emergencyPoints(months float64) int {
	switch {
	case months >= 6:
		return 25
	case months >= 3:
		return 20
	case months >= 1:
		return 15
	case months >= 0.5:
		return 10
	case months > 0:
		return 5
	}
	return 0
}

func budgetPoints(utilization float64) int {
	diff := math.Abs(utilization - budgetUtilizationTarget)
	switch {
	case diff <= 5:
		return 15
	case diff <= 10:
		return 12
	case diff <= 20:
		return 8
	case diff <= 30:
		return 5
	}
	return 0
}

func goalPoints(progress float64) int {
	switch {
	case progress >= 80:
		return 10
	case progress >= 60:
		return 8
	case progress >= 40:
		return 6
	case progress >= 20:
		return 4
	case progress > 0:
		return 2
	}
	return 0
}

// roundTo2 rounds f half away from zero to two decimals.
func roundTo2(f float64) float64 {
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}
