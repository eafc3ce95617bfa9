package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/money"
)

const defaultAlertThreshold = 80

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a budget for a category. Spent is derived from the
// expenses already recorded in the category and window.
func (s *budgetService) CreateBudget(ctx context.Context, userID string, input CreateBudgetInput) (*models.Budget, error) {
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name is required")
	}
	if input.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if !input.Period.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid budget period")
	}
	startDate := models.TruncateDate(input.StartDate)
	endDate := models.TruncateDate(input.EndDate)
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "start and end dates are required")
	}
	if endDate.Before(startDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must not be before start date")
	}

	alertThreshold := defaultAlertThreshold
	if input.AlertThreshold != nil {
		alertThreshold = *input.AlertThreshold
	}
	if alertThreshold < 0 || alertThreshold > 100 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "alert threshold must be between 0 and 100")
	}
	alertEnabled := true
	if input.AlertEnabled != nil {
		alertEnabled = *input.AlertEnabled
	}

	db := s.db.WithContext(ctx)
	if _, err := findCategory(db, userID, input.CategoryID); err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:         userID,
		CategoryID:     input.CategoryID,
		Name:           input.Name,
		Amount:         input.Amount,
		Period:         input.Period,
		StartDate:      startDate,
		EndDate:        endDate,
		IsActive:       true,
		IsRecurring:    input.IsRecurring,
		AlertThreshold: alertThreshold,
		AlertEnabled:   alertEnabled,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		spent, err := sumSpending(tx, userID, budget.CategoryID, budget.StartDate, budget.EndDate)
		if err != nil {
			return err
		}
		budget.Spent = spent
		budget.Remaining = budget.Amount - spent

		if err := tx.Create(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return budget, nil
}

// GetUserBudgets lists active budgets, newest window first.
func (s *budgetService) GetUserBudgets(ctx context.Context, userID string) ([]models.Budget, error) {
	budgets := []models.Budget{}
	if err := s.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("start_date DESC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(ctx context.Context, userID, budgetID string) (*models.Budget, error) {
	return findBudget(s.db.WithContext(ctx).Preload("Category"), userID, budgetID)
}

func findBudget(db *gorm.DB, userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget applies a patch. A new category or window re-derives spent
// from the ledger; remaining is always recomputed as amount minus spent.
func (s *budgetService) UpdateBudget(ctx context.Context, userID, budgetID string, fields BudgetUpdateFields) (*models.Budget, error) {
	if fields.Name != nil && *fields.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name cannot be empty")
	}
	if fields.Amount != nil && *fields.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if fields.Period != nil && !fields.Period.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid budget period")
	}
	if fields.AlertThreshold != nil && (*fields.AlertThreshold < 0 || *fields.AlertThreshold > 100) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "alert threshold must be between 0 and 100")
	}

	db := s.db.WithContext(ctx)
	err := db.Transaction(func(tx *gorm.DB) error {
		budget, err := findBudget(tx.Clauses(clause.Locking{Strength: "UPDATE"}), userID, budgetID)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		rederive := false
		if fields.CategoryID != nil && *fields.CategoryID != budget.CategoryID {
			if _, err := findCategory(tx, userID, *fields.CategoryID); err != nil {
				return err
			}
			budget.CategoryID = *fields.CategoryID
			updates["category_id"] = budget.CategoryID
			rederive = true
		}
		if fields.StartDate != nil {
			d := models.TruncateDate(*fields.StartDate)
			rederive = rederive || !d.Equal(budget.StartDate)
			budget.StartDate = d
			updates["start_date"] = d
		}
		if fields.EndDate != nil {
			d := models.TruncateDate(*fields.EndDate)
			rederive = rederive || !d.Equal(budget.EndDate)
			budget.EndDate = d
			updates["end_date"] = d
		}
		if budget.EndDate.Before(budget.StartDate) {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must not be before start date")
		}
		// Inactive budgets miss ApplySpending, so reactivation re-derives spent.
		if fields.IsActive != nil {
			rederive = rederive || (*fields.IsActive && !budget.IsActive)
			updates["is_active"] = *fields.IsActive
		}

		if fields.Name != nil {
			updates["name"] = *fields.Name
		}
		if fields.Period != nil {
			updates["period"] = *fields.Period
		}
		if fields.IsRecurring != nil {
			updates["is_recurring"] = *fields.IsRecurring
		}
		if fields.AlertThreshold != nil {
			updates["alert_threshold"] = *fields.AlertThreshold
		}
		if fields.AlertEnabled != nil {
			updates["alert_enabled"] = *fields.AlertEnabled
		}

		// spent is only written when re-derived; otherwise remaining is
		// computed from the stored spent so concurrent ApplySpending is kept.
		if fields.Amount != nil {
			updates["amount"] = *fields.Amount
		}
		switch {
		case rederive:
			spent, err := sumSpending(tx, userID, budget.CategoryID, budget.StartDate, budget.EndDate)
			if err != nil {
				return err
			}
			amount := budget.Amount
			if fields.Amount != nil {
				amount = *fields.Amount
			}
			updates["spent"] = spent
			updates["remaining"] = amount - spent
		case fields.Amount != nil:
			updates["remaining"] = gorm.Expr("? - spent", *fields.Amount)
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&models.Budget{}).
			Where("id = ? AND user_id = ?", budgetID, userID).
			Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetBudgetByID(ctx, userID, budgetID)
}

// DeleteBudget deactivates a budget.
func (s *budgetService) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	result := s.db.WithContext(ctx).Model(&models.Budget{}).
		Where("id = ? AND user_id = ?", budgetID, userID).
		Update("is_active", false)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrBudgetNotFound
	}
	return nil
}

// RecalculateBudget re-derives spent from the ledger.
func (s *budgetService) RecalculateBudget(ctx context.Context, userID, budgetID string) (*models.Budget, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		budget, err := findBudget(tx, userID, budgetID)
		if err != nil {
			return err
		}
		spent, err := sumSpending(tx, userID, budget.CategoryID, budget.StartDate, budget.EndDate)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Budget{}).
			Where("id = ?", budget.ID).
			Updates(map[string]interface{}{
				"spent":     spent,
				"remaining": budget.Amount - spent,
			}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetBudgetByID(ctx, userID, budgetID)
}

// GetBudgetSummary aggregates the user's active budgets.
func (s *budgetService) GetBudgetSummary(ctx context.Context, userID string) (*BudgetSummary, error) {
	budgets, err := s.GetUserBudgets(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &BudgetSummary{TotalBudgets: len(budgets)}
	for _, b := range budgets {
		summary.TotalBudgetAmount += b.Amount
		summary.TotalSpent += b.Spent
		summary.TotalRemaining += b.Remaining
		if b.Spent > b.Amount {
			summary.OverBudgetCount++
		}
	}
	return summary, nil
}

// GetBudgetProgress reports spending against the budget and whether the alert threshold is crossed.
func (s *budgetService) GetBudgetProgress(ctx context.Context, userID, budgetID string) (*BudgetProgress, error) {
	budget, err := s.GetBudgetByID(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	percentage := money.Percent(budget.Spent, budget.Amount)
	return &BudgetProgress{
		BudgetID:   budget.ID,
		Budgeted:   budget.Amount,
		Spent:      budget.Spent,
		Remaining:  budget.Remaining,
		Percentage: percentage,
		Alert:      budget.AlertEnabled && percentage >= float64(budget.AlertThreshold),
	}, nil
}

// ApplySpending moves delta into every active budget of the category whose
// window contains date. Both columns change in one statement per row.
func (s *budgetService) ApplySpending(tx *gorm.DB, userID, categoryID string, date time.Time, delta money.Amount) error {
	if delta == 0 {
		return nil
	}
	d := models.TruncateDate(date)
	if err := tx.Model(&models.Budget{}).
		Where("user_id = ? AND category_id = ? AND is_active = ? AND start_date <= ? AND end_date >= ?",
			userID, categoryID, true, d, d).
		UpdateColumns(map[string]interface{}{
			"spent":     gorm.Expr("spent + ?", delta),
			"remaining": gorm.Expr("remaining - ?", delta),
		}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// sumSpending totals expense transactions for a category within [start, end].
func sumSpending(db *gorm.DB, userID, categoryID string, start, end time.Time) (money.Amount, error) {
	var spent int64
	if err := db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND category_id = ? AND type = ? AND date >= ? AND date <= ?",
			userID, categoryID, models.TransactionTypeExpense, models.TruncateDate(start), models.TruncateDate(end)).
		Scan(&spent).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return money.Amount(spent), nil
}
