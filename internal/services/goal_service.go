package services

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/money"
)

// goalService handles goal-related business logic.
type goalService struct {
	db       *gorm.DB
	accounts AccountServicer
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB, accounts AccountServicer) GoalServicer {
	return &goalService{db: db, accounts: accounts}
}

// CreateGoal creates a goal, optionally linked to one of the user's accounts.
func (s *goalService) CreateGoal(ctx context.Context, userID string, input CreateGoalInput) (*models.Goal, error) {
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name is required")
	}
	if !input.Type.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid goal type")
	}
	if input.TargetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}
	if input.CurrentAmount < 0 || input.MonthlyContribution < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amounts cannot be negative")
	}
	if input.StartDate.IsZero() || input.TargetDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "start and target dates are required")
	}
	if input.LinkedAccountID != nil && *input.LinkedAccountID != "" {
		if _, err := s.accounts.GetAccountByID(ctx, userID, *input.LinkedAccountID); err != nil {
			return nil, err
		}
	} else {
		input.LinkedAccountID = nil
	}

	goal := &models.Goal{
		UserID:              userID,
		Name:                input.Name,
		Description:         input.Description,
		Type:                input.Type,
		TargetAmount:        input.TargetAmount,
		CurrentAmount:       input.CurrentAmount,
		Status:              models.GoalStatusActive,
		StartDate:           models.TruncateDate(input.StartDate),
		TargetDate:          models.TruncateDate(input.TargetDate),
		MonthlyContribution: input.MonthlyContribution,
		Color:               input.Color,
		Icon:                input.Icon,
		Notes:               input.Notes,
		IsActive:            true,
		AutoContribute:      input.AutoContribute,
		LinkedAccountID:     input.LinkedAccountID,
	}
	goal.RecomputeProgress()

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// GetUserGoals lists active goals, nearest target date first.
func (s *goalService) GetUserGoals(ctx context.Context, userID string) ([]models.Goal, error) {
	goals := []models.Goal{}
	if err := s.db.WithContext(ctx).
		Preload("LinkedAccount").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("target_date ASC").
		Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goals, nil
}

// GetGoalByID returns a goal by ID if it belongs to the user.
func (s *goalService) GetGoalByID(ctx context.Context, userID, goalID string) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.WithContext(ctx).
		Preload("LinkedAccount").
		Where("id = ? AND user_id = ?", goalID, userID).
		First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoal applies a patch. A new target amount recomputes progress.
func (s *goalService) UpdateGoal(ctx context.Context, userID, goalID string, fields GoalUpdateFields) (*models.Goal, error) {
	if fields.Name != nil && *fields.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name cannot be empty")
	}
	if fields.Type != nil && !fields.Type.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid goal type")
	}
	if fields.Status != nil && !fields.Status.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid goal status")
	}
	if fields.TargetAmount != nil && *fields.TargetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}

	goal, err := s.GetGoalByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if fields.LinkedAccountID != nil && *fields.LinkedAccountID != "" &&
		(goal.LinkedAccountID == nil || *goal.LinkedAccountID != *fields.LinkedAccountID) {
		if _, err := s.accounts.GetAccountByID(ctx, userID, *fields.LinkedAccountID); err != nil {
			return nil, err
		}
	}

	if fields.Name != nil {
		goal.Name = *fields.Name
	}
	if fields.Description != nil {
		goal.Description = *fields.Description
	}
	if fields.Type != nil {
		goal.Type = *fields.Type
	}
	if fields.Status != nil {
		goal.Status = *fields.Status
	}
	if fields.StartDate != nil {
		goal.StartDate = models.TruncateDate(*fields.StartDate)
	}
	if fields.TargetDate != nil {
		goal.TargetDate = models.TruncateDate(*fields.TargetDate)
	}
	if fields.MonthlyContribution != nil {
		goal.MonthlyContribution = *fields.MonthlyContribution
	}
	if fields.Color != nil {
		goal.Color = *fields.Color
	}
	if fields.Icon != nil {
		goal.Icon = *fields.Icon
	}
	if fields.Notes != nil {
		goal.Notes = *fields.Notes
	}
	if fields.AutoContribute != nil {
		goal.AutoContribute = *fields.AutoContribute
	}
	if fields.LinkedAccountID != nil {
		if *fields.LinkedAccountID == "" {
			goal.LinkedAccountID = nil
		} else {
			id := *fields.LinkedAccountID
			goal.LinkedAccountID = &id
		}
	}
	if fields.TargetAmount != nil {
		goal.TargetAmount = *fields.TargetAmount
		goal.RecomputeProgress()
	}

	goal.LinkedAccount = nil
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetGoalByID(ctx, userID, goalID)
}

// UpdateProgress records the amount saved so far and marks the goal
// completed once the target is reached.
func (s *goalService) UpdateProgress(ctx context.Context, userID, goalID string, amount money.Amount) (*models.Goal, error) {
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot be negative")
	}

	goal, err := s.GetGoalByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	goal.CurrentAmount = amount
	goal.RecomputeProgress()

	if err := s.db.WithContext(ctx).Model(&models.Goal{}).
		Where("id = ?", goal.ID).
		Updates(map[string]interface{}{
			"current_amount":      goal.CurrentAmount,
			"progress_percentage": goal.ProgressPercentage,
			"status":              goal.Status,
		}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// DeleteGoal deactivates a goal.
func (s *goalService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	result := s.db.WithContext(ctx).Model(&models.Goal{}).
		Where("id = ? AND user_id = ?", goalID, userID).
		Update("is_active", false)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrGoalNotFound
	}
	return nil
}

// GetGoalSummary aggregates the user's active goals.
func (s *goalService) GetGoalSummary(ctx context.Context, userID string) (*GoalSummary, error) {
	goals, err := s.GetUserGoals(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &GoalSummary{TotalGoals: len(goals)}
	var progress float64
	for _, g := range goals {
		switch g.Status {
		case models.GoalStatusActive:
			summary.ActiveGoals++
		case models.GoalStatusCompleted:
			summary.CompletedGoals++
		}
		summary.TotalTargetAmount += g.TargetAmount
		summary.TotalCurrentAmount += g.CurrentAmount
		progress += g.ProgressPercentage
	}
	if len(goals) > 0 {
		summary.AverageProgress = roundTo2(progress / float64(len(goals)))
	}
	return summary, nil
}
