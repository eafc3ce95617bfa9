package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/money"
)

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount opens a new account with balance equal to its initial balance.
func (s *accountService) CreateAccount(ctx context.Context, userID string, input CreateAccountInput) (*models.Account, error) {
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	if !input.Type.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid account type")
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}
	includeInNetWorth := true
	if input.IncludeInNetWorth != nil {
		includeInNetWorth = *input.IncludeInNetWorth
	}

	account := &models.Account{
		UserID:            userID,
		Name:              input.Name,
		Type:              input.Type,
		Balance:           input.InitialBalance,
		InitialBalance:    input.InitialBalance,
		Currency:          currency,
		AccountNumber:     input.AccountNumber,
		BankName:          input.BankName,
		Description:       input.Description,
		Color:             input.Color,
		IsActive:          true,
		IncludeInNetWorth: includeInNetWorth,
	}

	if err := s.db.WithContext(ctx).Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return account, nil
}

// GetUserAccounts lists a user's accounts ordered by type then name.
func (s *accountService) GetUserAccounts(ctx context.Context, userID string, includeInactive bool) ([]models.Account, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}

	accounts := []models.Account{}
	if err := q.Order("type ASC").Order("name ASC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

// GetAccountByID retrieves an account by ID for a specific user. Inactive
// accounts are still returned so existing transactions can reference them.
func (s *accountService) GetAccountByID(ctx context.Context, userID, accountID string) (*models.Account, error) {
	return findAccount(s.db.WithContext(ctx), userID, accountID)
}

func findAccount(db *gorm.DB, userID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// GetAccountsByType lists the active accounts of one type.
func (s *accountService) GetAccountsByType(ctx context.Context, userID string, accountType models.AccountType) ([]models.Account, error) {
	if !accountType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid account type")
	}

	accounts := []models.Account{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND is_active = ?", userID, accountType, true).
		Order("name ASC").
		Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

// UpdateAccount applies a patch. Changing the initial balance shifts the
// current balance by the same amount so the ledger stays consistent.
func (s *accountService) UpdateAccount(ctx context.Context, userID, accountID string, fields AccountUpdateFields) (*models.Account, error) {
	if fields.Type != nil && !fields.Type.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid account type")
	}
	if fields.Name != nil && *fields.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name cannot be empty")
	}

	var account *models.Account
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findAccount(tx, userID, accountID)
		if err != nil {
			return err
		}

		updates := make(map[string]interface{})
		if fields.Name != nil {
			updates["name"] = *fields.Name
		}
		if fields.Type != nil {
			updates["type"] = *fields.Type
		}
		if fields.Currency != nil && *fields.Currency != "" {
			updates["currency"] = *fields.Currency
		}
		if fields.AccountNumber != nil {
			updates["account_number"] = *fields.AccountNumber
		}
		if fields.BankName != nil {
			updates["bank_name"] = *fields.BankName
		}
		if fields.Description != nil {
			updates["description"] = *fields.Description
		}
		if fields.Color != nil {
			updates["color"] = *fields.Color
		}
		if fields.IsActive != nil {
			updates["is_active"] = *fields.IsActive
		}
		if fields.IncludeInNetWorth != nil {
			updates["include_in_net_worth"] = *fields.IncludeInNetWorth
		}
		if fields.InitialBalance != nil && *fields.InitialBalance != current.InitialBalance {
			delta := *fields.InitialBalance - current.InitialBalance
			updates["initial_balance"] = *fields.InitialBalance
			updates["balance"] = gorm.Expr("balance + ?", delta)
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.Account{}).
				Where("id = ? AND user_id = ?", accountID, userID).
				Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		account, err = findAccount(tx, userID, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// SetBalance records an explicit balance correction. The initial balance
// absorbs the difference so balance still equals initial plus applied effects.
func (s *accountService) SetBalance(ctx context.Context, userID, accountID string, balance money.Amount) (*models.Account, error) {
	if balance <= 0 {
		return nil, apperrors.ErrInvalidBalance
	}

	var account *models.Account
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findAccount(tx, userID, accountID)
		if err != nil {
			return err
		}

		delta := balance - current.Balance
		if delta != 0 {
			if err := tx.Model(&models.Account{}).
				Where("id = ? AND user_id = ?", accountID, userID).
				Updates(map[string]interface{}{
					"balance":         gorm.Expr("balance + ?", delta),
					"initial_balance": gorm.Expr("initial_balance + ?", delta),
				}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		account, err = findAccount(tx, userID, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// DeleteAccount deactivates an account. Its transactions are kept.
func (s *accountService) DeleteAccount(ctx context.Context, userID, accountID string) error {
	result := s.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ? AND user_id = ?", accountID, userID).
		Update("is_active", false)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

// GetNetWorth sums the balances of active accounts included in net worth.
func (s *accountService) GetNetWorth(ctx context.Context, userID string) (money.Amount, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Account{}).
		Select("COALESCE(SUM(balance), 0)").
		Where("user_id = ? AND is_active = ? AND include_in_net_worth = ?", userID, true, true).
		Scan(&total).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return money.Amount(total), nil
}

// GetAccountSummary aggregates active accounts. Every account type is present
// in ByType, with zero values when the user has no account of that type.
func (s *accountService) GetAccountSummary(ctx context.Context, userID string) (*AccountSummary, error) {
	accounts, err := s.GetUserAccounts(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	summary := &AccountSummary{
		TotalAccounts: len(accounts),
		ByType:        make(map[models.AccountType]AccountTypeSummary, len(models.AccountTypes)),
	}
	for _, t := range models.AccountTypes {
		summary.ByType[t] = AccountTypeSummary{}
	}

	for _, a := range accounts {
		summary.TotalBalance += a.Balance
		if a.IncludeInNetWorth {
			summary.NetWorth += a.Balance
		}
		byType := summary.ByType[a.Type]
		byType.Count++
		byType.Balance += a.Balance
		summary.ByType[a.Type] = byType
	}

	return summary, nil
}

// AdjustBalance adds delta to the stored balance in a single UPDATE guarded by
// owner, so concurrent adjustments never lose an update.
func (s *accountService) AdjustBalance(tx *gorm.DB, userID, accountID string, delta money.Amount) (*models.Account, error) {
	result := tx.Model(&models.Account{}).
		Where("id = ? AND user_id = ?", accountID, userID).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrAccountNotFound
	}
	return findAccount(tx, userID, accountID)
}
