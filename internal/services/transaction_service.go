package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/pagination"
)

// sortColumns maps accepted sortBy values to columns. Anything else sorts by date.
var sortColumns = map[string]string{
	"date":        "date",
	"amount":      "amount",
	"description": "description",
}

// transactionService handles transaction-related business logic. Every
// mutation runs in one database transaction together with its balance and
// budget effects.
type transactionService struct {
	db       *gorm.DB
	accounts AccountServicer
	ledger   *ledger
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accounts AccountServicer, budgets BudgetServicer) TransactionServicer {
	return &transactionService{
		db:       db,
		accounts: accounts,
		ledger:   &ledger{accounts: accounts, budgets: budgets},
	}
}

// CreateTransaction validates and records a transaction, then applies its effect.
func (s *transactionService) CreateTransaction(ctx context.Context, userID string, input CreateTransactionInput) (*models.Transaction, error) {
	if input.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if !input.Type.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if input.AccountID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}
	if input.CategoryID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category ID is required")
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:      userID,
		AccountID:   input.AccountID,
		CategoryID:  input.CategoryID,
		Type:        input.Type,
		Amount:      input.Amount,
		Date:        models.TruncateDate(date),
		IsCleared:   input.IsCleared,
		Description: input.Description,
		Notes:       input.Notes,
		Reference:   input.Reference,
		Location:    input.Location,
		ReceiptURL:  input.ReceiptURL,
	}
	if input.Type == models.TransactionTypeTransfer {
		transaction.ToAccountID = input.ToAccountID
	}

	if err := validateReferences(s.db.WithContext(ctx), userID, transaction, nil); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.ledger.Apply(tx, transaction)
	})
	if err != nil {
		return nil, err
	}

	return s.GetTransactionByID(ctx, userID, transaction.ID)
}

// validateReferences checks the post-write state of t against the caller's
// ownership and the transfer rules. When prev is non-nil only references that
// differ from it are re-checked.
func validateReferences(db *gorm.DB, userID string, t, prev *models.Transaction) error {
	if prev == nil || t.AccountID != prev.AccountID {
		if _, err := findAccount(db, userID, t.AccountID); err != nil {
			return err
		}
	}
	if prev == nil || t.CategoryID != prev.CategoryID {
		if _, err := findCategory(db, userID, t.CategoryID); err != nil {
			return err
		}
	}

	if t.Type != models.TransactionTypeTransfer {
		return nil
	}
	if t.ToAccountID == nil || *t.ToAccountID == "" {
		return apperrors.ErrTransferDestinationRequired
	}
	if *t.ToAccountID == t.AccountID {
		return apperrors.ErrSameAccountTransfer
	}
	if prev == nil || prev.ToAccountID == nil || *prev.ToAccountID != *t.ToAccountID {
		if _, err := findAccount(db, userID, *t.ToAccountID); err != nil {
			return err
		}
	}
	return nil
}

// GetTransactionByID retrieves a transaction with its category and account snapshots.
func (s *transactionService) GetTransactionByID(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	db := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Account").
		Preload("ToAccount")
	return findTransaction(db, userID, transactionID)
}

func findTransaction(db *gorm.DB, userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// GetUserTransactions retrieves a filtered, sorted and paginated list of the user's transactions.
func (s *transactionService) GetUserTransactions(ctx context.Context, userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.
		Preload("Category").
		Preload("Account").
		Preload("ToAccount").
		Order(transactionOrder(filter)).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true}).
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.Limit, total)
	return &result, nil
}

// GetAccountTransactions lists transactions booked against one account after
// checking that the account belongs to the user.
func (s *transactionService) GetAccountTransactions(ctx context.Context, userID, accountID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if _, err := s.accounts.GetAccountByID(ctx, userID, accountID); err != nil {
		return nil, err
	}
	filter.AccountID = &accountID
	return s.GetUserTransactions(ctx, userID, page, filter)
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.AccountID != nil {
		q = q.Where("account_id = ?", *f.AccountID)
	}
	if f.StartDate != nil {
		q = q.Where("date >= ?", models.TruncateDate(*f.StartDate))
	}
	if f.EndDate != nil {
		q = q.Where("date <= ?", models.TruncateDate(*f.EndDate))
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("(LOWER(description) LIKE ? OR LOWER(notes) LIKE ? OR LOWER(location) LIKE ?)", pattern, pattern, pattern)
	}
	return q
}

func transactionOrder(f TransactionFilter) clause.OrderByColumn {
	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = "date"
	}
	return clause.OrderByColumn{
		Column: clause.Column{Name: column},
		Desc:   !strings.EqualFold(f.SortOrder, "ASC"),
	}
}

// UpdateTransaction applies a patch. The stored effect is reversed and the
// post-patch effect applied in the same database transaction, which leaves
// balances exactly as if the old row were deleted and the new one created.
func (s *transactionService) UpdateTransaction(ctx context.Context, userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error) {
	if fields.Amount != nil && *fields.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if fields.Type != nil && !fields.Type.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stored, err := findTransaction(tx.Clauses(clause.Locking{Strength: "UPDATE"}), userID, transactionID)
		if err != nil {
			return err
		}

		// The patch is merged onto the locked row so a concurrent edit of
		// other fields is not overwritten with stale values.
		next := *stored
		mergeTransactionFields(&next, fields)
		if err := validateReferences(tx, userID, &next, stored); err != nil {
			return err
		}

		if err := s.ledger.Reverse(tx, stored); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(&next).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.ledger.Apply(tx, &next)
	})
	if err != nil {
		return nil, err
	}

	return s.GetTransactionByID(ctx, userID, transactionID)
}

func mergeTransactionFields(t *models.Transaction, f TransactionUpdateFields) {
	if f.Amount != nil {
		t.Amount = *f.Amount
	}
	if f.Type != nil {
		t.Type = *f.Type
	}
	if f.Date != nil {
		t.Date = models.TruncateDate(*f.Date)
	}
	if f.AccountID != nil {
		t.AccountID = *f.AccountID
	}
	if f.CategoryID != nil {
		t.CategoryID = *f.CategoryID
	}
	if f.ToAccountID != nil {
		id := *f.ToAccountID
		t.ToAccountID = &id
	}
	if f.ClearToAccount {
		t.ToAccountID = nil
	}
	if f.IsCleared != nil {
		t.IsCleared = *f.IsCleared
	}
	if f.Description != nil {
		t.Description = *f.Description
	}
	if f.Notes != nil {
		t.Notes = *f.Notes
	}
	if f.Reference != nil {
		t.Reference = *f.Reference
	}
	if f.Location != nil {
		t.Location = *f.Location
	}
	if f.ReceiptURL != nil {
		t.ReceiptURL = *f.ReceiptURL
	}
	if t.Type != models.TransactionTypeTransfer {
		t.ToAccountID = nil
	}
}

// DeleteTransaction reverses the effect of a transaction and removes it.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		transaction, err := findTransaction(tx, userID, transactionID)
		if err != nil {
			return err
		}
		if err := s.ledger.Reverse(tx, transaction); err != nil {
			return err
		}
		result := tx.Where("id = ? AND user_id = ?", transactionID, userID).Delete(&models.Transaction{})
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrTransactionNotFound
		}
		return nil
	})
}

// GetTransactionSummary totals the user's transactions in an optional date
// window in a single pass. Transfers count towards TransactionCount and
// ByCategory but neither income nor expenses.
func (s *transactionService) GetTransactionSummary(ctx context.Context, userID string, startDate, endDate *time.Time) (*TransactionSummary, error) {
	q := s.db.WithContext(ctx).Preload("Category").Where("user_id = ?", userID)
	q = applyTransactionFilters(q, TransactionFilter{StartDate: startDate, EndDate: endDate})

	var transactions []models.Transaction
	if err := q.Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &TransactionSummary{
		TransactionCount: len(transactions),
		ByCategory:       make(map[string]CategoryTotal),
	}
	for _, t := range transactions {
		switch t.Type {
		case models.TransactionTypeIncome:
			summary.TotalIncome += t.Amount
		case models.TransactionTypeExpense:
			summary.TotalExpenses += t.Amount
		}

		entry, ok := summary.ByCategory[t.CategoryID]
		if !ok {
			entry = CategoryTotal{CategoryID: t.CategoryID, CategoryName: "Unknown"}
			if t.Category != nil {
				entry.CategoryName = t.Category.Name
			}
		}
		entry.Amount += t.Amount
		entry.Count++
		summary.ByCategory[t.CategoryID] = entry
	}
	summary.NetIncome = summary.TotalIncome - summary.TotalExpenses

	return summary, nil
}

// GetCategoryTotals groups transactions of one type in [startDate, endDate]
// by category, largest amount first.
func (s *transactionService) GetCategoryTotals(ctx context.Context, userID string, txType models.TransactionType, startDate, endDate time.Time) ([]CategoryTotal, error) {
	type row struct {
		CategoryID   string
		CategoryName *string
		Amount       int64
		Count        int64
	}

	var rows []row
	if err := s.db.WithContext(ctx).
		Table("transactions").
		Select("transactions.category_id AS category_id, categories.name AS category_name, COALESCE(SUM(transactions.amount), 0) AS amount, COUNT(*) AS count").
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.type = ? AND transactions.date >= ? AND transactions.date <= ?",
			userID, txType, models.TruncateDate(startDate), models.TruncateDate(endDate)).
		Group("transactions.category_id, categories.name").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := make([]CategoryTotal, 0, len(rows))
	for _, r := range rows {
		name := "Unknown"
		if r.CategoryName != nil {
			name = *r.CategoryName
		}
		totals = append(totals, CategoryTotal{
			CategoryID:   r.CategoryID,
			CategoryName: name,
			Amount:       money.Amount(r.Amount),
			Count:        int(r.Count),
		})
	}
	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].Amount != totals[j].Amount {
			return totals[i].Amount > totals[j].Amount
		}
		return totals[i].CategoryName < totals[j].CategoryName
	})
	return totals, nil
}
