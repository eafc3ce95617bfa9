package handlers

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// --- mock account service ---

type mockAccountService struct {
	createAccountFn     func(userID string, input services.CreateAccountInput) (*models.Account, error)
	getUserAccountsFn   func(userID string, includeInactive bool) ([]models.Account, error)
	getAccountByIDFn    func(userID, accountID string) (*models.Account, error)
	getAccountsByTypeFn func(userID string, accountType models.AccountType) ([]models.Account, error)
	updateAccountFn     func(userID, accountID string, fields services.AccountUpdateFields) (*models.Account, error)
	setBalanceFn        func(userID, accountID string, balance money.Amount) (*models.Account, error)
	deleteAccountFn     func(userID, accountID string) error
	getNetWorthFn       func(userID string) (money.Amount, error)
}

func (m *mockAccountService) CreateAccount(_ context.Context, userID string, input services.CreateAccountInput) (*models.Account, error) {
	if m.createAccountFn != nil {
		return m.createAccountFn(userID, input)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) GetUserAccounts(_ context.Context, userID string, includeInactive bool) ([]models.Account, error) {
	if m.getUserAccountsFn != nil {
		return m.getUserAccountsFn(userID, includeInactive)
	}
	return []models.Account{}, nil
}

func (m *mockAccountService) GetAccountByID(_ context.Context, userID, accountID string) (*models.Account, error) {
	if m.getAccountByIDFn != nil {
		return m.getAccountByIDFn(userID, accountID)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) GetAccountsByType(_ context.Context, userID string, accountType models.AccountType) ([]models.Account, error) {
	if m.getAccountsByTypeFn != nil {
		return m.getAccountsByTypeFn(userID, accountType)
	}
	return []models.Account{}, nil
}

func (m *mockAccountService) UpdateAccount(_ context.Context, userID, accountID string, fields services.AccountUpdateFields) (*models.Account, error) {
	if m.updateAccountFn != nil {
		return m.updateAccountFn(userID, accountID, fields)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) SetBalance(_ context.Context, userID, accountID string, balance money.Amount) (*models.Account, error) {
	if m.setBalanceFn != nil {
		return m.setBalanceFn(userID, accountID, balance)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) DeleteAccount(_ context.Context, userID, accountID string) error {
	if m.deleteAccountFn != nil {
		return m.deleteAccountFn(userID, accountID)
	}
	return nil
}

func (m *mockAccountService) GetNetWorth(_ context.Context, userID string) (money.Amount, error) {
	if m.getNetWorthFn != nil {
		return m.getNetWorthFn(userID)
	}
	return 0, nil
}

func (m *mockAccountService) GetAccountSummary(_ context.Context, _ string) (*services.AccountSummary, error) {
	return &services.AccountSummary{}, nil
}

func (m *mockAccountService) AdjustBalance(_ *gorm.DB, _, _ string, _ money.Amount) (*models.Account, error) {
	return &models.Account{}, nil
}

// --- mock category service ---

type mockCategoryService struct {
	createCategoryFn    func(userID string, input services.CreateCategoryInput) (*models.Category, error)
	getUserCategoriesFn func(userID string, categoryType *models.CategoryType) ([]models.Category, error)
	getCategoryByIDFn   func(userID, categoryID string) (*models.Category, error)
	deleteCategoryFn    func(userID, categoryID string) error
}

func (m *mockCategoryService) CreateCategory(_ context.Context, userID string, input services.CreateCategoryInput) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(userID, input)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) GetUserCategories(_ context.Context, userID string, categoryType *models.CategoryType) ([]models.Category, error) {
	if m.getUserCategoriesFn != nil {
		return m.getUserCategoriesFn(userID, categoryType)
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) GetCategoryByID(_ context.Context, userID, categoryID string) (*models.Category, error) {
	if m.getCategoryByIDFn != nil {
		return m.getCategoryByIDFn(userID, categoryID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) DeleteCategory(_ context.Context, userID, categoryID string) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(userID, categoryID)
	}
	return nil
}

func (m *mockCategoryService) SeedDefaults(_ context.Context) error { return nil }

// --- mock transaction service ---

type mockTransactionService struct {
	createTransactionFn      func(userID string, input services.CreateTransactionInput) (*models.Transaction, error)
	getTransactionByIDFn     func(userID, transactionID string) (*models.Transaction, error)
	getUserTransactionsFn    func(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getAccountTransactionsFn func(userID, accountID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	updateTransactionFn      func(userID, transactionID string, fields services.TransactionUpdateFields) (*models.Transaction, error)
	deleteTransactionFn      func(userID, transactionID string) error
	getTransactionSummaryFn  func(userID string, startDate, endDate *time.Time) (*services.TransactionSummary, error)
}

func (m *mockTransactionService) CreateTransaction(_ context.Context, userID string, input services.CreateTransactionInput) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(userID, input)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetTransactionByID(_ context.Context, userID, transactionID string) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(userID, transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetUserTransactions(_ context.Context, userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getUserTransactionsFn != nil {
		return m.getUserTransactionsFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetAccountTransactions(_ context.Context, userID, accountID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getAccountTransactionsFn != nil {
		return m.getAccountTransactionsFn(userID, accountID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) UpdateTransaction(_ context.Context, userID, transactionID string, fields services.TransactionUpdateFields) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(userID, transactionID, fields)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(_ context.Context, userID, transactionID string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(userID, transactionID)
	}
	return nil
}

func (m *mockTransactionService) GetTransactionSummary(_ context.Context, userID string, startDate, endDate *time.Time) (*services.TransactionSummary, error) {
	if m.getTransactionSummaryFn != nil {
		return m.getTransactionSummaryFn(userID, startDate, endDate)
	}
	return &services.TransactionSummary{}, nil
}

func (m *mockTransactionService) GetCategoryTotals(_ context.Context, _ string, _ models.TransactionType, _, _ time.Time) ([]services.CategoryTotal, error) {
	return nil, nil
}

// --- mock budget service ---

type mockBudgetService struct {
	createBudgetFn      func(userID string, input services.CreateBudgetInput) (*models.Budget, error)
	getUserBudgetsFn    func(userID string) ([]models.Budget, error)
	getBudgetByIDFn     func(userID, budgetID string) (*models.Budget, error)
	updateBudgetFn      func(userID, budgetID string, fields services.BudgetUpdateFields) (*models.Budget, error)
	deleteBudgetFn      func(userID, budgetID string) error
	recalculateBudgetFn func(userID, budgetID string) (*models.Budget, error)
	getBudgetProgressFn func(userID, budgetID string) (*services.BudgetProgress, error)
}

func (m *mockBudgetService) CreateBudget(_ context.Context, userID string, input services.CreateBudgetInput) (*models.Budget, error) {
	if m.createBudgetFn != nil {
		return m.createBudgetFn(userID, input)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) GetUserBudgets(_ context.Context, userID string) ([]models.Budget, error) {
	if m.getUserBudgetsFn != nil {
		return m.getUserBudgetsFn(userID)
	}
	return []models.Budget{}, nil
}

func (m *mockBudgetService) GetBudgetByID(_ context.Context, userID, budgetID string) (*models.Budget, error) {
	if m.getBudgetByIDFn != nil {
		return m.getBudgetByIDFn(userID, budgetID)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) UpdateBudget(_ context.Context, userID, budgetID string, fields services.BudgetUpdateFields) (*models.Budget, error) {
	if m.updateBudgetFn != nil {
		return m.updateBudgetFn(userID, budgetID, fields)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) DeleteBudget(_ context.Context, userID, budgetID string) error {
	if m.deleteBudgetFn != nil {
		return m.deleteBudgetFn(userID, budgetID)
	}
	return nil
}

func (m *mockBudgetService) RecalculateBudget(_ context.Context, userID, budgetID string) (*models.Budget, error) {
	if m.recalculateBudgetFn != nil {
		return m.recalculateBudgetFn(userID, budgetID)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) GetBudgetSummary(_ context.Context, _ string) (*services.BudgetSummary, error) {
	return &services.BudgetSummary{}, nil
}

func (m *mockBudgetService) GetBudgetProgress(_ context.Context, userID, budgetID string) (*services.BudgetProgress, error) {
	if m.getBudgetProgressFn != nil {
		return m.getBudgetProgressFn(userID, budgetID)
	}
	return &services.BudgetProgress{}, nil
}

func (m *mockBudgetService) ApplySpending(_ *gorm.DB, _, _ string, _ time.Time, _ money.Amount) error {
	return nil
}

// --- mock goal service ---

type mockGoalService struct {
	createGoalFn     func(userID string, input services.CreateGoalInput) (*models.Goal, error)
	getGoalByIDFn    func(userID, goalID string) (*models.Goal, error)
	updateGoalFn     func(userID, goalID string, fields services.GoalUpdateFields) (*models.Goal, error)
	updateProgressFn func(userID, goalID string, amount money.Amount) (*models.Goal, error)
	deleteGoalFn     func(userID, goalID string) error
	getGoalSummaryFn func(userID string) (*services.GoalSummary, error)
}

func (m *mockGoalService) CreateGoal(_ context.Context, userID string, input services.CreateGoalInput) (*models.Goal, error) {
	if m.createGoalFn != nil {
		return m.createGoalFn(userID, input)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) GetUserGoals(_ context.Context, _ string) ([]models.Goal, error) {
	return []models.Goal{}, nil
}

func (m *mockGoalService) GetGoalByID(_ context.Context, userID, goalID string) (*models.Goal, error) {
	if m.getGoalByIDFn != nil {
		return m.getGoalByIDFn(userID, goalID)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) UpdateGoal(_ context.Context, userID, goalID string, fields services.GoalUpdateFields) (*models.Goal, error) {
	if m.updateGoalFn != nil {
		return m.updateGoalFn(userID, goalID, fields)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) UpdateProgress(_ context.Context, userID, goalID string, amount money.Amount) (*models.Goal, error) {
	if m.updateProgressFn != nil {
		return m.updateProgressFn(userID, goalID, amount)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) DeleteGoal(_ context.Context, userID, goalID string) error {
	if m.deleteGoalFn != nil {
		return m.deleteGoalFn(userID, goalID)
	}
	return nil
}

func (m *mockGoalService) GetGoalSummary(_ context.Context, userID string) (*services.GoalSummary, error) {
	if m.getGoalSummaryFn != nil {
		return m.getGoalSummaryFn(userID)
	}
	return &services.GoalSummary{}, nil
}

// --- mock analytics service ---

type mockAnalyticsService struct {
	getHealthMetricsFn   func(userID string) (*services.HealthMetrics, error)
	getExpenseAnalysisFn func(userID string, startDate, endDate *time.Time) (*services.ExpenseAnalysis, error)
	getIncomeAnalysisFn  func(userID string, startDate, endDate *time.Time) (*services.IncomeAnalysis, error)
}

func (m *mockAnalyticsService) GetHealthMetrics(_ context.Context, userID string) (*services.HealthMetrics, error) {
	if m.getHealthMetricsFn != nil {
		return m.getHealthMetricsFn(userID)
	}
	return &services.HealthMetrics{}, nil
}

func (m *mockAnalyticsService) GetExpenseAnalysis(_ context.Context, userID string, startDate, endDate *time.Time) (*services.ExpenseAnalysis, error) {
	if m.getExpenseAnalysisFn != nil {
		return m.getExpenseAnalysisFn(userID, startDate, endDate)
	}
	return &services.ExpenseAnalysis{}, nil
}

func (m *mockAnalyticsService) GetIncomeAnalysis(_ context.Context, userID string, startDate, endDate *time.Time) (*services.IncomeAnalysis, error) {
	if m.getIncomeAnalysisFn != nil {
		return m.getIncomeAnalysisFn(userID, startDate, endDate)
	}
	return &services.IncomeAnalysis{}, nil
}

func (m *mockAnalyticsService) GetBudgetAnalysis(_ context.Context, _ string) (*services.BudgetAnalysis, error) {
	return &services.BudgetAnalysis{}, nil
}

func (m *mockAnalyticsService) GetDashboard(_ context.Context, _ string) (*services.Dashboard, error) {
	return &services.Dashboard{}, nil
}

// verify interface compliance
var (
	_ services.AccountServicer     = (*mockAccountService)(nil)
	_ services.CategoryServicer    = (*mockCategoryService)(nil)
	_ services.TransactionServicer = (*mockTransactionService)(nil)
	_ services.BudgetServicer      = (*mockBudgetService)(nil)
	_ services.GoalServicer        = (*mockGoalService)(nil)
	_ services.AnalyticsServicer   = (*mockAnalyticsService)(nil)
)
