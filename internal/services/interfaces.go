package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/pagination"
)

// UserServicer resolves token subjects to active users. Registration and
// profile management are handled by the identity provider.
type UserServicer interface {
	GetActiveUser(ctx context.Context, userID string) (*models.User, error)
}

// CreateAccountInput holds the fields accepted when opening an account.
type CreateAccountInput struct {
	Name              string
	Type              models.AccountType
	InitialBalance    money.Amount
	Currency          string
	AccountNumber     string
	BankName          string
	Description       string
	Color             string
	IncludeInNetWorth *bool
}

// AccountUpdateFields lists the account fields a caller may patch. Nil fields are left unchanged.
type AccountUpdateFields struct {
	Name              *string
	Type              *models.AccountType
	InitialBalance    *money.Amount
	Currency          *string
	AccountNumber     *string
	BankName          *string
	Description       *string
	Color             *string
	IsActive          *bool
	IncludeInNetWorth *bool
}

// AccountTypeSummary aggregates the accounts of one type.
type AccountTypeSummary struct {
	Count   int          `json:"count"`
	Balance money.Amount `json:"balance"`
}

// AccountSummary aggregates a user's active accounts.
type AccountSummary struct {
	TotalAccounts int                                       `json:"total_accounts"`
	TotalBalance  money.Amount                              `json:"total_balance"`
	NetWorth      money.Amount                              `json:"net_worth"`
	ByType        map[models.AccountType]AccountTypeSummary `json:"by_type"`
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(ctx context.Context, userID string, input CreateAccountInput) (*models.Account, error)
	GetUserAccounts(ctx context.Context, userID string, includeInactive bool) ([]models.Account, error)
	GetAccountByID(ctx context.Context, userID, accountID string) (*models.Account, error)
	GetAccountsByType(ctx context.Context, userID string, accountType models.AccountType) ([]models.Account, error)
	UpdateAccount(ctx context.Context, userID, accountID string, fields AccountUpdateFields) (*models.Account, error)
	SetBalance(ctx context.Context, userID, accountID string, balance money.Amount) (*models.Account, error)
	DeleteAccount(ctx context.Context, userID, accountID string) error
	GetNetWorth(ctx context.Context, userID string) (money.Amount, error)
	GetAccountSummary(ctx context.Context, userID string) (*AccountSummary, error)
	// AdjustBalance atomically adds delta to the account balance using the
	// caller's database handle, so it commits or rolls back with the caller.
	AdjustBalance(tx *gorm.DB, userID, accountID string, delta money.Amount) (*models.Account, error)
}

// CreateCategoryInput holds the fields accepted when creating a category.
type CreateCategoryInput struct {
	Name        string
	Type        models.CategoryType
	Description string
	Icon        string
	Color       string
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(ctx context.Context, userID string, input CreateCategoryInput) (*models.Category, error)
	GetUserCategories(ctx context.Context, userID string, categoryType *models.CategoryType) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, userID, categoryID string) (*models.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID string) error
	SeedDefaults(ctx context.Context) error
}

// CreateTransactionInput holds the fields accepted when recording a transaction.
type CreateTransactionInput struct {
	Amount      money.Amount
	Type        models.TransactionType
	Date        time.Time
	AccountID   string
	CategoryID  string
	ToAccountID *string
	IsCleared   bool
	Description string
	Notes       string
	Reference   string
	Location    string
	ReceiptURL  string
}

// TransactionUpdateFields lists the transaction fields a caller may patch.
// Nil fields are left unchanged. ClearToAccount removes the destination account.
type TransactionUpdateFields struct {
	Amount         *money.Amount
	Type           *models.TransactionType
	Date           *time.Time
	AccountID      *string
	CategoryID     *string
	ToAccountID    *string
	ClearToAccount bool
	IsCleared      *bool
	Description    *string
	Notes          *string
	Reference      *string
	Location       *string
	ReceiptURL     *string
}

// TransactionFilter holds optional filter and sort parameters for listing transactions.
type TransactionFilter struct {
	Type       *models.TransactionType
	CategoryID *string
	AccountID  *string
	StartDate  *time.Time
	EndDate    *time.Time
	MinAmount  *money.Amount
	MaxAmount  *money.Amount
	Search     string
	SortBy     string
	SortOrder  string
}

// CategoryTotal is the aggregate of transactions booked against one category.
type CategoryTotal struct {
	CategoryID   string       `json:"category_id"`
	CategoryName string       `json:"category_name"`
	Amount       money.Amount `json:"amount"`
	Count        int          `json:"count"`
}

// TransactionSummary aggregates the transactions of a date window.
type TransactionSummary struct {
	TotalIncome      money.Amount             `json:"total_income"`
	TotalExpenses    money.Amount             `json:"total_expenses"`
	NetIncome        money.Amount             `json:"net_income"`
	TransactionCount int                      `json:"transaction_count"`
	ByCategory       map[string]CategoryTotal `json:"by_category"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, userID string, input CreateTransactionInput) (*models.Transaction, error)
	GetTransactionByID(ctx context.Context, userID, transactionID string) (*models.Transaction, error)
	GetUserTransactions(ctx context.Context, userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetAccountTransactions(ctx context.Context, userID, accountID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	UpdateTransaction(ctx context.Context, userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
	GetTransactionSummary(ctx context.Context, userID string, startDate, endDate *time.Time) (*TransactionSummary, error)
	GetCategoryTotals(ctx context.Context, userID string, txType models.TransactionType, startDate, endDate time.Time) ([]CategoryTotal, error)
}

// CreateBudgetInput holds the fields accepted when creating a budget.
type CreateBudgetInput struct {
	CategoryID     string
	Name           string
	Amount         money.Amount
	Period         models.BudgetPeriod
	StartDate      time.Time
	EndDate        time.Time
	IsRecurring    bool
	AlertThreshold *int
	AlertEnabled   *bool
}

// BudgetUpdateFields lists the budget fields a caller may patch. Nil fields are left unchanged.
type BudgetUpdateFields struct {
	CategoryID     *string
	Name           *string
	Amount         *money.Amount
	Period         *models.BudgetPeriod
	StartDate      *time.Time
	EndDate        *time.Time
	IsActive       *bool
	IsRecurring    *bool
	AlertThreshold *int
	AlertEnabled   *bool
}

// BudgetProgress contains spending vs budget data for a budget's window.
type BudgetProgress struct {
	BudgetID   string       `json:"budget_id"`
	Budgeted   money.Amount `json:"budgeted"`
	Spent      money.Amount `json:"spent"`
	Remaining  money.Amount `json:"remaining"`
	Percentage float64      `json:"percentage"`
	Alert      bool         `json:"alert"`
}

// BudgetSummary aggregates a user's active budgets.
type BudgetSummary struct {
	TotalBudgets      int          `json:"total_budgets"`
	TotalBudgetAmount money.Amount `json:"total_budget_amount"`
	TotalSpent        money.Amount `json:"total_spent"`
	TotalRemaining    money.Amount `json:"total_remaining"`
	OverBudgetCount   int          `json:"over_budget_count"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(ctx context.Context, userID string, input CreateBudgetInput) (*models.Budget, error)
	GetUserBudgets(ctx context.Context, userID string) ([]models.Budget, error)
	GetBudgetByID(ctx context.Context, userID, budgetID string) (*models.Budget, error)
	UpdateBudget(ctx context.Context, userID, budgetID string, fields BudgetUpdateFields) (*models.Budget, error)
	DeleteBudget(ctx context.Context, userID, budgetID string) error
	RecalculateBudget(ctx context.Context, userID, budgetID string) (*models.Budget, error)
	GetBudgetSummary(ctx context.Context, userID string) (*BudgetSummary, error)
	GetBudgetProgress(ctx context.Context, userID, budgetID string) (*BudgetProgress, error)
	// ApplySpending moves delta into the spent total of every active budget of
	// the category whose window contains date, using the caller's database handle.
	ApplySpending(tx *gorm.DB, userID, categoryID string, date time.Time, delta money.Amount) error
}

// CreateGoalInput holds the fields accepted when creating a goal.
type CreateGoalInput struct {
	Name                string
	Description         string
	Type                models.GoalType
	TargetAmount        money.Amount
	CurrentAmount       money.Amount
	StartDate           time.Time
	TargetDate          time.Time
	MonthlyContribution money.Amount
	Color               string
	Icon                string
	Notes               string
	AutoContribute      bool
	LinkedAccountID     *string
}

// GoalUpdateFields lists the goal fields a caller may patch. Nil fields are left unchanged.
type GoalUpdateFields struct {
	Name                *string
	Description         *string
	Type                *models.GoalType
	TargetAmount        *money.Amount
	Status              *models.GoalStatus
	StartDate           *time.Time
	TargetDate          *time.Time
	MonthlyContribution *money.Amount
	Color               *string
	Icon                *string
	Notes               *string
	AutoContribute      *bool
	LinkedAccountID     *string
}

// GoalSummary aggregates a user's active goals.
type GoalSummary struct {
	TotalGoals         int          `json:"total_goals"`
	ActiveGoals        int          `json:"active_goals"`
	CompletedGoals     int          `json:"completed_goals"`
	TotalTargetAmount  money.Amount `json:"total_target_amount"`
	TotalCurrentAmount money.Amount `json:"total_current_amount"`
	AverageProgress    float64      `json:"average_progress"`
}

// GoalServicer defines the contract for goal-related business logic.
type GoalServicer interface {
	CreateGoal(ctx context.Context, userID string, input CreateGoalInput) (*models.Goal, error)
	GetUserGoals(ctx context.Context, userID string) ([]models.Goal, error)
	GetGoalByID(ctx context.Context, userID, goalID string) (*models.Goal, error)
	UpdateGoal(ctx context.Context, userID, goalID string, fields GoalUpdateFields) (*models.Goal, error)
	UpdateProgress(ctx context.Context, userID, goalID string, amount money.Amount) (*models.Goal, error)
	DeleteGoal(ctx context.Context, userID, goalID string) error
	GetGoalSummary(ctx context.Context, userID string) (*GoalSummary, error)
}

// HealthMetrics is a snapshot of a user's financial position for the current month.
type HealthMetrics struct {
	NetWorth             money.Amount `json:"net_worth"`
	MonthlyIncome        money.Amount `json:"monthly_income"`
	MonthlyExpenses      money.Amount `json:"monthly_expenses"`
	MonthlySavings       money.Amount `json:"monthly_savings"`
	SavingsRate          float64      `json:"savings_rate"`
	DebtToIncomeRatio    float64      `json:"debt_to_income_ratio"`
	EmergencyFundRatio   float64      `json:"emergency_fund_ratio"`
	BudgetUtilization    float64      `json:"budget_utilization"`
	GoalProgress         float64      `json:"goal_progress"`
	FinancialHealthScore int          `json:"financial_health_score"`
}

// CategoryShare is one category's share of a total.
type CategoryShare struct {
	CategoryID   string       `json:"category_id"`
	CategoryName string       `json:"category_name"`
	Amount       money.Amount `json:"amount"`
	Percentage   float64      `json:"percentage"`
}

// MonthlyAmount is one point of a month-by-month trend.
type MonthlyAmount struct {
	Month  string       `json:"month"`
	Amount money.Amount `json:"amount"`
}

// ExpenseAnalysis describes spending over a date window.
type ExpenseAnalysis struct {
	TotalExpenses  money.Amount    `json:"total_expenses"`
	AverageDaily   money.Amount    `json:"average_daily"`
	AverageWeekly  money.Amount    `json:"average_weekly"`
	AverageMonthly money.Amount    `json:"average_monthly"`
	TopCategories  []CategoryShare `json:"top_categories"`
	MonthlyTrend   []MonthlyAmount `json:"monthly_trend"`
}

// IncomeAnalysis describes income over a date window.
type IncomeAnalysis struct {
	TotalIncome    money.Amount    `json:"total_income"`
	AverageMonthly money.Amount    `json:"average_monthly"`
	Sources        []CategoryShare `json:"sources"`
	MonthlyTrend   []MonthlyAmount `json:"monthly_trend"`
}

// BudgetUsage reports one budget against its spending.
type BudgetUsage struct {
	BudgetID        string       `json:"budget_id"`
	CategoryID      string       `json:"category_id"`
	CategoryName    string       `json:"category_name"`
	Budgeted        money.Amount `json:"budgeted"`
	Spent           money.Amount `json:"spent"`
	OverAmount      money.Amount `json:"over_amount,omitempty"`
	RemainingAmount money.Amount `json:"remaining_amount,omitempty"`
}

// BudgetAnalysis splits active budgets into over and under budget.
type BudgetAnalysis struct {
	TotalBudgeted         money.Amount  `json:"total_budgeted"`
	TotalSpent            money.Amount  `json:"total_spent"`
	UtilizationRate       float64       `json:"utilization_rate"`
	OverBudgetCategories  []BudgetUsage `json:"over_budget_categories"`
	UnderBudgetCategories []BudgetUsage `json:"under_budget_categories"`
}

// Dashboard bundles every analysis for one user.
type Dashboard struct {
	HealthMetrics   *HealthMetrics   `json:"health_metrics"`
	ExpenseAnalysis *ExpenseAnalysis `json:"expense_analysis"`
	IncomeAnalysis  *IncomeAnalysis  `json:"income_analysis"`
	BudgetAnalysis  *BudgetAnalysis  `json:"budget_analysis"`
}

// AnalyticsServicer defines the contract for read-only financial analytics.
type AnalyticsServicer interface {
	GetHealthMetrics(ctx context.Context, userID string) (*HealthMetrics, error)
	GetExpenseAnalysis(ctx context.Context, userID string, startDate, endDate *time.Time) (*ExpenseAnalysis, error)
	GetIncomeAnalysis(ctx context.Context, userID string, startDate, endDate *time.Time) (*IncomeAnalysis, error)
	GetBudgetAnalysis(ctx context.Context, userID string) (*BudgetAnalysis, error)
	GetDashboard(ctx context.Context, userID string) (*Dashboard, error)
}
