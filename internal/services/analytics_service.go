package services

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/money"
)

const (
	daysPerWeek     = 7
	daysPerMonth    = 30.44
	topExpenseLimit = 10
)

// analyticsService derives read-only figures from the ledger, accounts,
// budgets and goals. It never writes.
type analyticsService struct {
	accounts     AccountServicer
	transactions TransactionServicer
	budgets      BudgetServicer
	goals        GoalServicer
	now          func() time.Time
}

// NewAnalyticsService creates a new AnalyticsServicer.
func NewAnalyticsService(accounts AccountServicer, transactions TransactionServicer, budgets BudgetServicer, goals GoalServicer) AnalyticsServicer {
	return &analyticsService{
		accounts:     accounts,
		transactions: transactions,
		budgets:      budgets,
		goals:        goals,
		now:          time.Now,
	}
}

// GetHealthMetrics computes the current month's financial health snapshot.
func (s *analyticsService) GetHealthMetrics(ctx context.Context, userID string) (*HealthMetrics, error) {
	monthStart, monthEnd := models.MonthBounds(s.now())

	netWorth, err := s.accounts.GetNetWorth(ctx, userID)
	if err != nil {
		return nil, err
	}
	accountSummary, err := s.accounts.GetAccountSummary(ctx, userID)
	if err != nil {
		return nil, err
	}
	budgetSummary, err := s.budgets.GetBudgetSummary(ctx, userID)
	if err != nil {
		return nil, err
	}
	goalSummary, err := s.goals.GetGoalSummary(ctx, userID)
	if err != nil {
		return nil, err
	}
	month, err := s.transactions.GetTransactionSummary(ctx, userID, &monthStart, &monthEnd)
	if err != nil {
		return nil, err
	}

	income := month.TotalIncome
	expenses := month.TotalExpenses
	savings := income - expenses
	debt := (accountSummary.ByType[models.AccountTypeCreditCard].Balance +
		accountSummary.ByType[models.AccountTypeLoan].Balance).Abs()
	emergencyFund := accountSummary.ByType[models.AccountTypeSavings].Balance

	metrics := &HealthMetrics{
		NetWorth:           netWorth,
		MonthlyIncome:      income,
		MonthlyExpenses:    expenses,
		MonthlySavings:     savings,
		SavingsRate:        money.Percent(savings, income),
		DebtToIncomeRatio:  money.Percent(debt, income),
		EmergencyFundRatio: money.Ratio(emergencyFund, expenses),
		BudgetUtilization:  money.Percent(budgetSummary.TotalSpent, budgetSummary.TotalBudgetAmount),
		GoalProgress:       goalSummary.AverageProgress,
	}
	metrics.FinancialHealthScore = FinancialHealthScore(ScoreInputs{
		SavingsRate:        metrics.SavingsRate,
		DebtToIncomeRatio:  metrics.DebtToIncomeRatio,
		EmergencyFundRatio: metrics.EmergencyFundRatio,
		BudgetUtilization:  metrics.BudgetUtilization,
		GoalProgress:       metrics.GoalProgress,
	})

	return metrics, nil
}

// GetExpenseAnalysis describes spending over [startDate, endDate], defaulting
// to the trailing twelve months when either bound is missing.
func (s *analyticsService) GetExpenseAnalysis(ctx context.Context, userID string, startDate, endDate *time.Time) (*ExpenseAnalysis, error) {
	start, end, err := s.window(startDate, endDate)
	if err != nil {
		return nil, err
	}

	totals, err := s.transactions.GetCategoryTotals(ctx, userID, models.TransactionTypeExpense, start, end)
	if err != nil {
		return nil, err
	}
	var total money.Amount
	for _, t := range totals {
		total += t.Amount
	}

	trend, err := s.monthlyTrend(ctx, userID, start, end, models.TransactionTypeExpense)
	if err != nil {
		return nil, err
	}

	days := windowDays(start, end)
	top := shares(totals, total)
	if len(top) > topExpenseLimit {
		top = top[:topExpenseLimit]
	}

	return &ExpenseAnalysis{
		TotalExpenses:  total,
		AverageDaily:   total.DivFloat(days),
		AverageWeekly:  total.DivFloat(days / daysPerWeek),
		AverageMonthly: total.DivFloat(days / daysPerMonth),
		TopCategories:  top,
		MonthlyTrend:   trend,
	}, nil
}

// GetIncomeAnalysis describes income over [startDate, endDate], defaulting
// to the trailing twelve months when either bound is missing.
func (s *analyticsService) GetIncomeAnalysis(ctx context.Context, userID string, startDate, endDate *time.Time) (*IncomeAnalysis, error) {
	start, end, err := s.window(startDate, endDate)
	if err != nil {
		return nil, err
	}

	totals, err := s.transactions.GetCategoryTotals(ctx, userID, models.TransactionTypeIncome, start, end)
	if err != nil {
		return nil, err
	}
	var total money.Amount
	for _, t := range totals {
		total += t.Amount
	}

	trend, err := s.monthlyTrend(ctx, userID, start, end, models.TransactionTypeIncome)
	if err != nil {
		return nil, err
	}

	return &IncomeAnalysis{
		TotalIncome:    total,
		AverageMonthly: total.DivFloat(windowDays(start, end) / daysPerMonth),
		Sources:        shares(totals, total),
		MonthlyTrend:   trend,
	}, nil
}

// GetBudgetAnalysis splits active budgets into over and under budget.
func (s *analyticsService) GetBudgetAnalysis(ctx context.Context, userID string) (*BudgetAnalysis, error) {
	budgets, err := s.budgets.GetUserBudgets(ctx, userID)
	if err != nil {
		return nil, err
	}

	analysis := &BudgetAnalysis{
		OverBudgetCategories:  []BudgetUsage{},
		UnderBudgetCategories: []BudgetUsage{},
	}
	for _, b := range budgets {
		analysis.TotalBudgeted += b.Amount
		analysis.TotalSpent += b.Spent

		usage := BudgetUsage{
			BudgetID:     b.ID,
			CategoryID:   b.CategoryID,
			CategoryName: "Unknown",
			Budgeted:     b.Amount,
			Spent:        b.Spent,
		}
		if b.Category != nil {
			usage.CategoryName = b.Category.Name
		}
		if b.Spent > b.Amount {
			usage.OverAmount = b.Spent - b.Amount
			analysis.OverBudgetCategories = append(analysis.OverBudgetCategories, usage)
		} else {
			usage.RemainingAmount = b.Amount - b.Spent
			analysis.UnderBudgetCategories = append(analysis.UnderBudgetCategories, usage)
		}
	}
	analysis.UtilizationRate = money.Percent(analysis.TotalSpent, analysis.TotalBudgeted)

	sort.SliceStable(analysis.OverBudgetCategories, func(i, j int) bool {
		return analysis.OverBudgetCategories[i].OverAmount > analysis.OverBudgetCategories[j].OverAmount
	})
	sort.SliceStable(analysis.UnderBudgetCategories, func(i, j int) bool {
		return analysis.UnderBudgetCategories[i].RemainingAmount > analysis.UnderBudgetCategories[j].RemainingAmount
	})

	return analysis, nil
}

// GetDashboard runs every analysis concurrently. The first failure cancels
// the others and is returned.
func (s *analyticsService) GetDashboard(ctx context.Context, userID string) (*Dashboard, error) {
	g, gctx := errgroup.WithContext(ctx)
	dashboard := &Dashboard{}

	g.Go(func() error {
		m, err := s.GetHealthMetrics(gctx, userID)
		dashboard.HealthMetrics = m
		return err
	})
	g.Go(func() error {
		a, err := s.GetExpenseAnalysis(gctx, userID, nil, nil)
		dashboard.ExpenseAnalysis = a
		return err
	})
	g.Go(func() error {
		a, err := s.GetIncomeAnalysis(gctx, userID, nil, nil)
		dashboard.IncomeAnalysis = a
		return err
	})
	g.Go(func() error {
		a, err := s.GetBudgetAnalysis(gctx, userID)
		dashboard.BudgetAnalysis = a
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dashboard, nil
}

// window resolves the analysis window. Both bounds must be given to override
// the trailing-twelve-months default.
func (s *analyticsService) window(startDate, endDate *time.Time) (time.Time, time.Time, error) {
	if startDate == nil || endDate == nil {
		end := models.TruncateDate(s.now())
		return end.AddDate(-1, 0, 0), end, nil
	}
	start, end := models.TruncateDate(*startDate), models.TruncateDate(*endDate)
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must not be before start date")
	}
	return start, end, nil
}

// monthlyTrend re-queries the summary for every calendar month touched by the window.
func (s *analyticsService) monthlyTrend(ctx context.Context, userID string, start, end time.Time, txType models.TransactionType) ([]MonthlyAmount, error) {
	trend := []MonthlyAmount{}
	for month, _ := models.MonthBounds(start); !month.After(end); month = month.AddDate(0, 1, 0) {
		monthStart, monthEnd := models.MonthBounds(month)
		summary, err := s.transactions.GetTransactionSummary(ctx, userID, &monthStart, &monthEnd)
		if err != nil {
			return nil, err
		}
		amount := summary.TotalExpenses
		if txType == models.TransactionTypeIncome {
			amount = summary.TotalIncome
		}
		trend = append(trend, MonthlyAmount{Month: month.Format("2006-01"), Amount: amount})
	}
	return trend, nil
}

// windowDays is the whole number of days between start and end, at least one.
func windowDays(start, end time.Time) float64 {
	days := math.Ceil(end.Sub(start).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

func shares(totals []CategoryTotal, total money.Amount) []CategoryShare {
	out := make([]CategoryShare, 0, len(totals))
	for _, t := range totals {
		out = append(out, CategoryShare{
			CategoryID:   t.CategoryID,
			CategoryName: t.CategoryName,
			Amount:       t.Amount,
			Percentage:   money.Percent(t.Amount, total),
		})
	}
	return out
}
