// Package server wires services, handlers and middleware into the HTTP router.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "fintrack/internal/docs" // swagger docs
	"fintrack/internal/handlers"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services is the full set of domain services behind the API.
type Services struct {
	Users        services.UserServicer
	Accounts     services.AccountServicer
	Categories   services.CategoryServicer
	Transactions services.TransactionServicer
	Budgets      services.BudgetServicer
	Goals        services.GoalServicer
	Analytics    services.AnalyticsServicer
}

// NewServices builds every service on top of db.
func NewServices(db *gorm.DB) *Services {
	accounts := services.NewAccountService(db)
	categories := services.NewCategoryService(db)
	budgets := services.NewBudgetService(db)
	transactions := services.NewTransactionService(db, accounts, budgets)
	goals := services.NewGoalService(db, accounts)

	return &Services{
		Users:        services.NewUserService(db),
		Accounts:     accounts,
		Categories:   categories,
		Transactions: transactions,
		Budgets:      budgets,
		Goals:        goals,
		Analytics:    services.NewAnalyticsService(accounts, transactions, budgets, goals),
	}
}

// NewRouter returns the gin engine serving the v1 API. health may be nil.
func NewRouter(svc *Services, health Pinger) *gin.Engine {
	accountHandler := handlers.NewAccountHandler(svc.Accounts)
	categoryHandler := handlers.NewCategoryHandler(svc.Categories)
	transactionHandler := handlers.NewTransactionHandler(svc.Transactions)
	budgetHandler := handlers.NewBudgetHandler(svc.Budgets)
	goalHandler := handlers.NewGoalHandler(svc.Goals)
	analyticsHandler := handlers.NewAnalyticsHandler(svc.Analytics)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/api/health", healthCheck(health))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(svc.Users))

	accounts := v1.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetUserAccounts)
	accounts.GET("/net-worth", accountHandler.GetNetWorth)
	accounts.GET("/summary", accountHandler.GetAccountSummary)
	accounts.GET("/:id", accountHandler.GetAccountByID)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.PUT("/:id/balance", accountHandler.SetBalance)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)
	accounts.GET("/:id/transactions", transactionHandler.GetAccountTransactions)

	categories := v1.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetUserCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	transactions := v1.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/summary", transactionHandler.GetTransactionSummary)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	budgets := v1.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetUserBudgets)
	budgets.GET("/summary", budgetHandler.GetBudgetSummary)
	budgets.GET("/:id", budgetHandler.GetBudgetByID)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)
	budgets.POST("/:id/recalculate", budgetHandler.RecalculateBudget)

	goals := v1.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetUserGoals)
	goals.GET("/summary", goalHandler.GetGoalSummary)
	goals.GET("/:id", goalHandler.GetGoalByID)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.PUT("/:id/progress", goalHandler.UpdateGoalProgress)
	goals.DELETE("/:id", goalHandler.DeleteGoal)

	analytics := v1.Group("/analytics")
	analytics.GET("/health", analyticsHandler.GetHealthMetrics)
	analytics.GET("/expenses", analyticsHandler.GetExpenseAnalysis)
	analytics.GET("/income", analyticsHandler.GetIncomeAnalysis)
	analytics.GET("/budgets", analyticsHandler.GetBudgetAnalysis)
	analytics.GET("/dashboard", analyticsHandler.GetDashboard)

	return router
}

func healthCheck(p Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
