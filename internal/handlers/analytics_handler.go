package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/services"
)

// AnalyticsHandler serves read-only financial analytics.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsServicer
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService services.AnalyticsServicer) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetHealthMetrics handles the financial health snapshot
// @Summary     Get financial health metrics
// @Description Net worth, current-month cash flow, ratios and the 0-100 financial health score
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.HealthMetrics "Health metrics"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/health [get]
func (h *AnalyticsHandler) GetHealthMetrics(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	metrics, err := h.analyticsService.GetHealthMetrics(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"health_metrics": metrics})
}

// GetExpenseAnalysis handles the expense breakdown of a window
// @Summary     Get expense analysis
// @Description Totals, averages, top categories and monthly trend. Defaults to the last twelve months.
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       start_date query string false "Window start (YYYY-MM-DD)"
// @Param       end_date   query string false "Window end (YYYY-MM-DD)"
// @Success     200 {object} services.ExpenseAnalysis "Expense analysis"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/expenses [get]
func (h *AnalyticsHandler) GetExpenseAnalysis(c *gin.Context) {
	userID, startDate, endDate, ok := h.windowParams(c)
	if !ok {
		return
	}

	analysis, err := h.analyticsService.GetExpenseAnalysis(c.Request.Context(), userID, startDate, endDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense_analysis": analysis})
}

// GetIncomeAnalysis handles the income breakdown of a window
// @Summary     Get income analysis
// @Description Total, monthly average, sources and monthly trend. Defaults to the last twelve months.
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       start_date query string false "Window start (YYYY-MM-DD)"
// @Param       end_date   query string false "Window end (YYYY-MM-DD)"
// @Success     200 {object} services.IncomeAnalysis "Income analysis"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/income [get]
func (h *AnalyticsHandler) GetIncomeAnalysis(c *gin.Context) {
	userID, startDate, endDate, ok := h.windowParams(c)
	if !ok {
		return
	}

	analysis, err := h.analyticsService.GetIncomeAnalysis(c.Request.Context(), userID, startDate, endDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"income_analysis": analysis})
}

// GetBudgetAnalysis handles the over/under budget split
// @Summary     Get budget analysis
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.BudgetAnalysis "Budget analysis"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/budgets [get]
func (h *AnalyticsHandler) GetBudgetAnalysis(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	analysis, err := h.analyticsService.GetBudgetAnalysis(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget_analysis": analysis})
}

// GetDashboard handles the combined analytics view
// @Summary     Get dashboard
// @Description Health metrics plus expense, income and budget analyses with default windows
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Dashboard "Dashboard"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/dashboard [get]
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dashboard, err := h.analyticsService.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// windowParams reads the caller and the optional start_date/end_date window.
// It writes the error response itself and reports false on failure.
func (h *AnalyticsHandler) windowParams(c *gin.Context) (string, *time.Time, *time.Time, bool) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return "", nil, nil, false
	}
	startDate, err := parseDateQuery(c, "start_date")
	if err != nil {
		respondWithError(c, err)
		return "", nil, nil, false
	}
	endDate, err := parseDateQuery(c, "end_date")
	if err != nil {
		respondWithError(c, err)
		return "", nil, nil, false
	}
	return userID, startDate, endDate, true
}
