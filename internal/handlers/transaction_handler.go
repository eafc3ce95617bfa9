package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
	"fintrack/internal/uuid"
)

// TransactionHandler handles transaction-related requests
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the request payload for recording a transaction.
// to_account_id is required for transfers and ignored otherwise.
type CreateTransactionRequest struct {
	AccountID   string                 `json:"account_id" binding:"required,uuid"`
	CategoryID  string                 `json:"category_id" binding:"required,uuid"`
	ToAccountID *string                `json:"to_account_id" binding:"omitempty,uuid"`
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
	Amount      money.Amount           `json:"amount" binding:"required,gt=0"`
	Date        string                 `json:"date" binding:"required"`
	IsCleared   bool                   `json:"is_cleared"`
	Description string                 `json:"description" binding:"max=255"`
	Notes       string                 `json:"notes" binding:"max=2000"`
	Reference   string                 `json:"reference" binding:"max=100"`
	Location    string                 `json:"location" binding:"max=255"`
	ReceiptURL  string                 `json:"receipt_url" binding:"omitempty,url,max=500"`
}

// UpdateTransactionRequest represents the request payload for patching a transaction.
// Omitted fields are unchanged; clear_to_account removes the destination account.
type UpdateTransactionRequest struct {
	AccountID      *string                 `json:"account_id" binding:"omitempty,uuid"`
	CategoryID     *string                 `json:"category_id" binding:"omitempty,uuid"`
	ToAccountID    *string                 `json:"to_account_id" binding:"omitempty,uuid"`
	ClearToAccount bool                    `json:"clear_to_account"`
	Type           *models.TransactionType `json:"type" binding:"omitempty,transaction_type"`
	Amount         *money.Amount           `json:"amount" binding:"omitempty,gt=0"`
	Date           *string                 `json:"date"`
	IsCleared      *bool                   `json:"is_cleared"`
	Description    *string                 `json:"description" binding:"omitempty,max=255"`
	Notes          *string                 `json:"notes" binding:"omitempty,max=2000"`
	Reference      *string                 `json:"reference" binding:"omitempty,max=100"`
	Location       *string                 `json:"location" binding:"omitempty,max=255"`
	ReceiptURL     *string                 `json:"receipt_url" binding:"omitempty,url,max=500"`
}

// CreateTransaction handles recording an income, expense or transfer
// @Summary     Create a transaction
// @Description Record a transaction and apply its balance and budget effects atomically
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Category belongs to another user"
// @Failure     404 {object} ErrorResponse "Account or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date format, use YYYY-MM-DD or RFC3339"))
		return
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request.Context(), userID, services.CreateTransactionInput{
		Amount:      req.Amount,
		Type:        req.Type,
		Date:        date,
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		ToAccountID: req.ToAccountID,
		IsCleared:   req.IsCleared,
		Description: req.Description,
		Notes:       req.Notes,
		Reference:   req.Reference,
		Location:    req.Location,
		ReceiptURL:  req.ReceiptURL,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetUserTransactions handles the retrieval of all transactions for the authenticated user
// @Summary     Get user transactions
// @Description Get a paginated list of the user's transactions with optional filters
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page        query int    false "Page number (default 1)"
// @Param       limit       query int    false "Items per page (default 20, max 100)"
// @Param       account_id  query string false "Filter by account ID"
// @Param       category_id query string false "Filter by category ID"
// @Param       type        query string false "Filter by transaction type (income, expense, transfer)"
// @Param       start_date  query string false "Filter by start date (YYYY-MM-DD)"
// @Param       end_date    query string false "Filter by end date (YYYY-MM-DD)"
// @Param       min_amount  query string false "Minimum amount, e.g. 10.50"
// @Param       max_amount  query string false "Maximum amount"
// @Param       search      query string false "Case-insensitive match on description, notes and location"
// @Param       sort_by     query string false "date, amount or description (default date)"
// @Param       sort_order  query string false "ASC or DESC (default DESC)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if v := c.Query("account_id"); v != "" {
		accountID, parseErr := uuid.Parse(v)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid account_id"))
			return
		}
		filter.AccountID = &accountID
	}

	result, err := h.transactionService.GetUserTransactions(c.Request.Context(), userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAccountTransactions handles the retrieval of transactions touching one account
// @Summary     Get account transactions
// @Description Paginated transactions recorded against the account
// @Tags        accounts,transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id          path  string true  "Account ID"
// @Param       page        query int    false "Page number (default 1)"
// @Param       limit       query int    false "Items per page (default 20, max 100)"
// @Param       type        query string false "Filter by transaction type"
// @Param       start_date  query string false "Filter by start date (YYYY-MM-DD)"
// @Param       end_date    query string false "Filter by end date (YYYY-MM-DD)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id}/transactions [get]
func (h *TransactionHandler) GetAccountTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetAccountTransactions(c.Request.Context(), userID, accountID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	filter := services.TransactionFilter{
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	var err error
	if filter.StartDate, err = parseDateQuery(c, "start_date"); err != nil {
		return filter, err
	}
	if filter.EndDate, err = parseDateQuery(c, "end_date"); err != nil {
		return filter, err
	}

	if v := c.Query("type"); v != "" {
		txType := models.TransactionType(v)
		if !txType.Valid() {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid type, must be income, expense or transfer")
		}
		filter.Type = &txType
	}

	if v := c.Query("category_id"); v != "" {
		categoryID, parseErr := uuid.Parse(v)
		if parseErr != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid category_id")
		}
		filter.CategoryID = &categoryID
	}

	if v := c.Query("min_amount"); v != "" {
		amt, parseErr := money.Parse(v)
		if parseErr != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid min_amount")
		}
		filter.MinAmount = &amt
	}

	if v := c.Query("max_amount"); v != "" {
		amt, parseErr := money.Parse(v)
		if parseErr != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid max_amount")
		}
		filter.MaxAmount = &amt
	}

	return filter, nil
}

// GetTransactionByID handles the retrieval of a specific transaction
// @Summary     Get transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction details"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(c.Request.Context(), userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction handles patching an existing transaction
// @Summary     Update transaction
// @Description Patch a transaction. The old effects are reversed and the new ones applied in one unit.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to change"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	fields := services.TransactionUpdateFields{
		Amount:         req.Amount,
		Type:           req.Type,
		AccountID:      req.AccountID,
		CategoryID:     req.CategoryID,
		ToAccountID:    req.ToAccountID,
		ClearToAccount: req.ClearToAccount,
		IsCleared:      req.IsCleared,
		Description:    req.Description,
		Notes:          req.Notes,
		Reference:      req.Reference,
		Location:       req.Location,
		ReceiptURL:     req.ReceiptURL,
	}
	if req.Date != nil {
		date, parseErr := parseDate(*req.Date)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date format, use YYYY-MM-DD or RFC3339"))
			return
		}
		fields.Date = &date
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request.Context(), userID, transactionID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles deleting a transaction
// @Summary     Delete transaction
// @Description Delete a transaction and reverse its balance and budget effects
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Transaction deleted successfully"})
}

// GetTransactionSummary handles the income/expense summary of a window
// @Summary     Get transaction summary
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       start_date query string false "Window start (YYYY-MM-DD)"
// @Param       end_date   query string false "Window end (YYYY-MM-DD)"
// @Success     200 {object} services.TransactionSummary "Summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/summary [get]
func (h *TransactionHandler) GetTransactionSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	startDate, err := parseDateQuery(c, "start_date")
	if err != nil {
		respondWithError(c, err)
		return
	}
	endDate, err := parseDateQuery(c, "end_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.transactionService.GetTransactionSummary(c.Request.Context(), userID, startDate, endDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
