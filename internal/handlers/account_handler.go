package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/services"
)

// AccountHandler handles account-related requests.
type AccountHandler struct {
	accountService services.AccountServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// CreateAccountRequest represents the request payload for opening an account.
type CreateAccountRequest struct {
	Name              string             `json:"name" binding:"required,min=1,max=100"`
	Type              models.AccountType `json:"type" binding:"required,account_type"`
	InitialBalance    money.Amount       `json:"initial_balance"`
	Currency          string             `json:"currency" binding:"omitempty,iso4217"`
	AccountNumber     string             `json:"account_number" binding:"max=50"`
	BankName          string             `json:"bank_name" binding:"max=100"`
	Description       string             `json:"description" binding:"max=500"`
	Color             string             `json:"color" binding:"omitempty,hex_color"`
	IncludeInNetWorth *bool              `json:"include_in_net_worth"`
}

// UpdateAccountRequest represents the request payload for updating an account.
type UpdateAccountRequest struct {
	Name              *string             `json:"name" binding:"omitempty,min=1,max=100"`
	Type              *models.AccountType `json:"type" binding:"omitempty,account_type"`
	InitialBalance    *money.Amount       `json:"initial_balance"`
	Currency          *string             `json:"currency" binding:"omitempty,iso4217"`
	AccountNumber     *string             `json:"account_number" binding:"omitempty,max=50"`
	BankName          *string             `json:"bank_name" binding:"omitempty,max=100"`
	Description       *string             `json:"description" binding:"omitempty,max=500"`
	Color             *string             `json:"color" binding:"omitempty,hex_color"`
	IsActive          *bool               `json:"is_active"`
	IncludeInNetWorth *bool               `json:"include_in_net_worth"`
}

// SetBalanceRequest represents the request payload for overwriting a balance.
type SetBalanceRequest struct {
	Balance *money.Amount `json:"balance" binding:"required"`
}

// NetWorthResponse represents the net worth of the authenticated user.
type NetWorthResponse struct {
	NetWorth money.Amount `json:"net_worth"`
}

// CreateAccount handles opening a new account
// @Summary     Create an account
// @Description Open a new account for the authenticated user. The balance starts at initial_balance.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAccountRequest true "Account details"
// @Success     201 {object} models.Account "Account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), userID, services.CreateAccountInput{
		Name:              req.Name,
		Type:              req.Type,
		InitialBalance:    req.InitialBalance,
		Currency:          req.Currency,
		AccountNumber:     req.AccountNumber,
		BankName:          req.BankName,
		Description:       req.Description,
		Color:             req.Color,
		IncludeInNetWorth: req.IncludeInNetWorth,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// GetUserAccounts handles the retrieval of accounts for a user
// @Summary     Get user accounts
// @Description List the authenticated user's accounts, optionally filtered by type
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       type             query string false "Filter by account type"
// @Param       include_inactive query bool   false "Include deactivated accounts"
// @Success     200 {array}  models.Account "Accounts"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [get]
func (h *AccountHandler) GetUserAccounts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var accounts []models.Account
	if v := c.Query("type"); v != "" {
		accountType := models.AccountType(v)
		if !accountType.Valid() {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid account type"))
			return
		}
		accounts, err = h.accountService.GetAccountsByType(c.Request.Context(), userID, accountType)
	} else {
		includeInactive, _ := strconv.ParseBool(c.Query("include_inactive"))
		accounts, err = h.accountService.GetUserAccounts(c.Request.Context(), userID, includeInactive)
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// GetAccountByID handles the retrieval of a specific account for a user
// @Summary     Get account by ID
// @Description Get a specific account by ID for the authenticated user
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} models.Account "Account details"
// @Failure     400 {object} ErrorResponse "Invalid account ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id} [get]
func (h *AccountHandler) GetAccountByID(c *gin.Context) {
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

	account, err := h.accountService.GetAccountByID(c.Request.Context(), userID, accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// UpdateAccount handles updating an account.
// @Summary     Update account
// @Description Update an existing account. Changing initial_balance shifts the balance by the same delta.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Param       request body UpdateAccountRequest true "Updated account details"
// @Success     200 {object} models.Account "Updated account"
// @Failure     400 {object} ErrorResponse "Invalid input or account ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
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

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), userID, accountID, services.AccountUpdateFields{
		Name:              req.Name,
		Type:              req.Type,
		InitialBalance:    req.InitialBalance,
		Currency:          req.Currency,
		AccountNumber:     req.AccountNumber,
		BankName:          req.BankName,
		Description:       req.Description,
		Color:             req.Color,
		IsActive:          req.IsActive,
		IncludeInNetWorth: req.IncludeInNetWorth,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// SetBalance handles a manual balance correction.
// @Summary     Set account balance
// @Description Overwrite the balance of an account; initial_balance moves by the same delta
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Param       request body SetBalanceRequest true "New balance"
// @Success     200 {object} models.Account "Updated account"
// @Failure     400 {object} ErrorResponse "Invalid input or account ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id}/balance [put]
func (h *AccountHandler) SetBalance(c *gin.Context) {
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

	var req SetBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	account, err := h.accountService.SetBalance(c.Request.Context(), userID, accountID, *req.Balance)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// DeleteAccount handles deactivating an account.
// @Summary     Delete account
// @Description Deactivate an account. Its transactions are kept.
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} MessageResponse "Account deleted"
// @Failure     400 {object} ErrorResponse "Invalid account ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
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

	if err := h.accountService.DeleteAccount(c.Request.Context(), userID, accountID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Account deleted successfully"})
}

// GetNetWorth handles the net worth query.
// @Summary     Get net worth
// @Description Sum of balances of active accounts included in net worth
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} NetWorthResponse "Net worth"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/net-worth [get]
func (h *AccountHandler) GetNetWorth(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	netWorth, err := h.accountService.GetNetWorth(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, NetWorthResponse{NetWorth: netWorth})
}

// GetAccountSummary handles the account summary query.
// @Summary     Get account summary
// @Description Totals of the user's active accounts, grouped by type
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.AccountSummary "Account summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/summary [get]
func (h *AccountHandler) GetAccountSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.accountService.GetAccountSummary(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
