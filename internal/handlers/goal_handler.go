package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/services"
	"fintrack/internal/uuid"
)

// GoalHandler handles savings goal requests.
type GoalHandler struct {
	goalService services.GoalServicer
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService services.GoalServicer) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// CreateGoalRequest represents the request payload for creating a goal.
type CreateGoalRequest struct {
	Name                string          `json:"name" binding:"required,min=1,max=100"`
	Description         string          `json:"description" binding:"max=500"`
	Type                models.GoalType `json:"type" binding:"required,goal_type"`
	TargetAmount        money.Amount    `json:"target_amount" binding:"required,gt=0"`
	CurrentAmount       money.Amount    `json:"current_amount" binding:"gte=0"`
	StartDate           string          `json:"start_date" binding:"required"`
	TargetDate          string          `json:"target_date" binding:"required"`
	MonthlyContribution money.Amount    `json:"monthly_contribution" binding:"gte=0"`
	Color               string          `json:"color" binding:"omitempty,hex_color"`
	Icon                string          `json:"icon" binding:"max=50"`
	Notes               string          `json:"notes" binding:"max=2000"`
	AutoContribute      bool            `json:"auto_contribute"`
	LinkedAccountID     *string         `json:"linked_account_id" binding:"omitempty,uuid"`
}

// UpdateGoalRequest represents the request payload for updating a goal.
// An empty linked_account_id unlinks the account.
type UpdateGoalRequest struct {
	Name                *string            `json:"name" binding:"omitempty,min=1,max=100"`
	Description         *string            `json:"description" binding:"omitempty,max=500"`
	Type                *models.GoalType   `json:"type" binding:"omitempty,goal_type"`
	TargetAmount        *money.Amount      `json:"target_amount" binding:"omitempty,gt=0"`
	Status              *models.GoalStatus `json:"status" binding:"omitempty,goal_status"`
	StartDate           *string            `json:"start_date"`
	TargetDate          *string            `json:"target_date"`
	MonthlyContribution *money.Amount      `json:"monthly_contribution" binding:"omitempty,gte=0"`
	Color               *string            `json:"color" binding:"omitempty,hex_color"`
	Icon                *string            `json:"icon" binding:"omitempty,max=50"`
	Notes               *string            `json:"notes" binding:"omitempty,max=2000"`
	AutoContribute      *bool              `json:"auto_contribute"`
	LinkedAccountID     *string            `json:"linked_account_id"`
}

// UpdateGoalProgressRequest represents the request payload for recording progress.
type UpdateGoalProgressRequest struct {
	CurrentAmount *money.Amount `json:"current_amount" binding:"required"`
}

// CreateGoal handles the creation of a new goal
// @Summary     Create a goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} models.Goal "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Linked account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	targetDate, err := parseDate(req.TargetDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid target_date format, use YYYY-MM-DD or RFC3339"))
		return
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid start_date format, use YYYY-MM-DD or RFC3339"))
		return
	}

	goal, err := h.goalService.CreateGoal(c.Request.Context(), userID, services.CreateGoalInput{
		Name:                req.Name,
		Description:         req.Description,
		Type:                req.Type,
		TargetAmount:        req.TargetAmount,
		CurrentAmount:       req.CurrentAmount,
		StartDate:           startDate,
		TargetDate:          targetDate,
		MonthlyContribution: req.MonthlyContribution,
		Color:               req.Color,
		Icon:                req.Icon,
		Notes:               req.Notes,
		AutoContribute:      req.AutoContribute,
		LinkedAccountID:     req.LinkedAccountID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

// GetUserGoals handles listing the user's goals
// @Summary     Get goals
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.Goal "Goals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals [get]
func (h *GoalHandler) GetUserGoals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goals, err := h.goalService.GetUserGoals(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

// GetGoalByID handles the retrieval of a specific goal
// @Summary     Get goal by ID
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} models.Goal "Goal details"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [get]
func (h *GoalHandler) GetGoalByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.GetGoalByID(c.Request.Context(), userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// UpdateGoal handles updating a goal
// @Summary     Update goal
// @Description Patch a goal. A new target amount recomputes progress.
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Goal ID"
// @Param       request body UpdateGoalRequest true "Fields to change"
// @Success     200 {object} models.Goal "Updated goal"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [put]
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	if req.LinkedAccountID != nil && *req.LinkedAccountID != "" && !uuid.IsValid(*req.LinkedAccountID) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid linked_account_id"))
		return
	}

	fields := services.GoalUpdateFields{
		Name:                req.Name,
		Description:         req.Description,
		Type:                req.Type,
		TargetAmount:        req.TargetAmount,
		Status:              req.Status,
		MonthlyContribution: req.MonthlyContribution,
		Color:               req.Color,
		Icon:                req.Icon,
		Notes:               req.Notes,
		AutoContribute:      req.AutoContribute,
		LinkedAccountID:     req.LinkedAccountID,
	}
	if req.StartDate != nil {
		if fields.StartDate, err = parseOptionalDate(*req.StartDate, "start_date"); err != nil {
			respondWithError(c, err)
			return
		}
	}
	if req.TargetDate != nil {
		if fields.TargetDate, err = parseOptionalDate(*req.TargetDate, "target_date"); err != nil {
			respondWithError(c, err)
			return
		}
	}

	goal, err := h.goalService.UpdateGoal(c.Request.Context(), userID, goalID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// UpdateGoalProgress handles recording the saved amount of a goal
// @Summary     Update goal progress
// @Description Set the current amount. The goal completes when it reaches the target.
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                    true "Goal ID"
// @Param       request body UpdateGoalProgressRequest true "Current amount"
// @Success     200 {object} models.Goal "Updated goal"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id}/progress [put]
func (h *GoalHandler) UpdateGoalProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	goal, err := h.goalService.UpdateProgress(c.Request.Context(), userID, goalID, *req.CurrentAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// DeleteGoal handles deactivating a goal
// @Summary     Delete goal
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} MessageResponse "Goal deleted"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteGoal(c.Request.Context(), userID, goalID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Goal deleted successfully"})
}

// GetGoalSummary handles the totals across the user's goals
// @Summary     Get goal summary
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.GoalSummary "Summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/summary [get]
func (h *GoalHandler) GetGoalSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.goalService.GetGoalSummary(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
