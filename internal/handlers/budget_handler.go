package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"paycycle/internal/config"
	apperrors "paycycle/internal/errors"
	"paycycle/internal/ledger"
	"paycycle/internal/report"
)

// BudgetHandler serves the live budget and payday settings.
type BudgetHandler struct {
	engine *ledger.Engine
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(engine *ledger.Engine) *BudgetHandler {
	return &BudgetHandler{engine: engine}
}

// SetBudgetRequest represents the request payload for setting the budget.
type SetBudgetRequest struct {
	Amount *float64 `json:"amount" binding:"required,gte=0"`
}

// SetPaydayRequest represents the request payload for setting the payday.
type SetPaydayRequest struct {
	Day int `json:"day" binding:"required,payday_day"`
}

// BudgetResponse is the headline budget view for the live period.
type BudgetResponse struct {
	report.Summary
	Payday int `json:"payday"`
}

// GetBudget returns the live budget with spend, remaining, and warning flag.
// @Summary     Get the live budget
// @Description Get the current period's budget, spend, remaining amount, raw balance, and low-remaining flag
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       threshold query number false "Override the low-remaining warning threshold"
// @Success     200 {object} BudgetResponse "Budget summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budget [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	threshold := config.Get().LowRemainingThreshold
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid threshold"))
			return
		}
		threshold = parsed
	}

	state := h.engine.Snapshot()
	c.JSON(http.StatusOK, BudgetResponse{
		Summary: report.Summarize(state.Budget, state.Transactions, threshold),
		Payday:  state.Payday,
	})
}

// SetBudget replaces the live budget.
// @Summary     Set the budget
// @Description Set the spending ceiling for the current period
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SetBudgetRequest true "Budget amount"
// @Success     200 {object} BudgetResponse "Updated budget summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budget [put]
func (h *BudgetHandler) SetBudget(c *gin.Context) {
	var req SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.engine.SetBudget(*req.Amount); err != nil {
		respondWithError(c, err)
		return
	}

	state := h.engine.Snapshot()
	c.JSON(http.StatusOK, BudgetResponse{
		Summary: report.Summarize(state.Budget, state.Transactions, config.Get().LowRemainingThreshold),
		Payday:  state.Payday,
	})
}

// SetPayday reconfigures the period boundary day.
// @Summary     Set the payday
// @Description Set the day of month (1-28) on which a new period starts
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SetPaydayRequest true "Payday day of month"
// @Success     200 {object} map[string]int "Updated payday"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budget/payday [put]
func (h *BudgetHandler) SetPayday(c *gin.Context) {
	var req SetPaydayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.engine.SetPayday(req.Day); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payday": req.Day})
}
