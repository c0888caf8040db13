package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "paycycle/internal/errors"
	"paycycle/internal/ledger"
	"paycycle/internal/pagination"
)

// TransactionHandler handles ledger requests for the live period.
type TransactionHandler struct {
	engine *ledger.Engine

	// Now supplies the timestamp for new entries; replaced in tests.
	Now func() time.Time
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(engine *ledger.Engine) *TransactionHandler {
	return &TransactionHandler{engine: engine, Now: time.Now}
}

// CreateTransactionRequest represents the request payload for recording a spend.
type CreateTransactionRequest struct {
	Description string  `json:"description" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Category    string  `json:"category" binding:"required"`
}

// listTransactionsQuery holds the filter and paging query parameters.
type listTransactionsQuery struct {
	pagination.PageRequest
	Category  *string    `form:"category"`
	From      *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To        *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	MinAmount *float64   `form:"min_amount" binding:"omitempty,gt=0"`
	MaxAmount *float64   `form:"max_amount" binding:"omitempty,gt=0"`
}

// CreateTransaction records a new spend entry.
// @Summary     Record a transaction
// @Description Record a spend entry against a registered category
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} ledger.Transaction "Transaction recorded"
// @Failure     400 {object} ErrorResponse "Invalid input or unknown category"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	tx, err := h.engine.AddTransaction(req.Description, req.Amount, req.Category, h.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// GetTransactions lists live transactions with optional filters.
// @Summary     Get transactions
// @Description Get a paginated, optionally filtered list of live transactions in chronological order
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       category   query string false "Filter by category name"
// @Param       from       query string false "Filter from timestamp (RFC 3339)"
// @Param       to         query string false "Filter to timestamp (RFC 3339)"
// @Param       min_amount query number false "Minimum amount"
// @Param       max_amount query number false "Maximum amount"
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[ledger.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	var q listTransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	txs := h.engine.QueryTransactions(ledger.TransactionFilter{
		Category:  q.Category,
		From:      q.From,
		To:        q.To,
		MinAmount: q.MinAmount,
		MaxAmount: q.MaxAmount,
	})

	c.JSON(http.StatusOK, pagination.Slice(txs, q.PageRequest))
}

// DeleteTransaction removes a transaction by id.
// @Summary     Delete a transaction
// @Description Delete a live transaction; deleting the same id twice fails with not found
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction id"
// @Success     204 "Transaction deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	if err := h.engine.RemoveTransaction(c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ExportTransactions streams the live ledger as CSV.
// @Summary     Export transactions
// @Description Download the live ledger as a CSV file
// @Tags        transactions
// @Produce     text/csv
// @Security    BearerAuth
// @Success     200 {string} string "CSV payload"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions/export [get]
func (h *TransactionHandler) ExportTransactions(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="transactions.csv"`)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"id", "timestamp", "description", "category", "amount"})
	for _, t := range h.engine.Transactions() {
		_ = w.Write([]string{
			t.ID,
			t.Timestamp.Format(time.RFC3339),
			t.Description,
			t.Category,
			fmt.Sprintf("%.2f", t.Amount),
		})
	}
	w.Flush()
}
