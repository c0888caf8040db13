package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"paycycle/internal/config"
	apperrors "paycycle/internal/errors"
	"paycycle/internal/ledger"
	"paycycle/internal/report"
)

// ReportHandler serves read-only aggregations over the live ledger.
type ReportHandler struct {
	engine *ledger.Engine

	// Now anchors the saved-per-period view; replaced in tests.
	Now func() time.Time
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(engine *ledger.Engine) *ReportHandler {
	return &ReportHandler{engine: engine, Now: time.Now}
}

// CategoryReportResponse carries per-category sums and shares.
type CategoryReportResponse struct {
	Sums        map[string]float64 `json:"sums_by_category"`
	Percentages map[string]float64 `json:"percentages_by_category"`
}

// GetCategoryReport aggregates live spend by category.
// @Summary     Get the category report
// @Description Get per-category sums and each category's share of total spend; the distribution is empty when nothing has been spent
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} CategoryReportResponse "Category aggregates"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/categories [get]
func (h *ReportHandler) GetCategoryReport(c *gin.Context) {
	txs := h.engine.Transactions()
	c.JSON(http.StatusOK, CategoryReportResponse{
		Sums:        report.SumsByCategory(txs),
		Percentages: report.PercentagesByCategory(txs),
	})
}

// savedReportQuery holds the optional period filter.
type savedReportQuery struct {
	Period string `form:"period" binding:"omitempty,period_id"`
}

// GetSavedReport partitions live spend by payday boundaries.
// @Summary     Get the saved-per-period report
// @Description Get budget minus spend for every period from the earliest live transaction through the current one
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "Restrict to one period id (YYYY-MM)"
// @Success     200 {object} map[string][]report.PeriodSaving "Per-period savings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/saved [get]
func (h *ReportHandler) GetSavedReport(c *gin.Context) {
	var q savedReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	state := h.engine.Snapshot()
	saved := report.SavedPerPeriod(state.Transactions, state.Budget, state.Payday, h.Now())
	if q.Period != "" {
		filtered := []report.PeriodSaving{}
		for _, p := range saved {
			if p.PeriodID == q.Period {
				filtered = append(filtered, p)
			}
		}
		saved = filtered
	}
	c.JSON(http.StatusOK, gin.H{"periods": saved})
}

// GetSummary returns the headline live-period numbers.
// @Summary     Get the live summary
// @Description Get budget, spend, remaining, raw balance, and the low-remaining flag for the current period
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} report.Summary "Live summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	state := h.engine.Snapshot()
	c.JSON(http.StatusOK, report.Summarize(state.Budget, state.Transactions, config.Get().LowRemainingThreshold))
}
