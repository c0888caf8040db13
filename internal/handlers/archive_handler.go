package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "paycycle/internal/errors"
	"paycycle/internal/ledger"
	"paycycle/internal/pagination"
	"paycycle/internal/report"
)

// ArchiveHandler serves sealed period archives and the archival tick.
type ArchiveHandler struct {
	engine *ledger.Engine

	// Now supplies the tick instant; replaced in tests.
	Now func() time.Time
}

// NewArchiveHandler creates a new ArchiveHandler.
func NewArchiveHandler(engine *ledger.Engine) *ArchiveHandler {
	return &ArchiveHandler{engine: engine, Now: time.Now}
}

// TickResponse reports the outcome of an archival check.
type TickResponse struct {
	Archived bool            `json:"archived"`
	Archive  *ledger.Archive `json:"archive,omitempty"`
}

// ArchiveReportResponse aggregates one sealed snapshot.
type ArchiveReportResponse struct {
	Label       string             `json:"label"`
	Summary     report.Summary     `json:"summary"`
	Sums        map[string]float64 `json:"sums_by_category"`
	Percentages map[string]float64 `json:"percentages_by_category"`
}

// Tick runs the archival check against the current clock.
// @Summary     Run the archival check
// @Description Seal the elapsed period into an archive if a payday boundary has been crossed; otherwise a no-op
// @Tags        archives
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} TickResponse "Tick outcome"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Seal could not be persisted"
// @Router      /tick [post]
func (h *ArchiveHandler) Tick(c *gin.Context) {
	archive, err := h.engine.Tick(h.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TickResponse{Archived: archive != nil, Archive: archive})
}

// GetArchives lists sealed archives in chronological order.
// @Summary     Get archives
// @Description Get a paginated list of sealed period archives
// @Tags        archives
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[ledger.Archive] "Paginated archives"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /archives [get]
func (h *ArchiveHandler) GetArchives(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	c.JSON(http.StatusOK, pagination.Slice(h.engine.Archives(), page))
}

// GetArchiveByID returns a single sealed archive.
// @Summary     Get an archive
// @Description Get one sealed period archive with its full snapshot
// @Tags        archives
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Archive id"
// @Success     200 {object} ledger.Archive "Archive"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Archive not found"
// @Router      /archives/{id} [get]
func (h *ArchiveHandler) GetArchiveByID(c *gin.Context) {
	archive, err := h.engine.ArchiveByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"archive": archive})
}

// GetArchiveReport aggregates a sealed snapshot.
// @Summary     Get an archive report
// @Description Get per-category sums and percentages over a sealed snapshot
// @Tags        archives
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Archive id"
// @Success     200 {object} ArchiveReportResponse "Aggregated snapshot"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Archive not found"
// @Router      /archives/{id}/report [get]
func (h *ArchiveHandler) GetArchiveReport(c *gin.Context) {
	archive, err := h.engine.ArchiveByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ArchiveReportResponse{
		Label:       archive.Label,
		Summary:     report.Summarize(archive.BudgetAtArchive, archive.Transactions, 0),
		Sums:        report.SumsByCategory(archive.Transactions),
		Percentages: report.PercentagesByCategory(archive.Transactions),
	})
}

// DeleteArchive removes a sealed archive (administrative).
// @Summary     Delete an archive
// @Description Remove a sealed archive; the archival cycle itself never deletes records
// @Tags        archives
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Archive id"
// @Success     204 "Archive deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Archive not found"
// @Router      /archives/{id} [delete]
func (h *ArchiveHandler) DeleteArchive(c *gin.Context) {
	if err := h.engine.DeleteArchive(c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
