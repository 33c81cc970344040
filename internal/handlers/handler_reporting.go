package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/restaurant_ledger/internal/core/ports/services"
	"github.com/SscSPs/restaurant_ledger/internal/dto"
	"github.com/SscSPs/restaurant_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to ledger reports
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
}

// RegisterReportingRoutes registers the report routes. Period reports sit under the period they cover.
func RegisterReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := &reportingHandler{reportingService: reportingService}
	rg.GET("/periods/:period_id/trial-balance", h.getTrialBalance)
	rg.GET("/periods/:period_id/profit-and-loss", h.getProfitAndLoss)
	rg.GET("/balance-sheet", h.getBalanceSheet)
}

// getTrialBalance godoc
// @Summary Trial balance of a period
// @Description Per-account debits, credits and net movement of finalized entries dated inside the period
// @Tags reports
// @Produce json
// @Param   tenant_id path string true "Tenant ID"
// @Param   period_id path string true "Period ID"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/periods/{period_id}/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("period_id", c.Param("period_id")))

	report, err := h.reportingService.TrialBalance(c.Request.Context(), tenantID(c), c.Param("period_id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}

// getProfitAndLoss godoc
// @Summary Profit and loss of a period
// @Description Revenue and expense accounts netted over finalized entries dated inside the period
// @Tags reports
// @Produce json
// @Param   tenant_id path string true "Tenant ID"
// @Param   period_id path string true "Period ID"
// @Success 200 {object} dto.ProfitAndLossResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/periods/{period_id}/profit-and-loss [get]
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("period_id", c.Param("period_id")))

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), tenantID(c), c.Param("period_id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate profit and loss")
		return
	}
	c.JSON(http.StatusOK, dto.ToProfitAndLossResponse(report))
}

// getBalanceSheet godoc
// @Summary Current balance sheet
// @Description Running balances of asset, liability and equity accounts plus unclosed earnings
// @Tags reports
// @Produce json
// @Param   tenant_id path string true "Tenant ID"
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), tenantID(c))
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate balance sheet")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report))
}
