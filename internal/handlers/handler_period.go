package handlers

import (
	"errors"
	"net/http"

	"github.com/SscSPs/restaurant_ledger/internal/apperrors"
	portssvc "github.com/SscSPs/restaurant_ledger/internal/core/ports/services"
	"github.com/SscSPs/restaurant_ledger/internal/dto"
	"github.com/SscSPs/restaurant_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
	closeService  portssvc.PeriodCloseSvc
}

// RegisterPeriodRoutes registers the period registry and the close protocol routes.
func RegisterPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvcFacade, closeService portssvc.PeriodCloseSvc) {
	h := &periodHandler{periodService: periodService, closeService: closeService}

	periods := rg.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/:period_id", h.getPeriod)
		periods.PUT("/:period_id", h.updatePeriod)
		periods.DELETE("/:period_id", h.deletePeriod)
		periods.GET("/:period_id/validation", h.validatePeriod)
		periods.POST("/:period_id/close", h.closePeriod)
	}
}

// createPeriod godoc
// @Summary Open an accounting period
// @Description Creates an OPEN period. Ranges are inclusive and may not overlap existing periods.
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   period body dto.CreatePeriodRequest true "Period details"
// @Success 201 {object} dto.PeriodResponse
// @Failure 400 {object} map[string]string "Invalid range or overlapping period"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/periods [post]
func (h *periodHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), tenantID(c), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create period")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

// listPeriods godoc
// @Summary List accounting periods
// @Tags periods
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Success 200 {object} dto.ListPeriodsResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periods, err := h.periodService.ListPeriods(c.Request.Context(), tenantID(c))
	if err != nil {
		respondWithError(c, logger, err, "Failed to list periods")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPeriodsResponse(periods))
}

// getPeriod godoc
// @Summary Get an accounting period
// @Tags periods
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   period_id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/periods/{period_id} [get]
func (h *periodHandler) getPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	period, err := h.periodService.GetPeriod(c.Request.Context(), tenantID(c), c.Param("period_id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// updatePeriod godoc
// @Summary Rename or re-date an open period
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   period_id path string true "Period ID"
// @Param   period body dto.UpdatePeriodRequest true "Fields to change"
// @Success 200 {object} dto.PeriodResponse
// @Failure 409 {object} map[string]string "Period closed or entries would fall outside"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/periods/{period_id} [put]
func (h *periodHandler) updatePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	period, err := h.periodService.UpdatePeriod(c.Request.Context(), tenantID(c), c.Param("period_id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// deletePeriod godoc
// @Summary Delete an empty period
// @Tags periods
// @Param   tenant_id path string true "Tenant ID"
// @Param   period_id path string true "Period ID"
// @Success 204 "No Content"
// @Failure 409 {object} map[string]string "Period has entries or is closed"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/periods/{period_id} [delete]
func (h *periodHandler) deletePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	if err := h.periodService.DeletePeriod(c.Request.Context(), tenantID(c), c.Param("period_id"), userID); err != nil {
		respondWithError(c, logger, err, "Failed to delete period")
		return
	}
	c.Status(http.StatusNoContent)
}

// validatePeriod godoc
// @Summary Preview a period close
// @Description Runs the close validations without changing anything. Errors block the close, warnings do not.
// @Tags periods
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   period_id path string true "Period ID"
// @Success 200 {object} domain.PeriodValidation
// @Failure 404 {object} map[string]string "Period not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/periods/{period_id}/validation [get]
func (h *periodHandler) validatePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	validation, err := h.closeService.ValidatePeriod(c.Request.Context(), tenantID(c), c.Param("period_id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to validate period")
		return
	}
	c.JSON(http.StatusOK, validation)
}

// closePeriod godoc
// @Summary Close a period
// @Description Re-validates and closes the period atomically. Closing a closed period succeeds.
// @Tags periods
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   period_id path string true "Period ID"
// @Success 200 {object} dto.CloseResponse
// @Failure 409 {object} dto.CloseResponse "Period cannot be closed"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/periods/{period_id}/close [post]
func (h *periodHandler) closePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	result, err := h.closeService.ClosePeriod(c.Request.Context(), tenantID(c), c.Param("period_id"), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPeriodNotCloseable) {
			logger.Warn("Period close refused", "error", err.Error())
			c.JSON(http.StatusConflict, dto.CloseResponse{Success: false, Error: err.Error()})
			return
		}
		respondWithError(c, logger, err, "Failed to close period")
		return
	}
	c.JSON(http.StatusOK, dto.CloseResponse{Success: result.Success, Message: result.Message})
}
