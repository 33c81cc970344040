package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/restaurant_ledger/internal/core/ports/services"
	"github.com/SscSPs/restaurant_ledger/internal/dto"
	"github.com/SscSPs/restaurant_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type bankHandler struct {
	bankService portssvc.BankTransactionSvc
}

// RegisterBankRoutes registers the bank-feed routes.
func RegisterBankRoutes(rg *gin.RouterGroup, bankService portssvc.BankTransactionSvc) {
	h := &bankHandler{bankService: bankService}

	bank := rg.Group("/bank-transactions")
	{
		bank.POST("", h.recordTransaction)
		bank.POST("/:bank_transaction_id/reconcile", h.reconcileTransaction)
	}
}

// recordTransaction godoc
// @Summary Import a bank statement line
// @Description Amounts are signed: deposits positive, withdrawals negative
// @Tags bank
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   transaction body dto.RecordBankTransactionRequest true "Statement line"
// @Success 201 {object} dto.BankTransactionResponse
// @Failure 400 {object} map[string]string "Invalid statement line"
// @Failure 404 {object} map[string]string "Unknown account"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/bank-transactions [post]
func (h *bankHandler) recordTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordBankTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	txn, err := h.bankService.RecordBankTransaction(c.Request.Context(), tenantID(c), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to record bank transaction")
		return
	}
	c.JSON(http.StatusCreated, dto.ToBankTransactionResponse(txn))
}

// reconcileTransaction godoc
// @Summary Mark a bank statement line reconciled
// @Tags bank
// @Param   tenant_id path string true "Tenant ID"
// @Param   bank_transaction_id path string true "Bank transaction ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Bank transaction not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/bank-transactions/{bank_transaction_id}/reconcile [post]
func (h *bankHandler) reconcileTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	if err := h.bankService.ReconcileBankTransaction(c.Request.Context(), tenantID(c), c.Param("bank_transaction_id"), userID); err != nil {
		respondWithError(c, logger, err, "Failed to reconcile bank transaction")
		return
	}
	c.Status(http.StatusNoContent)
}
