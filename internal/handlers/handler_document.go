package handlers

import (
	"context"

	"log/slog"
	"net/http"

	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/restaurant_ledger/internal/core/ports/services"
	"github.com/SscSPs/restaurant_ledger/internal/dto"
	"github.com/SscSPs/restaurant_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type documentHandler struct {
	documentService portssvc.DocumentPosterSvc
}

// RegisterDocumentRoutes registers the AR/AP invoice and payment routes.
func RegisterDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentPosterSvc) {
	registerDecimalValidation()
	h := &documentHandler{documentService: documentService}

	documents := rg.Group("/documents")
	{
		documents.POST("/ar-invoices", h.postARInvoice)
		documents.POST("/ap-invoices", h.postAPInvoice)
		documents.POST("/incoming-payments", h.postIncomingPayment)
		documents.POST("/outgoing-payments", h.postOutgoingPayment)
	}
}

// postARInvoice godoc
// @Summary Post a sales invoice
// @Description Debits the receivable for the gross total and credits each revenue line and output tax
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   invoice body dto.InvoiceRequest true "Invoice"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid invoice"
// @Failure 409 {object} map[string]string "No open period for the invoice date"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents/ar-invoices [post]
func (h *documentHandler) postARInvoice(c *gin.Context) {
	h.postInvoice(c, h.documentService.PostARInvoice)
}

// postAPInvoice godoc
// @Summary Post a purchase invoice
// @Description Debits each expense line and input tax and credits the payable for the gross total
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   invoice body dto.InvoiceRequest true "Invoice"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid invoice"
// @Failure 409 {object} map[string]string "No open period for the invoice date"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents/ap-invoices [post]
func (h *documentHandler) postAPInvoice(c *gin.Context) {
	h.postInvoice(c, h.documentService.PostAPInvoice)
}

// postIncomingPayment godoc
// @Summary Record a customer payment
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   payment body dto.PaymentRequest true "Payment"
// @Success 201 {object} dto.DocumentResponse
// @Failure 409 {object} map[string]string "Payment exceeds the outstanding amount"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents/incoming-payments [post]
func (h *documentHandler) postIncomingPayment(c *gin.Context) {
	h.postPayment(c, h.documentService.PostIncomingPayment)
}

// postOutgoingPayment godoc
// @Summary Record a supplier payment
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   payment body dto.PaymentRequest true "Payment"
// @Success 201 {object} dto.DocumentResponse
// @Failure 409 {object} map[string]string "Payment exceeds the outstanding amount"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents/outgoing-payments [post]
func (h *documentHandler) postOutgoingPayment(c *gin.Context) {
	h.postPayment(c, h.documentService.PostOutgoingPayment)
}

type invoicePoster func(ctx context.Context, tenantID string, req dto.InvoiceRequest, userID string) (*domain.LedgerDocument, *domain.JournalEntry, error)

type paymentPoster func(ctx context.Context, tenantID string, req dto.PaymentRequest, userID string) (*domain.LedgerDocument, *domain.JournalEntry, error)

func (h *documentHandler) postInvoice(c *gin.Context, post invoicePoster) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	doc, entry, err := post(c.Request.Context(), tenantID(c), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to post invoice")
		return
	}
	logger.Info("Invoice posted", slog.String("document_id", doc.DocumentID), slog.String("doc_number", entry.DocNumber))
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc, entry))
}

func (h *documentHandler) postPayment(c *gin.Context, post paymentPoster) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	doc, entry, err := post(c.Request.Context(), tenantID(c), req, userID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("invoice_id", req.InvoiceID)), err, "Failed to post payment")
		return
	}
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc, entry))
}
