package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/restaurant_ledger/internal/core/ports/services"
	"github.com/SscSPs/restaurant_ledger/internal/dto"
	"github.com/SscSPs/restaurant_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests for journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// RegisterJournalRoutes registers the posting engine routes.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	registerDecimalValidation()
	h := &journalHandler{journalService: journalService}

	journals := rg.Group("/journals")
	{
		journals.POST("", h.postEntry)
		journals.POST("/drafts", h.saveDraft)
		journals.GET("", h.listEntries)
		journals.GET("/:entry_id", h.getEntry)
		journals.DELETE("/:entry_id", h.deleteEntry)
		journals.POST("/:entry_id/post", h.postDraft)
		journals.POST("/:entry_id/reverse", h.reverseEntry)
	}
}

// postEntry godoc
// @Summary Post a journal entry
// @Description Validates and atomically posts a balanced entry, updating account balances
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   entry body dto.PostEntryRequest true "Entry header and lines"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Unbalanced entry or invalid lines"
// @Failure 404 {object} map[string]string "Unknown account"
// @Failure 409 {object} map[string]string "No open period for the posting date"
// @Failure 503 {object} map[string]string "Ledger busy, retry"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journals [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	h.submit(c, false)
}

// saveDraft godoc
// @Summary Save a draft entry
// @Description Stores the entry without numbering it or touching balances
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   entry body dto.PostEntryRequest true "Entry header and lines"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Invalid entry"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journals/drafts [post]
func (h *journalHandler) saveDraft(c *gin.Context) {
	h.submit(c, true)
}

func (h *journalHandler) submit(c *gin.Context, draft bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	postingReq, err := req.ToPostingRequest(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if draft {
		entry, err := h.journalService.SaveDraft(c.Request.Context(), tenantID(c), postingReq)
		if err != nil {
			respondWithError(c, logger, err, "Failed to save draft")
			return
		}
		c.JSON(http.StatusCreated, dto.ToJournalResponse(entry))
		return
	}

	entry, err := h.journalService.PostEntry(c.Request.Context(), tenantID(c), postingReq)
	if err != nil {
		respondWithError(c, logger, err, "Failed to post entry")
		return
	}
	logger.Info("Journal entry posted", slog.String("entry_id", entry.EntryID), slog.String("doc_number", entry.DocNumber))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(entry))
}

// postDraft godoc
// @Summary Post a draft entry
// @Description Allocates the series number and applies balances. The caller is recorded as approver.
// @Tags journals
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   entry_id path string true "Entry ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 409 {object} map[string]string "Entry is not a draft"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journals/{entry_id}/post [post]
func (h *journalHandler) postDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.PostDraft(c.Request.Context(), tenantID(c), c.Param("entry_id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to post draft")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a posted entry
// @Description Posts the mirror image of the entry on the reversal date and marks the original REVERSED
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   entry_id path string true "Entry ID"
// @Param   reversal body dto.ReverseEntryRequest true "Reversal details"
// @Success 201 {object} dto.JournalResponse
// @Failure 409 {object} map[string]string "Entry not posted or reversal date outside an open period"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journals/{entry_id}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ReverseEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}
	reversalDate, err := dto.ParseDate(req.ReversalDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.journalService.ReverseEntry(c.Request.Context(), tenantID(c), c.Param("entry_id"), reversalDate, req.Remarks, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to reverse entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalResponse(entry))
}

// getEntry godoc
// @Summary Get a journal entry with its lines
// @Tags journals
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   entry_id path string true "Entry ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journals/{entry_id} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entry, err := h.journalService.GetEntry(c.Request.Context(), tenantID(c), c.Param("entry_id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Newest first by posting date, paginated with an opaque token
// @Tags journals
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalsResponse
// @Failure 400 {object} map[string]string "Invalid pagination parameters"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journals [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}
	if params.Limit == 0 {
		params.Limit = 20
	}

	entries, nextToken, err := h.journalService.ListEntries(c.Request.Context(), tenantID(c), params.Limit, params.NextToken)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list entries")
		return
	}

	resp := dto.ListJournalsResponse{Entries: make([]dto.JournalResponse, len(entries)), NextToken: nextToken}
	for i := range entries {
		resp.Entries[i] = dto.ToJournalResponse(&entries[i])
	}
	c.JSON(http.StatusOK, resp)
}

// deleteEntry godoc
// @Summary Delete a journal entry
// @Description Drafts are simply removed. Posted entries have their balance effects reverted first.
// @Tags journals
// @Param   tenant_id path string true "Tenant ID"
// @Param   entry_id path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 409 {object} map[string]string "Entry's period is closed or it carries payments"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journals/{entry_id} [delete]
func (h *journalHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	if err := h.journalService.DeleteEntry(c.Request.Context(), tenantID(c), c.Param("entry_id"), userID); err != nil {
		respondWithError(c, logger, err, "Failed to delete entry")
		return
	}
	c.Status(http.StatusNoContent)
}
