package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler exposes the posting engine.
type transactionHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// RegisterTransactionRoutes registers transaction routes under a tenant group.
func RegisterTransactionRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &transactionHandler{ledgerService: ledgerService}

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.createTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/:transaction_id", h.getTransaction)
		txns.POST("/:transaction_id/post", h.postTransaction)
		txns.POST("/:transaction_id/void", h.voidTransaction)
	}
}

// createTransaction godoc
// @Summary Create a transaction
// @Description Validates, numbers and stores a balanced transaction. Posted transactions update balances immediately.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   transaction body dto.CreateTransactionRequest true "Transaction with entries"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]interface{} "Validation error, with totals when unbalanced"
// @Failure 404 {object} map[string]string "Account or tenant not found"
// @Failure 409 {object} map[string]string "Account cannot be posted to"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, "CreateTransaction", err)
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}
	tenantID := c.Param("tenant_id")

	logger.Info("Received request to create transaction",
		slog.String("tenant_id", tenantID),
		slog.String("type", string(req.TransactionType)),
		slog.Int("entry_count", len(req.Entries)))

	txn, err := h.ledgerService.CreateTransaction(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to create transaction")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/transactions/{transaction_id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	txn, err := h.ledgerService.GetTransactionByID(c.Request.Context(), c.Param("tenant_id"), c.Param("transaction_id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Newest first, paginated with nextToken
// @Tags transactions
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Param   status query string false "DRAFT, POSTED or VOIDED"
// @Param   type query string false "Document type"
// @Param   accountID query string false "Only transactions touching this account"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, "ListTransactions", err)
		return
	}

	resp, err := h.ledgerService.ListTransactions(c.Request.Context(), c.Param("tenant_id"), params)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// postTransaction godoc
// @Summary Post a draft transaction
// @Tags transactions
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction is voided"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/transactions/{transaction_id}/post [post]
func (h *transactionHandler) postTransaction(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	txn, err := h.ledgerService.PostTransaction(c.Request.Context(), c.Param("tenant_id"), c.Param("transaction_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to post transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// voidTransaction godoc
// @Summary Void a posted transaction
// @Description Creates the mirrored reversing transaction and marks the original voided
// @Tags transactions
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.VoidTransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Already voided or still a draft"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/transactions/{transaction_id}/void [post]
func (h *transactionHandler) voidTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := actorID(c)
	if !ok {
		return
	}

	result, err := h.ledgerService.VoidTransaction(c.Request.Context(), c.Param("tenant_id"), c.Param("transaction_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to void transaction")
		return
	}

	logger.Info("Transaction voided",
		slog.String("transaction_id", result.Original.TransactionID),
		slog.String("reversing_id", result.Reversing.TransactionID))
	c.JSON(http.StatusOK, dto.VoidTransactionResponse{
		Original:  dto.ToTransactionResponse(result.Original),
		Reversing: dto.ToTransactionResponse(result.Reversing),
	})
}
