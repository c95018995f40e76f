package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// RegisterAccountRoutes registers the account registry routes under a tenant group.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := &accountHandler{accountService: accountService}

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/hierarchy", h.getHierarchy)
		accounts.GET("/code/:code", h.getAccountByCode)
		accounts.GET("/:account_id", h.getAccount)
		accounts.DELETE("/:account_id", h.deactivateAccount)
		accounts.GET("/:account_id/posting-check", h.validatePosting)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates an account in the tenant's chart of accounts
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Tenant or parent not found"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, "CreateAccount", err)
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}
	tenantID := c.Param("tenant_id")

	logger.Info("Received request to create account", slog.String("tenant_id", tenantID), slog.String("code", req.Code))

	account, err := h.accountService.CreateAccount(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   account_id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts/{account_id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("tenant_id"), c.Param("account_id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccountByCode godoc
// @Summary Get an account by code
// @Tags accounts
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   code path string true "Account code"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts/code/{code} [get]
func (h *accountHandler) getAccountByCode(c *gin.Context) {
	account, err := h.accountService.GetAccountByCode(c.Request.Context(), c.Param("tenant_id"), c.Param("code"))
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists the tenant's accounts ordered by code
// @Tags accounts
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   type query string false "Account type filter"
// @Param   includeInactive query bool false "Include inactive accounts"
// @Success 200 {array} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, "ListAccounts", err)
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), c.Param("tenant_id"), params.ToFilter())
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// getHierarchy godoc
// @Summary Chart of accounts tree
// @Tags accounts
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   type query string false "Account type filter"
// @Param   includeInactive query bool false "Include inactive accounts"
// @Param   root query string false "Root account ID"
// @Success 200 {array} dto.AccountNodeResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts/hierarchy [get]
func (h *accountHandler) getHierarchy(c *gin.Context) {
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, "GetHierarchy", err)
		return
	}

	nodes, err := h.accountService.GetHierarchy(c.Request.Context(), c.Param("tenant_id"), params.ToFilter())
	if err != nil {
		respondError(c, err, "Failed to build account hierarchy")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountTreeResponse(nodes))
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Description Marks an account inactive. Accounts with active children cannot be deactivated.
// @Tags accounts
// @Param   tenant_id path string true "Tenant ID"
// @Param   account_id path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account has active children"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts/{account_id} [delete]
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := actorID(c)
	if !ok {
		return
	}
	accountID := c.Param("account_id")

	if err := h.accountService.DeactivateAccount(c.Request.Context(), c.Param("tenant_id"), accountID, userID); err != nil {
		respondError(c, err, "Failed to deactivate account")
		return
	}

	logger.Info("Account deactivated", slog.String("account_id", accountID))
	c.Status(http.StatusNoContent)
}

type postingCheckQuery struct {
	Manual bool `form:"manual"`
}

// validatePosting godoc
// @Summary Check whether an account accepts postings
// @Tags accounts
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   account_id path string true "Account ID"
// @Param   manual query bool false "Manual entry"
// @Success 200 {object} domain.PostingValidation
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts/{account_id}/posting-check [get]
func (h *accountHandler) validatePosting(c *gin.Context) {
	var q postingCheckQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, "ValidatePosting", err)
		return
	}

	result, err := h.accountService.ValidatePosting(c.Request.Context(), c.Param("tenant_id"), c.Param("account_id"), q.Manual)
	if err != nil {
		respondError(c, err, "Failed to validate posting")
		return
	}
	c.JSON(http.StatusOK, result)
}
