package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// balanceHandler serves balance queries and reconciliation.
type balanceHandler struct {
	balanceService portssvc.BalanceSvcFacade
}

// RegisterBalanceRoutes registers balance routes under a tenant group.
func RegisterBalanceRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade) {
	h := &balanceHandler{balanceService: balanceService}

	rg.GET("/accounts/:account_id/balance", h.getAccountBalance)
	rg.GET("/balances", h.getHierarchicalBalances)
	rg.POST("/balances/reconcile", h.reconcileBalances)
}

func bindBalanceQuery(c *gin.Context, op string) (dto.BalanceQuery, bool) {
	var q dto.BalanceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, op, err)
		return q, false
	}
	return q, true
}

// getAccountBalance godoc
// @Summary Get an account balance
// @Description Returns the cached balance, or the balance recomputed from entries dated on or before as_of
// @Tags balances
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   account_id path string true "Account ID"
// @Param   as_of query string false "As-of date (YYYY-MM-DD)"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 400 {object} map[string]string "Invalid as_of"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts/{account_id}/balance [get]
func (h *balanceHandler) getAccountBalance(c *gin.Context) {
	q, ok := bindBalanceQuery(c, "GetAccountBalance")
	if !ok {
		return
	}
	asOf, err := q.Date()
	if err != nil {
		bindError(c, "GetAccountBalance", err)
		return
	}
	accountID := c.Param("account_id")

	balance, err := h.balanceService.GetAccountBalance(c.Request.Context(), c.Param("tenant_id"), accountID, asOf)
	if err != nil {
		respondError(c, err, "Failed to calculate balance")
		return
	}
	c.JSON(http.StatusOK, dto.AccountBalanceResponse{AccountID: accountID, Balance: balance, AsOf: q.AsOf})
}

// getHierarchicalBalances godoc
// @Summary Hierarchical balance report
// @Description Returns the account tree with own and rolled-up balances
// @Tags balances
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   as_of query string false "As-of date (YYYY-MM-DD)"
// @Success 200 {array} dto.BalanceNodeResponse
// @Failure 400 {object} map[string]string "Invalid as_of"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/balances [get]
func (h *balanceHandler) getHierarchicalBalances(c *gin.Context) {
	q, ok := bindBalanceQuery(c, "GetHierarchicalBalances")
	if !ok {
		return
	}
	asOf, err := q.Date()
	if err != nil {
		bindError(c, "GetHierarchicalBalances", err)
		return
	}

	nodes, err := h.balanceService.GetHierarchicalBalances(c.Request.Context(), c.Param("tenant_id"), asOf)
	if err != nil {
		respondError(c, err, "Failed to build balance report")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceTreeResponse(nodes))
}

// reconcileBalances godoc
// @Summary Reconcile cached balances
// @Description Recomputes every cached balance from posted entries and repairs drift
// @Tags balances
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Success 200 {array} dto.BalanceDriftResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/balances/reconcile [post]
func (h *balanceHandler) reconcileBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := actorID(c)
	if !ok {
		return
	}
	tenantID := c.Param("tenant_id")

	drifts, err := h.balanceService.ReconcileBalances(c.Request.Context(), tenantID, userID)
	if err != nil {
		respondError(c, err, "Failed to reconcile balances")
		return
	}

	logger.Info("Balances reconciled", slog.String("tenant_id", tenantID), slog.Int("drift_count", len(drifts)))
	c.JSON(http.StatusOK, dto.ToBalanceDriftResponse(drifts))
}
