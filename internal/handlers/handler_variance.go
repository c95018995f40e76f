package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/gin-gonic/gin"
)

type varianceHandler struct {
	varianceService portssvc.CostVarianceSvc
}

// RegisterVarianceRoutes registers cost variance routes under a tenant group.
func RegisterVarianceRoutes(rg *gin.RouterGroup, varianceService portssvc.CostVarianceSvc) {
	h := &varianceHandler{varianceService: varianceService}

	rg.POST("/variances", h.recordCostVariance)
	rg.GET("/variances/:variance_id", h.getCostVariance)
}

// recordCostVariance godoc
// @Summary Record a cost variance
// @Description Stores actual minus standard cost and posts a balanced VARIANCE transaction when it is not zero
// @Tags variances
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   variance body dto.RecordCostVarianceRequest true "Costs and accounts"
// @Success 201 {object} dto.CostVarianceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Variance accounts misconfigured"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/variances [post]
func (h *varianceHandler) recordCostVariance(c *gin.Context) {
	var req dto.RecordCostVarianceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, "RecordCostVariance", err)
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	cv, err := h.varianceService.RecordCostVariance(c.Request.Context(), c.Param("tenant_id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to record cost variance")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCostVarianceResponse(cv))
}

// getCostVariance godoc
// @Summary Get a cost variance
// @Tags variances
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   variance_id path string true "Variance ID"
// @Success 200 {object} dto.CostVarianceResponse
// @Failure 404 {object} map[string]string "Variance not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/variances/{variance_id} [get]
func (h *varianceHandler) getCostVariance(c *gin.Context) {
	cv, err := h.varianceService.GetCostVariance(c.Request.Context(), c.Param("tenant_id"), c.Param("variance_id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve cost variance")
		return
	}
	c.JSON(http.StatusOK, dto.ToCostVarianceResponse(cv))
}
