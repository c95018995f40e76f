package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordCostVarianceRequest describes a standard-vs-actual cost discrepancy to post.
type RecordCostVarianceRequest struct {
	StandardCost      decimal.Decimal `json:"standardCost"`
	ActualCost        decimal.Decimal `json:"actualCost"`
	VarianceAccountID string          `json:"varianceAccountID" binding:"required"`
	OffsetAccountID   string          `json:"offsetAccountID" binding:"required"`
	VarianceDate      time.Time       `json:"varianceDate" binding:"required"`
	Reference         string          `json:"reference" binding:"max=255"`
}

// CostVarianceResponse is a recorded variance with its optional posting.
type CostVarianceResponse struct {
	VarianceID    string                     `json:"varianceID"`
	Reference     string                     `json:"reference,omitempty"`
	VarianceDate  time.Time                  `json:"varianceDate"`
	StandardCost  decimal.Decimal            `json:"standardCost"`
	ActualCost    decimal.Decimal            `json:"actualCost"`
	Variance      decimal.Decimal            `json:"variance"`
	Components    []domain.VarianceComponent `json:"components"`
	TransactionID string                     `json:"transactionID,omitempty"`
}

func ToCostVarianceResponse(v *domain.CostVariance) CostVarianceResponse {
	return CostVarianceResponse{
		VarianceID:    v.VarianceID,
		Reference:     v.Reference,
		VarianceDate:  v.VarianceDate,
		StandardCost:  v.StandardCost,
		ActualCost:    v.ActualCost,
		Variance:      v.Variance,
		Components:    v.Components,
		TransactionID: v.TransactionID,
	}
}
