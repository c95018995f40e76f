package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VarianceComponent is one named share of a cost variance.
type VarianceComponent struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// CostVariance records the gap between standard and actual cost in base currency.
// Variance is actual minus standard, so a positive value is unfavourable.
type CostVariance struct {
	VarianceID    string              `json:"varianceID"`
	TenantID      string              `json:"tenantID"`
	Reference     string              `json:"reference,omitempty"`
	VarianceDate  time.Time           `json:"varianceDate"`
	StandardCost  decimal.Decimal     `json:"standardCost"`
	ActualCost    decimal.Decimal     `json:"actualCost"`
	Variance      decimal.Decimal     `json:"variance"`
	Components    []VarianceComponent `json:"components"`
	TransactionID string              `json:"transactionID,omitempty"`
	AuditFields
}

// IsFavourable reports whether actual cost came in under standard.
func (v CostVariance) IsFavourable() bool {
	return v.Variance.IsNegative()
}
