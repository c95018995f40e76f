package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// CostVariance is a row of the cost_variances table.
type CostVariance struct {
	VarianceID    string          `db:"variance_id"`
	TenantID      string          `db:"tenant_id"`
	Reference     string          `db:"reference"`
	VarianceDate  time.Time       `db:"variance_date"`
	StandardCost  decimal.Decimal `db:"standard_cost"`
	ActualCost    decimal.Decimal `db:"actual_cost"`
	Variance      decimal.Decimal `db:"variance"`
	Components    []byte          `db:"components"` // JSONB
	TransactionID sql.NullString  `db:"transaction_id"`
	AuditFields
}
