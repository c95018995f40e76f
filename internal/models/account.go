package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Account is a row of the accounts table.
type Account struct {
	AccountID           string          `db:"account_id"`
	TenantID            string          `db:"tenant_id"`
	Code                string          `db:"code"`
	Name                string          `db:"name"`
	AccountType         string          `db:"account_type"`
	SubType             string          `db:"sub_type"`
	ParentAccountID     sql.NullString  `db:"parent_account_id"` // Nullable
	CurrencyCode        string          `db:"currency_code"`
	Description         string          `db:"description"`
	Balance             decimal.Decimal `db:"balance"`
	Level               int             `db:"level"`
	Path                string          `db:"path"`
	HasChildren         bool            `db:"has_children"`
	AllowsManualPosting bool            `db:"allows_manual_posting"`
	IsSystem            bool            `db:"is_system"`
	IsActive            bool            `db:"is_active"`
	AuditFields
}
