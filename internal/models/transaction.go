package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table.
type Transaction struct {
	TransactionID   string         `db:"transaction_id"`
	TenantID        string         `db:"tenant_id"`
	SequenceNumber  string         `db:"sequence_number"`
	SequenceValue   int64          `db:"sequence_value"`
	FiscalYear      int            `db:"fiscal_year"`
	TransactionDate time.Time      `db:"transaction_date"`
	TransactionType string         `db:"transaction_type"`
	Description     string         `db:"description"`
	Status          string         `db:"status"`
	Reference       string         `db:"reference"`
	ReversalOfID    sql.NullString `db:"reversal_of_id"` // Nullable
	ReversedByID    sql.NullString `db:"reversed_by_id"` // Nullable
	AuditFields
}

// LedgerEntry is a row of the ledger_entries table.
type LedgerEntry struct {
	EntryID       string          `db:"entry_id"`
	TransactionID string          `db:"transaction_id"`
	LineNumber    int             `db:"line_number"`
	AccountID     string          `db:"account_id"`
	Side          string          `db:"side"`
	Amount        decimal.Decimal `db:"amount"`
	CurrencyCode  string          `db:"currency_code"`
	ExchangeRate  decimal.Decimal `db:"exchange_rate"`
	BaseAmount    decimal.Decimal `db:"base_amount"`
	Description   string          `db:"description"`
}
