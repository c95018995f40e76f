package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryTotals holds per-account debit and credit sums in base currency.
type EntryTotals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// ListTransactionsParams controls transaction pagination.
type ListTransactionsParams struct {
	Filter    domain.TransactionFilter
	Limit     int
	NextToken *string
}

// TransactionReader defines read operations for transactions.
type TransactionReader interface {
	// FindTransactionByID loads a transaction of the tenant with its entries.
	FindTransactionByID(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns one page of transactions, newest first, and the
	// token for the next page when more remain.
	ListTransactions(ctx context.Context, tenantID string, params ListTransactionsParams) ([]domain.Transaction, *string, error)

	// SumEntriesByAccount totals entries of balance-affecting transactions,
	// optionally limited to transactions dated on or before asOf. When
	// accountIDs is non-empty only those accounts are totalled.
	SumEntriesByAccount(ctx context.Context, tenantID string, asOf *time.Time, accountIDs ...string) (map[string]EntryTotals, error)
}

// TransactionWriter defines write operations for transactions.
type TransactionWriter interface {
	// SaveTransaction persists the header and all entries.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// FindTransactionByIDForUpdate loads and locks a transaction header with its entries.
	FindTransactionByIDForUpdate(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error)

	// UpdateTransactionStatus moves a transaction to status and optionally records the reversing transaction.
	UpdateTransactionStatus(ctx context.Context, tenantID, transactionID string, status domain.TransactionStatus, reversedByID string, userID string, now time.Time) error
}

// TransactionRepository combines all transaction-related repository interfaces.
type TransactionRepository interface {
	TransactionReader
	TransactionWriter
}
