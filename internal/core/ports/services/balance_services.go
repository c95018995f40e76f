package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// BalanceAccumulatorSvc mutates cached balances inside a unit of work.
type BalanceAccumulatorSvc interface {
	// ApplyDelta adds a signed amount to one account's cached balance.
	ApplyDelta(ctx context.Context, tx repositories.Tx, tenantID, accountID string, signedAmount decimal.Decimal, userID string) error
	// ApplyEntries applies the signed deltas of all entries against the locked accounts.
	ApplyEntries(ctx context.Context, tx repositories.Tx, tenantID string, accounts map[string]domain.Account, entries []domain.LedgerEntry, userID string) error
}

// BalanceReaderSvc answers balance queries.
type BalanceReaderSvc interface {
	GetAccountBalance(ctx context.Context, tenantID, accountID string, asOf *time.Time) (decimal.Decimal, error)
	// Rollup is the account's own balance plus the rollup of every descendant.
	Rollup(ctx context.Context, tenantID, accountID string, asOf *time.Time) (decimal.Decimal, error)
	GetHierarchicalBalances(ctx context.Context, tenantID string, asOf *time.Time) ([]*domain.BalanceNode, error)
}

// BalanceSvcFacade combines balance operations.
type BalanceSvcFacade interface {
	BalanceAccumulatorSvc
	BalanceReaderSvc
	// ReconcileBalances recomputes cached balances from entries and repairs drift.
	ReconcileBalances(ctx context.Context, tenantID, userID string) ([]domain.BalanceDrift, error)
	// Invalidate drops cached reports for the tenant after balances change.
	Invalidate(ctx context.Context, tenantID string)
}
