package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves an account of the tenant by id.
	FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account of the tenant by its chart code.
	FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error)

	// ListAccounts returns all accounts of the tenant ordered by code.
	ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account. A duplicate code yields apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// MarkHasChildren flags the account as a parent.
	MarkHasChildren(ctx context.Context, tenantID, accountID, userID string, now time.Time) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, tenantID, accountID, userID string, now time.Time) error
}

// AccountBalanceWriter defines the balance operations that must run inside a unit of work.
type AccountBalanceWriter interface {
	// FindAccountsByIDsForUpdate loads and locks the accounts. Every id must exist
	// for the tenant, otherwise apperrors.ErrNotFound is returned.
	FindAccountsByIDsForUpdate(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalances adds each delta to the account's cached balance.
	UpdateAccountBalances(ctx context.Context, tenantID string, deltas map[string]decimal.Decimal, userID string, now time.Time) error

	// SetAccountBalance overwrites the cached balance, used by reconciliation.
	SetAccountBalance(ctx context.Context, tenantID, accountID string, balance decimal.Decimal, userID string, now time.Time) error
}

// AccountRepository combines all account-related repository interfaces.
type AccountRepository interface {
	AccountReader
	AccountWriter
	AccountBalanceWriter
}
