package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// AccountReaderSvc defines read operations of the account registry.
type AccountReaderSvc interface {
	GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context, tenantID string, filter domain.AccountFilter) ([]domain.Account, error)
	// GetHierarchy builds the chart-of-accounts tree. It has no side effects.
	GetHierarchy(ctx context.Context, tenantID string, filter domain.AccountFilter) ([]*domain.AccountNode, error)
}

// AccountWriterSvc defines write operations of the account registry.
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, tenantID, accountID, userID string) error
}

// AccountValidatorSvc checks whether accounts accept postings.
type AccountValidatorSvc interface {
	ValidatePosting(ctx context.Context, tenantID, accountID string, isManualEntry bool) (*domain.PostingValidation, error)
	// CheckPostable verifies already-loaded accounts inside a unit of work.
	CheckPostable(accounts map[string]domain.Account, isManualEntry bool) error
}

// AccountSvcFacade combines all account registry operations.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountValidatorSvc
	// CreateAccountInTx creates an account inside the caller's unit of work.
	CreateAccountInTx(ctx context.Context, tx repositories.Tx, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)
}
