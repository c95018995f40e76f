package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/shopspring/decimal"
)

// BalanceCheck is the outcome of comparing debit and credit totals.
type BalanceCheck struct {
	Balanced    bool
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
	Difference  decimal.Decimal
}

// VoidResult carries the voided original and its reversing transaction.
type VoidResult struct {
	Original  *domain.Transaction
	Reversing *domain.Transaction
}

// LedgerReaderSvc defines read operations on transactions.
type LedgerReaderSvc interface {
	GetTransactionByID(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, tenantID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// LedgerWriterSvc defines the posting engine operations.
type LedgerWriterSvc interface {
	ValidateBalance(entries []domain.LedgerEntry) BalanceCheck
	CreateTransaction(ctx context.Context, tenantID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)
	// CreateTransactionInTx posts inside the caller's unit of work so that
	// collaborators can compose their own writes with the posting.
	CreateTransactionInTx(ctx context.Context, tx repositories.Tx, tenantID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)
	PostTransaction(ctx context.Context, tenantID, transactionID, userID string) (*domain.Transaction, error)
	VoidTransaction(ctx context.Context, tenantID, transactionID, actorID string) (*VoidResult, error)
}

// LedgerSvcFacade combines ledger reads and writes.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
