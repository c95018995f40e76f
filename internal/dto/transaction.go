package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLedgerEntryRequest is one proposed debit or credit line.
type CreateLedgerEntryRequest struct {
	AccountID    string           `json:"accountID" binding:"required"`
	Side         domain.EntrySide `json:"side" binding:"required,oneof=DEBIT CREDIT"`
	Amount       decimal.Decimal  `json:"amount"`
	CurrencyCode string           `json:"currencyCode" binding:"omitempty,iso4217"` // defaults to the tenant base currency
	ExchangeRate *decimal.Decimal `json:"exchangeRate"`                              // defaults to 1
	Description  string           `json:"description"`
}

// CreateTransactionRequest is the input to the posting engine. Collaborators
// (invoicing, payments, variances) build one of these and hand it over.
type CreateTransactionRequest struct {
	TransactionDate time.Time                  `json:"transactionDate" binding:"required"`
	TransactionType domain.DocumentType        `json:"transactionType" binding:"required,max=32"`
	Description     string                     `json:"description" binding:"max=1000"`
	Reference       string                     `json:"reference" binding:"max=255"`
	Status          domain.TransactionStatus   `json:"status" binding:"omitempty,oneof=DRAFT POSTED"` // defaults to POSTED
	IsManual        bool                       `json:"isManual"`
	Entries         []CreateLedgerEntryRequest `json:"entries" binding:"required,dive"`

	// ReversalOfID is set by the void handler only.
	ReversalOfID string `json:"-"`
}

// ListTransactionsParams defines the query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int                      `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string                  `form:"nextToken"`
	Status    domain.TransactionStatus `form:"status" binding:"omitempty,oneof=DRAFT POSTED VOIDED"`
	Type      domain.DocumentType      `form:"type"`
	AccountID string                   `form:"accountID"`
}

// LedgerEntryResponse is one entry line of a transaction.
type LedgerEntryResponse struct {
	EntryID      string           `json:"entryID"`
	LineNumber   int              `json:"lineNumber"`
	AccountID    string           `json:"accountID"`
	Side         domain.EntrySide `json:"side"`
	Amount       decimal.Decimal  `json:"amount"`
	CurrencyCode string           `json:"currencyCode"`
	ExchangeRate decimal.Decimal  `json:"exchangeRate"`
	BaseAmount   decimal.Decimal  `json:"baseAmount"`
	Description  string           `json:"description,omitempty"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID   string                   `json:"transactionID"`
	TenantID        string                   `json:"tenantID"`
	SequenceNumber  string                   `json:"sequenceNumber"`
	TransactionDate time.Time                `json:"transactionDate"`
	TransactionType domain.DocumentType      `json:"transactionType"`
	Description     string                   `json:"description"`
	Status          domain.TransactionStatus `json:"status"`
	Reference       string                   `json:"reference,omitempty"`
	ReversalOfID    string                   `json:"reversalOfID,omitempty"`
	ReversedByID    string                   `json:"reversedByID,omitempty"`
	DebitTotal      decimal.Decimal          `json:"debitTotal"`
	CreditTotal     decimal.Decimal          `json:"creditTotal"`
	Entries         []LedgerEntryResponse    `json:"entries"`
	CreatedAt       time.Time                `json:"createdAt"`
	CreatedBy       string                   `json:"createdBy"`
	LastUpdatedAt   time.Time                `json:"lastUpdatedAt"`
	LastUpdatedBy   string                   `json:"lastUpdatedBy"`
}

// ListTransactionsResponse is one page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// VoidTransactionResponse carries both sides of a void.
type VoidTransactionResponse struct {
	Original  TransactionResponse `json:"original"`
	Reversing TransactionResponse `json:"reversing"`
}

// ToTransactionResponse converts a domain.Transaction to its DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	debits, credits := t.Totals()
	entries := make([]LedgerEntryResponse, len(t.Entries))
	for i, e := range t.Entries {
		entries[i] = LedgerEntryResponse{
			EntryID:      e.EntryID,
			LineNumber:   e.LineNumber,
			AccountID:    e.AccountID,
			Side:         e.Side,
			Amount:       e.Amount,
			CurrencyCode: e.CurrencyCode,
			ExchangeRate: e.ExchangeRate,
			BaseAmount:   e.BaseAmount,
			Description:  e.Description,
		}
	}
	return TransactionResponse{
		TransactionID:   t.TransactionID,
		TenantID:        t.TenantID,
		SequenceNumber:  t.SequenceNumber,
		TransactionDate: t.TransactionDate,
		TransactionType: t.TransactionType,
		Description:     t.Description,
		Status:          t.Status,
		Reference:       t.Reference,
		ReversalOfID:    t.ReversalOfID,
		ReversedByID:    t.ReversedByID,
		DebitTotal:      debits,
		CreditTotal:     credits,
		Entries:         entries,
		CreatedAt:       t.CreatedAt,
		CreatedBy:       t.CreatedBy,
		LastUpdatedAt:   t.LastUpdatedAt,
		LastUpdatedBy:   t.LastUpdatedBy,
	}
}

// ToListTransactionsResponse converts one page of transactions.
func ToListTransactionsResponse(txns []domain.Transaction, nextToken *string) ListTransactionsResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return ListTransactionsResponse{Transactions: out, NextToken: nextToken}
}
