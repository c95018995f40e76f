package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the lifecycle state of a transaction.
// Transitions are one-directional: DRAFT -> POSTED -> VOIDED.
type TransactionStatus string

const (
	StatusDraft  TransactionStatus = "DRAFT"
	StatusPosted TransactionStatus = "POSTED"
	StatusVoided TransactionStatus = "VOIDED"
)

// IsValid reports whether s is a known status.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPosted, StatusVoided:
		return true
	}
	return false
}

// AffectsBalances reports whether entries of a transaction in this state are
// reflected in account balances. A voided original stays counted because its
// reversal offsets it.
func (s TransactionStatus) AffectsBalances() bool {
	return s == StatusPosted || s == StatusVoided
}

// DocumentType tags a transaction with the business document that produced it.
// It also scopes document numbering.
type DocumentType string

const (
	DocJournal  DocumentType = "JOURNAL"
	DocInvoice  DocumentType = "INVOICE"
	DocBill     DocumentType = "BILL"
	DocPayment  DocumentType = "PAYMENT"
	DocReversal DocumentType = "REVERSAL"
	DocVariance DocumentType = "VARIANCE"
)

// Transaction is one atomic financial event together with its owned entries.
type Transaction struct {
	TransactionID   string            `json:"transactionID"`
	TenantID        string            `json:"tenantID"`
	SequenceNumber  string            `json:"sequenceNumber"`
	SequenceValue   int64             `json:"sequenceValue"`
	FiscalYear      int               `json:"fiscalYear"`
	TransactionDate time.Time         `json:"transactionDate"`
	TransactionType DocumentType      `json:"transactionType"`
	Description     string            `json:"description"`
	Status          TransactionStatus `json:"status"`
	Reference       string            `json:"reference,omitempty"`
	ReversalOfID    string            `json:"reversalOfID,omitempty"`
	ReversedByID    string            `json:"reversedByID,omitempty"`
	Entries         []LedgerEntry     `json:"entries"`
	AuditFields
}

// Totals sums debit and credit base amounts of the owned entries.
func (t Transaction) Totals() (debits, credits decimal.Decimal) {
	return SumEntries(t.Entries)
}

// AccountIDs returns the distinct account ids referenced by the entries, in entry order.
func (t Transaction) AccountIDs() []string {
	seen := make(map[string]struct{}, len(t.Entries))
	ids := make([]string, 0, len(t.Entries))
	for _, e := range t.Entries {
		if _, ok := seen[e.AccountID]; ok {
			continue
		}
		seen[e.AccountID] = struct{}{}
		ids = append(ids, e.AccountID)
	}
	return ids
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	Status    TransactionStatus
	Type      DocumentType
	AccountID string
}

// DateOnly truncates t to midnight UTC of its calendar day. Transaction dates
// and as-of cut-offs are compared at day granularity.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
