package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelTransaction converts a domain Transaction header to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		TenantID:        d.TenantID,
		SequenceNumber:  d.SequenceNumber,
		SequenceValue:   d.SequenceValue,
		FiscalYear:      d.FiscalYear,
		TransactionDate: d.TransactionDate,
		TransactionType: string(d.TransactionType),
		Description:     d.Description,
		Status:          string(d.Status),
		Reference:       d.Reference,
		ReversalOfID:    nullString(d.ReversalOfID),
		ReversedByID:    nullString(d.ReversedByID),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction and its entries to a domain Transaction
func ToDomainTransaction(m models.Transaction, entries []models.LedgerEntry) domain.Transaction {
	out := domain.Transaction{
		TransactionID:   m.TransactionID,
		TenantID:        m.TenantID,
		SequenceNumber:  m.SequenceNumber,
		SequenceValue:   m.SequenceValue,
		FiscalYear:      m.FiscalYear,
		TransactionDate: m.TransactionDate,
		TransactionType: domain.DocumentType(m.TransactionType),
		Description:     m.Description,
		Status:          domain.TransactionStatus(m.Status),
		Reference:       m.Reference,
		ReversalOfID:    m.ReversalOfID.String,
		ReversedByID:    m.ReversedByID.String,
		Entries:         make([]domain.LedgerEntry, len(entries)),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
	for i, e := range entries {
		out.Entries[i] = ToDomainLedgerEntry(e)
	}
	return out
}

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:       d.EntryID,
		TransactionID: d.TransactionID,
		LineNumber:    d.LineNumber,
		AccountID:     d.AccountID,
		Side:          string(d.Side),
		Amount:        d.Amount,
		CurrencyCode:  d.CurrencyCode,
		ExchangeRate:  d.ExchangeRate,
		BaseAmount:    d.BaseAmount,
		Description:   d.Description,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:       m.EntryID,
		TransactionID: m.TransactionID,
		LineNumber:    m.LineNumber,
		AccountID:     m.AccountID,
		Side:          domain.EntrySide(m.Side),
		Amount:        m.Amount,
		CurrencyCode:  m.CurrencyCode,
		ExchangeRate:  m.ExchangeRate,
		BaseAmount:    m.BaseAmount,
		Description:   m.Description,
	}
}
