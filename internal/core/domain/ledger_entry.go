package domain

import "github.com/shopspring/decimal"

// EntrySide indicates whether a ledger entry is a Debit or a Credit.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// IsValid reports whether s is Debit or Credit.
func (s EntrySide) IsValid() bool {
	return s == Debit || s == Credit
}

// Opposite returns the other side.
func (s EntrySide) Opposite() EntrySide {
	if s == Debit {
		return Credit
	}
	return Debit
}

// BaseAmountScale is the number of decimal places kept for base-currency amounts.
const BaseAmountScale = 8

// ExchangeRateScale is the number of decimal places kept for exchange rates.
const ExchangeRateScale = 12

// FitsScale reports whether d has at most places decimal digits.
func FitsScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// LedgerEntry is one debit or credit line owned by a single Transaction.
type LedgerEntry struct {
	EntryID       string          `json:"entryID"`
	TransactionID string          `json:"transactionID"`
	LineNumber    int             `json:"lineNumber"`
	AccountID     string          `json:"accountID"`
	Side          EntrySide       `json:"side"`
	Amount        decimal.Decimal `json:"amount"`
	CurrencyCode  string          `json:"currencyCode"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`
	BaseAmount    decimal.Decimal `json:"baseAmount"`
	Description   string          `json:"description,omitempty"`
}

// ComputeBaseAmount converts amount into the tenant base currency.
func ComputeBaseAmount(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(BaseAmountScale)
}

// SumEntries totals base amounts per side.
func SumEntries(entries []LedgerEntry) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, e := range entries {
		switch e.Side {
		case Debit:
			debits = debits.Add(e.BaseAmount)
		case Credit:
			credits = credits.Add(e.BaseAmount)
		}
	}
	return debits, credits
}

// Mirror returns a copy of the entries with every side flipped. Amounts,
// currencies and rates are unchanged; identifiers are cleared.
func Mirror(entries []LedgerEntry) []LedgerEntry {
	out := make([]LedgerEntry, len(entries))
	for i, e := range entries {
		e.EntryID = ""
		e.TransactionID = ""
		e.Side = e.Side.Opposite()
		out[i] = e
	}
	return out
}
