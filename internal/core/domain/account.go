package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AccountTypes lists every valid account type in chart order.
var AccountTypes = []AccountType{Asset, Liability, Equity, Revenue, Expense}

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// NormalSide is the side that increases an account of this type.
func (t AccountType) NormalSide() EntrySide {
	switch t {
	case Asset, Expense:
		return Debit
	default:
		return Credit
	}
}

// PathSeparator joins account codes in an account's hierarchical path.
const PathSeparator = "/"

// Account represents one node of a tenant's chart of accounts.
type Account struct {
	AccountID           string          `json:"accountID"`
	TenantID            string          `json:"tenantID"`
	Code                string          `json:"code"`
	Name                string          `json:"name"`
	AccountType         AccountType     `json:"accountType"`
	SubType             string          `json:"subType,omitempty"`
	ParentAccountID     string          `json:"parentAccountID,omitempty"` // empty for root accounts
	CurrencyCode        string          `json:"currencyCode"`
	Description         string          `json:"description,omitempty"`
	Balance             decimal.Decimal `json:"balance"` // cached; mutated only inside a unit of work
	Level               int             `json:"level"`
	Path                string          `json:"path"`
	HasChildren         bool            `json:"hasChildren"`
	AllowsManualPosting bool            `json:"allowsManualPosting"`
	IsSystem            bool            `json:"isSystem"`
	IsActive            bool            `json:"isActive"`
	AuditFields
}

// IsRoot reports whether the account has no parent.
func (a Account) IsRoot() bool {
	return a.ParentAccountID == ""
}

// PostingViolation is a reason an account cannot receive an entry.
type PostingViolation string

const (
	ViolationInactive         PostingViolation = "INACTIVE"
	ViolationHasChildren      PostingViolation = "HAS_CHILDREN"
	ViolationManualNotAllowed PostingViolation = "MANUAL_NOT_ALLOWED"
)

// PostingViolations lists every reason the account cannot be posted to.
func (a Account) PostingViolations(isManualEntry bool) []PostingViolation {
	var v []PostingViolation
	if !a.IsActive {
		v = append(v, ViolationInactive)
	}
	if a.HasChildren {
		v = append(v, ViolationHasChildren)
	}
	if isManualEntry && !a.AllowsManualPosting {
		v = append(v, ViolationManualNotAllowed)
	}
	return v
}

// PostingValidation is the result of checking whether an account accepts postings.
type PostingValidation struct {
	AccountID string             `json:"accountID"`
	OK        bool               `json:"ok"`
	Reasons   []PostingViolation `json:"reasons,omitempty"`
}

// SignedAmount applies the normal-balance rule: entries on the normal side
// increase the balance, entries on the opposite side decrease it.
func (a Account) SignedAmount(side EntrySide, amount decimal.Decimal) decimal.Decimal {
	if side == a.AccountType.NormalSide() {
		return amount
	}
	return amount.Neg()
}
