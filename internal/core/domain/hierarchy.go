package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// AccountNode is one account in a chart-of-accounts tree view.
type AccountNode struct {
	Account  Account        `json:"account"`
	Children []*AccountNode `json:"children,omitempty"`
}

// BalanceNode is one account in a hierarchical balance report.
type BalanceNode struct {
	AccountID       string          `json:"accountID"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	AccountType     AccountType     `json:"accountType"`
	OwnBalance      decimal.Decimal `json:"ownBalance"`
	RolledUpBalance decimal.Decimal `json:"rolledUpBalance"`
	Children        []*BalanceNode  `json:"children,omitempty"`
}

// AccountFilter narrows account listings and hierarchy views.
type AccountFilter struct {
	AccountType     AccountType
	IncludeInactive bool
	RootAccountID   string
}

// Matches reports whether acc passes the type and activity filters.
func (f AccountFilter) Matches(acc Account) bool {
	if f.AccountType != "" && acc.AccountType != f.AccountType {
		return false
	}
	return f.IncludeInactive || acc.IsActive
}

// AccountArena indexes a flat account list by id with children grouped per parent.
// Children are ordered by code.
type AccountArena struct {
	ByID     map[string]Account
	Children map[string][]string
	Roots    []string
}

// NewAccountArena indexes accounts. Accounts whose parent is missing from the
// list are treated as roots.
func NewAccountArena(accounts []Account) *AccountArena {
	a := &AccountArena{
		ByID:     make(map[string]Account, len(accounts)),
		Children: make(map[string][]string),
	}
	for _, acc := range accounts {
		a.ByID[acc.AccountID] = acc
	}
	for _, acc := range accounts {
		if _, ok := a.ByID[acc.ParentAccountID]; acc.IsRoot() || !ok {
			a.Roots = append(a.Roots, acc.AccountID)
			continue
		}
		a.Children[acc.ParentAccountID] = append(a.Children[acc.ParentAccountID], acc.AccountID)
	}
	byCode := func(ids []string) {
		sort.Slice(ids, func(i, j int) bool { return a.ByID[ids[i]].Code < a.ByID[ids[j]].Code })
	}
	byCode(a.Roots)
	for _, ids := range a.Children {
		byCode(ids)
	}
	return a
}

// BalanceDrift is a cached balance that disagrees with its entry history.
type BalanceDrift struct {
	AccountID  string          `json:"accountID"`
	Cached     decimal.Decimal `json:"cached"`
	Recomputed decimal.Decimal `json:"recomputed"`
}
