package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceQuery holds the optional as-of date for balance endpoints (YYYY-MM-DD).
type BalanceQuery struct {
	AsOf string `form:"as_of" binding:"omitempty,datetime=2006-01-02"`
}

// AccountBalanceResponse is the balance of a single account.
type AccountBalanceResponse struct {
	AccountID string          `json:"accountID"`
	Balance   decimal.Decimal `json:"balance"`
	AsOf      string          `json:"asOf,omitempty"`
}

// BalanceNodeResponse is one node of the hierarchical balance report.
type BalanceNodeResponse struct {
	AccountID       string                `json:"accountID"`
	Code            string                `json:"code"`
	Name            string                `json:"name"`
	AccountType     domain.AccountType    `json:"accountType"`
	OwnBalance      decimal.Decimal       `json:"ownBalance"`
	RolledUpBalance decimal.Decimal       `json:"rolledUpBalance"`
	Children        []BalanceNodeResponse `json:"children,omitempty"`
}

// BalanceDriftResponse reports a cached balance that did not match its entries.
type BalanceDriftResponse struct {
	AccountID  string          `json:"accountID"`
	Cached     decimal.Decimal `json:"cached"`
	Recomputed decimal.Decimal `json:"recomputed"`
}

// ToBalanceTreeResponse converts a balance tree.
func ToBalanceTreeResponse(nodes []*domain.BalanceNode) []BalanceNodeResponse {
	out := make([]BalanceNodeResponse, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, BalanceNodeResponse{
			AccountID:       n.AccountID,
			Code:            n.Code,
			Name:            n.Name,
			AccountType:     n.AccountType,
			OwnBalance:      n.OwnBalance,
			RolledUpBalance: n.RolledUpBalance,
			Children:        ToBalanceTreeResponse(n.Children),
		})
	}
	return out
}

// ToBalanceDriftResponse converts a reconciliation report.
func ToBalanceDriftResponse(drifts []domain.BalanceDrift) []BalanceDriftResponse {
	out := make([]BalanceDriftResponse, len(drifts))
	for i, d := range drifts {
		out[i] = BalanceDriftResponse{AccountID: d.AccountID, Cached: d.Cached, Recomputed: d.Recomputed}
	}
	return out
}

// Date returns the as-of date at UTC midnight, or nil when the query has none.
func (q BalanceQuery) Date() (*time.Time, error) {
	if q.AsOf == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, q.AsOf)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
