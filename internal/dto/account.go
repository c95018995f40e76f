package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code                string             `json:"code" binding:"required,acctcode"`
	Name                string             `json:"name" binding:"required,max=255"`
	AccountType         domain.AccountType `json:"accountType" binding:"omitempty,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"` // inferred from the code range when empty
	SubType             string             `json:"subType" binding:"max=64"`
	ParentAccountID     *string            `json:"parentAccountID"`
	CurrencyCode        string             `json:"currencyCode" binding:"omitempty,iso4217"` // defaults to the tenant base currency
	Description         string             `json:"description"`
	AllowsManualPosting *bool              `json:"allowsManualPosting"` // defaults to true unless IsSystem
	IsSystem            bool               `json:"isSystem"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID           string             `json:"accountID"`
	TenantID            string             `json:"tenantID"`
	Code                string             `json:"code"`
	Name                string             `json:"name"`
	AccountType         domain.AccountType `json:"accountType"`
	SubType             string             `json:"subType,omitempty"`
	ParentAccountID     string             `json:"parentAccountID,omitempty"`
	CurrencyCode        string             `json:"currencyCode"`
	Description         string             `json:"description,omitempty"`
	Balance             decimal.Decimal    `json:"balance"`
	Level               int                `json:"level"`
	Path                string             `json:"path"`
	HasChildren         bool               `json:"hasChildren"`
	AllowsManualPosting bool               `json:"allowsManualPosting"`
	IsSystem            bool               `json:"isSystem"`
	IsActive            bool               `json:"isActive"`
	CreatedAt           time.Time          `json:"createdAt"`
	CreatedBy           string             `json:"createdBy"`
	LastUpdatedAt       time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy       string             `json:"lastUpdatedBy"`
}

// ListAccountsParams are the query parameters accepted when listing accounts.
type ListAccountsParams struct {
	AccountType     domain.AccountType `form:"type" binding:"omitempty,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	IncludeInactive bool               `form:"includeInactive"`
	RootAccountID   string             `form:"root"`
}

// ToFilter converts the query parameters into a domain filter.
func (p ListAccountsParams) ToFilter() domain.AccountFilter {
	return domain.AccountFilter{
		AccountType:     p.AccountType,
		IncludeInactive: p.IncludeInactive,
		RootAccountID:   p.RootAccountID,
	}
}

// AccountNodeResponse is one node of the chart-of-accounts tree.
type AccountNodeResponse struct {
	AccountResponse
	Children []AccountNodeResponse `json:"children,omitempty"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:           acc.AccountID,
		TenantID:            acc.TenantID,
		Code:                acc.Code,
		Name:                acc.Name,
		AccountType:         acc.AccountType,
		SubType:             acc.SubType,
		ParentAccountID:     acc.ParentAccountID,
		CurrencyCode:        acc.CurrencyCode,
		Description:         acc.Description,
		Balance:             acc.Balance,
		Level:               acc.Level,
		Path:                acc.Path,
		HasChildren:         acc.HasChildren,
		AllowsManualPosting: acc.AllowsManualPosting,
		IsSystem:            acc.IsSystem,
		IsActive:            acc.IsActive,
		CreatedAt:           acc.CreatedAt,
		CreatedBy:           acc.CreatedBy,
		LastUpdatedAt:       acc.LastUpdatedAt,
		LastUpdatedBy:       acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of accounts.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}

// ToAccountTreeResponse converts a hierarchy view.
func ToAccountTreeResponse(nodes []*domain.AccountNode) []AccountNodeResponse {
	out := make([]AccountNodeResponse, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, AccountNodeResponse{
			AccountResponse: ToAccountResponse(&n.Account),
			Children:        ToAccountTreeResponse(n.Children),
		})
	}
	return out
}
