package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// CreateTenantRequest defines the data needed to create a tenant.
type CreateTenantRequest struct {
	Name             string `json:"name" binding:"required,max=255"`
	BaseCurrencyCode string `json:"baseCurrencyCode" binding:"required,iso4217"`
}

// TenantResponse defines the data returned for a tenant.
type TenantResponse struct {
	TenantID         string    `json:"tenantID"`
	Name             string    `json:"name"`
	BaseCurrencyCode string    `json:"baseCurrencyCode"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
	CreatedBy        string    `json:"createdBy"`
}

func ToTenantResponse(t *domain.Tenant) TenantResponse {
	return TenantResponse{
		TenantID:         t.TenantID,
		Name:             t.Name,
		BaseCurrencyCode: t.BaseCurrencyCode,
		IsActive:         t.IsActive,
		CreatedAt:        t.CreatedAt,
		CreatedBy:        t.CreatedBy,
	}
}
