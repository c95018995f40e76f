package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// TenantRepository defines persistence operations for tenants.
type TenantRepository interface {
	SaveTenant(ctx context.Context, tenant domain.Tenant) error
	FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
}
