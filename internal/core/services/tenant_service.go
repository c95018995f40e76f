package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/google/uuid"
)

type tenantService struct {
	BaseService
	repos portsrepo.Repositories
}

// NewTenantService creates a new tenant service.
func NewTenantService(repos portsrepo.Repositories) portssvc.TenantSvcFacade {
	return &tenantService{repos: repos}
}

var _ portssvc.TenantSvcFacade = (*tenantService)(nil)

func (s *tenantService) CreateTenant(ctx context.Context, req dto.CreateTenantRequest, userID string) (*domain.Tenant, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("tenant name is required")
	}
	currency := strings.ToUpper(req.BaseCurrencyCode)
	if len(currency) != 3 {
		return nil, apperrors.NewValidationError("base currency %q must be a 3-letter ISO code", req.BaseCurrencyCode)
	}

	tenant := domain.Tenant{
		TenantID:         uuid.NewString(),
		Name:             name,
		BaseCurrencyCode: currency,
		IsActive:         true,
		AuditFields:      domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.repos.Tenants().SaveTenant(ctx, tenant); err != nil {
		s.LogError(ctx, err, "Failed to save tenant", slog.String("tenant_name", name))
		return nil, fmt.Errorf("failed to save tenant: %w", err)
	}

	s.LogInfo(ctx, "Tenant created", slog.String("tenant_id", tenant.TenantID))
	return &tenant, nil
}

func (s *tenantService) GetTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	return s.repos.Tenants().FindTenantByID(ctx, tenantID)
}
