package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// CostVarianceSvc records cost variances and posts their offsetting entries.
type CostVarianceSvc interface {
	RecordCostVariance(ctx context.Context, tenantID string, req dto.RecordCostVarianceRequest, userID string) (*domain.CostVariance, error)
	GetCostVariance(ctx context.Context, tenantID, varianceID string) (*domain.CostVariance, error)
}
