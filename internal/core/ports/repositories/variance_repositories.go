package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// CostVarianceRepository persists cost variance records.
type CostVarianceRepository interface {
	SaveVariance(ctx context.Context, variance domain.CostVariance) error
	FindVarianceByID(ctx context.Context, tenantID, varianceID string) (*domain.CostVariance, error)
}
