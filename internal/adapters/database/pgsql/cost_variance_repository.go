package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxCostVarianceRepository struct {
	BaseRepository
}

var _ portsrepo.CostVarianceRepository = (*PgxCostVarianceRepository)(nil)

func (r *PgxCostVarianceRepository) SaveVariance(ctx context.Context, variance domain.CostVariance) error {
	m, err := mapping.ToModelCostVariance(variance)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO cost_variances (variance_id, tenant_id, reference, variance_date, standard_cost, actual_cost, variance,
			components, transaction_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = r.db.Exec(ctx, query,
		m.VarianceID,
		m.TenantID,
		m.Reference,
		m.VarianceDate,
		m.StandardCost,
		m.ActualCost,
		m.Variance,
		string(m.Components),
		m.TransactionID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return wrapWriteError(err, "cost variance "+m.VarianceID)
	}
	return nil
}

func (r *PgxCostVarianceRepository) FindVarianceByID(ctx context.Context, tenantID, varianceID string) (*domain.CostVariance, error) {
	query := `
		SELECT variance_id, tenant_id, reference, variance_date, standard_cost, actual_cost, variance,
			components, transaction_id, created_at, created_by, last_updated_at, last_updated_by
		FROM cost_variances
		WHERE tenant_id = $1 AND variance_id = $2;
	`
	var m models.CostVariance
	err := r.db.QueryRow(ctx, query, tenantID, varianceID).Scan(
		&m.VarianceID,
		&m.TenantID,
		&m.Reference,
		&m.VarianceDate,
		&m.StandardCost,
		&m.ActualCost,
		&m.Variance,
		&m.Components,
		&m.TransactionID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("cost variance", varianceID)
		}
		return nil, fmt.Errorf("failed to find cost variance %s: %w", varianceID, err)
	}
	v, err := mapping.ToDomainCostVariance(m)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
