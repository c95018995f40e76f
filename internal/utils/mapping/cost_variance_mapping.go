package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelCostVariance converts a domain CostVariance to a model CostVariance.
// Components are stored as JSON.
func ToModelCostVariance(d domain.CostVariance) (models.CostVariance, error) {
	components, err := json.Marshal(d.Components)
	if err != nil {
		return models.CostVariance{}, fmt.Errorf("failed to encode variance components: %w", err)
	}
	return models.CostVariance{
		VarianceID:    d.VarianceID,
		TenantID:      d.TenantID,
		Reference:     d.Reference,
		VarianceDate:  d.VarianceDate,
		StandardCost:  d.StandardCost,
		ActualCost:    d.ActualCost,
		Variance:      d.Variance,
		Components:    components,
		TransactionID: nullString(d.TransactionID),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainCostVariance converts a model CostVariance to a domain CostVariance
func ToDomainCostVariance(m models.CostVariance) (domain.CostVariance, error) {
	var components []domain.VarianceComponent
	if len(m.Components) > 0 {
		if err := json.Unmarshal(m.Components, &components); err != nil {
			return domain.CostVariance{}, fmt.Errorf("failed to decode variance components: %w", err)
		}
	}
	return domain.CostVariance{
		VarianceID:    m.VarianceID,
		TenantID:      m.TenantID,
		Reference:     m.Reference,
		VarianceDate:  m.VarianceDate,
		StandardCost:  m.StandardCost,
		ActualCost:    m.ActualCost,
		Variance:      m.Variance,
		Components:    components,
		TransactionID: m.TransactionID.String,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}, nil
}
