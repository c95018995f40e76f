package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:           d.AccountID,
		TenantID:            d.TenantID,
		Code:                d.Code,
		Name:                d.Name,
		AccountType:         string(d.AccountType),
		SubType:             d.SubType,
		ParentAccountID:     nullString(d.ParentAccountID),
		CurrencyCode:        d.CurrencyCode,
		Description:         d.Description,
		Balance:             d.Balance,
		Level:               d.Level,
		Path:                d.Path,
		HasChildren:         d.HasChildren,
		AllowsManualPosting: d.AllowsManualPosting,
		IsSystem:            d.IsSystem,
		IsActive:            d.IsActive,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:           m.AccountID,
		TenantID:            m.TenantID,
		Code:                m.Code,
		Name:                m.Name,
		AccountType:         domain.AccountType(m.AccountType),
		SubType:             m.SubType,
		ParentAccountID:     m.ParentAccountID.String,
		CurrencyCode:        m.CurrencyCode,
		Description:         m.Description,
		Balance:             m.Balance,
		Level:               m.Level,
		Path:                m.Path,
		HasChildren:         m.HasChildren,
		AllowsManualPosting: m.AllowsManualPosting,
		IsSystem:            m.IsSystem,
		IsActive:            m.IsActive,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}
