package models

// Tenant is a row of the tenants table.
type Tenant struct {
	TenantID         string `db:"tenant_id"`
	Name             string `db:"name"`
	BaseCurrencyCode string `db:"base_currency_code"`
	IsActive         bool   `db:"is_active"`
	AuditFields
}
