package domain

// Tenant is an isolated book set. All accounts and transactions belong to exactly one tenant.
type Tenant struct {
	TenantID         string `json:"tenantID"`
	Name             string `json:"name"`
	BaseCurrencyCode string `json:"baseCurrencyCode"` // every entry is converted into this currency
	IsActive         bool   `json:"isActive"`
	AuditFields
}
