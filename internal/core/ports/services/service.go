package services

// ServiceContainer holds instances of all the application services.
// Handlers depend on it rather than on concrete implementations.
type ServiceContainer struct {
	Tenant    TenantSvcFacade
	Account   AccountSvcFacade
	Sequencer SequencerSvc
	Ledger    LedgerSvcFacade
	Balance   BalanceSvcFacade
	Variance  CostVarianceSvc
}
