package services

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
)

// ContainerOptions carries the tunables shared by the services.
type ContainerOptions struct {
	CodeRanges       domain.CodeRangePolicy
	DocumentPrefixes map[domain.DocumentType]string
	BalanceCache     BalanceCache
	Decomposer       Decomposer
	Clock            func() time.Time
}

// NewContainer wires every service against one unit of work.
func NewContainer(uow portsrepo.UnitOfWork, opts ContainerOptions) *portssvc.ServiceContainer {
	var (
		accountOpts  []AccountServiceOption
		balanceOpts  []BalanceServiceOption
		ledgerOpts   []LedgerServiceOption
		varianceOpts []CostVarianceServiceOption
	)
	if opts.CodeRanges != nil {
		accountOpts = append(accountOpts, WithCodeRanges(opts.CodeRanges))
	}
	if opts.BalanceCache != nil {
		balanceOpts = append(balanceOpts, WithBalanceCache(opts.BalanceCache))
	}
	if opts.Decomposer != nil {
		varianceOpts = append(varianceOpts, WithDecomposer(opts.Decomposer))
	}
	if opts.Clock != nil {
		accountOpts = append(accountOpts, WithAccountClock(opts.Clock))
		balanceOpts = append(balanceOpts, WithBalanceClock(opts.Clock))
		ledgerOpts = append(ledgerOpts, WithLedgerClock(opts.Clock))
		varianceOpts = append(varianceOpts, WithVarianceClock(opts.Clock))
	}

	tenantSvc := NewTenantService(uow)
	accountSvc := NewAccountService(uow, accountOpts...)
	sequencerSvc := NewSequencerService(uow, opts.DocumentPrefixes)
	balanceSvc := NewBalanceService(uow, balanceOpts...)
	ledgerSvc := NewLedgerService(uow, accountSvc, sequencerSvc, balanceSvc, ledgerOpts...)
	varianceSvc := NewCostVarianceService(uow, ledgerSvc, balanceSvc, varianceOpts...)

	return &portssvc.ServiceContainer{
		Tenant:    tenantSvc,
		Account:   accountSvc,
		Sequencer: sequencerSvc,
		Ledger:    ledgerSvc,
		Balance:   balanceSvc,
		Variance:  varianceSvc,
	}
}
