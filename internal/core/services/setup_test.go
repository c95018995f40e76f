package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/adapters/database/memory"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const actor = "user-1"

var fixedNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

// ledgerSuite wires every service against a fresh in-memory store with a
// small chart: cash and receivables under assets, sales, and a system account.
type ledgerSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memory.Store
	svc      *portssvc.ServiceContainer
	tenantID string

	assets  *domain.Account
	cash    *domain.Account
	ar      *domain.Account
	sales   *domain.Account
	system  *domain.Account
	expense *domain.Account
}

func (s *ledgerSuite) newContainer(opts services.ContainerOptions) *portssvc.ServiceContainer {
	opts.Clock = func() time.Time { return fixedNow }
	return services.NewContainer(s.store, opts)
}

func (s *ledgerSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.New()
	s.svc = s.newContainer(services.ContainerOptions{})

	tenant, err := s.svc.Tenant.CreateTenant(s.ctx, dto.CreateTenantRequest{Name: "Acme", BaseCurrencyCode: "usd"}, actor)
	s.Require().NoError(err)
	s.tenantID = tenant.TenantID

	s.assets = s.createAccount("1000", "Assets", domain.Asset, nil, false)
	s.cash = s.createAccount("1010", "Cash", domain.Asset, &s.assets.AccountID, false)
	s.ar = s.createAccount("1100", "Accounts Receivable", domain.Asset, &s.assets.AccountID, false)
	s.sales = s.createAccount("4000", "Sales", domain.Revenue, nil, false)
	s.system = s.createAccount("4900", "FX Gains", domain.Revenue, nil, true)
	s.expense = s.createAccount("5000", "Purchase Price Variance", domain.Expense, nil, false)
}

func (s *ledgerSuite) createAccount(code, name string, t domain.AccountType, parentID *string, system bool) *domain.Account {
	acc, err := s.svc.Account.CreateAccount(s.ctx, s.tenantID, dto.CreateAccountRequest{
		Code:            code,
		Name:            name,
		AccountType:     t,
		ParentAccountID: parentID,
		IsSystem:        system,
	}, actor)
	s.Require().NoError(err)
	return acc
}

func (s *ledgerSuite) balance(accountID string) decimal.Decimal {
	b, err := s.svc.Balance.GetAccountBalance(s.ctx, s.tenantID, accountID, nil)
	s.Require().NoError(err)
	return b
}

func entry(accountID string, side domain.EntrySide, amount int64) dto.CreateLedgerEntryRequest {
	return dto.CreateLedgerEntryRequest{AccountID: accountID, Side: side, Amount: decimal.NewFromInt(amount)}
}

func txnRequest(date time.Time, entries ...dto.CreateLedgerEntryRequest) dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		TransactionDate: date,
		TransactionType: domain.DocInvoice,
		Description:     "test",
		Entries:         entries,
	}
}

func (s *ledgerSuite) invoice(amount int64) *domain.Transaction {
	txn, err := s.svc.Ledger.CreateTransaction(s.ctx, s.tenantID, txnRequest(fixedNow,
		entry(s.ar.AccountID, domain.Debit, amount),
		entry(s.sales.AccountID, domain.Credit, amount),
	), actor)
	s.Require().NoError(err)
	return txn
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}
