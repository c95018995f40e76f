package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockBalanceCache struct {
	mock.Mock
}

func (m *MockBalanceCache) FetchTree(ctx context.Context, tenantID, key string, loader func(context.Context) ([]*domain.BalanceNode, error)) ([]*domain.BalanceNode, error) {
	args := m.Called(ctx, tenantID, key, loader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BalanceNode), args.Error(1)
}

func (m *MockBalanceCache) Bump(ctx context.Context, tenantID string) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

type BalanceServiceTestSuite struct {
	ledgerSuite
}

func TestBalanceService(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}

func (s *BalanceServiceTestSuite) post(date time.Time, debit, credit *domain.Account, amount int64) {
	_, err := s.svc.Ledger.CreateTransaction(s.ctx, s.tenantID, txnRequest(date,
		entry(debit.AccountID, domain.Debit, amount),
		entry(credit.AccountID, domain.Credit, amount),
	), actor)
	s.Require().NoError(err)
}

func (s *BalanceServiceTestSuite) TestSignRuleFollowsNormalSide() {
	s.post(fixedNow, s.expense, s.cash, 30)

	s.True(s.balance(s.expense.AccountID).Equal(decimal.NewFromInt(30)))
	s.True(s.balance(s.cash.AccountID).Equal(decimal.NewFromInt(-30)))
}

func (s *BalanceServiceTestSuite) TestAsOfBalance() {
	s.post(fixedNow, s.ar, s.sales, 100)
	s.post(time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC), s.ar, s.sales, 50)

	endOfMarch := time.Date(2024, 3, 31, 18, 0, 0, 0, time.UTC)
	got, err := s.svc.Balance.GetAccountBalance(s.ctx, s.tenantID, s.ar.AccountID, &endOfMarch)
	s.Require().NoError(err)
	s.True(got.Equal(decimal.NewFromInt(100)))

	// the cut-off day itself is included
	sameDay := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	got, err = s.svc.Balance.GetAccountBalance(s.ctx, s.tenantID, s.ar.AccountID, &sameDay)
	s.Require().NoError(err)
	s.True(got.Equal(decimal.NewFromInt(100)))

	before := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	got, err = s.svc.Balance.GetAccountBalance(s.ctx, s.tenantID, s.ar.AccountID, &before)
	s.Require().NoError(err)
	s.True(got.IsZero())

	s.True(s.balance(s.ar.AccountID).Equal(decimal.NewFromInt(150)))
}

func (s *BalanceServiceTestSuite) TestAsOfIgnoresDrafts() {
	req := txnRequest(fixedNow, entry(s.ar.AccountID, domain.Debit, 70), entry(s.sales.AccountID, domain.Credit, 70))
	req.Status = domain.StatusDraft
	_, err := s.svc.Ledger.CreateTransaction(s.ctx, s.tenantID, req, actor)
	s.Require().NoError(err)

	asOf := fixedNow
	got, err := s.svc.Balance.GetAccountBalance(s.ctx, s.tenantID, s.ar.AccountID, &asOf)
	s.Require().NoError(err)
	s.True(got.IsZero())
}

func (s *BalanceServiceTestSuite) TestRollupIncludesEveryDescendant() {
	fixed := s.createAccount("1200", "Fixed Assets", domain.Asset, &s.assets.AccountID, false)
	equipment := s.createAccount("1210", "Equipment", domain.Asset, &fixed.AccountID, false)

	s.post(fixedNow, s.cash, s.sales, 30)
	s.post(fixedNow, s.ar, s.sales, 100)
	s.post(fixedNow, equipment, s.cash, 20)

	total, err := s.svc.Balance.Rollup(s.ctx, s.tenantID, s.assets.AccountID, nil)
	s.Require().NoError(err)
	s.True(total.Equal(decimal.NewFromInt(130)))

	fixedTotal, err := s.svc.Balance.Rollup(s.ctx, s.tenantID, fixed.AccountID, nil)
	s.Require().NoError(err)
	s.True(fixedTotal.Equal(decimal.NewFromInt(20)))

	leaf, err := s.svc.Balance.Rollup(s.ctx, s.tenantID, s.ar.AccountID, nil)
	s.Require().NoError(err)
	s.True(leaf.Equal(decimal.NewFromInt(100)))

	_, err = s.svc.Balance.Rollup(s.ctx, s.tenantID, "missing", nil)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *BalanceServiceTestSuite) TestHierarchicalBalances() {
	s.post(fixedNow, s.cash, s.sales, 30)
	s.post(fixedNow, s.ar, s.sales, 100)

	tree, err := s.svc.Balance.GetHierarchicalBalances(s.ctx, s.tenantID, nil)
	s.Require().NoError(err)
	s.Require().Len(tree, 4)

	codes := make([]string, len(tree))
	for i, n := range tree {
		codes[i] = n.Code
	}
	s.Equal([]string{"1000", "4000", "4900", "5000"}, codes)

	assets := tree[0]
	s.True(assets.OwnBalance.IsZero())
	s.True(assets.RolledUpBalance.Equal(decimal.NewFromInt(130)))
	s.Require().Len(assets.Children, 2)
	s.Equal("1010", assets.Children[0].Code)
	s.True(assets.Children[0].RolledUpBalance.Equal(decimal.NewFromInt(30)))
	s.Equal("1100", assets.Children[1].Code)

	s.True(tree[1].RolledUpBalance.Equal(decimal.NewFromInt(130)))
}

func (s *BalanceServiceTestSuite) TestApplyDeltaInsideUnitOfWork() {
	err := s.store.WithinTx(s.ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		return s.svc.Balance.ApplyDelta(ctx, tx, s.tenantID, s.sales.AccountID, decimal.NewFromInt(25), actor)
	})
	s.Require().NoError(err)
	s.True(s.balance(s.sales.AccountID).Equal(decimal.NewFromInt(25)))
}

func (s *BalanceServiceTestSuite) TestApplyDeltaRolledBackWithUnitOfWork() {
	boom := errors.New("boom")
	err := s.store.WithinTx(s.ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		if err := s.svc.Balance.ApplyDelta(ctx, tx, s.tenantID, s.sales.AccountID, decimal.NewFromInt(25), actor); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)
	s.True(s.balance(s.sales.AccountID).IsZero())
}

func (s *BalanceServiceTestSuite) TestReconcileRepairsDrift() {
	s.invoice(100)
	s.Require().NoError(s.store.Accounts().SetAccountBalance(s.ctx, s.tenantID, s.ar.AccountID, decimal.NewFromInt(999), "corrupt", fixedNow))

	drifts, err := s.svc.Balance.ReconcileBalances(s.ctx, s.tenantID, actor)
	s.Require().NoError(err)
	s.Require().Len(drifts, 1)
	s.Equal(s.ar.AccountID, drifts[0].AccountID)
	s.True(drifts[0].Cached.Equal(decimal.NewFromInt(999)))
	s.True(drifts[0].Recomputed.Equal(decimal.NewFromInt(100)))
	s.True(s.balance(s.ar.AccountID).Equal(decimal.NewFromInt(100)))

	drifts, err = s.svc.Balance.ReconcileBalances(s.ctx, s.tenantID, actor)
	s.Require().NoError(err)
	s.Empty(drifts)
}

func (s *BalanceServiceTestSuite) TestReconcileCountsVoidedPairs() {
	txn := s.invoice(100)
	_, err := s.svc.Ledger.VoidTransaction(s.ctx, s.tenantID, txn.TransactionID, actor)
	s.Require().NoError(err)

	drifts, err := s.svc.Balance.ReconcileBalances(s.ctx, s.tenantID, actor)
	s.Require().NoError(err)
	s.Empty(drifts)
}

func (s *BalanceServiceTestSuite) TestReconcileUnknownTenant() {
	_, err := s.svc.Balance.ReconcileBalances(s.ctx, "missing", actor)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *BalanceServiceTestSuite) TestCacheServesReportsAndIsBumpedOnPosting() {
	cache := new(MockBalanceCache)
	s.svc = s.newContainer(services.ContainerOptions{BalanceCache: cache})

	cached := []*domain.BalanceNode{{AccountID: "cached", Code: "1000"}}
	cache.On("FetchTree", mock.Anything, s.tenantID, "current", mock.Anything).Return(cached, nil).Once()
	cache.On("Bump", mock.Anything, s.tenantID).Return(nil).Once()

	tree, err := s.svc.Balance.GetHierarchicalBalances(s.ctx, s.tenantID, nil)
	s.Require().NoError(err)
	s.Equal(cached, tree)

	s.invoice(10)
	cache.AssertExpectations(s.T())
}

func (s *BalanceServiceTestSuite) TestCacheKeyedByAsOfDate() {
	cache := new(MockBalanceCache)
	s.svc = s.newContainer(services.ContainerOptions{BalanceCache: cache})

	cache.On("FetchTree", mock.Anything, s.tenantID, "2024-03-01", mock.Anything).
		Return(nil, errors.New("loader failed")).Once()

	asOf := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	_, err := s.svc.Balance.GetHierarchicalBalances(s.ctx, s.tenantID, &asOf)
	s.Error(err)
	cache.AssertExpectations(s.T())
}

func (s *BalanceServiceTestSuite) TestDraftDoesNotBumpCache() {
	cache := new(MockBalanceCache)
	s.svc = s.newContainer(services.ContainerOptions{BalanceCache: cache})

	req := txnRequest(fixedNow, entry(s.ar.AccountID, domain.Debit, 10), entry(s.sales.AccountID, domain.Credit, 10))
	req.Status = domain.StatusDraft
	_, err := s.svc.Ledger.CreateTransaction(s.ctx, s.tenantID, req, actor)
	s.Require().NoError(err)
	cache.AssertNotCalled(s.T(), "Bump", mock.Anything, mock.Anything)
}

func (s *BalanceServiceTestSuite) TestSharedBuildIgnoresCallerCancellation() {
	cache := new(MockBalanceCache)
	s.svc = s.newContainer(services.ContainerOptions{BalanceCache: cache})

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	var buildErr, loaderCtxErr error
	done := make(chan struct{})
	cache.On("FetchTree", mock.Anything, s.tenantID, "current", mock.Anything).
		Run(func(args mock.Arguments) {
			defer close(done)
			cancel()
			loaderCtx := args.Get(0).(context.Context)
			loader := args.Get(3).(func(context.Context) ([]*domain.BalanceNode, error))
			_, buildErr = loader(loaderCtx)
			loaderCtxErr = loaderCtx.Err()
		}).
		Return([]*domain.BalanceNode{}, nil).Once()

	_, _ = s.svc.Balance.GetHierarchicalBalances(ctx, s.tenantID, nil)
	<-done
	cache.AssertExpectations(s.T())
	s.NoError(buildErr)
	s.NoError(loaderCtxErr)
}

func (s *BalanceServiceTestSuite) TestAsOfBalanceForSingleAccount() {
	s.invoice(40)
	asOf := fixedNow
	b, err := s.svc.Balance.GetAccountBalance(s.ctx, s.tenantID, s.sales.AccountID, &asOf)
	s.Require().NoError(err)
	s.True(b.Equal(decimal.NewFromInt(40)))

	b, err = s.svc.Balance.GetAccountBalance(s.ctx, s.tenantID, s.cash.AccountID, &asOf)
	s.Require().NoError(err)
	s.True(b.IsZero())
}
