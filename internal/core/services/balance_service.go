package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// BalanceCache stores hierarchical balance reports per tenant. Reports may be
// slightly stale; Bump makes every cached report of the tenant unreachable.
type BalanceCache interface {
	FetchTree(ctx context.Context, tenantID, key string, loader func(context.Context) ([]*domain.BalanceNode, error)) ([]*domain.BalanceNode, error)
	Bump(ctx context.Context, tenantID string) error
}

type balanceService struct {
	BaseService
	uow   portsrepo.UnitOfWork
	cache BalanceCache
	group singleflight.Group
}

// BalanceServiceOption configures the balance service.
type BalanceServiceOption func(*balanceService)

// WithBalanceCache serves hierarchical reports through cache.
func WithBalanceCache(cache BalanceCache) BalanceServiceOption {
	return func(s *balanceService) {
		s.cache = cache
	}
}

// WithBalanceClock overrides the clock used for audit fields.
func WithBalanceClock(now func() time.Time) BalanceServiceOption {
	return func(s *balanceService) {
		s.Clock = now
	}
}

// NewBalanceService creates the balance accumulator and rollup service.
func NewBalanceService(uow portsrepo.UnitOfWork, opts ...BalanceServiceOption) portssvc.BalanceSvcFacade {
	s := &balanceService{uow: uow}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// ApplyDelta locks the account and adds signedAmount to its cached balance.
func (s *balanceService) ApplyDelta(ctx context.Context, tx portsrepo.Tx, tenantID, accountID string, signedAmount decimal.Decimal, userID string) error {
	if _, err := tx.Accounts().FindAccountsByIDsForUpdate(ctx, tenantID, []string{accountID}); err != nil {
		return err
	}
	return tx.Accounts().UpdateAccountBalances(ctx, tenantID, map[string]decimal.Decimal{accountID: signedAmount}, userID, s.Now())
}

// ApplyEntries folds entries into one delta per account and applies them.
// accounts must already be locked by the caller's unit of work.
func (s *balanceService) ApplyEntries(ctx context.Context, tx portsrepo.Tx, tenantID string, accounts map[string]domain.Account, entries []domain.LedgerEntry, userID string) error {
	deltas := make(map[string]decimal.Decimal, len(accounts))
	for _, e := range entries {
		acc, ok := accounts[e.AccountID]
		if !ok {
			return apperrors.NewNotFoundError("account", e.AccountID)
		}
		deltas[e.AccountID] = deltas[e.AccountID].Add(acc.SignedAmount(e.Side, e.BaseAmount))
	}
	if err := tx.Accounts().UpdateAccountBalances(ctx, tenantID, deltas, userID, s.Now()); err != nil {
		return fmt.Errorf("failed to update account balances: %w", err)
	}
	return nil
}

func (s *balanceService) GetAccountBalance(ctx context.Context, tenantID, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	acc, err := s.uow.Accounts().FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	if asOf == nil {
		return acc.Balance, nil
	}
	totals, err := s.uow.Transactions().SumEntriesByAccount(ctx, tenantID, asOf, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum entries: %w", err)
	}
	return balanceFromTotals(*acc, totals[accountID]), nil
}

func (s *balanceService) Rollup(ctx context.Context, tenantID, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	state, err := s.loadRollup(ctx, tenantID, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	if _, ok := state.arena.ByID[accountID]; !ok {
		return decimal.Zero, apperrors.NewNotFoundError("account", accountID)
	}
	return state.total(accountID), nil
}

func (s *balanceService) GetHierarchicalBalances(ctx context.Context, tenantID string, asOf *time.Time) ([]*domain.BalanceNode, error) {
	key := "current"
	if asOf != nil {
		key = asOf.UTC().Format(time.DateOnly)
	}
	build := func(ctx context.Context) ([]*domain.BalanceNode, error) {
		return s.buildBalanceTree(ctx, tenantID, asOf)
	}

	// the shared build outlives any single caller
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(tenantID+":"+key, func() (interface{}, error) {
		if s.cache == nil {
			return build(shared)
		}
		return s.cache.FetchTree(shared, tenantID, key, build)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]*domain.BalanceNode), nil
	}
}

func (s *balanceService) buildBalanceTree(ctx context.Context, tenantID string, asOf *time.Time) ([]*domain.BalanceNode, error) {
	state, err := s.loadRollup(ctx, tenantID, asOf)
	if err != nil {
		return nil, err
	}

	placed := make(map[string]bool, len(state.arena.ByID))
	var node func(id string) *domain.BalanceNode
	node = func(id string) *domain.BalanceNode {
		placed[id] = true
		acc := state.arena.ByID[id]
		n := &domain.BalanceNode{
			AccountID:       acc.AccountID,
			Code:            acc.Code,
			Name:            acc.Name,
			AccountType:     acc.AccountType,
			OwnBalance:      state.own[id],
			RolledUpBalance: state.total(id),
		}
		for _, childID := range state.arena.Children[id] {
			if !placed[childID] {
				n.Children = append(n.Children, node(childID))
			}
		}
		return n
	}

	tree := make([]*domain.BalanceNode, 0, len(state.arena.Roots))
	for _, id := range state.arena.Roots {
		tree = append(tree, node(id))
	}
	// accounts caught in a parent cycle are unreachable from any root
	for _, acc := range state.accounts {
		if !placed[acc.AccountID] {
			tree = append(tree, node(acc.AccountID))
		}
	}
	return tree, nil
}

// ReconcileBalances recomputes every cached balance from the full entry
// history and overwrites the ones that drifted, in one unit of work.
func (s *balanceService) ReconcileBalances(ctx context.Context, tenantID, userID string) ([]domain.BalanceDrift, error) {
	var drifts []domain.BalanceDrift
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		drifts = nil
		if _, err := tx.Tenants().FindTenantByID(ctx, tenantID); err != nil {
			return err
		}
		accounts, err := tx.Accounts().ListAccounts(ctx, tenantID)
		if err != nil {
			return err
		}
		ids := make([]string, len(accounts))
		for i, acc := range accounts {
			ids[i] = acc.AccountID
		}
		locked, err := tx.Accounts().FindAccountsByIDsForUpdate(ctx, tenantID, ids)
		if err != nil {
			return err
		}
		totals, err := tx.Transactions().SumEntriesByAccount(ctx, tenantID, nil)
		if err != nil {
			return err
		}

		now := s.Now()
		for _, acc := range accounts {
			cached := locked[acc.AccountID].Balance
			recomputed := balanceFromTotals(acc, totals[acc.AccountID])
			if cached.Equal(recomputed) {
				continue
			}
			if err := tx.Accounts().SetAccountBalance(ctx, tenantID, acc.AccountID, recomputed, userID, now); err != nil {
				return err
			}
			drifts = append(drifts, domain.BalanceDrift{AccountID: acc.AccountID, Cached: cached, Recomputed: recomputed})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(drifts) > 0 {
		s.GetLogger(ctx).Warn("Repaired drifted account balances",
			slog.String("tenant_id", tenantID), slog.Int("accounts", len(drifts)))
		s.Invalidate(ctx, tenantID)
	}
	return drifts, nil
}

func (s *balanceService) Invalidate(ctx context.Context, tenantID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx, tenantID); err != nil {
		s.LogError(ctx, err, "Failed to invalidate balance cache", slog.String("tenant_id", tenantID))
	}
}

func (s *balanceService) loadRollup(ctx context.Context, tenantID string, asOf *time.Time) (*rollupState, error) {
	accounts, err := s.uow.Accounts().ListAccounts(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	own := make(map[string]decimal.Decimal, len(accounts))
	if asOf == nil {
		for _, acc := range accounts {
			own[acc.AccountID] = acc.Balance
		}
	} else {
		totals, err := s.uow.Transactions().SumEntriesByAccount(ctx, tenantID, asOf)
		if err != nil {
			return nil, fmt.Errorf("failed to sum entries: %w", err)
		}
		for _, acc := range accounts {
			own[acc.AccountID] = balanceFromTotals(acc, totals[acc.AccountID])
		}
	}
	return newRollupState(accounts, own), nil
}

func balanceFromTotals(acc domain.Account, t portsrepo.EntryTotals) decimal.Decimal {
	return acc.SignedAmount(domain.Debit, t.Debit).Add(acc.SignedAmount(domain.Credit, t.Credit))
}

// rollupState memoizes rolled-up balances over an account arena.
type rollupState struct {
	accounts []domain.Account
	arena    *domain.AccountArena
	own      map[string]decimal.Decimal
	done     map[string]decimal.Decimal
	visiting map[string]bool
}

func newRollupState(accounts []domain.Account, own map[string]decimal.Decimal) *rollupState {
	return &rollupState{
		accounts: accounts,
		arena:    domain.NewAccountArena(accounts),
		own:      own,
		done:     make(map[string]decimal.Decimal, len(accounts)),
		visiting: make(map[string]bool, len(accounts)),
	}
}

// total is own(id) plus total(child) for every child. Each id is computed
// once; an id reached again while still in progress contributes zero.
func (r *rollupState) total(id string) decimal.Decimal {
	if v, ok := r.done[id]; ok {
		return v
	}
	if r.visiting[id] {
		return decimal.Zero
	}
	r.visiting[id] = true
	sum := r.own[id]
	for _, childID := range r.arena.Children[id] {
		sum = sum.Add(r.total(childID))
	}
	r.done[id] = sum
	return sum
}
