package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

type tenantRepo struct{ scope }

func (r *tenantRepo) SaveTenant(ctx context.Context, tenant domain.Tenant) error {
	return r.write(ctx, func(st *state) error {
		if _, ok := st.tenants[tenant.TenantID]; ok {
			return fmt.Errorf("%w: tenant %s", apperrors.ErrDuplicate, tenant.TenantID)
		}
		st.tenants[tenant.TenantID] = tenant
		return nil
	})
}

func (r *tenantRepo) FindTenantByID(_ context.Context, tenantID string) (*domain.Tenant, error) {
	var out *domain.Tenant
	err := r.read(func(st *state) error {
		t, ok := st.tenants[tenantID]
		if !ok {
			return apperrors.NewNotFoundError("tenant", tenantID)
		}
		out = &t
		return nil
	})
	return out, err
}

type accountRepo struct{ scope }

func (r *accountRepo) FindAccountByID(_ context.Context, tenantID, accountID string) (*domain.Account, error) {
	var out *domain.Account
	err := r.read(func(st *state) error {
		acc, ok := st.accounts[accountID]
		if !ok || acc.TenantID != tenantID {
			return apperrors.NewNotFoundError("account", accountID)
		}
		out = &acc
		return nil
	})
	return out, err
}

func (r *accountRepo) FindAccountByCode(_ context.Context, tenantID, code string) (*domain.Account, error) {
	var out *domain.Account
	err := r.read(func(st *state) error {
		for _, acc := range st.accounts {
			if acc.TenantID == tenantID && acc.Code == code {
				out = &acc
				return nil
			}
		}
		return apperrors.NewNotFoundError("account", code)
	})
	return out, err
}

func (r *accountRepo) ListAccounts(_ context.Context, tenantID string) ([]domain.Account, error) {
	var out []domain.Account
	err := r.read(func(st *state) error {
		for _, acc := range st.accounts {
			if acc.TenantID == tenantID {
				out = append(out, acc)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func (r *accountRepo) SaveAccount(ctx context.Context, account domain.Account) error {
	return r.write(ctx, func(st *state) error {
		if _, ok := st.accounts[account.AccountID]; ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
		}
		for _, acc := range st.accounts {
			if acc.TenantID == account.TenantID && acc.Code == account.Code {
				return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
			}
		}
		st.accounts[account.AccountID] = account
		return nil
	})
}

// update applies fn to a stored account of the tenant.
func (r *accountRepo) update(ctx context.Context, tenantID, accountID string, fn func(*domain.Account)) error {
	return r.write(ctx, func(st *state) error {
		acc, ok := st.accounts[accountID]
		if !ok || acc.TenantID != tenantID {
			return apperrors.NewNotFoundError("account", accountID)
		}
		fn(&acc)
		st.accounts[accountID] = acc
		return nil
	})
}

func (r *accountRepo) MarkHasChildren(ctx context.Context, tenantID, accountID, userID string, now time.Time) error {
	return r.update(ctx, tenantID, accountID, func(acc *domain.Account) {
		acc.HasChildren = true
		acc.LastUpdatedAt = now
		acc.LastUpdatedBy = userID
	})
}

func (r *accountRepo) DeactivateAccount(ctx context.Context, tenantID, accountID, userID string, now time.Time) error {
	return r.update(ctx, tenantID, accountID, func(acc *domain.Account) {
		acc.IsActive = false
		acc.LastUpdatedAt = now
		acc.LastUpdatedBy = userID
	})
}

// FindAccountsByIDsForUpdate needs no row locks here: units of work are serialized.
func (r *accountRepo) FindAccountsByIDsForUpdate(_ context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	err := r.read(func(st *state) error {
		for _, id := range accountIDs {
			acc, ok := st.accounts[id]
			if !ok || acc.TenantID != tenantID {
				return apperrors.NewNotFoundError("account", id)
			}
			out[id] = acc
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *accountRepo) UpdateAccountBalances(ctx context.Context, tenantID string, deltas map[string]decimal.Decimal, userID string, now time.Time) error {
	return r.write(ctx, func(st *state) error {
		// validate all ids before touching any balance
		for id := range deltas {
			if acc, ok := st.accounts[id]; !ok || acc.TenantID != tenantID {
				return apperrors.NewNotFoundError("account", id)
			}
		}
		for id, delta := range deltas {
			acc := st.accounts[id]
			acc.Balance = acc.Balance.Add(delta)
			acc.LastUpdatedAt = now
			acc.LastUpdatedBy = userID
			st.accounts[id] = acc
		}
		return nil
	})
}

func (r *accountRepo) SetAccountBalance(ctx context.Context, tenantID, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	return r.update(ctx, tenantID, accountID, func(acc *domain.Account) {
		acc.Balance = balance
		acc.LastUpdatedAt = now
		acc.LastUpdatedBy = userID
	})
}

type transactionRepo struct{ scope }

func copyTransaction(t domain.Transaction) domain.Transaction {
	t.Entries = append([]domain.LedgerEntry(nil), t.Entries...)
	return t
}

func (r *transactionRepo) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	return r.write(ctx, func(st *state) error {
		if _, ok := st.transactions[txn.TransactionID]; ok {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
		}
		for _, t := range st.transactions {
			if t.TenantID == txn.TenantID && t.TransactionType == txn.TransactionType &&
				t.FiscalYear == txn.FiscalYear && t.SequenceValue == txn.SequenceValue {
				return fmt.Errorf("%w: sequence number %s already used", apperrors.ErrConflict, txn.SequenceNumber)
			}
		}
		st.transactions[txn.TransactionID] = copyTransaction(txn)
		return nil
	})
}

func (r *transactionRepo) FindTransactionByID(_ context.Context, tenantID, transactionID string) (*domain.Transaction, error) {
	var out *domain.Transaction
	err := r.read(func(st *state) error {
		t, ok := st.transactions[transactionID]
		if !ok || t.TenantID != tenantID {
			return apperrors.NewNotFoundError("transaction", transactionID)
		}
		c := copyTransaction(t)
		out = &c
		return nil
	})
	return out, err
}

func (r *transactionRepo) FindTransactionByIDForUpdate(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error) {
	return r.FindTransactionByID(ctx, tenantID, transactionID)
}

func (r *transactionRepo) UpdateTransactionStatus(ctx context.Context, tenantID, transactionID string, status domain.TransactionStatus, reversedByID string, userID string, now time.Time) error {
	return r.write(ctx, func(st *state) error {
		t, ok := st.transactions[transactionID]
		if !ok || t.TenantID != tenantID {
			return apperrors.NewNotFoundError("transaction", transactionID)
		}
		t.Status = status
		if reversedByID != "" {
			t.ReversedByID = reversedByID
		}
		t.LastUpdatedAt = now
		t.LastUpdatedBy = userID
		st.transactions[transactionID] = t
		return nil
	})
}

func matchesFilter(t domain.Transaction, f domain.TransactionFilter) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Type != "" && t.TransactionType != f.Type {
		return false
	}
	if f.AccountID != "" {
		for _, e := range t.Entries {
			if e.AccountID == f.AccountID {
				return true
			}
		}
		return false
	}
	return true
}

func (r *transactionRepo) ListTransactions(_ context.Context, tenantID string, params portsrepo.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	var cursor *pagination.Cursor
	if params.NextToken != nil && *params.NextToken != "" {
		c, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("%s", err.Error())
		}
		cursor = &c
	}

	var matched []domain.Transaction
	_ = r.read(func(st *state) error {
		for _, t := range st.transactions {
			if t.TenantID == tenantID && matchesFilter(t, params.Filter) {
				matched = append(matched, copyTransaction(t))
			}
		}
		return nil
	})

	// newest first
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		return pagination.Cursor{Date: a.TransactionDate, CreatedAt: a.CreatedAt, ID: a.TransactionID}.
			Before(b.TransactionDate, b.CreatedAt, b.TransactionID)
	})

	page := make([]domain.Transaction, 0, params.Limit)
	for _, t := range matched {
		if cursor != nil && !cursor.Before(t.TransactionDate, t.CreatedAt, t.TransactionID) {
			continue
		}
		page = append(page, t)
		if params.Limit > 0 && len(page) > params.Limit {
			break
		}
	}

	var next *string
	if params.Limit > 0 && len(page) > params.Limit {
		page = page[:params.Limit]
		last := page[len(page)-1]
		token := pagination.EncodeToken(last.TransactionDate, last.CreatedAt, last.TransactionID)
		next = &token
	}
	return page, next, nil
}

func (r *transactionRepo) SumEntriesByAccount(_ context.Context, tenantID string, asOf *time.Time, accountIDs ...string) (map[string]portsrepo.EntryTotals, error) {
	var only map[string]bool
	if len(accountIDs) > 0 {
		only = make(map[string]bool, len(accountIDs))
		for _, id := range accountIDs {
			only[id] = true
		}
	}
	out := make(map[string]portsrepo.EntryTotals)
	err := r.read(func(st *state) error {
		for _, t := range st.transactions {
			if t.TenantID != tenantID || !t.Status.AffectsBalances() {
				continue
			}
			if asOf != nil && domain.DateOnly(t.TransactionDate).After(domain.DateOnly(*asOf)) {
				continue
			}
			for _, e := range t.Entries {
				if only != nil && !only[e.AccountID] {
					continue
				}
				totals := out[e.AccountID]
				if e.Side == domain.Debit {
					totals.Debit = totals.Debit.Add(e.BaseAmount)
				} else {
					totals.Credit = totals.Credit.Add(e.BaseAmount)
				}
				out[e.AccountID] = totals
			}
		}
		return nil
	})
	return out, err
}

type sequenceRepo struct{ scope }

// NextValue seeds a missing counter from the highest used value, like the
// counter-row upsert of the SQL adapter.
func (r *sequenceRepo) NextValue(ctx context.Context, tenantID string, docType domain.DocumentType, year int) (int64, error) {
	var next int64
	err := r.write(ctx, func(st *state) error {
		key := sequenceKey{tenantID: tenantID, docType: docType, year: year}
		last, ok := st.sequences[key]
		if !ok {
			for _, t := range st.transactions {
				if t.TenantID == tenantID && t.TransactionType == docType && t.FiscalYear == year && t.SequenceValue > last {
					last = t.SequenceValue
				}
			}
		}
		next = last + 1
		st.sequences[key] = next
		return nil
	})
	return next, err
}

type varianceRepo struct{ scope }

func (r *varianceRepo) SaveVariance(ctx context.Context, variance domain.CostVariance) error {
	return r.write(ctx, func(st *state) error {
		if _, ok := st.variances[variance.VarianceID]; ok {
			return fmt.Errorf("%w: cost variance %s", apperrors.ErrDuplicate, variance.VarianceID)
		}
		variance.Components = append([]domain.VarianceComponent(nil), variance.Components...)
		st.variances[variance.VarianceID] = variance
		return nil
	})
}

func (r *varianceRepo) FindVarianceByID(_ context.Context, tenantID, varianceID string) (*domain.CostVariance, error) {
	var out *domain.CostVariance
	err := r.read(func(st *state) error {
		v, ok := st.variances[varianceID]
		if !ok || v.TenantID != tenantID {
			return apperrors.NewNotFoundError("cost variance", varianceID)
		}
		out = &v
		return nil
	})
	return out, err
}
