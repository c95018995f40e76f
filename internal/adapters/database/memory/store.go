// Package memory is an in-process storage adapter. Units of work are
// serialized and run against a private copy of the committed state, which is
// swapped in only when the work function succeeds.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

type sequenceKey struct {
	tenantID string
	docType  domain.DocumentType
	year     int
}

type state struct {
	tenants      map[string]domain.Tenant
	accounts     map[string]domain.Account
	transactions map[string]domain.Transaction
	sequences    map[sequenceKey]int64
	variances    map[string]domain.CostVariance
}

func newState() *state {
	return &state{
		tenants:      make(map[string]domain.Tenant),
		accounts:     make(map[string]domain.Account),
		transactions: make(map[string]domain.Transaction),
		sequences:    make(map[sequenceKey]int64),
		variances:    make(map[string]domain.CostVariance),
	}
}

// clone copies the maps. Values are replaced, never mutated in place, so
// sharing their slices with the committed state is safe.
func (s *state) clone() *state {
	c := &state{
		tenants:      make(map[string]domain.Tenant, len(s.tenants)),
		accounts:     make(map[string]domain.Account, len(s.accounts)),
		transactions: make(map[string]domain.Transaction, len(s.transactions)),
		sequences:    make(map[sequenceKey]int64, len(s.sequences)),
		variances:    make(map[string]domain.CostVariance, len(s.variances)),
	}
	for k, v := range s.tenants {
		c.tenants[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	for k, v := range s.variances {
		c.variances[k] = v
	}
	return c
}

// Store implements repositories.UnitOfWork in memory.
type Store struct {
	mu   sync.RWMutex // guards data
	txMu sync.Mutex   // serializes writers
	data *state
}

// New creates an empty store.
func New() *Store {
	return &Store{data: newState()}
}

var _ portsrepo.UnitOfWork = (*Store)(nil)

// WithinTx runs fn against a copy of the committed state and publishes the
// copy only when fn returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	work := s.data.clone()
	s.mu.RUnlock()

	if err := fn(ctx, &scope{store: s, tx: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = work
	s.mu.Unlock()
	return nil
}

func (s *Store) Tenants() portsrepo.TenantRepository           { return &tenantRepo{scope{store: s}} }
func (s *Store) Accounts() portsrepo.AccountRepository         { return &accountRepo{scope{store: s}} }
func (s *Store) Transactions() portsrepo.TransactionRepository { return &transactionRepo{scope{store: s}} }
func (s *Store) Sequences() portsrepo.SequenceRepository       { return &sequenceRepo{scope{store: s}} }
func (s *Store) Variances() portsrepo.CostVarianceRepository   { return &varianceRepo{scope{store: s}} }

// scope binds repositories either to a unit of work (tx set) or to the store,
// where every write commits on its own.
type scope struct {
	store *Store
	tx    *state
}

func (sc *scope) Tenants() portsrepo.TenantRepository           { return &tenantRepo{*sc} }
func (sc *scope) Accounts() portsrepo.AccountRepository         { return &accountRepo{*sc} }
func (sc *scope) Transactions() portsrepo.TransactionRepository { return &transactionRepo{*sc} }
func (sc *scope) Sequences() portsrepo.SequenceRepository       { return &sequenceRepo{*sc} }
func (sc *scope) Variances() portsrepo.CostVarianceRepository   { return &varianceRepo{*sc} }

func (sc scope) read(fn func(*state) error) error {
	if sc.tx != nil {
		return fn(sc.tx)
	}
	sc.store.mu.RLock()
	defer sc.store.mu.RUnlock()
	return fn(sc.store.data)
}

func (sc scope) write(ctx context.Context, fn func(*state) error) error {
	if sc.tx != nil {
		return fn(sc.tx)
	}
	return sc.store.WithinTx(ctx, func(_ context.Context, tx portsrepo.Tx) error {
		return fn(tx.(*scope).tx)
	})
}
