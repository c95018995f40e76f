package pgsql

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultMaxRetries = 5

// Store implements repositories.UnitOfWork on a pgx pool. Units of work run
// at READ COMMITTED; balance rows are serialized with SELECT ... FOR UPDATE.
type Store struct {
	repos
	pool       *pgxpool.Pool
	maxRetries int
}

// StoreOption configures the Store.
type StoreOption func(*Store)

// WithMaxRetries bounds how often a unit of work is re-run after a conflict.
func WithMaxRetries(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

// NewStore creates a PostgreSQL backed unit of work.
func NewStore(pool *pgxpool.Pool, opts ...StoreOption) *Store {
	s := &Store{repos: repos{db: pool}, pool: pool, maxRetries: defaultMaxRetries}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portsrepo.UnitOfWork = (*Store)(nil)

// WithinTx runs fn in a database transaction and re-runs it when the
// transaction fails on a sequence conflict, serialization failure or deadlock.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.Tx) error) error {
	var err error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		err = s.runOnce(ctx, fn)
		if err == nil || !isRetryable(err) || ctx.Err() != nil {
			return err
		}
		middleware.GetLoggerFromCtx(ctx).Warn("Retrying unit of work after conflict",
			slog.Int("attempt", attempt), slog.String("error", err.Error()))
	}
	return err
}

func (s *Store) runOnce(ctx context.Context, fn func(ctx context.Context, tx portsrepo.Tx) error) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = s.Rollback(ctx, tx) // no-op after commit
	}()

	if err := fn(ctx, &repos{db: tx}); err != nil {
		return err
	}
	return s.Commit(ctx, tx)
}

// Begin starts a new database transaction
func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (s *Store) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		if isRetryable(err) {
			return err
		}
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (s *Store) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// repos binds the repositories to one querier.
type repos struct {
	db querier
}

func (r *repos) Tenants() portsrepo.TenantRepository {
	return &PgxTenantRepository{BaseRepository{db: r.db}}
}

func (r *repos) Accounts() portsrepo.AccountRepository {
	return &PgxAccountRepository{BaseRepository{db: r.db}}
}

func (r *repos) Transactions() portsrepo.TransactionRepository {
	return &PgxTransactionRepository{BaseRepository{db: r.db}}
}

func (r *repos) Sequences() portsrepo.SequenceRepository {
	return &PgxSequenceRepository{BaseRepository{db: r.db}}
}

func (r *repos) Variances() portsrepo.CostVarianceRepository {
	return &PgxCostVarianceRepository{BaseRepository{db: r.db}}
}
