package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so every repository
// runs either on its own connection or inside a unit of work.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db querier
}

// pgCode returns the SQLSTATE and violated constraint of a server error.
func pgCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// isRetryable reports whether a unit of work failed on a transient conflict.
func isRetryable(err error) bool {
	if errors.Is(err, apperrors.ErrConflict) {
		return true
	}
	code, _ := pgCode(err)
	return code == pgSerializationFailure || code == pgDeadlockDetected
}

// wrapWriteError maps unique violations to ErrDuplicate, or to ErrConflict when
// the violated constraint is the document sequence key.
func wrapWriteError(err error, what string) error {
	code, constraint := pgCode(err)
	if code == pgUniqueViolation {
		if constraint == "uq_transactions_sequence" {
			return fmt.Errorf("%w: %s: sequence number already used", apperrors.ErrConflict, what)
		}
		return fmt.Errorf("%w: %s already exists", apperrors.ErrDuplicate, what)
	}
	return fmt.Errorf("failed to save %s: %w", what, err)
}
