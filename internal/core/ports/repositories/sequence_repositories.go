package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// SequenceRepository hands out document sequence values.
type SequenceRepository interface {
	// NextValue consumes and returns the next value for (tenant, type, year).
	// The value is N+1 where N is the highest value already used; the first
	// call for a key returns 1. Consumption is part of the enclosing unit of
	// work and is undone on rollback.
	NextValue(ctx context.Context, tenantID string, docType domain.DocumentType, year int) (int64, error)
}
