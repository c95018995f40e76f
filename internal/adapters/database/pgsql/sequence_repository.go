package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

type PgxSequenceRepository struct {
	BaseRepository
}

var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

// NextValue upserts the counter row for the key. A new row is seeded from the
// highest value already used by transactions, so existing data is respected.
// The row lock taken by the upsert serializes concurrent callers until commit.
func (r *PgxSequenceRepository) NextValue(ctx context.Context, tenantID string, docType domain.DocumentType, year int) (int64, error) {
	query := `
		INSERT INTO document_sequences (tenant_id, document_type, fiscal_year, last_value)
		SELECT $1::text, $2::text, $3::int, COALESCE(MAX(t.sequence_value), 0) + 1
		FROM transactions t
		WHERE t.tenant_id = $1::text AND t.transaction_type = $2::text AND t.fiscal_year = $3::int
		ON CONFLICT (tenant_id, document_type, fiscal_year)
		DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value;
	`
	var value int64
	if err := r.db.QueryRow(ctx, query, tenantID, string(docType), year).Scan(&value); err != nil {
		return 0, fmt.Errorf("failed to allocate sequence value: %w", err)
	}
	return value, nil
}
