package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// DocumentNumber is one issued document number.
type DocumentNumber struct {
	Number string
	Value  int64
	Year   int
}

// SequencerSvc issues document numbers scoped to (tenant, document type, year).
type SequencerSvc interface {
	// NextNumber issues a number for the current year in its own unit of work.
	NextNumber(ctx context.Context, tenantID string, docType domain.DocumentType) (*DocumentNumber, error)
	// NextNumberInTx issues a number inside the caller's unit of work.
	NextNumberInTx(ctx context.Context, tx repositories.Tx, tenantID string, docType domain.DocumentType, year int) (*DocumentNumber, error)
}
