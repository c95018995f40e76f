package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
)

// DefaultDocumentPrefixes maps document types to number prefixes.
var DefaultDocumentPrefixes = map[domain.DocumentType]string{
	domain.DocJournal:  "JE",
	domain.DocInvoice:  "INV",
	domain.DocBill:     "BILL",
	domain.DocPayment:  "PAY",
	domain.DocReversal: "REV",
	domain.DocVariance: "CV",
}

type sequencerService struct {
	BaseService
	uow      portsrepo.UnitOfWork
	prefixes map[domain.DocumentType]string
}

// NewSequencerService creates a document sequencer. Entries in prefixes
// override the defaults; unknown types use their upper-cased tag.
func NewSequencerService(uow portsrepo.UnitOfWork, prefixes map[domain.DocumentType]string) portssvc.SequencerSvc {
	merged := make(map[domain.DocumentType]string, len(DefaultDocumentPrefixes)+len(prefixes))
	for k, v := range DefaultDocumentPrefixes {
		merged[k] = v
	}
	for k, v := range prefixes {
		merged[domain.DocumentType(strings.ToUpper(string(k)))] = v
	}
	return &sequencerService{uow: uow, prefixes: merged}
}

var _ portssvc.SequencerSvc = (*sequencerService)(nil)

// Prefix returns the number prefix for a document type.
func (s *sequencerService) Prefix(docType domain.DocumentType) string {
	if p, ok := s.prefixes[docType]; ok {
		return p
	}
	return strings.ToUpper(string(docType))
}

func (s *sequencerService) NextNumber(ctx context.Context, tenantID string, docType domain.DocumentType) (*portssvc.DocumentNumber, error) {
	var num *portssvc.DocumentNumber
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		n, err := s.NextNumberInTx(ctx, tx, tenantID, docType, s.Now().Year())
		num = n
		return err
	})
	if err != nil {
		return nil, err
	}
	return num, nil
}

// NextNumberInTx formats {prefix}-{year}-{N+1}. Uniqueness under concurrency
// is provided by the sequence repository inside the unit of work.
func (s *sequencerService) NextNumberInTx(ctx context.Context, tx portsrepo.Tx, tenantID string, docType domain.DocumentType, year int) (*portssvc.DocumentNumber, error) {
	if docType == "" {
		return nil, apperrors.NewValidationError("document type is required")
	}
	value, err := tx.Sequences().NextValue(ctx, tenantID, docType, year)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("failed to allocate %s number: %w", docType, err)
		}
		return nil, fmt.Errorf("failed to allocate %s number: %w: %w", docType, apperrors.ErrInternal, err)
	}
	return &portssvc.DocumentNumber{
		Number: fmt.Sprintf("%s-%d-%d", s.Prefix(docType), year, value),
		Value:  value,
		Year:   year,
	}, nil
}
