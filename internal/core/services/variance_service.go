package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/google/uuid"
)

// costVarianceService produces ledger entries for standard-vs-actual cost
// differences. It posts through the engine in its own unit of work.
type costVarianceService struct {
	BaseService
	uow        portsrepo.UnitOfWork
	ledger     portssvc.LedgerWriterSvc
	balances   portssvc.BalanceSvcFacade
	decomposer Decomposer
}

type CostVarianceServiceOption func(*costVarianceService)

// WithDecomposer replaces the default single-component decomposer.
func WithDecomposer(d Decomposer) CostVarianceServiceOption {
	return func(s *costVarianceService) {
		s.decomposer = d
	}
}

func WithVarianceClock(now func() time.Time) CostVarianceServiceOption {
	return func(s *costVarianceService) {
		s.Clock = now
	}
}

func NewCostVarianceService(uow portsrepo.UnitOfWork, ledger portssvc.LedgerWriterSvc, balances portssvc.BalanceSvcFacade, opts ...CostVarianceServiceOption) portssvc.CostVarianceSvc {
	s := &costVarianceService{
		uow:        uow,
		ledger:     ledger,
		balances:   balances,
		decomposer: SingleDecomposer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.CostVarianceSvc = (*costVarianceService)(nil)

// RecordCostVariance stores the variance and, when it is non-zero, posts a
// VARIANCE transaction for it in the same unit of work.
func (s *costVarianceService) RecordCostVariance(ctx context.Context, tenantID string, req dto.RecordCostVarianceRequest, userID string) (*domain.CostVariance, error) {
	if req.StandardCost.IsNegative() || req.ActualCost.IsNegative() {
		return nil, apperrors.NewValidationError("standard and actual cost must be non-negative")
	}
	if req.VarianceDate.IsZero() {
		return nil, apperrors.NewValidationError("variance date is required")
	}
	if req.VarianceAccountID == req.OffsetAccountID {
		return nil, apperrors.NewConfigurationError("variance accounts", "variance and offset account must differ")
	}

	variance := req.ActualCost.Sub(req.StandardCost)
	components, err := s.decomposer.Decompose(variance)
	if err != nil {
		return nil, err
	}

	var recorded *domain.CostVariance
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		cv := domain.CostVariance{
			VarianceID:   uuid.NewString(),
			TenantID:     tenantID,
			Reference:    req.Reference,
			VarianceDate: domain.DateOnly(req.VarianceDate),
			StandardCost: req.StandardCost,
			ActualCost:   req.ActualCost,
			Variance:     variance,
			Components:   components,
			AuditFields:  domain.NewAuditFields(userID, s.Now()),
		}

		if !variance.IsZero() {
			if err := s.checkAccounts(ctx, tx, tenantID, req.VarianceAccountID, req.OffsetAccountID); err != nil {
				return err
			}
			txn, err := s.ledger.CreateTransactionInTx(ctx, tx, tenantID, s.buildTransaction(cv, req), userID)
			if err != nil {
				return err
			}
			cv.TransactionID = txn.TransactionID
		}

		if err := tx.Variances().SaveVariance(ctx, cv); err != nil {
			return fmt.Errorf("failed to save cost variance: %w", err)
		}
		recorded = &cv
		return nil
	})
	if err != nil {
		return nil, err
	}

	if recorded.TransactionID != "" {
		s.balances.Invalidate(ctx, tenantID)
	}
	s.LogInfo(ctx, "Cost variance recorded",
		slog.String("tenant_id", tenantID),
		slog.String("variance_id", recorded.VarianceID),
		slog.String("variance", recorded.Variance.String()),
		slog.String("decomposer", s.decomposer.Name()))
	return recorded, nil
}

// checkAccounts turns unresolvable variance accounts into a configuration problem
// of this producer rather than a missing-resource error of the core.
func (s *costVarianceService) checkAccounts(ctx context.Context, tx portsrepo.Tx, tenantID string, ids ...string) error {
	for _, id := range ids {
		if _, err := tx.Accounts().FindAccountByID(ctx, tenantID, id); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewConfigurationError("variance accounts", fmt.Sprintf("account %s does not exist", id))
			}
			return err
		}
	}
	return nil
}

// buildTransaction debits the variance account once per component and credits
// the offset for an unfavourable variance. A favourable one is the reverse.
func (s *costVarianceService) buildTransaction(cv domain.CostVariance, req dto.RecordCostVarianceRequest) dto.CreateTransactionRequest {
	entries := make([]dto.CreateLedgerEntryRequest, 0, len(cv.Components)+1)
	for _, c := range cv.Components {
		if c.Amount.IsZero() {
			continue
		}
		side := domain.Debit
		if c.Amount.IsNegative() {
			side = domain.Credit
		}
		entries = append(entries, dto.CreateLedgerEntryRequest{
			AccountID:   req.VarianceAccountID,
			Side:        side,
			Amount:      c.Amount.Abs(),
			Description: c.Name + " variance",
		})
	}
	offsetSide := domain.Credit
	if cv.IsFavourable() {
		offsetSide = domain.Debit
	}
	entries = append(entries, dto.CreateLedgerEntryRequest{
		AccountID:   req.OffsetAccountID,
		Side:        offsetSide,
		Amount:      cv.Variance.Abs(),
		Description: "variance offset",
	})

	description := "Cost variance"
	if ref := strings.TrimSpace(cv.Reference); ref != "" {
		description += " " + ref
	}
	return dto.CreateTransactionRequest{
		TransactionDate: cv.VarianceDate,
		TransactionType: domain.DocVariance,
		Description:     description,
		Reference:       cv.Reference,
		Status:          domain.StatusPosted,
		Entries:         entries,
	}
}

func (s *costVarianceService) GetCostVariance(ctx context.Context, tenantID, varianceID string) (*domain.CostVariance, error) {
	return s.uow.Variances().FindVarianceByID(ctx, tenantID, varianceID)
}
