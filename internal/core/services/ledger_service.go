package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultListLimit = 20

// ledgerService is the posting engine. Every write goes through a unit of
// work so that header, entries, balance deltas and the consumed document
// number commit or roll back together.
type ledgerService struct {
	BaseService
	uow       portsrepo.UnitOfWork
	accounts  portssvc.AccountValidatorSvc
	sequencer portssvc.SequencerSvc
	balances  portssvc.BalanceSvcFacade
}

// LedgerServiceOption configures the posting engine.
type LedgerServiceOption func(*ledgerService)

// WithLedgerClock overrides the clock used for audit fields and void dates.
func WithLedgerClock(now func() time.Time) LedgerServiceOption {
	return func(s *ledgerService) {
		s.Clock = now
	}
}

// NewLedgerService creates the ledger posting engine.
func NewLedgerService(
	uow portsrepo.UnitOfWork,
	accounts portssvc.AccountValidatorSvc,
	sequencer portssvc.SequencerSvc,
	balances portssvc.BalanceSvcFacade,
	opts ...LedgerServiceOption,
) portssvc.LedgerSvcFacade {
	s := &ledgerService{
		uow:       uow,
		accounts:  accounts,
		sequencer: sequencer,
		balances:  balances,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// ValidateBalance compares debit and credit base-currency totals exactly.
func (s *ledgerService) ValidateBalance(entries []domain.LedgerEntry) portssvc.BalanceCheck {
	debits, credits := domain.SumEntries(entries)
	return portssvc.BalanceCheck{
		Balanced:    debits.Equal(credits),
		DebitTotal:  debits,
		CreditTotal: credits,
		Difference:  debits.Sub(credits).Abs(),
	}
}

func (s *ledgerService) CreateTransaction(ctx context.Context, tenantID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	logger := s.GetLogger(ctx).With(slog.String("tenant_id", tenantID))

	var created *domain.Transaction
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		txn, err := s.CreateTransactionInTx(ctx, tx, tenantID, req, userID)
		created = txn
		return err
	})
	if err != nil {
		logger.Warn("Transaction rejected", slog.String("error", err.Error()))
		return nil, err
	}

	if created.Status == domain.StatusPosted {
		s.balances.Invalidate(ctx, tenantID)
	}
	logger.Info("Transaction created",
		slog.String("transaction_id", created.TransactionID),
		slog.String("sequence_number", created.SequenceNumber),
		slog.String("status", string(created.Status)))
	return created, nil
}

func (s *ledgerService) CreateTransactionInTx(ctx context.Context, tx portsrepo.Tx, tenantID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	docType := domain.DocumentType(strings.ToUpper(strings.TrimSpace(string(req.TransactionType))))
	if docType == "" {
		return nil, apperrors.NewValidationError("transaction type is required")
	}
	if docType == domain.DocReversal && req.ReversalOfID == "" {
		return nil, apperrors.NewValidationError("reversal transactions are created by voiding")
	}
	if req.TransactionDate.IsZero() {
		return nil, apperrors.NewValidationError("transaction date is required")
	}
	status := req.Status
	if status == "" {
		status = domain.StatusPosted
	}
	if status != domain.StatusDraft && status != domain.StatusPosted {
		return nil, apperrors.NewValidationError("transactions can only be created as %s or %s", domain.StatusDraft, domain.StatusPosted)
	}

	// structural and balance checks come before any read or write
	entries, err := s.prepareEntries(req.Entries)
	if err != nil {
		return nil, err
	}
	return s.recordInTx(ctx, tx, tenantID, docType, status, req, entries, userID, false)
}

// recordInTx numbers and saves a transaction whose entries are already
// balanced, then applies balance deltas when it is posted. A reversal skips
// the leaf and active checks: it must land on the original accounts even if
// they have since gained children or been deactivated.
func (s *ledgerService) recordInTx(
	ctx context.Context,
	tx portsrepo.Tx,
	tenantID string,
	docType domain.DocumentType,
	status domain.TransactionStatus,
	req dto.CreateTransactionRequest,
	entries []domain.LedgerEntry,
	userID string,
	reversal bool,
) (*domain.Transaction, error) {
	tenant, err := tx.Tenants().FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].CurrencyCode == "" {
			entries[i].CurrencyCode = tenant.BaseCurrencyCode
		}
		if entries[i].CurrencyCode == tenant.BaseCurrencyCode && !entries[i].ExchangeRate.Equal(decimal.NewFromInt(1)) {
			return nil, apperrors.NewValidationError("entry %d is in base currency %s and must use exchange rate 1", i+1, tenant.BaseCurrencyCode)
		}
	}

	txn := domain.Transaction{TenantID: tenantID, Entries: entries}
	ids := txn.AccountIDs()
	sort.Strings(ids) // lock in a stable order
	accounts, err := tx.Accounts().FindAccountsByIDsForUpdate(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	if !reversal {
		if err := s.accounts.CheckPostable(accounts, req.IsManual); err != nil {
			return nil, err
		}
	}

	date := domain.DateOnly(req.TransactionDate)
	num, err := s.sequencer.NextNumberInTx(ctx, tx, tenantID, docType, date.Year())
	if err != nil {
		return nil, err
	}

	now := s.Now()
	txn.TransactionID = uuid.NewString()
	txn.SequenceNumber = num.Number
	txn.SequenceValue = num.Value
	txn.FiscalYear = num.Year
	txn.TransactionDate = date
	txn.TransactionType = docType
	txn.Description = req.Description
	txn.Status = status
	txn.Reference = req.Reference
	txn.ReversalOfID = req.ReversalOfID
	txn.AuditFields = domain.NewAuditFields(userID, now)
	for i := range txn.Entries {
		txn.Entries[i].EntryID = uuid.NewString()
		txn.Entries[i].TransactionID = txn.TransactionID
	}

	if err := tx.Transactions().SaveTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	if status == domain.StatusPosted {
		if err := s.balances.ApplyEntries(ctx, tx, tenantID, accounts, txn.Entries, userID); err != nil {
			return nil, err
		}
	}
	return &txn, nil
}

// prepareEntries checks entry structure, converts amounts to base currency
// and verifies that debits equal credits.
func (s *ledgerService) prepareEntries(reqs []dto.CreateLedgerEntryRequest) ([]domain.LedgerEntry, error) {
	if len(reqs) < 2 {
		return nil, apperrors.NewValidationError("at least 2 entries required")
	}

	one := decimal.NewFromInt(1)
	entries := make([]domain.LedgerEntry, len(reqs))
	var hasDebit, hasCredit bool
	for i, r := range reqs {
		line := i + 1
		if strings.TrimSpace(r.AccountID) == "" {
			return nil, apperrors.NewValidationError("entry %d has no account", line)
		}
		if !r.Side.IsValid() {
			return nil, apperrors.NewValidationError("entry %d side %q must be %s or %s", line, r.Side, domain.Debit, domain.Credit)
		}
		if r.Amount.IsNegative() {
			return nil, apperrors.NewValidationError("entry %d amount must be non-negative", line)
		}
		rate := one
		if r.ExchangeRate != nil {
			rate = *r.ExchangeRate
		}
		if !rate.IsPositive() {
			return nil, apperrors.NewValidationError("entry %d exchange rate must be positive", line)
		}
		if !domain.FitsScale(r.Amount, domain.BaseAmountScale) {
			return nil, apperrors.NewValidationError("entry %d amount has more than %d decimal places", line, domain.BaseAmountScale)
		}
		if !domain.FitsScale(rate, domain.ExchangeRateScale) {
			return nil, apperrors.NewValidationError("entry %d exchange rate has more than %d decimal places", line, domain.ExchangeRateScale)
		}

		hasDebit = hasDebit || r.Side == domain.Debit
		hasCredit = hasCredit || r.Side == domain.Credit
		entries[i] = domain.LedgerEntry{
			LineNumber:   line,
			AccountID:    r.AccountID,
			Side:         r.Side,
			Amount:       r.Amount,
			CurrencyCode: strings.ToUpper(r.CurrencyCode),
			ExchangeRate: rate,
			BaseAmount:   domain.ComputeBaseAmount(r.Amount, rate),
			Description:  r.Description,
		}
	}
	if !hasDebit || !hasCredit {
		return nil, apperrors.NewValidationError("at least one debit and one credit entry required")
	}

	if check := s.ValidateBalance(entries); !check.Balanced {
		return nil, apperrors.NewUnbalancedError(check.DebitTotal, check.CreditTotal)
	}
	return entries, nil
}

// PostTransaction moves a draft to Posted and applies its balance deltas.
// Posting an already posted transaction is a no-op.
func (s *ledgerService) PostTransaction(ctx context.Context, tenantID, transactionID, userID string) (*domain.Transaction, error) {
	var (
		result  *domain.Transaction
		changed bool
	)
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		changed = false
		txn, err := tx.Transactions().FindTransactionByIDForUpdate(ctx, tenantID, transactionID)
		if err != nil {
			return err
		}
		result = txn

		switch txn.Status {
		case domain.StatusPosted:
			return nil
		case domain.StatusVoided:
			return apperrors.NewStateError("transaction", txn.SequenceNumber, string(txn.Status), "voided transactions cannot be posted")
		}

		ids := txn.AccountIDs()
		sort.Strings(ids)
		accounts, err := tx.Accounts().FindAccountsByIDsForUpdate(ctx, tenantID, ids)
		if err != nil {
			return err
		}
		if err := s.accounts.CheckPostable(accounts, false); err != nil {
			return err
		}
		if err := s.balances.ApplyEntries(ctx, tx, tenantID, accounts, txn.Entries, userID); err != nil {
			return err
		}
		now := s.Now()
		if err := tx.Transactions().UpdateTransactionStatus(ctx, tenantID, txn.TransactionID, domain.StatusPosted, "", userID, now); err != nil {
			return err
		}
		txn.Status = domain.StatusPosted
		txn.LastUpdatedAt = now
		txn.LastUpdatedBy = userID
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.balances.Invalidate(ctx, tenantID)
		s.LogInfo(ctx, "Transaction posted", slog.String("tenant_id", tenantID), slog.String("transaction_id", transactionID))
	}
	return result, nil
}

// VoidTransaction creates a reversing transaction with every entry side
// flipped and marks the original Voided. Original entries are never changed.
func (s *ledgerService) VoidTransaction(ctx context.Context, tenantID, transactionID, actorID string) (*portssvc.VoidResult, error) {
	var result *portssvc.VoidResult
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		original, err := tx.Transactions().FindTransactionByIDForUpdate(ctx, tenantID, transactionID)
		if err != nil {
			return err
		}
		switch original.Status {
		case domain.StatusVoided:
			return apperrors.NewStateError("transaction", original.SequenceNumber, string(original.Status), "transaction is already voided")
		case domain.StatusDraft:
			return apperrors.NewStateError("transaction", original.SequenceNumber, string(original.Status), "only posted transactions can be voided")
		}

		// base amounts are carried over, never recomputed from amount and rate
		mirrored := domain.Mirror(original.Entries)
		if check := s.ValidateBalance(mirrored); !check.Balanced {
			return apperrors.NewUnbalancedError(check.DebitTotal, check.CreditTotal)
		}

		reversing, err := s.recordInTx(ctx, tx, tenantID, domain.DocReversal, domain.StatusPosted, dto.CreateTransactionRequest{
			TransactionDate: s.Now(),
			TransactionType: domain.DocReversal,
			Description:     "Reversal of " + original.SequenceNumber,
			Reference:       original.SequenceNumber,
			Status:          domain.StatusPosted,
			ReversalOfID:    original.TransactionID,
		}, mirrored, actorID, true)
		if err != nil {
			return fmt.Errorf("failed to create reversing transaction: %w", err)
		}

		now := s.Now()
		if err := tx.Transactions().UpdateTransactionStatus(ctx, tenantID, original.TransactionID, domain.StatusVoided, reversing.TransactionID, actorID, now); err != nil {
			return err
		}
		original.Status = domain.StatusVoided
		original.ReversedByID = reversing.TransactionID
		original.LastUpdatedAt = now
		original.LastUpdatedBy = actorID

		result = &portssvc.VoidResult{Original: original, Reversing: reversing}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.balances.Invalidate(ctx, tenantID)
	s.LogInfo(ctx, "Transaction voided",
		slog.String("tenant_id", tenantID),
		slog.String("transaction_id", transactionID),
		slog.String("reversing_transaction_id", result.Reversing.TransactionID))
	return result, nil
}

func (s *ledgerService) GetTransactionByID(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error) {
	return s.uow.Transactions().FindTransactionByID(ctx, tenantID, transactionID)
}

func (s *ledgerService) ListTransactions(ctx context.Context, tenantID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	txns, next, err := s.uow.Transactions().ListTransactions(ctx, tenantID, portsrepo.ListTransactionsParams{
		Filter: domain.TransactionFilter{
			Status:    params.Status,
			Type:      domain.DocumentType(strings.ToUpper(string(params.Type))),
			AccountID: params.AccountID,
		},
		Limit:     limit,
		NextToken: params.NextToken,
	})
	if err != nil {
		return nil, err
	}
	resp := dto.ToListTransactionsResponse(txns, next)
	return &resp, nil
}
