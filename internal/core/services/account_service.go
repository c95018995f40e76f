package services

import (
	"context"
	"errors"
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
)

// accountService implements the account registry.
type accountService struct {
	BaseService
	uow        portsrepo.UnitOfWork
	codeRanges domain.CodeRangePolicy
}

// AccountServiceOption is a functional option for configuring the account registry.
type AccountServiceOption func(*accountService)

// WithCodeRanges replaces the default code-range policy.
func WithCodeRanges(p domain.CodeRangePolicy) AccountServiceOption {
	return func(s *accountService) {
		s.codeRanges = p
	}
}

// WithAccountClock overrides the clock used for audit fields.
func WithAccountClock(now func() time.Time) AccountServiceOption {
	return func(s *accountService) {
		s.Clock = now
	}
}

// NewAccountService creates a new account registry.
func NewAccountService(uow portsrepo.UnitOfWork, opts ...AccountServiceOption) portssvc.AccountSvcFacade {
	s := &accountService{
		uow:        uow,
		codeRanges: domain.DefaultCodeRanges,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount validates and persists a new account in its own unit of work.
func (s *accountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	var created *domain.Account
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		acc, err := s.CreateAccountInTx(ctx, tx, tenantID, req, userID)
		if err != nil {
			return err
		}
		created = acc
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Account created",
		slog.String("tenant_id", tenantID),
		slog.String("account_id", created.AccountID),
		slog.String("code", created.Code))
	return created, nil
}

func (s *accountService) CreateAccountInTx(ctx context.Context, tx portsrepo.Tx, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	code := strings.TrimSpace(req.Code)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("account name is required")
	}
	if req.AccountType == "" {
		if t, ok := s.codeRanges.TypeForCode(code); ok {
			req.AccountType = t
		}
	}
	if !req.AccountType.IsValid() {
		return nil, apperrors.NewValidationError("invalid account type %q", req.AccountType)
	}
	if err := s.codeRanges.Validate(code, req.AccountType); err != nil {
		return nil, apperrors.NewValidationError("%s", err.Error())
	}

	tenant, err := tx.Tenants().FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	acc := domain.Account{
		AccountID:           uuid.NewString(),
		TenantID:            tenantID,
		Code:                code,
		Name:                name,
		AccountType:         req.AccountType,
		SubType:             req.SubType,
		CurrencyCode:        strings.ToUpper(req.CurrencyCode),
		Description:         req.Description,
		Level:               0,
		Path:                code,
		AllowsManualPosting: !req.IsSystem,
		IsSystem:            req.IsSystem,
		IsActive:            true,
		AuditFields:         domain.NewAuditFields(userID, now),
	}
	if acc.CurrencyCode == "" {
		acc.CurrencyCode = tenant.BaseCurrencyCode
	}
	if req.AllowsManualPosting != nil {
		acc.AllowsManualPosting = *req.AllowsManualPosting
	}

	var parent *domain.Account
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		locked, err := tx.Accounts().FindAccountsByIDsForUpdate(ctx, tenantID, []string{*req.ParentAccountID})
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationError("parent account %s not found", *req.ParentAccountID)
			}
			return nil, fmt.Errorf("failed to load parent account: %w", err)
		}
		p := locked[*req.ParentAccountID]
		parent = &p
		if parent.AccountType != acc.AccountType {
			return nil, apperrors.NewValidationError("account type %s does not match parent %s type %s",
				acc.AccountType, parent.Code, parent.AccountType)
		}
		if !parent.IsActive {
			return nil, apperrors.NewValidationError("parent account %s is inactive", parent.Code)
		}
		acc.ParentAccountID = parent.AccountID
		acc.Level = parent.Level + 1
		acc.Path = parent.Path + domain.PathSeparator + code
	}

	if err := tx.Accounts().SaveAccount(ctx, acc); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewValidationError("account code %s already exists", code)
		}
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	if parent != nil && !parent.HasChildren {
		if err := tx.Accounts().MarkHasChildren(ctx, tenantID, parent.AccountID, userID, now); err != nil {
			return nil, fmt.Errorf("failed to flag parent account: %w", err)
		}
	}

	return &acc, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	return s.uow.Accounts().FindAccountByID(ctx, tenantID, accountID)
}

func (s *accountService) GetAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error) {
	return s.uow.Accounts().FindAccountByCode(ctx, tenantID, code)
}

func (s *accountService) ListAccounts(ctx context.Context, tenantID string, filter domain.AccountFilter) ([]domain.Account, error) {
	accounts, err := s.uow.Accounts().ListAccounts(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Account, 0, len(accounts))
	for _, acc := range accounts {
		if filter.Matches(acc) {
			out = append(out, acc)
		}
	}
	return out, nil
}

// DeactivateAccount marks an account inactive. Accounts are never deleted.
func (s *accountService) DeactivateAccount(ctx context.Context, tenantID, accountID, userID string) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		acc, err := tx.Accounts().FindAccountByID(ctx, tenantID, accountID)
		if err != nil {
			return err
		}
		if !acc.IsActive {
			return nil
		}
		accounts, err := tx.Accounts().ListAccounts(ctx, tenantID)
		if err != nil {
			return err
		}
		for _, child := range accounts {
			if child.ParentAccountID == accountID && child.IsActive {
				return apperrors.NewStateError("account", accountID, "PARENT", "account has active children")
			}
		}
		return tx.Accounts().DeactivateAccount(ctx, tenantID, accountID, userID, s.Now())
	})
	if err != nil {
		return err
	}
	s.LogInfo(ctx, "Account deactivated", slog.String("tenant_id", tenantID), slog.String("account_id", accountID))
	return nil
}

func (s *accountService) ValidatePosting(ctx context.Context, tenantID, accountID string, isManualEntry bool) (*domain.PostingValidation, error) {
	acc, err := s.uow.Accounts().FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	reasons := acc.PostingViolations(isManualEntry)
	return &domain.PostingValidation{AccountID: accountID, OK: len(reasons) == 0, Reasons: reasons}, nil
}

// CheckPostable turns the first posting violation into a typed error.
// Inactive and non-leaf accounts are state errors; a forbidden manual post is a validation error.
func (s *accountService) CheckPostable(accounts map[string]domain.Account, isManualEntry bool) error {
	ids := make([]string, 0, len(accounts))
	for id := range accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		acc := accounts[id]
		for _, v := range acc.PostingViolations(isManualEntry) {
			switch v {
			case domain.ViolationInactive:
				return apperrors.NewStateError("account", acc.Code, "INACTIVE", "inactive accounts cannot receive postings")
			case domain.ViolationHasChildren:
				return apperrors.NewStateError("account", acc.Code, "PARENT", "accounts with children cannot receive direct postings")
			case domain.ViolationManualNotAllowed:
				return apperrors.NewValidationError("account %s does not allow manual postings", acc.Code)
			}
		}
	}
	return nil
}

// GetHierarchy builds the chart-of-accounts tree, children ordered by code.
func (s *accountService) GetHierarchy(ctx context.Context, tenantID string, filter domain.AccountFilter) ([]*domain.AccountNode, error) {
	accounts, err := s.uow.Accounts().ListAccounts(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	arena := domain.NewAccountArena(accounts)

	roots := arena.Roots
	if filter.RootAccountID != "" {
		if _, ok := arena.ByID[filter.RootAccountID]; !ok {
			return nil, apperrors.NewNotFoundError("account", filter.RootAccountID)
		}
		roots = []string{filter.RootAccountID}
	}

	visited := make(map[string]bool, len(accounts))
	var build func(id string) *domain.AccountNode
	build = func(id string) *domain.AccountNode {
		if visited[id] {
			return nil
		}
		visited[id] = true
		acc := arena.ByID[id]
		if !filter.Matches(acc) {
			return nil
		}
		node := &domain.AccountNode{Account: acc}
		for _, childID := range arena.Children[id] {
			if child := build(childID); child != nil {
				node.Children = append(node.Children, child)
			}
		}
		return node
	}

	tree := make([]*domain.AccountNode, 0, len(roots))
	for _, id := range roots {
		if node := build(id); node != nil {
			tree = append(tree, node)
		}
	}
	return tree, nil
}
