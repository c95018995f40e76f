package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const transactionColumns = `transaction_id, tenant_id, sequence_number, sequence_value, fiscal_year, transaction_date,
		transaction_type, description, status, reference, reversal_of_id, reversed_by_id,
		created_at, created_by, last_updated_at, last_updated_by`

const entryColumns = `entry_id, transaction_id, line_number, account_id, side, amount, currency_code,
		exchange_rate, base_amount, description`

// qualify prefixes every column of a column list with a table alias.
func qualify(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

type PgxTransactionRepository struct {
	BaseRepository
}

var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.TenantID,
		&m.SequenceNumber,
		&m.SequenceValue,
		&m.FiscalYear,
		&m.TransactionDate,
		&m.TransactionType,
		&m.Description,
		&m.Status,
		&m.Reference,
		&m.ReversalOfID,
		&m.ReversedByID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveTransaction inserts the header and queues every entry in one batch.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	headerQuery := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.db.Exec(ctx, headerQuery,
		m.TransactionID,
		m.TenantID,
		m.SequenceNumber,
		m.SequenceValue,
		m.FiscalYear,
		m.TransactionDate,
		m.TransactionType,
		m.Description,
		m.Status,
		m.Reference,
		m.ReversalOfID,
		m.ReversedByID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return wrapWriteError(err, "transaction "+m.SequenceNumber)
	}

	entryQuery := `
		INSERT INTO ledger_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, e := range txn.Entries {
		em := mapping.ToModelLedgerEntry(e)
		batch.Queue(entryQuery,
			em.EntryID,
			em.TransactionID,
			em.LineNumber,
			em.AccountID,
			em.Side,
			em.Amount,
			em.CurrencyCode,
			em.ExchangeRate,
			em.BaseAmount,
			em.Description,
		)
	}

	br := r.db.SendBatch(ctx, batch)
	// Close the batch results, checking for errors during execution
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert entries for transaction %s: %w", m.SequenceNumber, err)
	}
	return nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error) {
	return r.findOne(ctx, tenantID, transactionID, false)
}

// FindTransactionByIDForUpdate locks the header row. Entries are immutable and need no lock.
func (r *PgxTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error) {
	return r.findOne(ctx, tenantID, transactionID, true)
}

func (r *PgxTransactionRepository) findOne(ctx context.Context, tenantID, transactionID string, forUpdate bool) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE tenant_id = $1 AND transaction_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	m, err := scanTransaction(r.db.QueryRow(ctx, query, tenantID, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("transaction", transactionID)
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	entries, err := r.findEntries(ctx, []string{transactionID})
	if err != nil {
		return nil, err
	}
	txn := mapping.ToDomainTransaction(m, entries[transactionID])
	return &txn, nil
}

// findEntries loads the entries of several transactions grouped by transaction id.
func (r *PgxTransactionRepository) findEntries(ctx context.Context, transactionIDs []string) (map[string][]models.LedgerEntry, error) {
	out := make(map[string][]models.LedgerEntry, len(transactionIDs))
	if len(transactionIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE transaction_id = ANY($1)
		ORDER BY transaction_id, line_number;
	`
	rows, err := r.db.Query(ctx, query, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(
			&e.EntryID,
			&e.TransactionID,
			&e.LineNumber,
			&e.AccountID,
			&e.Side,
			&e.Amount,
			&e.CurrencyCode,
			&e.ExchangeRate,
			&e.BaseAmount,
			&e.Description,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		out[e.TransactionID] = append(out[e.TransactionID], e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entry rows: %w", err)
	}
	return out, nil
}

func (r *PgxTransactionRepository) UpdateTransactionStatus(ctx context.Context, tenantID, transactionID string, status domain.TransactionStatus, reversedByID string, userID string, now time.Time) error {
	query := `
		UPDATE transactions
		SET status = $3, reversed_by_id = COALESCE(NULLIF($4, ''), reversed_by_id), last_updated_at = $5, last_updated_by = $6
		WHERE tenant_id = $1 AND transaction_id = $2;
	`
	ct, err := r.db.Exec(ctx, query, tenantID, transactionID, string(status), reversedByID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of transaction %s: %w", transactionID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transaction", transactionID)
	}
	return nil
}

// ListTransactions pages by (transaction_date, created_at, transaction_id) descending.
// One extra row is fetched to know whether another page exists.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, tenantID string, params portsrepo.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	var (
		where = []string{"t.tenant_id = $1"}
		args  = []any{tenantID}
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if params.Filter.Status != "" {
		where = append(where, "t.status = "+arg(string(params.Filter.Status)))
	}
	if params.Filter.Type != "" {
		where = append(where, "t.transaction_type = "+arg(string(params.Filter.Type)))
	}
	if params.Filter.AccountID != "" {
		where = append(where, "EXISTS (SELECT 1 FROM ledger_entries e WHERE e.transaction_id = t.transaction_id AND e.account_id = "+arg(params.Filter.AccountID)+")")
	}
	if params.NextToken != nil && *params.NextToken != "" {
		cursor, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid nextToken: %s", err.Error())
		}
		where = append(where, fmt.Sprintf("(t.transaction_date, t.created_at, t.transaction_id) < (%s::date, %s::timestamptz, %s::text)",
			arg(cursor.Date), arg(cursor.CreatedAt), arg(cursor.ID)))
	}

	query := `SELECT ` + qualify("t", transactionColumns) + `
		FROM transactions t
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY t.transaction_date DESC, t.created_at DESC, t.transaction_id DESC
		LIMIT ` + arg(limit+1) + `;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	headers := make([]models.Transaction, 0, limit+1)
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		headers = append(headers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	var next *string
	if len(headers) > limit {
		headers = headers[:limit]
		last := headers[limit-1]
		token := pagination.EncodeToken(last.TransactionDate, last.CreatedAt, last.TransactionID)
		next = &token
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.TransactionID
	}
	entries, err := r.findEntries(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	out := make([]domain.Transaction, len(headers))
	for i, h := range headers {
		out[i] = mapping.ToDomainTransaction(h, entries[h.TransactionID])
	}
	return out, next, nil
}

// SumEntriesByAccount totals base amounts per side for posted and voided
// transactions, optionally up to and including asOf and restricted to accountIDs.
func (r *PgxTransactionRepository) SumEntriesByAccount(ctx context.Context, tenantID string, asOf *time.Time, accountIDs ...string) (map[string]portsrepo.EntryTotals, error) {
	query := `
		SELECT e.account_id,
		       COALESCE(SUM(CASE WHEN e.side = 'DEBIT' THEN e.base_amount END), 0),
		       COALESCE(SUM(CASE WHEN e.side = 'CREDIT' THEN e.base_amount END), 0)
		FROM ledger_entries e
		JOIN transactions t ON t.transaction_id = e.transaction_id
		WHERE t.tenant_id = $1
		  AND t.status IN ('POSTED', 'VOIDED')
		  AND ($2::date IS NULL OR t.transaction_date <= $2::date)
		  AND (cardinality($3::text[]) = 0 OR e.account_id = ANY($3::text[]))
		GROUP BY e.account_id;
	`
	var cutoff *time.Time
	if asOf != nil {
		d := domain.DateOnly(*asOf)
		cutoff = &d
	}
	if accountIDs == nil {
		accountIDs = []string{}
	}
	rows, err := r.db.Query(ctx, query, tenantID, cutoff, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to sum entries for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	out := make(map[string]portsrepo.EntryTotals)
	for rows.Next() {
		var (
			accountID     string
			debit, credit decimal.Decimal
		)
		if err := rows.Scan(&accountID, &debit, &credit); err != nil {
			return nil, fmt.Errorf("failed to scan entry totals: %w", err)
		}
		out[accountID] = portsrepo.EntryTotals{Debit: debit, Credit: credit}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry totals: %w", err)
	}
	return out, nil
}
