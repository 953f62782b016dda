package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fintrackid/coa_backend/internal/apperrors"
	"github.com/fintrackid/coa_backend/internal/core/domain"
	portsrepo "github.com/fintrackid/coa_backend/internal/core/ports/repositories"
	"github.com/fintrackid/coa_backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = "transaction_id, account_id, transaction_date, description, debit, credit, notes, created_at, last_updated_at, deleted_at"

// PgxTransactionRepository persists postings in PostgreSQL.
type PgxTransactionRepository struct {
	BaseRepository
}

// NewTransactionRepository creates a new repository for posting data.
func NewTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func toModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		AccountID:       d.AccountID,
		TransactionDate: d.TransactionDate,
		Description:     d.Description,
		Debit:           d.Debit,
		Credit:          d.Credit,
		Notes:           d.Notes,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
		DeletedAt: d.DeletedAt,
	}
}

func toDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		AccountID:       m.AccountID,
		TransactionDate: m.TransactionDate,
		Description:     m.Description,
		Debit:           m.Debit,
		Credit:          m.Credit,
		Notes:           m.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
		DeletedAt: m.DeletedAt,
	}
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var modelTxn models.Transaction
	err := row.Scan(
		&modelTxn.TransactionID,
		&modelTxn.AccountID,
		&modelTxn.TransactionDate,
		&modelTxn.Description,
		&modelTxn.Debit,
		&modelTxn.Credit,
		&modelTxn.Notes,
		&modelTxn.CreatedAt,
		&modelTxn.LastUpdatedAt,
		&modelTxn.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	domainTxn := toDomainTransaction(modelTxn)
	return &domainTxn, nil
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()
	txns := []domain.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txns, nil
}

// SaveTransaction inserts a new posting.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	modelTxn := toModelTransaction(txn)

	query := `
		INSERT INTO transactions (transaction_id, account_id, transaction_date, description, debit, credit, notes, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelTxn.TransactionID,
		modelTxn.AccountID,
		modelTxn.TransactionDate,
		modelTxn.Description,
		modelTxn.Debit,
		modelTxn.Credit,
		modelTxn.Notes,
		modelTxn.CreatedAt,
		modelTxn.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" {
				return fmt.Errorf("%w: transaction with ID %s already exists", apperrors.ErrDuplicate, modelTxn.TransactionID)
			}
			if pgErr.Code == "23503" { // FK violation on account_id
				return fmt.Errorf("%w: account %s does not exist", apperrors.ErrNotFound, modelTxn.AccountID)
			}
		}
		return fmt.Errorf("failed to save transaction %s: %w", modelTxn.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves a non-deleted posting by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_id = $1 AND deleted_at IS NULL;
	`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	return txn, nil
}

// ListTransactions retrieves a filtered, paginated posting list ordered by
// transaction date descending, then creation time descending.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.ListTransactionsFilter) ([]domain.Transaction, error) {
	conditions := []string{"deleted_at IS NULL"}
	args := []any{}
	argIdx := 1

	if filter.AccountID != nil {
		conditions = append(conditions, fmt.Sprintf("account_id = $%d", argIdx))
		args = append(args, *filter.AccountID)
		argIdx++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("transaction_date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("transaction_date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.EntryType != nil {
		switch *filter.EntryType {
		case domain.Debit:
			conditions = append(conditions, "debit > 0")
		case domain.Credit:
			conditions = append(conditions, "credit > 0")
		}
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(description ILIKE $%d OR notes ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions
		WHERE %s
		ORDER BY transaction_date DESC, created_at DESC
	`, transactionColumns, strings.Join(conditions, " AND "))
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf("LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, offset)
	}
	query += ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	return collectTransactions(rows)
}

// ListAllTransactions retrieves the full non-deleted posting snapshot.
func (r *PgxTransactionRepository) ListAllTransactions(ctx context.Context) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE deleted_at IS NULL;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction snapshot: %w", err)
	}
	return collectTransactions(rows)
}

// CountPostings counts the non-deleted postings against an account.
func (r *PgxTransactionRepository) CountPostings(ctx context.Context, accountID string) (int, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE account_id = $1 AND deleted_at IS NULL;`
	var count int
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count postings for account %s: %w", accountID, err)
	}
	return count, nil
}

// UpdateTransaction updates an existing posting.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	modelTxn := toModelTransaction(txn)

	query := `
		UPDATE transactions
		SET account_id = $2, transaction_date = $3, description = $4, debit = $5, credit = $6, notes = $7, last_updated_at = $8
		WHERE transaction_id = $1 AND deleted_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelTxn.TransactionID,
		modelTxn.AccountID,
		modelTxn.TransactionDate,
		modelTxn.Description,
		modelTxn.Debit,
		modelTxn.Credit,
		modelTxn.Notes,
		modelTxn.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update transaction %s: %w", modelTxn.TransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SoftDeleteTransaction marks a posting as deleted.
func (r *PgxTransactionRepository) SoftDeleteTransaction(ctx context.Context, transactionID string, now time.Time) error {
	query := `
		UPDATE transactions
		SET deleted_at = $2, last_updated_at = $2
		WHERE transaction_id = $1 AND deleted_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, transactionID, now)
	if err != nil {
		return fmt.Errorf("failed to soft delete transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
