package pgsql

import (
	"context"
	"database/sql"
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

const accountColumns = "account_id, code, name, account_type, parent_account_id, opening_balance, description, is_active, created_at, last_updated_at, deleted_at"

// PgxAccountRepository persists accounts in PostgreSQL.
type PgxAccountRepository struct {
	BaseRepository
}

// NewAccountRepository creates a new repository for account data.
func NewAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements the facade.
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// Helper to convert domain.Account to models.Account for DB storage.
func toModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		Code:            d.Code,
		Name:            d.Name,
		AccountType:     models.AccountType(d.AccountType),
		ParentAccountID: d.ParentAccountID,
		OpeningBalance:  d.OpeningBalance,
		Description:     d.Description,
		IsActive:        d.IsActive,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
		DeletedAt: d.DeletedAt,
	}
}

// Helper to convert models.Account from DB to domain.Account.
func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		Code:            m.Code,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		ParentAccountID: m.ParentAccountID,
		OpeningBalance:  m.OpeningBalance,
		Description:     m.Description,
		IsActive:        m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
		DeletedAt: m.DeletedAt,
	}
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var modelAcc models.Account
	var parentID sql.NullString

	err := row.Scan(
		&modelAcc.AccountID,
		&modelAcc.Code,
		&modelAcc.Name,
		&modelAcc.AccountType,
		&parentID,
		&modelAcc.OpeningBalance,
		&modelAcc.Description,
		&modelAcc.IsActive,
		&modelAcc.CreatedAt,
		&modelAcc.LastUpdatedAt,
		&modelAcc.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		modelAcc.ParentAccountID = parentID.String
	}
	domainAcc := toDomainAccount(modelAcc)
	return &domainAcc, nil
}

func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	defer rows.Close()
	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// FindAccountByID retrieves a non-deleted account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = $1 AND deleted_at IS NULL;
	`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return acc, nil
}

// ListAccounts retrieves a filtered, paginated account list ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter portsrepo.ListAccountsFilter) ([]domain.Account, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	conditions := []string{"deleted_at IS NULL"}
	args := []any{}
	argIdx := 1

	if filter.AccountType != nil {
		conditions = append(conditions, fmt.Sprintf("account_type = $%d", argIdx))
		args = append(args, *filter.AccountType)
		argIdx++
	}
	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *filter.IsActive)
		argIdx++
	}
	if filter.ParentAccountID != nil {
		if *filter.ParentAccountID == "" {
			conditions = append(conditions, "parent_account_id IS NULL")
		} else {
			conditions = append(conditions, fmt.Sprintf("parent_account_id = $%d", argIdx))
			args = append(args, *filter.ParentAccountID)
			argIdx++
		}
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR code ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM accounts
		WHERE %s
		ORDER BY code
		LIMIT $%d OFFSET $%d;
	`, accountColumns, strings.Join(conditions, " AND "), argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	return collectAccounts(rows)
}

// ListAllAccounts retrieves the full non-deleted account snapshot ordered by code.
func (r *PgxAccountRepository) ListAllAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE deleted_at IS NULL
		ORDER BY code;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query account snapshot: %w", err)
	}
	return collectAccounts(rows)
}

// ListChildren retrieves the direct children of an account ordered by code.
func (r *PgxAccountRepository) ListChildren(ctx context.Context, parentAccountID string) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE parent_account_id = $1 AND deleted_at IS NULL
		ORDER BY code;
	`
	rows, err := r.Pool.Query(ctx, query, parentAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query children of account %s: %w", parentAccountID, err)
	}
	return collectAccounts(rows)
}

// CountChildren counts the direct non-deleted children of an account.
func (r *PgxAccountRepository) CountChildren(ctx context.Context, accountID string) (int, error) {
	query := `SELECT COUNT(*) FROM accounts WHERE parent_account_id = $1 AND deleted_at IS NULL;`
	var count int
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count children of account %s: %w", accountID, err)
	}
	return count, nil
}

// UpdateAccount updates an existing account's mutable fields.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	modelAcc := toModelAccount(account)

	query := `
		UPDATE accounts
		SET name = $2, account_type = $3, parent_account_id = $4, opening_balance = $5,
		    description = $6, is_active = $7, last_updated_at = $8
		WHERE account_id = $1 AND deleted_at IS NULL;
	`
	var parentID sql.NullString
	if modelAcc.ParentAccountID != "" {
		parentID = sql.NullString{String: modelAcc.ParentAccountID, Valid: true}
	}

	cmdTag, err := r.Pool.Exec(ctx, query,
		modelAcc.AccountID,
		modelAcc.Name,
		modelAcc.AccountType,
		parentID,
		modelAcc.OpeningBalance,
		modelAcc.Description,
		modelAcc.IsActive,
		modelAcc.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update account %s: %w", modelAcc.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SoftDeleteAccount marks an account as deleted.
func (r *PgxAccountRepository) SoftDeleteAccount(ctx context.Context, accountID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET deleted_at = $2, last_updated_at = $2
		WHERE account_id = $1 AND deleted_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, accountID, now)
	if err != nil {
		return fmt.Errorf("failed to soft delete account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AcquireCodeScopeLock takes a transaction-scoped exclusive advisory lock for
// a code generation scope ("type:<t>" for roots, "parent:<id>" for children).
// It serializes the max-code read and the insert across concurrent creations
// in the same scope; the lock releases automatically on commit or rollback.
func (r *PgxAccountRepository) AcquireCodeScopeLock(ctx context.Context, tx pgx.Tx, scopeKey string) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0));`, scopeKey); err != nil {
		return fmt.Errorf("failed to acquire code scope lock for %q: %w", scopeKey, err)
	}
	return nil
}

// MaxRootCode returns the greatest code ever assigned to a root account of a
// type, or "" if none exists. Soft-deleted rows are included on purpose: the
// unique constraint on code covers them too, so a new code must be greater
// than every code ever assigned, not just the live ones. Must run inside the
// scope-locked transaction.
func (r *PgxAccountRepository) MaxRootCode(ctx context.Context, tx pgx.Tx, accountType domain.AccountType) (string, error) {
	query := `
		SELECT code FROM accounts
		WHERE account_type = $1 AND parent_account_id IS NULL
		ORDER BY code DESC
		LIMIT 1;
	`
	var code string
	err := tx.QueryRow(ctx, query, accountType).Scan(&code)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to find max root code for type %s: %w", accountType, err)
	}
	return code, nil
}

// MaxChildCode returns the greatest code ever assigned to a child of the
// parent, or "" if none exists. Soft-deleted children are included so a
// deleted sibling's code is never recomputed for a new account. Must run
// inside the scope-locked transaction.
func (r *PgxAccountRepository) MaxChildCode(ctx context.Context, tx pgx.Tx, parentAccountID string) (string, error) {
	query := `
		SELECT code FROM accounts
		WHERE parent_account_id = $1
		ORDER BY code DESC
		LIMIT 1;
	`
	var code string
	err := tx.QueryRow(ctx, query, parentAccountID).Scan(&code)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to find max child code for parent %s: %w", parentAccountID, err)
	}
	return code, nil
}

// SaveAccountInTx inserts a new account within the given transaction.
// A unique violation on the code column means a concurrent creation won the
// same scope despite locking; it surfaces as a retryable conflict rather
// than a duplicate code.
func (r *PgxAccountRepository) SaveAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error {
	modelAcc := toModelAccount(account)

	query := `
		INSERT INTO accounts (account_id, code, name, account_type, parent_account_id, opening_balance, description, is_active, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	var parentID sql.NullString
	if modelAcc.ParentAccountID != "" {
		parentID = sql.NullString{String: modelAcc.ParentAccountID, Valid: true}
	}

	_, err := tx.Exec(ctx, query,
		modelAcc.AccountID,
		modelAcc.Code,
		modelAcc.Name,
		modelAcc.AccountType,
		parentID,
		modelAcc.OpeningBalance,
		modelAcc.Description,
		modelAcc.IsActive,
		modelAcc.CreatedAt,
		modelAcc.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == "accounts_code_key" {
				return fmt.Errorf("%w: account code %s was assigned concurrently, retry the operation", apperrors.ErrConflict, modelAcc.Code)
			}
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, modelAcc.AccountID)
		}
		return fmt.Errorf("failed to save account %s: %w", modelAcc.AccountID, err)
	}
	return nil
}
