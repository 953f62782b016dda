package repositories

import (
	"context"
	"time"

	"github.com/fintrackid/coa_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ListAccountsFilter narrows account listings.
// A nil field means "no filter". ParentAccountID pointing at an empty string
// selects root accounts only.
type ListAccountsFilter struct {
	AccountType     *domain.AccountType
	IsActive        *bool
	ParentAccountID *string
	Search          string // matches name or code
	Limit           int
	Offset          int
}

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific non-deleted account by id.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves a filtered, paginated account list ordered by code.
	ListAccounts(ctx context.Context, filter ListAccountsFilter) ([]domain.Account, error)

	// ListAllAccounts retrieves the full non-deleted account snapshot ordered by code.
	ListAllAccounts(ctx context.Context) ([]domain.Account, error)

	// ListChildren retrieves the direct children of an account ordered by code.
	ListChildren(ctx context.Context, parentAccountID string) ([]domain.Account, error)

	// CountChildren counts the direct non-deleted children of an account.
	CountChildren(ctx context.Context, accountID string) (int, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// SoftDeleteAccount marks an account as deleted.
	SoftDeleteAccount(ctx context.Context, accountID string, now time.Time) error
}

// AccountCodeScopeSupport covers the atomic read-then-write needed for code
// assignment. All methods must run inside one transaction: the scope lock
// serializes max-code read + insert for concurrent creations in the same
// scope (roots of a type, or children of a parent).
type AccountCodeScopeSupport interface {
	// AcquireCodeScopeLock takes a transaction-scoped exclusive lock for the scope key.
	AcquireCodeScopeLock(ctx context.Context, tx pgx.Tx, scopeKey string) error

	// MaxRootCode returns the greatest code ever assigned to a root account of
	// a type, or "" if none. Soft-deleted accounts count: their codes stay
	// reserved by the unique constraint, so assignment stays monotonic over
	// every code ever handed out in the scope.
	MaxRootCode(ctx context.Context, tx pgx.Tx, accountType domain.AccountType) (string, error)

	// MaxChildCode returns the greatest code ever assigned to a child of the
	// parent, or "" if none. Soft-deleted children count, as for MaxRootCode.
	MaxChildCode(ctx context.Context, tx pgx.Tx, parentAccountID string) (string, error)

	// SaveAccountInTx persists a new account within the transaction.
	SaveAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountCodeScopeSupport
	TransactionManager
}
