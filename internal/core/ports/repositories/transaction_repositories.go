package repositories

import (
	"context"
	"time"

	"github.com/fintrackid/coa_backend/internal/core/domain"
)

// ListTransactionsFilter narrows transaction listings. Nil fields mean "no
// filter"; Limit <= 0 disables pagination (used for aggregate statistics).
type ListTransactionsFilter struct {
	AccountID *string
	StartDate *time.Time
	EndDate   *time.Time
	EntryType *domain.TransactionType // debit or credit side
	Search    string                  // matches description or notes
	Limit     int
	Offset    int
}

// TransactionReader defines read operations for postings.
type TransactionReader interface {
	// FindTransactionByID retrieves a specific non-deleted posting by id.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered, paginated posting list,
	// newest transaction date first.
	ListTransactions(ctx context.Context, filter ListTransactionsFilter) ([]domain.Transaction, error)

	// ListAllTransactions retrieves the full non-deleted posting snapshot.
	ListAllTransactions(ctx context.Context) ([]domain.Transaction, error)

	// CountPostings counts the non-deleted postings against an account.
	CountPostings(ctx context.Context, accountID string) (int, error)
}

// TransactionWriter defines write operations for postings.
type TransactionWriter interface {
	// SaveTransaction persists a new posting.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransaction updates an existing posting.
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error

	// SoftDeleteTransaction marks a posting as deleted.
	SoftDeleteTransaction(ctx context.Context, transactionID string, now time.Time) error
}

// TransactionRepositoryFacade combines all posting-related repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
