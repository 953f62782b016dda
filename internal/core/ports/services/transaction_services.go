package services

import (
	"context"

	"github.com/fintrackid/coa_backend/internal/core/domain"
	portsrepo "github.com/fintrackid/coa_backend/internal/core/ports/repositories"
	"github.com/fintrackid/coa_backend/internal/dto"
)

// TransactionSvcFacade defines posting operations.
type TransactionSvcFacade interface {
	// CreateTransaction posts a debit-or-credit entry against an active leaf account.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// GetTransactionByID retrieves a single posting.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered, paginated posting list.
	ListTransactions(ctx context.Context, filter portsrepo.ListTransactionsFilter) ([]domain.Transaction, error)

	// GetTransactionStats totals the postings matching the filter.
	GetTransactionStats(ctx context.Context, filter portsrepo.ListTransactionsFilter) (*domain.TransactionStats, error)

	// GetTransactionReport returns the full filtered posting set together
	// with its stats in one payload.
	GetTransactionReport(ctx context.Context, filter portsrepo.ListTransactionsFilter) (*domain.TransactionReport, error)

	// UpdateTransaction applies partial updates while preserving the
	// debit/credit exclusivity invariant.
	UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)

	// DeleteTransaction soft-deletes a posting.
	DeleteTransaction(ctx context.Context, transactionID string) error
}
