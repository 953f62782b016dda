package services

import (
	"context"

	"github.com/fintrackid/coa_backend/internal/core/domain"
)

// SummaryFilter narrows the account summary listing.
type SummaryFilter struct {
	AccountType *domain.AccountType
	Search      string // matches name or code
}

// SummarySvcFacade computes derived balances over a consistent snapshot of
// accounts and postings. All reads are pure and require no locking.
type SummarySvcFacade interface {
	// GetAccountSummaries returns recursive summaries for active accounts
	// matching the filter, ordered by code.
	GetAccountSummaries(ctx context.Context, filter SummaryFilter) ([]domain.AccountSummary, error)

	// GetAccountSummary returns the recursive summary for one active account.
	GetAccountSummary(ctx context.Context, accountID string) (*domain.AccountSummary, error)

	// GetFinancialSummary returns per-type own-balance totals and net income.
	GetFinancialSummary(ctx context.Context) (*domain.FinancialSummary, error)

	// GetTopAccountsByBalance returns the highest own-balance active accounts.
	GetTopAccountsByBalance(ctx context.Context, limit int) ([]domain.TopAccount, error)
}
