package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fintrackid/coa_backend/internal/apperrors"
	"github.com/fintrackid/coa_backend/internal/core/accounting"
	"github.com/fintrackid/coa_backend/internal/core/domain"
	portsrepo "github.com/fintrackid/coa_backend/internal/core/ports/repositories"
	portssvc "github.com/fintrackid/coa_backend/internal/core/ports/services"
)

const defaultTopAccountsLimit = 10

// summaryServiceImpl implements the SummarySvcFacade interface. All reports
// are derived from a single snapshot of accounts and postings, never from
// stored balance columns.
type summaryServiceImpl struct {
	BaseService
	accountRepo portsrepo.AccountReader
	txnRepo     portsrepo.TransactionReader
}

// NewSummaryServiceImpl creates a new summary service.
func NewSummaryServiceImpl(accountRepo portsrepo.AccountReader, txnRepo portsrepo.TransactionReader) portssvc.SummarySvcFacade {
	return &summaryServiceImpl{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
	}
}

// Ensure summaryServiceImpl implements the SummarySvcFacade interface.
var _ portssvc.SummarySvcFacade = (*summaryServiceImpl)(nil)

type summarySnapshot struct {
	accounts          []domain.Account
	childrenByParent  map[string][]domain.Account
	postingsByAccount map[string][]domain.Transaction
}

func (s *summaryServiceImpl) loadSnapshot(ctx context.Context) (*summarySnapshot, error) {
	accounts, err := s.accountRepo.ListAllAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load account snapshot")
		return nil, err
	}
	postings, err := s.txnRepo.ListAllTransactions(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load posting snapshot")
		return nil, err
	}
	return &summarySnapshot{
		accounts:          accounts,
		childrenByParent:  accounting.GroupAccountsByParent(accounts),
		postingsByAccount: accounting.GroupPostingsByAccount(postings),
	}, nil
}

// GetAccountSummaries returns recursive summaries for active accounts
// matching the filter, ordered by code.
func (s *summaryServiceImpl) GetAccountSummaries(ctx context.Context, filter portssvc.SummaryFilter) ([]domain.AccountSummary, error) {
	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(filter.Search)
	summaries := []domain.AccountSummary{}
	for i := range snapshot.accounts {
		acc := &snapshot.accounts[i]
		if !acc.IsActive {
			continue
		}
		if filter.AccountType != nil && acc.AccountType != *filter.AccountType {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(acc.Name), search) &&
			!strings.Contains(strings.ToLower(acc.Code), search) {
			continue
		}
		summaries = append(summaries, accounting.BuildAccountSummary(acc, snapshot.childrenByParent, snapshot.postingsByAccount))
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Code < summaries[j].Code })
	return summaries, nil
}

// GetAccountSummary returns the recursive summary for one active account.
func (s *summaryServiceImpl) GetAccountSummary(ctx context.Context, accountID string) (*domain.AccountSummary, error) {
	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	for i := range snapshot.accounts {
		acc := &snapshot.accounts[i]
		if acc.AccountID != accountID || !acc.IsActive {
			continue
		}
		summary := accounting.BuildAccountSummary(acc, snapshot.childrenByParent, snapshot.postingsByAccount)
		return &summary, nil
	}
	return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
}

// GetFinancialSummary returns per-type own-balance totals and net income.
func (s *summaryServiceImpl) GetFinancialSummary(ctx context.Context) (*domain.FinancialSummary, error) {
	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	summary := accounting.BuildFinancialSummary(snapshot.accounts, snapshot.postingsByAccount)
	return &summary, nil
}

// GetTopAccountsByBalance returns the active accounts with the highest own
// balances, ties broken by code.
func (s *summaryServiceImpl) GetTopAccountsByBalance(ctx context.Context, limit int) ([]domain.TopAccount, error) {
	if limit <= 0 {
		limit = defaultTopAccountsLimit
	}

	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	top := []domain.TopAccount{}
	for i := range snapshot.accounts {
		acc := &snapshot.accounts[i]
		if !acc.IsActive {
			continue
		}
		balance, _, _ := accounting.OwnBalance(acc, snapshot.postingsByAccount[acc.AccountID])
		top = append(top, domain.TopAccount{
			AccountID:   acc.AccountID,
			Code:        acc.Code,
			Name:        acc.Name,
			AccountType: acc.AccountType,
			Balance:     balance,
		})
	}

	sort.Slice(top, func(i, j int) bool {
		if !top[i].Balance.Equal(top[j].Balance) {
			return top[i].Balance.GreaterThan(top[j].Balance)
		}
		return top[i].Code < top[j].Code
	})
	if len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}
