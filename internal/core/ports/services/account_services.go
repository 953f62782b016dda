package services

import (
	"context"

	"github.com/fintrackid/coa_backend/internal/core/domain"
	portsrepo "github.com/fintrackid/coa_backend/internal/core/ports/repositories"
	"github.com/fintrackid/coa_backend/internal/dto"
)

// AccountReaderSvc defines read-only account operations.
type AccountReaderSvc interface {
	// GetAccountByID retrieves a single account.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves a filtered, paginated account list ordered by code.
	ListAccounts(ctx context.Context, filter portsrepo.ListAccountsFilter) ([]domain.Account, error)

	// GetAccountTree reconstructs the full account forest in canonical code order.
	GetAccountTree(ctx context.Context) ([]domain.AccountNode, error)
}

// AccountWriterSvc defines mutating account operations. Every mutation
// validates the structural invariants before touching storage and executes
// as a single atomic unit.
type AccountWriterSvc interface {
	// CreateAccount creates an account with a system-assigned code.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccount applies partial updates; type and parent are frozen once
	// the account has children or postings.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// DeleteAccount soft-deletes a leaf, posting-free account.
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountSvcFacade combines all account service operations.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
