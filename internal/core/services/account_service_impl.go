package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fintrackid/coa_backend/internal/apperrors"
	"github.com/fintrackid/coa_backend/internal/core/accounting"
	"github.com/fintrackid/coa_backend/internal/core/domain"
	portsrepo "github.com/fintrackid/coa_backend/internal/core/ports/repositories"
	portssvc "github.com/fintrackid/coa_backend/internal/core/ports/services"
	"github.com/fintrackid/coa_backend/internal/dto"
	"github.com/google/uuid"
)

// accountServiceImpl implements the AccountSvcFacade interface.
type accountServiceImpl struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	txnRepo     portsrepo.TransactionReader
}

// NewAccountServiceImpl creates a new account service.
func NewAccountServiceImpl(accountRepo portsrepo.AccountRepositoryFacade, txnRepo portsrepo.TransactionReader) portssvc.AccountSvcFacade {
	return &accountServiceImpl{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
	}
}

// Ensure accountServiceImpl implements the AccountSvcFacade interface.
var _ portssvc.AccountSvcFacade = (*accountServiceImpl)(nil)

// codeScopeKey names the sibling scope a new code competes in: roots of a
// type, or children of one parent.
func codeScopeKey(accountType domain.AccountType, parentID string) string {
	if parentID != "" {
		return "parent:" + parentID
	}
	return "type:" + string(accountType)
}

// CreateAccount validates the request, assigns the next code in the target
// scope and persists the account, all within one transaction. The scope lock
// makes the max-code read and the insert mutually exclusive, so two
// concurrent creations in the same scope cannot compute the same code.
func (s *accountServiceImpl) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, req.AccountType)
	}
	if req.OpeningBalance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance must not be negative", apperrors.ErrValidation)
	}

	parentID := ""
	var parent *domain.Account
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parentID = *req.ParentAccountID

		var err error
		parent, err = s.accountRepo.FindAccountByID(ctx, parentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s", apperrors.ErrNotFound, parentID)
			}
			s.LogError(ctx, err, "Failed to find parent account", slog.String("parent_id", parentID))
			return nil, err
		}
		if err := accounting.CheckTypeMatch(parent.AccountType, req.AccountType); err != nil {
			return nil, err
		}
	}

	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.accountRepo.Rollback(ctx, tx)

	if err := s.accountRepo.AcquireCodeScopeLock(ctx, tx, codeScopeKey(req.AccountType, parentID)); err != nil {
		s.LogError(ctx, err, "Failed to lock code scope", slog.String("parent_id", parentID))
		return nil, err
	}

	var code string
	if parent == nil {
		maxCode, err := s.accountRepo.MaxRootCode(ctx, tx, req.AccountType)
		if err != nil {
			return nil, err
		}
		code, err = accounting.NextRootCode(req.AccountType, maxCode)
		if err != nil {
			return nil, err
		}
	} else {
		maxCode, err := s.accountRepo.MaxChildCode(ctx, tx, parentID)
		if err != nil {
			return nil, err
		}
		code, err = accounting.NextChildCode(parent.Code, maxCode)
		if err != nil {
			return nil, err
		}
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            code,
		Name:            req.Name,
		AccountType:     req.AccountType,
		ParentAccountID: parentID,
		OpeningBalance:  req.OpeningBalance,
		Description:     req.Description,
		IsActive:        isActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.accountRepo.SaveAccountInTx(ctx, tx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID),
			slog.String("code", account.Code))
		return nil, err
	}

	if err := s.accountRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code))
	return &account, nil
}

func (s *accountServiceImpl) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountServiceImpl) ListAccounts(ctx context.Context, filter portsrepo.ListAccountsFilter) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	return accounts, nil
}

// GetAccountTree reconstructs the account forest from the flat snapshot in
// canonical code order.
func (s *accountServiceImpl) GetAccountTree(ctx context.Context) ([]domain.AccountNode, error) {
	accounts, err := s.accountRepo.ListAllAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load account snapshot for tree")
		return nil, err
	}
	return accounting.BuildTree(accounts), nil
}

// UpdateAccount applies partial updates. Name, description, opening balance
// and the active flag change freely; type and parent are frozen once the
// account has a code, children or postings.
func (s *accountServiceImpl) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	hasChildren, postingCount, err := s.accountUsage(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.AccountType != nil {
		if err := accounting.CheckTypeImmutable(account, *req.AccountType, hasChildren, postingCount); err != nil {
			return nil, err
		}
	}

	if req.ParentAccountID != nil && *req.ParentAccountID != account.ParentAccountID {
		if err := accounting.CheckReparentAllowed(hasChildren, postingCount); err != nil {
			return nil, err
		}
		newParentID := *req.ParentAccountID
		if newParentID != "" {
			parent, err := s.accountRepo.FindAccountByID(ctx, newParentID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, fmt.Errorf("%w: parent account %s", apperrors.ErrNotFound, newParentID)
				}
				return nil, err
			}
			if err := accounting.CheckTypeMatch(parent.AccountType, account.AccountType); err != nil {
				return nil, err
			}

			snapshot, err := s.accountRepo.ListAllAccounts(ctx)
			if err != nil {
				return nil, err
			}
			parentIDs := make(map[string]string, len(snapshot))
			for _, acc := range snapshot {
				parentIDs[acc.AccountID] = acc.ParentAccountID
			}
			if err := accounting.CheckNoCycle(parentIDs, newParentID, accountID); err != nil {
				return nil, err
			}
		}
		// The code keeps encoding the original position; reparenting does
		// not reassign codes.
		account.ParentAccountID = newParentID
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.OpeningBalance != nil {
		if req.OpeningBalance.IsNegative() {
			return nil, fmt.Errorf("%w: opening balance must not be negative", apperrors.ErrValidation)
		}
		account.OpeningBalance = *req.OpeningBalance
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}

	account.LastUpdatedAt = time.Now().UTC()

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully", slog.String("account_id", accountID))
	return account, nil
}

// DeleteAccount soft-deletes an account. Only leaf accounts without postings
// can be deleted.
func (s *accountServiceImpl) DeleteAccount(ctx context.Context, accountID string) error {
	if _, err := s.GetAccountByID(ctx, accountID); err != nil {
		return err
	}

	hasChildren, postingCount, err := s.accountUsage(ctx, accountID)
	if err != nil {
		return err
	}
	if err := accounting.CheckLeafDeletable(hasChildren, postingCount); err != nil {
		return err
	}

	if err := s.accountRepo.SoftDeleteAccount(ctx, accountID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deleted successfully", slog.String("account_id", accountID))
	return nil
}

func (s *accountServiceImpl) accountUsage(ctx context.Context, accountID string) (hasChildren bool, postingCount int, err error) {
	childCount, err := s.accountRepo.CountChildren(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count children", slog.String("account_id", accountID))
		return false, 0, err
	}
	postingCount, err = s.txnRepo.CountPostings(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count postings", slog.String("account_id", accountID))
		return false, 0, err
	}
	return childCount > 0, postingCount, nil
}
