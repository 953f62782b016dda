package accounting

import (
	"fmt"

	"github.com/fintrackid/coa_backend/internal/apperrors"
	"github.com/fintrackid/coa_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CheckTypeMatch enforces that a child account carries the same type as its parent.
func CheckTypeMatch(parentType, childType domain.AccountType) error {
	if parentType != childType {
		return fmt.Errorf("%w: parent account type %q must match child account type %q", apperrors.ErrValidation, parentType, childType)
	}
	return nil
}

// CheckNoCycle rejects a parent assignment that would make accountID its own
// ancestor. parentIDs maps account id -> parent id over the full flat set.
// The walk is iterative with a visited set, so corrupt stored data cannot
// send it into an infinite loop.
func CheckNoCycle(parentIDs map[string]string, candidateParentID, accountID string) error {
	if candidateParentID == accountID {
		return fmt.Errorf("%w: account cannot be its own parent", apperrors.ErrValidation)
	}

	visited := make(map[string]bool)
	current := candidateParentID
	for current != "" {
		if current == accountID {
			return fmt.Errorf("%w: cannot set a descendant account as parent", apperrors.ErrValidation)
		}
		if visited[current] {
			return fmt.Errorf("%w: ancestor chain of account %s contains a cycle", apperrors.ErrValidation, candidateParentID)
		}
		visited[current] = true
		current = parentIDs[current]
	}
	return nil
}

// CheckLeafDeletable allows soft deletion only for leaf accounts without postings.
func CheckLeafDeletable(hasChildren bool, postingCount int) error {
	if hasChildren {
		return fmt.Errorf("%w: cannot delete account with child accounts", apperrors.ErrConflict)
	}
	if postingCount > 0 {
		return fmt.Errorf("%w: cannot delete account with transactions", apperrors.ErrConflict)
	}
	return nil
}

// CheckTypeImmutable rejects a type change once the account has a code,
// children or postings. Codes are system-assigned at creation, so in
// practice the type is frozen for the account's whole life.
func CheckTypeImmutable(account *domain.Account, requestedType domain.AccountType, hasChildren bool, postingCount int) error {
	if requestedType == "" || requestedType == account.AccountType {
		return nil
	}
	if account.Code != "" || hasChildren || postingCount > 0 {
		return fmt.Errorf("%w: account type cannot be changed after creation", apperrors.ErrConflict)
	}
	return nil
}

// CheckReparentAllowed rejects moving an account that already has children or postings.
func CheckReparentAllowed(hasChildren bool, postingCount int) error {
	if hasChildren {
		return fmt.Errorf("%w: cannot change parent of an account with child accounts", apperrors.ErrConflict)
	}
	if postingCount > 0 {
		return fmt.Errorf("%w: cannot change parent of an account with transactions", apperrors.ErrConflict)
	}
	return nil
}

// CheckPostable allows postings only against active leaf accounts.
func CheckPostable(account *domain.Account, hasChildren bool) error {
	if !account.IsActive {
		return fmt.Errorf("%w: account %s is not active", apperrors.ErrValidation, account.Code)
	}
	if hasChildren {
		return fmt.Errorf("%w: account %s has child accounts and cannot be used in transactions", apperrors.ErrValidation, account.Code)
	}
	return nil
}

// CheckAmountExclusive enforces that exactly one of debit/credit is strictly positive.
func CheckAmountExclusive(debit, credit decimal.Decimal) error {
	if debit.IsNegative() || credit.IsNegative() {
		return fmt.Errorf("%w: debit and credit amounts must not be negative", apperrors.ErrValidation)
	}
	if debit.IsPositive() && credit.IsPositive() {
		return fmt.Errorf("%w: cannot fill both debit and credit", apperrors.ErrValidation)
	}
	if debit.IsZero() && credit.IsZero() {
		return fmt.Errorf("%w: either debit or credit must be filled", apperrors.ErrValidation)
	}
	return nil
}
