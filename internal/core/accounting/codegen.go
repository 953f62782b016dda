package accounting

import (
	"fmt"
	"strconv"

	"github.com/fintrackid/coa_backend/internal/apperrors"
	"github.com/fintrackid/coa_backend/internal/core/domain"
)

const (
	rootSuffixWidth  = 3
	childSuffixWidth = 2

	maxRootSuffix  = 999 // prefix + 3 digits
	maxChildSuffix = 99  // hard limit of 99 direct children per parent
)

// typePrefixes maps each account type to its fixed one-character code prefix.
var typePrefixes = map[domain.AccountType]string{
	domain.Asset:     "1",
	domain.Liability: "2",
	domain.Equity:    "3",
	domain.Revenue:   "4",
	domain.Expense:   "5",
}

// TypePrefix returns the fixed code prefix for an account type.
func TypePrefix(accountType domain.AccountType) (string, error) {
	prefix, ok := typePrefixes[accountType]
	if !ok {
		return "", fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, accountType)
	}
	return prefix, nil
}

// NextRootCode computes the code for a new root account of the given type.
// maxExistingCode is the lexicographically greatest code among existing root
// accounts of that type, or empty when none exist.
func NextRootCode(accountType domain.AccountType, maxExistingCode string) (string, error) {
	prefix, err := TypePrefix(accountType)
	if err != nil {
		return "", err
	}

	if maxExistingCode == "" {
		return prefix + "000", nil
	}

	if len(maxExistingCode) <= len(prefix) {
		return "", fmt.Errorf("%w: malformed account code %q", apperrors.ErrValidation, maxExistingCode)
	}
	numeric, err := strconv.Atoi(maxExistingCode[len(prefix):])
	if err != nil {
		return "", fmt.Errorf("%w: malformed account code %q", apperrors.ErrValidation, maxExistingCode)
	}

	next := numeric + 1
	if next > maxRootSuffix {
		return "", fmt.Errorf("%w: no more root codes available for type %q", apperrors.ErrCapacity, accountType)
	}

	return fmt.Sprintf("%s%0*d", prefix, rootSuffixWidth, next), nil
}

// NextChildCode computes the code for a new child of the given parent.
// maxChildCode is the lexicographically greatest code among the parent's
// existing children, or empty when the parent has none. The new suffix is
// always derived from the previous sibling's code, never spliced from the
// parent's own code, so sibling codes can never collide across levels.
func NextChildCode(parentCode, maxChildCode string) (string, error) {
	if maxChildCode == "" {
		return parentCode + "01", nil
	}

	if len(maxChildCode) <= childSuffixWidth {
		return "", fmt.Errorf("%w: malformed child account code %q", apperrors.ErrValidation, maxChildCode)
	}
	suffix, err := strconv.Atoi(maxChildCode[len(maxChildCode)-childSuffixWidth:])
	if err != nil {
		return "", fmt.Errorf("%w: malformed child account code %q", apperrors.ErrValidation, maxChildCode)
	}

	next := suffix + 1
	if next > maxChildSuffix {
		return "", fmt.Errorf("%w: parent %q already has the maximum of %d child accounts", apperrors.ErrCapacity, parentCode, maxChildSuffix)
	}

	return fmt.Sprintf("%s%0*d", maxChildCode[:len(maxChildCode)-childSuffixWidth], childSuffixWidth, next), nil
}
