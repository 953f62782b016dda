package accounting

import (
	"sort"

	"github.com/fintrackid/coa_backend/internal/core/domain"
)

// maxTreeDepth bounds tree reconstruction at read time. Cycle freedom is
// enforced on write, but stored data is not trusted unconditionally here.
const maxTreeDepth = 64

// BuildTree reconstructs the account forest from a flat snapshot.
// Roots and every children slice are ordered by code ascending, which is the
// canonical chart-of-accounts layout: a plain ascending sort on code already
// encodes depth-first, sibling-ordered traversal.
func BuildTree(accounts []domain.Account) []domain.AccountNode {
	childrenByParent := make(map[string][]domain.Account)
	var roots []domain.Account
	for _, acc := range accounts {
		if acc.IsRoot() {
			roots = append(roots, acc)
		} else {
			childrenByParent[acc.ParentAccountID] = append(childrenByParent[acc.ParentAccountID], acc)
		}
	}

	sortByCode(roots)
	for _, siblings := range childrenByParent {
		sortByCode(siblings)
	}

	return buildNodes(roots, childrenByParent, 0)
}

func buildNodes(accounts []domain.Account, childrenByParent map[string][]domain.Account, level int) []domain.AccountNode {
	if len(accounts) == 0 || level > maxTreeDepth {
		return []domain.AccountNode{}
	}

	nodes := make([]domain.AccountNode, 0, len(accounts))
	for _, acc := range accounts {
		children := buildNodes(childrenByParent[acc.AccountID], childrenByParent, level+1)
		isLeaf := len(children) == 0

		nodes = append(nodes, domain.AccountNode{
			AccountID:               acc.AccountID,
			Code:                    acc.Code,
			Name:                    acc.Name,
			AccountType:             acc.AccountType,
			TypeLabel:               acc.AccountType.Label(),
			ParentAccountID:         acc.ParentAccountID,
			OpeningBalance:          acc.OpeningBalance,
			Description:             acc.Description,
			IsActive:                acc.IsActive,
			Level:                   level,
			IsLeafAccount:           isLeaf,
			IsParentAccount:         !isLeaf,
			CanBeUsedInTransactions: acc.IsActive && isLeaf,
			HasChildren:             !isLeaf,
			ChildrenCount:           len(children),
			Children:                children,
			CreatedAt:               acc.CreatedAt,
			LastUpdatedAt:           acc.LastUpdatedAt,
		})
	}
	return nodes
}

func sortByCode(accounts []domain.Account) {
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Code < accounts[j].Code
	})
}
