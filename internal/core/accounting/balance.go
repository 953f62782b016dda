package accounting

import (
	"github.com/fintrackid/coa_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OwnBalance computes an account's own balance from its direct, non-deleted
// postings: opening balance + total debits - total credits. With no postings
// the balance equals the opening balance exactly.
func OwnBalance(account *domain.Account, postings []domain.Transaction) (balance, totalDebit, totalCredit decimal.Decimal) {
	totalDebit = decimal.Zero
	totalCredit = decimal.Zero
	for _, txn := range postings {
		if txn.DeletedAt != nil {
			continue
		}
		totalDebit = totalDebit.Add(txn.Debit)
		totalCredit = totalCredit.Add(txn.Credit)
	}
	balance = account.OpeningBalance.Add(totalDebit).Sub(totalCredit)
	return balance, totalDebit, totalCredit
}

// RollupBalance computes an account's balance including all descendants,
// children before parents. For a leaf it equals OwnBalance.
func RollupBalance(account *domain.Account, childrenByParent map[string][]domain.Account, postingsByAccount map[string][]domain.Transaction) decimal.Decimal {
	return rollupBalance(account, childrenByParent, postingsByAccount, 0)
}

func rollupBalance(account *domain.Account, childrenByParent map[string][]domain.Account, postingsByAccount map[string][]domain.Transaction, depth int) decimal.Decimal {
	own, _, _ := OwnBalance(account, postingsByAccount[account.AccountID])
	if depth > maxTreeDepth {
		return own
	}
	total := own
	for i := range childrenByParent[account.AccountID] {
		child := childrenByParent[account.AccountID][i]
		total = total.Add(rollupBalance(&child, childrenByParent, postingsByAccount, depth+1))
	}
	return total
}

// BuildAccountSummary builds the recursive balance summary for one account:
// its own balance and debit/credit totals, plus child summaries resolved
// bottom-up so TotalBalance is own balance + the children's total balances.
func BuildAccountSummary(account *domain.Account, childrenByParent map[string][]domain.Account, postingsByAccount map[string][]domain.Transaction) domain.AccountSummary {
	return buildAccountSummary(account, childrenByParent, postingsByAccount, 0)
}

func buildAccountSummary(account *domain.Account, childrenByParent map[string][]domain.Account, postingsByAccount map[string][]domain.Transaction, depth int) domain.AccountSummary {
	postings := postingsByAccount[account.AccountID]
	balance, totalDebit, totalCredit := OwnBalance(account, postings)

	children := childrenByParent[account.AccountID]
	childSummaries := []domain.AccountSummary{}
	totalBalance := balance
	if depth <= maxTreeDepth {
		for i := range children {
			childSummary := buildAccountSummary(&children[i], childrenByParent, postingsByAccount, depth+1)
			totalBalance = totalBalance.Add(childSummary.TotalBalance)
			childSummaries = append(childSummaries, childSummary)
		}
	}

	txnCount := 0
	for _, txn := range postings {
		if txn.DeletedAt == nil {
			txnCount++
		}
	}

	return domain.AccountSummary{
		AccountID:        account.AccountID,
		Code:             account.Code,
		Name:             account.Name,
		FullName:         account.FullName(),
		AccountType:      account.AccountType,
		TypeLabel:        account.AccountType.Label(),
		ParentAccountID:  account.ParentAccountID,
		IsActive:         account.IsActive,
		OpeningBalance:   account.OpeningBalance,
		TotalDebit:       totalDebit,
		TotalCredit:      totalCredit,
		Balance:          balance,
		TotalBalance:     totalBalance,
		HasChildren:      len(childSummaries) > 0,
		ChildrenCount:    len(childSummaries),
		TransactionCount: txnCount,
		Children:         childSummaries,
	}
}

// BuildFinancialSummary makes a single non-recursive pass over all active
// accounts, summing each account's own balance into its type bucket. Using
// own balances keeps descendant amounts from being counted twice through
// their parents' roll-ups.
func BuildFinancialSummary(accounts []domain.Account, postingsByAccount map[string][]domain.Transaction) domain.FinancialSummary {
	totals := map[domain.AccountType]decimal.Decimal{
		domain.Asset:     decimal.Zero,
		domain.Liability: decimal.Zero,
		domain.Equity:    decimal.Zero,
		domain.Revenue:   decimal.Zero,
		domain.Expense:   decimal.Zero,
	}

	for i := range accounts {
		acc := &accounts[i]
		if !acc.IsActive || acc.DeletedAt != nil {
			continue
		}
		own, _, _ := OwnBalance(acc, postingsByAccount[acc.AccountID])
		totals[acc.AccountType] = totals[acc.AccountType].Add(own)
	}

	return domain.FinancialSummary{
		TotalAssets:      totals[domain.Asset],
		TotalLiabilities: totals[domain.Liability],
		TotalEquity:      totals[domain.Equity],
		TotalRevenue:     totals[domain.Revenue],
		TotalExpense:     totals[domain.Expense],
		NetIncome:        totals[domain.Revenue].Sub(totals[domain.Expense]),
	}
}

// BuildTransactionStats totals a filtered set of postings.
func BuildTransactionStats(postings []domain.Transaction) domain.TransactionStats {
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	count := 0
	for _, txn := range postings {
		if txn.DeletedAt != nil {
			continue
		}
		totalDebit = totalDebit.Add(txn.Debit)
		totalCredit = totalCredit.Add(txn.Credit)
		count++
	}
	return domain.TransactionStats{
		TotalDebit:        totalDebit,
		TotalCredit:       totalCredit,
		NetAmount:         totalDebit.Sub(totalCredit),
		TotalTransactions: count,
	}
}

// GroupAccountsByParent indexes a flat account snapshot for the recursive
// balance helpers, each bucket sorted by code.
func GroupAccountsByParent(accounts []domain.Account) map[string][]domain.Account {
	childrenByParent := make(map[string][]domain.Account)
	for _, acc := range accounts {
		if !acc.IsRoot() {
			childrenByParent[acc.ParentAccountID] = append(childrenByParent[acc.ParentAccountID], acc)
		}
	}
	for _, siblings := range childrenByParent {
		sortByCode(siblings)
	}
	return childrenByParent
}

// GroupPostingsByAccount indexes postings by their account id.
func GroupPostingsByAccount(postings []domain.Transaction) map[string][]domain.Transaction {
	byAccount := make(map[string][]domain.Transaction)
	for _, txn := range postings {
		byAccount[txn.AccountID] = append(byAccount[txn.AccountID], txn)
	}
	return byAccount
}
