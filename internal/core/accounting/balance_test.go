package accounting

import (
	"testing"
	"time"

	"github.com/fintrackid/coa_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePosting(accountID string, debit, credit int64) domain.Transaction {
	return domain.Transaction{
		TransactionID: accountID + "-txn",
		AccountID:     accountID,
		Debit:         decimal.NewFromInt(debit),
		Credit:        decimal.NewFromInt(credit),
	}
}

func TestOwnBalance_NoPostings(t *testing.T) {
	account := makeAccount("a", "1000", "", domain.Asset)
	account.OpeningBalance = decimal.NewFromInt(500)

	balance, totalDebit, totalCredit := OwnBalance(&account, nil)
	assert.True(t, balance.Equal(decimal.NewFromInt(500)))
	assert.True(t, totalDebit.IsZero())
	assert.True(t, totalCredit.IsZero())
}

func TestOwnBalance_DebitsAndCredits(t *testing.T) {
	account := makeAccount("a", "1000", "", domain.Asset)
	account.OpeningBalance = decimal.NewFromInt(100)

	postings := []domain.Transaction{
		makePosting("a", 250, 0),
		makePosting("a", 0, 75),
		makePosting("a", 30, 0),
	}

	balance, totalDebit, totalCredit := OwnBalance(&account, postings)
	assert.True(t, balance.Equal(decimal.NewFromInt(100+250+30-75)))
	assert.True(t, totalDebit.Equal(decimal.NewFromInt(280)))
	assert.True(t, totalCredit.Equal(decimal.NewFromInt(75)))
}

func TestOwnBalance_SkipsDeletedPostings(t *testing.T) {
	account := makeAccount("a", "1000", "", domain.Asset)

	now := time.Now()
	deleted := makePosting("a", 999, 0)
	deleted.DeletedAt = &now

	balance, _, _ := OwnBalance(&account, []domain.Transaction{deleted, makePosting("a", 10, 0)})
	assert.True(t, balance.Equal(decimal.NewFromInt(10)))
}

func TestRollupBalance_SumsDescendants(t *testing.T) {
	root := makeAccount("root", "1000", "", domain.Asset)
	root.OpeningBalance = decimal.NewFromInt(100)
	child := makeAccount("child", "100001", "root", domain.Asset)
	grandchild := makeAccount("gc", "10000101", "child", domain.Asset)

	childrenByParent := GroupAccountsByParent([]domain.Account{root, child, grandchild})
	postingsByAccount := GroupPostingsByAccount([]domain.Transaction{
		makePosting("child", 50, 0),
		makePosting("gc", 0, 20),
	})

	total := RollupBalance(&root, childrenByParent, postingsByAccount)
	assert.True(t, total.Equal(decimal.NewFromInt(100+50-20)))
}

func TestBuildAccountSummary(t *testing.T) {
	root := makeAccount("root", "1000", "", domain.Asset)
	root.OpeningBalance = decimal.NewFromInt(1000)
	child := makeAccount("child", "100001", "root", domain.Asset)

	childrenByParent := GroupAccountsByParent([]domain.Account{root, child})
	postingsByAccount := GroupPostingsByAccount([]domain.Transaction{
		makePosting("root", 200, 0),
		makePosting("child", 0, 50),
		makePosting("child", 25, 0),
	})

	summary := BuildAccountSummary(&root, childrenByParent, postingsByAccount)

	// own balance excludes children
	assert.True(t, summary.Balance.Equal(decimal.NewFromInt(1200)))
	// roll-up includes the child's own balance
	assert.True(t, summary.TotalBalance.Equal(decimal.NewFromInt(1200+25-50)))
	assert.Equal(t, 1, summary.TransactionCount)
	assert.True(t, summary.HasChildren)
	require.Len(t, summary.Children, 1)

	childSummary := summary.Children[0]
	assert.True(t, childSummary.Balance.Equal(decimal.NewFromInt(-25)))
	assert.True(t, childSummary.TotalBalance.Equal(childSummary.Balance))
	assert.Equal(t, 2, childSummary.TransactionCount)
}

func TestBuildFinancialSummary(t *testing.T) {
	asset := makeAccount("a", "1000", "", domain.Asset)
	assetChild := makeAccount("ac", "100001", "a", domain.Asset)
	revenue := makeAccount("r", "4000", "", domain.Revenue)
	expense := makeAccount("e", "5000", "", domain.Expense)
	inactive := makeAccount("i", "2000", "", domain.Liability)
	inactive.IsActive = false
	inactive.OpeningBalance = decimal.NewFromInt(10000)

	accounts := []domain.Account{asset, assetChild, revenue, expense, inactive}
	postingsByAccount := GroupPostingsByAccount([]domain.Transaction{
		makePosting("a", 100, 0),
		makePosting("ac", 40, 0),
		makePosting("r", 0, 300),
		makePosting("e", 120, 0),
	})

	summary := BuildFinancialSummary(accounts, postingsByAccount)

	// own balances only, so the child is counted once, not through its parent
	assert.True(t, summary.TotalAssets.Equal(decimal.NewFromInt(140)))
	assert.True(t, summary.TotalRevenue.Equal(decimal.NewFromInt(-300)))
	assert.True(t, summary.TotalExpense.Equal(decimal.NewFromInt(120)))
	// inactive accounts are excluded entirely
	assert.True(t, summary.TotalLiabilities.IsZero())
	assert.True(t, summary.NetIncome.Equal(summary.TotalRevenue.Sub(summary.TotalExpense)))
}

func TestBuildTransactionStats(t *testing.T) {
	now := time.Now()
	deleted := makePosting("a", 500, 0)
	deleted.DeletedAt = &now

	stats := BuildTransactionStats([]domain.Transaction{
		makePosting("a", 100, 0),
		makePosting("b", 0, 60),
		deleted,
	})

	assert.True(t, stats.TotalDebit.Equal(decimal.NewFromInt(100)))
	assert.True(t, stats.TotalCredit.Equal(decimal.NewFromInt(60)))
	assert.True(t, stats.NetAmount.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, 2, stats.TotalTransactions)
}

func TestGroupAccountsByParent_SortsSiblings(t *testing.T) {
	root := makeAccount("root", "1000", "", domain.Asset)
	c2 := makeAccount("c2", "100002", "root", domain.Asset)
	c1 := makeAccount("c1", "100001", "root", domain.Asset)

	grouped := GroupAccountsByParent([]domain.Account{root, c2, c1})
	require.Len(t, grouped["root"], 2)
	assert.Equal(t, "100001", grouped["root"][0].Code)
	assert.Equal(t, "100002", grouped["root"][1].Code)
}
