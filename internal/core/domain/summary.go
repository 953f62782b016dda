package domain

import "github.com/shopspring/decimal"

// AccountSummary carries an account's derived balances.
// Balance is the account's own balance (opening + debits - credits over its
// direct postings); TotalBalance rolls up the balances of all descendants.
type AccountSummary struct {
	AccountID        string           `json:"accountID"`
	Code             string           `json:"code"`
	Name             string           `json:"name"`
	FullName         string           `json:"fullName"`
	AccountType      AccountType      `json:"accountType"`
	TypeLabel        string           `json:"typeLabel"`
	ParentAccountID  string           `json:"parentAccountID"`
	IsActive         bool             `json:"isActive"`
	OpeningBalance   decimal.Decimal  `json:"openingBalance"`
	TotalDebit       decimal.Decimal  `json:"totalDebit"`
	TotalCredit      decimal.Decimal  `json:"totalCredit"`
	Balance          decimal.Decimal  `json:"balance"`
	TotalBalance     decimal.Decimal  `json:"totalBalance"`
	HasChildren      bool             `json:"hasChildren"`
	ChildrenCount    int              `json:"childrenCount"`
	TransactionCount int              `json:"transactionCount"`
	Children         []AccountSummary `json:"children"`
}

// FinancialSummary holds per-type own-balance totals over active accounts.
// Each total sums own balances only, so descendant balances are never
// counted twice through their parents.
type FinancialSummary struct {
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	NetIncome        decimal.Decimal `json:"netIncome"` // revenue - expense
}

// TopAccount is a compact row for the top-accounts-by-balance report.
type TopAccount struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Balance     decimal.Decimal `json:"balance"`
}

// TransactionStats aggregates totals over a filtered set of postings.
type TransactionStats struct {
	TotalDebit        decimal.Decimal `json:"totalDebit"`
	TotalCredit       decimal.Decimal `json:"totalCredit"`
	NetAmount         decimal.Decimal `json:"netAmount"` // debit - credit
	TotalTransactions int             `json:"totalTransactions"`
}
