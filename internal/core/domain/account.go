package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "asset"
	Liability AccountType = "liability"
	Equity    AccountType = "equity"
	Revenue   AccountType = "revenue"
	Expense   AccountType = "expense"
)

// AccountTypes lists all valid account types in prefix order.
var AccountTypes = []AccountType{Asset, Liability, Equity, Revenue, Expense}

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Label returns the capitalized display label for the type.
func (t AccountType) Label() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// Account represents a node of the chart of accounts.
// ParentAccountID is a weak back-reference by id; the tree is reconstructed
// from the flat set of accounts, never from embedded pointers.
type Account struct {
	AccountID       string          `json:"accountID"`
	Code            string          `json:"code"`            // Unique, hierarchy-encoding; assigned by the system
	Name            string          `json:"name"`            // User-defined name
	AccountType     AccountType     `json:"accountType"`     // asset, liability, equity, revenue, expense
	ParentAccountID string          `json:"parentAccountID"` // Empty for root accounts
	OpeningBalance  decimal.Decimal `json:"openingBalance"`  // Balance before any postings, >= 0
	Description     string          `json:"description"`
	IsActive        bool            `json:"isActive"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Soft-delete marker
}

// IsRoot reports whether the account has no parent.
func (a *Account) IsRoot() bool {
	return a.ParentAccountID == ""
}

// FullName returns the "code - name" display form.
func (a *Account) FullName() string {
	return a.Code + " - " + a.Name
}
