package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a posting is a debit or a credit entry.
type TransactionType string

const (
	Debit  TransactionType = "debit"
	Credit TransactionType = "credit"
)

// Transaction is a single posting against one leaf account.
// Exactly one of Debit/Credit is strictly positive; balances are always
// derived on read, so a posting never mutates stored account balances.
type Transaction struct {
	TransactionID   string          `json:"transactionID"`
	AccountID       string          `json:"accountID"`
	TransactionDate time.Time       `json:"transactionDate"`
	Description     string          `json:"description"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	Notes           string          `json:"notes"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// Amount returns the signed amount of the posting (debit - credit).
func (t *Transaction) Amount() decimal.Decimal {
	return t.Debit.Sub(t.Credit)
}

// Type classifies the posting by which side is filled.
func (t *Transaction) Type() TransactionType {
	if t.Debit.IsPositive() {
		return Debit
	}
	return Credit
}

// TransactionReport bundles a filtered posting set with its aggregate stats,
// stamped with the time the report was assembled.
type TransactionReport struct {
	Transactions []Transaction    `json:"transactions"`
	Stats        TransactionStats `json:"stats"`
	GeneratedAt  time.Time        `json:"generatedAt"`
}
